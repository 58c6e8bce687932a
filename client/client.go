// Package client implements the backend API contract the product will talk
// to once a real backend exists: a resource-oriented HTTP surface returning
// a {data, message?, success} envelope, with statuses mapped onto the shared
// error taxonomy. Nothing in the mock serves these routes yet; the client is
// the conforming half of the contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"linguaroom/errors"
)

const defaultBaseURL = "/api"

// Response is the success envelope every endpoint answers with.
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// apiError is the failure payload carried on non-2xx answers.
type apiError struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
	tokens  *TokenStore
}

func New(baseURL string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
		tokens:  NewTokenStore(),
	}
}

func (c *Client) Tokens() *TokenStore { return c.tokens }

func (c *Client) Auth() AuthAPI         { return AuthAPI{c: c} }
func (c *Client) Rooms() RoomsAPI       { return RoomsAPI{c: c} }
func (c *Client) Messages() MessagesAPI { return MessagesAPI{c: c} }
func (c *Client) Users() UsersAPI       { return UsersAPI{c: c} }

func request[T any](ctx context.Context, c *Client, method, endpoint string, body any) (Response[T], error) {
	var out Response[T]

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return out, c.unexpected(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return out, c.unexpected(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer, ok := c.tokens.Bearer(time.Now()); ok {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return out, c.unexpected(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, c.unexpected(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload apiError
		_ = json.Unmarshal(raw, &payload) // best effort, the status alone is enough
		return out, errors.FromStatus(resp.StatusCode, payload.Message, payload.Code)
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, c.unexpected(err)
	}
	return out, nil
}

// unexpected covers transport and decoding failures: logged at error level
// and surfaced as a generic network AppError, never as a crash.
func (c *Client) unexpected(err error) error {
	c.log.Error("API request failed", "err", err)
	return errors.NewAppError("An unexpected error occurred", "NETWORK_ERROR", http.StatusInternalServerError)
}

func get[T any](ctx context.Context, c *Client, endpoint string) (Response[T], error) {
	return request[T](ctx, c, http.MethodGet, endpoint, nil)
}

func post[T any](ctx context.Context, c *Client, endpoint string, body any) (Response[T], error) {
	return request[T](ctx, c, http.MethodPost, endpoint, body)
}
