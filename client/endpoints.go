package client

import (
	"context"
	"fmt"

	"linguaroom/domain"
	"linguaroom/validation"
)

// AuthToken is what a successful login or registration answers with.
type AuthToken struct {
	Token string `json:"token"`
}

type AuthAPI struct {
	c *Client
}

// Login exchanges credentials for a session token. The token is kept by the
// client's TokenStore and attached to every later request.
func (a AuthAPI) Login(ctx context.Context, email, password string) error {
	resp, err := post[AuthToken](ctx, a.c, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	return a.c.tokens.Set(resp.Data.Token)
}

// Register validates the form client-side before submitting it.
func (a AuthAPI) Register(ctx context.Context, email, username, password string) error {
	form := validation.RegisterRequest{Email: email, Username: username, Password: password}
	if err := validation.ValidateRegister(form); err != nil {
		return err
	}
	resp, err := post[AuthToken](ctx, a.c, "/auth/register", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	return a.c.tokens.Set(resp.Data.Token)
}

func (a AuthAPI) Logout(ctx context.Context) error {
	_, err := post[struct{}](ctx, a.c, "/auth/logout", struct{}{})
	a.c.tokens.Clear()
	return err
}

type RoomsAPI struct {
	c *Client
}

func (r RoomsAPI) List(ctx context.Context) ([]domain.Room, error) {
	resp, err := get[[]domain.Room](ctx, r.c, "/rooms")
	return resp.Data, err
}

func (r RoomsAPI) Get(ctx context.Context, id domain.RoomID) (domain.Room, error) {
	resp, err := get[domain.Room](ctx, r.c, fmt.Sprintf("/rooms/%s", id))
	return resp.Data, err
}

// Create validates name, language and user limit before submitting.
func (r RoomsAPI) Create(ctx context.Context, req validation.CreateRoomRequest) (domain.Room, error) {
	req, err := validation.ValidateCreateRoom(req)
	if err != nil {
		return domain.Room{}, err
	}
	resp, err := post[domain.Room](ctx, r.c, "/rooms", map[string]any{
		"name":      req.Name,
		"language":  req.Language,
		"userLimit": req.UserLimit,
	})
	return resp.Data, err
}

func (r RoomsAPI) Join(ctx context.Context, id domain.RoomID) error {
	_, err := post[struct{}](ctx, r.c, fmt.Sprintf("/rooms/%s/join", id), struct{}{})
	return err
}

func (r RoomsAPI) Leave(ctx context.Context, id domain.RoomID) error {
	_, err := post[struct{}](ctx, r.c, fmt.Sprintf("/rooms/%s/leave", id), struct{}{})
	return err
}

type MessagesAPI struct {
	c *Client
}

func (m MessagesAPI) List(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	resp, err := get[[]domain.Message](ctx, m.c, fmt.Sprintf("/rooms/%s/messages", roomID))
	return resp.Data, err
}

func (m MessagesAPI) Send(ctx context.Context, roomID domain.RoomID, body string) (domain.Message, error) {
	sanitized, err := validation.Message(body)
	if err != nil {
		return domain.Message{}, err
	}
	resp, err := post[domain.Message](ctx, m.c, fmt.Sprintf("/rooms/%s/messages", roomID), map[string]string{
		"message": sanitized,
	})
	return resp.Data, err
}

func (m MessagesAPI) AddReaction(ctx context.Context, roomID domain.RoomID, messageID, emoji string) error {
	_, err := post[struct{}](ctx, m.c, fmt.Sprintf("/rooms/%s/messages/%s/reactions", roomID, messageID), map[string]string{
		"emoji": emoji,
	})
	return err
}

type UsersAPI struct {
	c *Client
}

func (u UsersAPI) Profile(ctx context.Context, id domain.ParticipantID) (domain.Participant, error) {
	resp, err := get[domain.Participant](ctx, u.c, fmt.Sprintf("/users/%s", id))
	return resp.Data, err
}

func (u UsersAPI) Follow(ctx context.Context, id domain.ParticipantID) error {
	_, err := post[struct{}](ctx, u.c, fmt.Sprintf("/users/%s/follow", id), struct{}{})
	return err
}

func (u UsersAPI) Unfollow(ctx context.Context, id domain.ParticipantID) error {
	_, err := post[struct{}](ctx, u.c, fmt.Sprintf("/users/%s/unfollow", id), struct{}{})
	return err
}

func (u UsersAPI) Friends(ctx context.Context) ([]domain.Friend, error) {
	resp, err := get[[]domain.Friend](ctx, u.c, "/users/friends")
	return resp.Data, err
}
