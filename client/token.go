package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"linguaroom/errors"
)

// TokenStore keeps the bearer token between requests. The client only reads
// the expiry claim to know when the session lapsed; it never verifies the
// signature — there is no secret on this side of the wire.
type TokenStore struct {
	mu        sync.RWMutex
	raw       string
	expiresAt time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (t *TokenStore) Set(raw string) error {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return errors.NewUnauthorized("Malformed session token")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.raw = raw
	if claims.ExpiresAt != nil {
		t.expiresAt = claims.ExpiresAt.Time
	} else {
		t.expiresAt = time.Time{}
	}
	return nil
}

// Bearer returns the stored token unless it is absent or expired.
func (t *TokenStore) Bearer(now time.Time) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.raw == "" {
		return "", false
	}
	if !t.expiresAt.IsZero() && !now.Before(t.expiresAt) {
		return "", false
	}
	return t.raw, true
}

func (t *TokenStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.raw = ""
	t.expiresAt = time.Time{}
}
