// Package session owns the authenticated session: the bearer token and
// the cached user profile, persisted through an injected Store so a
// restart resumes where the last run left off.
package session

import (
	"encoding/json"
	"fmt"

	"taskdeck/internal/model"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Session is the one mutable piece of shared state in the client. The
// gateway reads the token from it; only the auth flow writes it.
type Session struct {
	store Store
	token string
	user  *model.User
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Restore rehydrates the session from the store. It does not validate
// the token against the server; a dead token surfaces on the first
// rejected call. Returns false when no complete session is persisted.
func (s *Session) Restore() (bool, error) {
	token, ok, err := s.store.Get(keyToken)
	if err != nil {
		return false, fmt.Errorf("restore token: %w", err)
	}
	if !ok || token == "" {
		return false, nil
	}

	raw, ok, err := s.store.Get(keyUser)
	if err != nil {
		return false, fmt.Errorf("restore user: %w", err)
	}
	if !ok {
		return false, nil
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return false, fmt.Errorf("decode stored user: %w", err)
	}

	s.token = token
	s.user = &u
	return true, nil
}

// Establish sets the live session and persists it. Both entries are
// written before the in-memory state changes, so a persist failure
// leaves the previous session intact.
func (s *Session) Establish(token string, user model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(keyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.store.Set(keyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.token = token
	s.user = &user
	return nil
}

// Clear wipes both the in-memory session and the store. The in-memory
// state is dropped even if the store write fails.
func (s *Session) Clear() error {
	s.token = ""
	s.user = nil
	return s.store.Delete(keyToken, keyUser)
}

func (s *Session) Token() string { return s.token }

func (s *Session) User() *model.User { return s.user }

func (s *Session) Authenticated() bool { return s.token != "" && s.user != nil }
