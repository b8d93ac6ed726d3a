package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/idilsaglam/tada/internal/model"
)

// UserAPI is the part of the API client a Session needs.
type UserAPI interface {
	Me(ctx context.Context) (*model.User, error)
	UpdateUser(ctx context.Context, id int, d model.ProfileDraft) (*model.User, error)
}

// Session owns the authoritative record of the signed-in user.
type Session struct {
	api UserAPI

	mu   sync.RWMutex
	user *model.User
}

// NewSession creates a session with no user loaded yet.
func NewSession(api UserAPI) *Session {
	return &Session{api: api}
}

// Refresh reloads the user from /users/me.
func (s *Session) Refresh(ctx context.Context) error {
	u, err := s.api.Me(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	s.SetUser(u)
	return nil
}

// SetUser replaces the current user.
func (s *Session) SetUser(u *model.User) {
	var cp *model.User
	if u != nil {
		v := *u
		cp = &v
	}
	s.mu.Lock()
	s.user = cp
	s.mu.Unlock()
}

// CurrentUser returns a copy of the current user, or nil.
func (s *Session) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UpdateProfile sends the draft for user id and adopts the server's answer
// as the new current user.
func (s *Session) UpdateProfile(ctx context.Context, id int, d model.ProfileDraft) error {
	u, err := s.api.UpdateUser(ctx, id, d)
	if err != nil {
		return err
	}
	s.SetUser(u)
	return nil
}
