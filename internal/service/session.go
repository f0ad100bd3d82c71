package service

import (
	"context"
	"fmt"
	"sync"
)

// Session owns the authenticated client for the lifetime of a login.
// Every operation that talks to the task service obtains its client through
// Service, so a missing login fails before any call is attempted.
type Session struct {
	mu    sync.Mutex
	svc   Service
	cache *Cache
}

// NewSession returns a session with no client attached.
func NewSession() *Session {
	return &Session{}
}

// Login validates svc by fetching projects and attaches it on success.
func (s *Session) Login(ctx context.Context, svc Service) error {
	if _, err := svc.Projects(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.Resume(svc)
	return nil
}

// Resume attaches svc without validating it, e.g. from a stored token.
func (s *Session) Resume(svc Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.svc = svc
	s.cache = NewCache(svc)
}

// Logout detaches the client and drops cached data.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.svc = nil
	s.cache = nil
}

// LoggedIn reports whether a client is attached.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc != nil
}

// Service returns the cached client, or ErrNoSession.
func (s *Session) Service() (Service, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		return nil, ErrNoSession
	}
	return s.cache, nil
}
