// Package viewer holds the per-page-load state of the gated document viewer
// and turns a successful validation into something a browser can render.
//
// The HTTP handlers build one Session per request, so a token never changes
// under them. SetToken and the generation check serve a client that keeps a
// Session across token changes, such as a long-lived page that swaps links.
package viewer

import (
	"context"
	"errors"
	"sync"

	"securedoc/internal/service"
)

// ErrStaleValidation is returned when the token changed while a check was in flight.
var ErrStaleValidation = errors.New("viewer: validation superseded by a newer token")

// Validator is the token check of service.AccessService.
type Validator interface {
	Validate(ctx context.Context, token string) (*service.Validation, error)
}

// Verifier is the token check plus email gate of service.AccessService.
type Verifier interface {
	Verify(ctx context.Context, token, email string) (*service.Validation, error)
}

// Session models one page load of the viewer. Nothing in it outlives the
// request that created it, so a reload always starts at the email gate.
//
// Every SetToken starts a new generation. A result that arrives after the
// token moved on is dropped instead of being shown for the new token.
type Session struct {
	mu    sync.Mutex
	token string
	gen   uint64
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

// SetToken switches the session to a new token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.gen++
}

// Validate checks the current token once.
func (s *Session) Validate(ctx context.Context, v Validator) (*service.Validation, error) {
	return s.run(func(token string) (*service.Validation, error) {
		return v.Validate(ctx, token)
	})
}

// Verify checks the current token and applies the email gate in one call.
// A mismatch returns service.ErrEmailMismatch and may be retried.
func (s *Session) Verify(ctx context.Context, v Verifier, email string) (*service.Validation, error) {
	return s.run(func(token string) (*service.Validation, error) {
		return v.Verify(ctx, token, email)
	})
}

func (s *Session) run(check func(token string) (*service.Validation, error)) (*service.Validation, error) {
	s.mu.Lock()
	token, gen := s.token, s.gen
	s.mu.Unlock()

	res, err := check(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrStaleValidation
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
