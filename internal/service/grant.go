package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

// CreateGrantInput is what an operator submits to issue a grant.
// ExpiresAt is a date (YYYY-MM-DD, inclusive) or an RFC3339 timestamp.
type CreateGrantInput struct {
	Email      string `json:"email"`
	DocumentID string `json:"document_id"`
	ExpiresAt  string `json:"expires_at"`
}

// UpdateGrantInput edits email and/or expiry; nil fields are left alone.
type UpdateGrantInput struct {
	Email     *string `json:"email"`
	ExpiresAt *string `json:"expires_at"`
}

// GrantListResult is the service-level DTO for paginated grants.
type GrantListResult struct {
	Items []model.AccessGrant `json:"data"`
	Total int                 `json:"total"`
}

// GrantService is the operator surface over access grants.
type GrantService interface {
	Create(ctx context.Context, in CreateGrantInput) (*model.AccessGrant, error)
	List(ctx context.Context, limit, offset int) (*GrantListResult, error)
	Update(ctx context.Context, id string, in UpdateGrantInput) (*model.AccessGrant, error)
	ToggleActive(ctx context.Context, id string) (*model.AccessGrant, error)
	// Delete is irreversible; confirm must repeat the grant id.
	Delete(ctx context.Context, id, confirm string) error
}

type grantService struct {
	grants repository.AccessGrantRepository
	docs   repository.DocumentRepository
	loc    *time.Location
	now    func() time.Time
}

// NewGrantService constructs a GrantService. Dates are interpreted in loc.
func NewGrantService(grants repository.AccessGrantRepository, docs repository.DocumentRepository, loc *time.Location) GrantService {
	if loc == nil {
		loc = time.UTC
	}
	return &grantService{grants: grants, docs: docs, loc: loc, now: time.Now}
}

func (s *grantService) Create(ctx context.Context, in CreateGrantInput) (*model.AccessGrant, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.DocumentID) == "" {
		return nil, ErrIDRequired
	}
	expires, err := s.parseExpiry(in.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if _, err := s.docs.FindByID(ctx, in.DocumentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	g := &model.AccessGrant{
		ID:         uuid.NewString(),
		Token:      uuid.NewString(),
		Email:      email,
		DocumentID: in.DocumentID,
		IsActive:   true,
		ExpiresAt:  &expires,
		CreatedAt:  s.now().UTC(),
	}
	return s.grants.Create(ctx, g)
}

func (s *grantService) List(ctx context.Context, limit, offset int) (*GrantListResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.grants.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &GrantListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *grantService) Update(ctx context.Context, id string, in UpdateGrantInput) (*model.AccessGrant, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if in.Email == nil && in.ExpiresAt == nil {
		return nil, ErrNothingToUpdate
	}

	var patch model.GrantPatch
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if in.ExpiresAt != nil {
		expires, err := s.parseExpiry(*in.ExpiresAt)
		if err != nil {
			return nil, err
		}
		patch.ExpiresAt = &expires
	}

	g, err := s.grants.Update(ctx, id, patch)
	return g, grantErr(err)
}

func (s *grantService) ToggleActive(ctx context.Context, id string) (*model.AccessGrant, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	g, err := s.grants.ToggleActive(ctx, id)
	return g, grantErr(err)
}

func (s *grantService) Delete(ctx context.Context, id, confirm string) error {
	if id == "" {
		return ErrIDRequired
	}
	if confirm != id {
		return ErrConfirmationRequired
	}
	return grantErr(s.grants.Delete(ctx, id))
}

// parseExpiry accepts an inclusive calendar date or a timestamp and rejects the past.
func (s *grantService) parseExpiry(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidExpiry
	}

	var expires time.Time
	if d, err := time.ParseInLocation(time.DateOnly, raw, s.loc); err == nil {
		// A date grants access until the end of that day.
		expires = d.AddDate(0, 0, 1).Add(-time.Microsecond)
	} else if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		expires = ts
	} else {
		return time.Time{}, ErrInvalidExpiry
	}

	if expires.Before(s.now()) {
		return time.Time{}, ErrExpiryInPast
	}
	return expires.UTC(), nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func grantErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGrantNotFound
	}
	return err
}
