package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

// Validation is a grant that passed every server-side check except the email gate.
type Validation struct {
	GrantID         string         `json:"-"`
	AuthorizedEmail string         `json:"-"`
	Document        model.Document `json:"document"`
}

// AccessService resolves access tokens to documents.
type AccessService interface {
	// Validate checks a token once. It never retries: every failure is a meaningful denial.
	Validate(ctx context.Context, token string) (*Validation, error)

	// Verify validates the token and then applies the email gate. It records a
	// single outcome, so a wrong email counts as email_mismatch and nothing else.
	Verify(ctx context.Context, token, email string) (*Validation, error)
}

type accessService struct {
	grants repository.AccessGrantRepository
	docs   repository.DocumentRepository
	rec    Recorder
	log    *slog.Logger
	now    func() time.Time
}

// NewAccessService constructs the token validator.
func NewAccessService(grants repository.AccessGrantRepository, docs repository.DocumentRepository, rec Recorder, log *slog.Logger) AccessService {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &accessService{
		grants: grants,
		docs:   docs,
		rec:    rec,
		log:    log.With("component", "access"),
		now:    time.Now,
	}
}

var tracer = otel.Tracer("securedoc/internal/service")

func (s *accessService) Validate(ctx context.Context, token string) (*Validation, error) {
	return s.observe(ctx, "access.validate", func(ctx context.Context) (*Validation, error) {
		return s.validate(ctx, token)
	})
}

func (s *accessService) Verify(ctx context.Context, token, email string) (*Validation, error) {
	return s.observe(ctx, "access.verify", func(ctx context.Context) (*Validation, error) {
		v, err := s.validate(ctx, token)
		if err != nil {
			return nil, err
		}
		if !MatchEmail(email, v.AuthorizedEmail) {
			return nil, ErrEmailMismatch
		}
		return v, nil
	})
}

// observe wraps one visitor attempt in a span and records exactly one outcome for it.
func (s *accessService) observe(ctx context.Context, name string, fn func(context.Context) (*Validation, error)) (v *Validation, err error) {
	ctx, span := tracer.Start(ctx, name)
	defer func() {
		outcome := "ok"
		if r, ok := ReasonOf(err); ok {
			outcome = string(r)
		} else if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
		}
		span.SetAttributes(attribute.String("access.outcome", outcome))
		span.End()
		s.rec.Validation(outcome)
	}()
	return fn(ctx)
}

func (s *accessService) validate(ctx context.Context, token string) (*Validation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMissing
	}

	grant, err := s.grants.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("find grant: %w", err)
	}

	if !grant.IsActive {
		return nil, ErrAccessDeactivated
	}

	if grant.ExpiredAt(s.now()) {
		// Decision first, then the best-effort deactivation; its outcome never changes the answer.
		_ = compensate(ctx, s.log, s.rec, SagaGrantExpiry, func(ctx context.Context) error {
			return s.grants.Deactivate(ctx, grant.ID)
		}, "grant_id", grant.ID)
		return nil, ErrAccessExpired
	}

	if grant.DocumentID == "" {
		return nil, ErrDocumentUnavailable
	}
	doc, err := s.docs.FindByID(ctx, grant.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentUnavailable
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	return &Validation{
		GrantID:         grant.ID,
		AuthorizedEmail: grant.Email,
		Document:        *doc,
	}, nil
}

// MatchEmail implements the email gate: the visitor's input is trimmed and
// compared case-insensitively with the address the grant was issued to.
func MatchEmail(input, authorized string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == strings.ToLower(authorized)
}
