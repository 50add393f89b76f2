package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"securedoc/internal/config"
	"securedoc/internal/model"
	"securedoc/internal/repository"
)

var (
	ErrUnauthenticated = errors.New("missing or invalid bearer token")
	ErrForbidden       = errors.New("operator role required")
)

// Authorizer turns a bearer token into an Operator. A caller is an operator
// when a token role is an admin role, the email is on the bootstrap list, or
// the policy table maps the email to an admin role.
type Authorizer struct {
	secret []byte
	emails map[string]struct{}
	roles  map[string]struct{}
	policy repository.OperatorRoleRepository
}

// NewAuthorizer builds an Authorizer. policy may be nil.
func NewAuthorizer(cfg config.AuthConfig, policy repository.OperatorRoleRepository) *Authorizer {
	return &Authorizer{
		secret: []byte(cfg.JWTSecret),
		emails: lowerSet(cfg.AdminEmails),
		roles:  lowerSet(cfg.AdminRoles),
		policy: policy,
	}
}

// Authenticate checks token and role. It returns ErrUnauthenticated or
// ErrForbidden for denials and a wrapped error when the policy lookup fails.
func (a *Authorizer) Authenticate(ctx context.Context, token string) (model.Operator, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Operator{}, ErrUnauthenticated
	}
	claims, err := ParseToken(token, a.secret)
	if err != nil {
		return model.Operator{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	op := model.Operator{
		Subject: claims.Subject,
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
	}
	for _, r := range []string{claims.Role, claims.AppMetadata.Role} {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			op.Roles = append(op.Roles, r)
		}
	}

	if a.hasAdminRole(op.Roles) {
		return op, nil
	}
	if op.Email == "" {
		return model.Operator{}, ErrForbidden
	}
	if _, ok := a.emails[op.Email]; ok {
		return op, nil
	}
	if a.policy == nil {
		return model.Operator{}, ErrForbidden
	}

	role, err := a.policy.FindRole(ctx, op.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Operator{}, ErrForbidden
		}
		return model.Operator{}, fmt.Errorf("operator policy: %w", err)
	}
	role = strings.ToLower(role)
	if _, ok := a.roles[role]; !ok {
		return model.Operator{}, ErrForbidden
	}
	op.Roles = append(op.Roles, role)
	return op, nil
}

func (a *Authorizer) hasAdminRole(roles []string) bool {
	for _, r := range roles {
		if _, ok := a.roles[r]; ok {
			return true
		}
	}
	return false
}

func lowerSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}
