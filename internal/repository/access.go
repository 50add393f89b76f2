package repository

import (
	"context"

	"securedoc/internal/model"
)

// AccessGrantRepository defines data access for access grants (acceso_pdf).
// All mutations are single-row and last-write-wins.
type AccessGrantRepository interface {
	Create(ctx context.Context, g *model.AccessGrant) (*model.AccessGrant, error)

	// FindByToken looks a grant up by exact token match.
	FindByToken(ctx context.Context, token string) (*model.AccessGrant, error)

	FindByID(ctx context.Context, id string) (*model.AccessGrant, error)

	// List returns grants newest first with the linked document title.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.AccessGrant], error)

	// Update applies the non-nil fields of p.
	Update(ctx context.Context, id string, p model.GrantPatch) (*model.AccessGrant, error)

	// ToggleActive flips is_active in one statement and returns the new row.
	ToggleActive(ctx context.Context, id string) (*model.AccessGrant, error)

	// Deactivate sets is_active to false. Deactivating an inactive grant is a no-op.
	Deactivate(ctx context.Context, id string) error

	// Delete removes a grant; sql.ErrNoRows when nothing was deleted.
	Delete(ctx context.Context, id string) error
}
