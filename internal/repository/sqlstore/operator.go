package sqlstore

import (
	"context"
	"database/sql"

	"securedoc/internal/repository"
)

// OperatorRoleStore reads operator_roles.
type OperatorRoleStore struct {
	db *sql.DB
}

func NewOperatorRoleStore(db *sql.DB) *OperatorRoleStore {
	return &OperatorRoleStore{db: db}
}

var _ repository.OperatorRoleRepository = (*OperatorRoleStore)(nil)

// FindRole returns the role for email. Emails are stored lowercase.
func (r *OperatorRoleStore) FindRole(ctx context.Context, email string) (string, error) {
	const q = `SELECT role FROM operator_roles WHERE email = $1`
	var role string
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&role); err != nil {
		return "", err
	}
	return role, nil
}
