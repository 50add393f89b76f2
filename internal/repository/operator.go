package repository

import "context"

// OperatorRoleRepository reads the operator policy table.
type OperatorRoleRepository interface {
	// FindRole returns the role mapped to a lowercase email, or sql.ErrNoRows.
	FindRole(ctx context.Context, email string) (string, error)
}
