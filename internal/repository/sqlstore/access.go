package sqlstore

import (
	"context"
	"database/sql"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

// AccessGrantStore is the SQL implementation of repository.AccessGrantRepository.
type AccessGrantStore struct {
	db *sql.DB
}

func NewAccessGrantStore(db *sql.DB) *AccessGrantStore {
	return &AccessGrantStore{db: db}
}

var _ repository.AccessGrantRepository = (*AccessGrantStore)(nil)

const grantColumns = `id, token, email, libro_id, is_active, expires_at, created_at`

// Create inserts a grant and returns the stored row.
func (r *AccessGrantStore) Create(ctx context.Context, g *model.AccessGrant) (*model.AccessGrant, error) {
	const q = `
		INSERT INTO acceso_pdf (id, token, email, libro_id, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + grantColumns
	row := r.db.QueryRowContext(ctx, q,
		g.ID,
		g.Token,
		g.Email,
		nullString(g.DocumentID),
		g.IsActive,
		g.ExpiresAt,
		g.CreatedAt,
	)
	return scanGrant(row)
}

// FindByToken fetches the grant whose token matches exactly.
func (r *AccessGrantStore) FindByToken(ctx context.Context, token string) (*model.AccessGrant, error) {
	const q = `SELECT ` + grantColumns + ` FROM acceso_pdf WHERE token = $1`
	return scanGrant(r.db.QueryRowContext(ctx, q, token))
}

// FindByID fetches a grant by primary key.
func (r *AccessGrantStore) FindByID(ctx context.Context, id string) (*model.AccessGrant, error) {
	const q = `SELECT ` + grantColumns + ` FROM acceso_pdf WHERE id = $1`
	return scanGrant(r.db.QueryRowContext(ctx, q, id))
}

// List returns grants newest first, joined with their document title.
func (r *AccessGrantStore) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AccessGrant], error) {
	const qCount = `SELECT COUNT(*) FROM acceso_pdf`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT a.id, a.token, a.email, a.libro_id, a.is_active, a.expires_at, a.created_at,
		       COALESCE(l.titulo, '')
		FROM acceso_pdf a
		LEFT JOIN libro_pdf l ON l.id = a.libro_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AccessGrant, 0)
	for rows.Next() {
		var (
			g       model.AccessGrant
			libroID sql.NullString
			expires sql.NullTime
		)
		if err := rows.Scan(
			&g.ID,
			&g.Token,
			&g.Email,
			&libroID,
			&g.IsActive,
			&expires,
			&g.CreatedAt,
			&g.DocumentTitle,
		); err != nil {
			return nil, err
		}
		fillNullable(&g, libroID, expires)
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AccessGrant]{Items: items, Total: total}, nil
}

// Update applies the non-nil fields of p; a nil field keeps the stored value.
func (r *AccessGrantStore) Update(ctx context.Context, id string, p model.GrantPatch) (*model.AccessGrant, error) {
	const q = `
		UPDATE acceso_pdf
		SET email = COALESCE($2, email),
		    expires_at = COALESCE($3, expires_at)
		WHERE id = $1
		RETURNING ` + grantColumns
	return scanGrant(r.db.QueryRowContext(ctx, q, id, p.Email, p.ExpiresAt))
}

// ToggleActive flips is_active.
func (r *AccessGrantStore) ToggleActive(ctx context.Context, id string) (*model.AccessGrant, error) {
	const q = `UPDATE acceso_pdf SET is_active = NOT is_active WHERE id = $1 RETURNING ` + grantColumns
	return scanGrant(r.db.QueryRowContext(ctx, q, id))
}

// Deactivate clears is_active. Running it twice leaves the same state.
func (r *AccessGrantStore) Deactivate(ctx context.Context, id string) error {
	const q = `UPDATE acceso_pdf SET is_active = false WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Delete removes a grant and reports sql.ErrNoRows when it did not exist.
func (r *AccessGrantStore) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM acceso_pdf WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanGrant(s scanner) (*model.AccessGrant, error) {
	var (
		g       model.AccessGrant
		libroID sql.NullString
		expires sql.NullTime
	)
	if err := s.Scan(
		&g.ID,
		&g.Token,
		&g.Email,
		&libroID,
		&g.IsActive,
		&expires,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	fillNullable(&g, libroID, expires)
	return &g, nil
}

func fillNullable(g *model.AccessGrant, libroID sql.NullString, expires sql.NullTime) {
	if libroID.Valid {
		g.DocumentID = libroID.String
	}
	if expires.Valid {
		t := expires.Time
		g.ExpiresAt = &t
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
