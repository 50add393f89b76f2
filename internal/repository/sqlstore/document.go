// Package sqlstore implements the repository contracts with database/sql and
// parameterized SQL that runs unchanged on PostgreSQL and SQLite.
package sqlstore

import (
	"context"
	"database/sql"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

// DocumentStore is the SQL implementation of repository.DocumentRepository.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore repository.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

const documentColumns = `id, titulo, archivo_url, size, content_type, created_at`

// Create inserts a new document row and returns the stored record.
func (r *DocumentStore) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO libro_pdf (id, titulo, archivo_url, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.StorageKey,
		doc.Size,
		doc.ContentType,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM libro_pdf WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentStore) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM libro_pdf`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + documentColumns + `
		FROM libro_pdf
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateTitle renames a document.
func (r *DocumentStore) UpdateTitle(ctx context.Context, id, title string) (*model.Document, error) {
	const q = `UPDATE libro_pdf SET titulo = $2 WHERE id = $1 RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, id, title))
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
// Grants pointing at it keep existing with a NULL libro_id.
func (r *DocumentStore) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM libro_pdf WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.Title,
		&d.StorageKey,
		&d.Size,
		&d.ContentType,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
