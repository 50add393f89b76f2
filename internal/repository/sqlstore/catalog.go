package sqlstore

import (
	"context"
	"database/sql"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

// CatalogStore reads the services and products tables.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

var _ repository.CatalogRepository = (*CatalogStore)(nil)

func (r *CatalogStore) ListServices(ctx context.Context) ([]model.Service, error) {
	const q = `
		SELECT id, title, summary, position, created_at
		FROM services
		ORDER BY position ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Service, 0)
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Title, &s.Summary, &s.Position, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *CatalogStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	const q = `
		SELECT id, title, summary, price_cents, currency, url, position, created_at
		FROM products
		ORDER BY position ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.PriceCents, &p.Currency, &p.URL, &p.Position, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
