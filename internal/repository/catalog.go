package repository

import (
	"context"

	"securedoc/internal/model"
)

// CatalogRepository reads the public services and products listings.
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]model.Service, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}
