package service

import (
	"context"
	"log/slog"

	"securedoc/internal/model"
	"securedoc/internal/repository"
	"securedoc/internal/retry"
)

// CatalogService serves the public listings. Reads are retried with backoff.
type CatalogService interface {
	Services(ctx context.Context) ([]model.Service, error)
	Products(ctx context.Context) ([]model.Product, error)
}

type catalogService struct {
	repo   repository.CatalogRepository
	policy retry.Policy
	log    *slog.Logger
}

func NewCatalogService(repo repository.CatalogRepository, policy retry.Policy, log *slog.Logger) CatalogService {
	return &catalogService{repo: repo, policy: policy, log: log.With("component", "catalog")}
}

func (s *catalogService) Services(ctx context.Context) ([]model.Service, error) {
	return retry.Do(ctx, s.policy, s.log, "list_services", s.repo.ListServices)
}

func (s *catalogService) Products(ctx context.Context) ([]model.Product, error) {
	return retry.Do(ctx, s.policy, s.log, "list_products", s.repo.ListProducts)
}
