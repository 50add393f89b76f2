package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"securedoc/internal/model"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListServices(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}
