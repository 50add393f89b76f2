package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"securedoc/internal/model"
	"securedoc/internal/service"
)

type MockGrantService struct {
	mock.Mock
}

func (m *MockGrantService) grant(args mock.Arguments) (*model.AccessGrant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessGrant), args.Error(1)
}

func (m *MockGrantService) Create(ctx context.Context, in service.CreateGrantInput) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, in))
}

func (m *MockGrantService) List(ctx context.Context, limit, offset int) (*service.GrantListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GrantListResult), args.Error(1)
}

func (m *MockGrantService) Update(ctx context.Context, id string, in service.UpdateGrantInput) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, id, in))
}

func (m *MockGrantService) ToggleActive(ctx context.Context, id string) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, id))
}

func (m *MockGrantService) Delete(ctx context.Context, id, confirm string) error {
	return m.Called(ctx, id, confirm).Error(0)
}
