package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"securedoc/internal/model"
	"securedoc/internal/repository"
)

type MockAccessGrantRepository struct {
	mock.Mock
}

func (m *MockAccessGrantRepository) grant(args mock.Arguments) (*model.AccessGrant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) Create(ctx context.Context, g *model.AccessGrant) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, g))
}

func (m *MockAccessGrantRepository) FindByToken(ctx context.Context, token string) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, token))
}

func (m *MockAccessGrantRepository) FindByID(ctx context.Context, id string) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, id))
}

func (m *MockAccessGrantRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AccessGrant], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AccessGrant]), args.Error(1)
}

func (m *MockAccessGrantRepository) Update(ctx context.Context, id string, p model.GrantPatch) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, id, p))
}

func (m *MockAccessGrantRepository) ToggleActive(ctx context.Context, id string) (*model.AccessGrant, error) {
	return m.grant(m.Called(ctx, id))
}

func (m *MockAccessGrantRepository) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAccessGrantRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
