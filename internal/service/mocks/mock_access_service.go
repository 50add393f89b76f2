package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"securedoc/internal/service"
)

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Validate(ctx context.Context, token string) (*service.Validation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Validation), args.Error(1)
}

func (m *MockAccessService) Verify(ctx context.Context, token, email string) (*service.Validation, error) {
	args := m.Called(ctx, token, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Validation), args.Error(1)
}
