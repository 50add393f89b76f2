package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockOperatorRoleRepository struct {
	mock.Mock
}

func (m *MockOperatorRoleRepository) FindRole(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
