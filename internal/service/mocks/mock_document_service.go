package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"securedoc/internal/model"
	"securedoc/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) doc(args mock.Arguments) (*model.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, op model.Operator, r io.Reader, in service.UploadInput) (*model.Document, error) {
	return m.doc(m.Called(ctx, op, r, in))
}

func (m *MockDocumentService) List(ctx context.Context, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	return m.doc(m.Called(ctx, id))
}

func (m *MockDocumentService) UpdateTitle(ctx context.Context, id, title string) (*model.Document, error) {
	return m.doc(m.Called(ctx, id, title))
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
