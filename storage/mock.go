package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBackend mocks the interfaces.UploadBackend interface
type MockBackend struct {
	mock.Mock
}

// Upload mocks the Upload method
func (m *MockBackend) Upload(ctx context.Context, data []byte, name string) (string, error) {
	args := m.Called(ctx, data, name)
	return args.String(0), args.Error(1)
}

// Available mocks the Available method
func (m *MockBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Name mocks the Name method
func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

// LocationURI mocks the LocationURI method
func (m *MockBackend) LocationURI() string {
	args := m.Called()
	return args.String(0)
}
