// Package mocks holds testify mocks for the service and storage interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/storage"
)

// MockImageStore is a mock implementation of storage.ImageStore. Accept drains the
// reader so callers see the upload consumed.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Accept(ctx context.Context, r io.Reader, originalName string) (*storage.UploadedImage, error) {
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx, originalName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadedImage), args.Error(1)
}

func (m *MockImageStore) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

var _ storage.ImageStore = (*MockImageStore)(nil)
