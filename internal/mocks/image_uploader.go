package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageUploader is a mock of service.ImageUploader for use with testify/mock.
type MockImageUploader struct {
	mock.Mock
}

// Upload is a mock implementation of service.ImageUploader.Upload
func (m *MockImageUploader) Upload(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}
