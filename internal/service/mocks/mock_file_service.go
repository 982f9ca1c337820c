package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quickscan/internal/model"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, filename, contentType string, data []byte) (*model.StoredFile, error) {
	args := m.Called(ctx, filename, contentType, data)
	if f, ok := args.Get(0).(*model.StoredFile); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileService) List(ctx context.Context) []model.StoredFile {
	args := m.Called(ctx)
	if fs, ok := args.Get(0).([]model.StoredFile); ok {
		return fs
	}
	return nil
}

func (m *MockFileService) Download(ctx context.Context, id string) (model.StoredFile, []byte, error) {
	args := m.Called(ctx, id)
	var data []byte
	if b, ok := args.Get(1).([]byte); ok {
		data = b
	}
	return args.Get(0).(model.StoredFile), data, args.Error(2)
}

func (m *MockFileService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (model.StoredFile, string, error) {
	args := m.Called(ctx, id, expiry)
	return args.Get(0).(model.StoredFile), args.String(1), args.Error(2)
}

func (m *MockFileService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileService) Cleanup(maxAgeHours int) (int, error) {
	args := m.Called(maxAgeHours)
	return args.Int(0), args.Error(1)
}
