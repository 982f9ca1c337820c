package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quickscan/internal/model"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, filename, contentType string, data []byte) (*model.StoredFile, error) {
	args := m.Called(ctx, filename, contentType, data)
	if f, ok := args.Get(0).(*model.StoredFile); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) Retrieve(ctx context.Context, f model.StoredFile) ([]byte, error) {
	args := m.Called(ctx, f)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, f model.StoredFile) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockStorage) DownloadURL(ctx context.Context, f model.StoredFile, expiry time.Duration) (string, error) {
	args := m.Called(ctx, f, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) SweepExpired(maxAgeHours int) (int, error) {
	args := m.Called(maxAgeHours)
	return args.Int(0), args.Error(1)
}
