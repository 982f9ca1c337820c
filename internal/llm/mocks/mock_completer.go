package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quickscan/internal/llm"
	"quickscan/internal/model"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) ChatCompletion(ctx context.Context, req model.ChatCompletionRequest) (*llm.Result, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*llm.Result); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompleter) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	args := m.Called(ctx, content, maxLength)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) AnalyzeScan(ctx context.Context, data, format string) (string, error) {
	args := m.Called(ctx, data, format)
	return args.String(0), args.Error(1)
}
