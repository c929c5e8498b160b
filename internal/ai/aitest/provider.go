// Package aitest holds test doubles for ai.Provider.
package aitest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"appforge-backend/internal/ai"
)

type MockProvider struct {
	mock.Mock
	ProviderName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{ProviderName: name}
}

func (m *MockProvider) Name() string {
	return m.ProviderName
}

func (m *MockProvider) Complete(ctx context.Context, req ai.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
