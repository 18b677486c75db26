// Package mocks provides mock implementations of the reconciliation use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/custodia/internal/reconcile/domain"
)

// MockUseCase is a mock implementation of UseCase.
type MockUseCase struct {
	mock.Mock
}

// Record mocks the Record method.
func (m *MockUseCase) Record(ctx context.Context, entry *domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ProcessPending mocks the ProcessPending method.
func (m *MockUseCase) ProcessPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Start mocks the Start method.
func (m *MockUseCase) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// List mocks the List method.
func (m *MockUseCase) List(ctx context.Context, status domain.Status) ([]*domain.Entry, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Entry), args.Error(1)
}
