// Package mocks provides mock implementations of the media use case and its
// collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	reconcileDomain "github.com/custodia-labs/custodia/internal/reconcile/domain"
)

// MockMediaUseCase is a mock implementation of MediaUseCase.
type MockMediaUseCase struct {
	mock.Mock
}

// Upload mocks the Upload method.
func (m *MockMediaUseCase) Upload(ctx context.Context, input *mediaDomain.UploadInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// Download mocks the Download method.
func (m *MockMediaUseCase) Download(
	ctx context.Context,
	address, passwordHash, blobID string,
) (*mediaDomain.Media, error) {
	args := m.Called(ctx, address, passwordHash, blobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.Media), args.Error(1)
}

// List mocks the List method.
func (m *MockMediaUseCase) List(ctx context.Context, address string) ([]string, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Share mocks the Share method.
func (m *MockMediaUseCase) Share(ctx context.Context, input *mediaDomain.ShareInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockBlobStore is a mock implementation of BlobStore.
type MockBlobStore struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// Get mocks the Get method.
func (m *MockBlobStore) Get(ctx context.Context, blobID string) ([]byte, error) {
	args := m.Called(ctx, blobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockMediaRepository is a mock implementation of MediaRepository.
type MockMediaRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMediaRepository) Create(ctx context.Context, owner string, record *mediaDomain.MediaRecord) error {
	args := m.Called(ctx, owner, record)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockMediaRepository) Get(ctx context.Context, owner, blobID string) (*mediaDomain.MediaRecord, error) {
	args := m.Called(ctx, owner, blobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.MediaRecord), args.Error(1)
}

// List mocks the List method.
func (m *MockMediaRepository) List(ctx context.Context, owner string) ([]string, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockReconciler is a mock implementation of Reconciler.
type MockReconciler struct {
	mock.Mock
}

// Record mocks the Record method.
func (m *MockReconciler) Record(ctx context.Context, entry *reconcileDomain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
