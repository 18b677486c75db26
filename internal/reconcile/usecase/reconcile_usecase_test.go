package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/custodia-labs/custodia/internal/docstore"
	"github.com/custodia-labs/custodia/internal/metrics"
	"github.com/custodia-labs/custodia/internal/reconcile/domain"
	"github.com/custodia-labs/custodia/internal/reconcile/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) ListByStatus(
	ctx context.Context,
	status domain.Status,
	limit int,
) ([]*domain.Entry, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Entry), args.Error(1)
}

// MockEntryProcessor is a mock implementation of EntryProcessor.
type MockEntryProcessor struct {
	mock.Mock
}

func (m *MockEntryProcessor) Process(ctx context.Context, entry *domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func testConfig() Config {
	return Config{Interval: 10 * time.Millisecond, BatchSize: 10, MaxRetries: 3}
}

func pendingEntry() *domain.Entry {
	return &domain.Entry{
		ID:      uuid.Must(uuid.NewV7()),
		Kind:    domain.KindMediaMetadata,
		Address: "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		BlobID:  "blob-1",
		Payload: `{"blobId":"blob-1"}`,
		Status:  domain.StatusPending,
	}
}

func TestReconcileUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FillsDefaults", func(t *testing.T) {
		repo := &MockEntryRepository{}
		repo.On("Create", ctx, mock.MatchedBy(func(e *domain.Entry) bool {
			return e.ID != uuid.Nil &&
				e.Status == domain.StatusPending &&
				!e.CreatedAt.IsZero() &&
				!e.UpdatedAt.IsZero()
		})).Return(nil).Once()

		uc := NewReconcileUseCase(testConfig(), repo, nil, nil)
		err := uc.Record(ctx, &domain.Entry{Kind: domain.KindMediaMetadata, Status: domain.StatusFailed})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFails", func(t *testing.T) {
		repo := &MockEntryRepository{}
		repo.On("Create", ctx, mock.Anything).Return(errors.New("down")).Once()

		uc := NewReconcileUseCase(testConfig(), repo, nil, nil)
		err := uc.Record(ctx, &domain.Entry{Kind: domain.KindMediaMetadata})

		assert.Error(t, err)
	})
}

func TestReconcileUseCase_ProcessPending(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NoEntries", func(t *testing.T) {
		repo := &MockEntryRepository{}
		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{}, nil).Once()

		uc := NewReconcileUseCase(testConfig(), repo, nil, nil)
		n, err := uc.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Success_MarksProcessed", func(t *testing.T) {
		repo := &MockEntryRepository{}
		processor := &MockEntryProcessor{}
		entry := pendingEntry()

		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{entry}, nil).Once()
		processor.On("Process", ctx, entry).Return(nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(e *domain.Entry) bool {
			return e.Status == domain.StatusProcessed && e.ProcessedAt != nil
		})).Return(nil).Once()

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{
			domain.KindMediaMetadata: processor,
		}, nil)
		n, err := uc.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		repo.AssertExpectations(t)
		processor.AssertExpectations(t)
	})

	t.Run("Error_IncrementsRetries", func(t *testing.T) {
		repo := &MockEntryRepository{}
		processor := &MockEntryProcessor{}
		entry := pendingEntry()

		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{entry}, nil).Once()
		processor.On("Process", ctx, entry).Return(errors.New("still down")).Once()
		repo.On("Update", ctx, entry).Return(nil).Once()

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{
			domain.KindMediaMetadata: processor,
		}, nil)
		n, err := uc.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 1, entry.Retries)
		assert.Equal(t, domain.StatusPending, entry.Status)
		require.NotNil(t, entry.LastError)
		assert.Equal(t, "still down", *entry.LastError)
	})

	t.Run("Error_MaxRetriesMarksFailed", func(t *testing.T) {
		repo := &MockEntryRepository{}
		processor := &MockEntryProcessor{}
		entry := pendingEntry()
		entry.Retries = 2

		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{entry}, nil).Once()
		processor.On("Process", ctx, entry).Return(errors.New("still down")).Once()
		repo.On("Update", ctx, entry).Return(nil).Once()

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{
			domain.KindMediaMetadata: processor,
		}, nil)
		_, err := uc.ProcessPending(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, entry.Retries)
		assert.Equal(t, domain.StatusFailed, entry.Status)
	})

	t.Run("Success_RecordsOutcomeMetrics", func(t *testing.T) {
		provider, err := metrics.NewProvider("reconcile_test")
		require.NoError(t, err)
		defer func() { assert.NoError(t, provider.Shutdown(context.Background())) }()

		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), "reconcile_test")
		require.NoError(t, err)

		repo := &MockEntryRepository{}
		processor := &MockEntryProcessor{}
		ok, failing := pendingEntry(), pendingEntry()
		failing.Retries = 2

		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{ok, failing}, nil).Once()
		processor.On("Process", ctx, ok).Return(nil).Once()
		processor.On("Process", ctx, failing).Return(errors.New("still down")).Once()
		repo.On("Update", ctx, mock.Anything).Return(nil).Twice()

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{
			domain.KindMediaMetadata: processor,
		}, nil).WithMetrics(bm)

		processed, err := uc.ProcessPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, processed)

		w := httptest.NewRecorder()
		provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Regexp(t, `reconcile_test_operations_total\{[^}]*operation="entry_replay"[^}]*status="success"[^}]*\} 1`, w.Body.String())
		assert.Regexp(t, `reconcile_test_operations_total\{[^}]*operation="entry_replay"[^}]*status="failed"[^}]*\} 1`, w.Body.String())
	})

	t.Run("Error_UnknownKind", func(t *testing.T) {
		repo := &MockEntryRepository{}
		entry := pendingEntry()
		entry.Kind = "something_else"

		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{entry}, nil).Once()
		repo.On("Update", ctx, entry).Return(nil).Once()

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{}, nil)
		_, err := uc.ProcessPending(ctx)

		require.NoError(t, err)
		require.NotNil(t, entry.LastError)
		assert.Contains(t, *entry.LastError, "something_else")
	})

	t.Run("Error_ListFails", func(t *testing.T) {
		repo := &MockEntryRepository{}
		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return(nil, errors.New("down")).Once()

		uc := NewReconcileUseCase(testConfig(), repo, nil, nil)
		_, err := uc.ProcessPending(ctx)

		assert.Error(t, err)
	})

	t.Run("Error_UpdateFails", func(t *testing.T) {
		repo := &MockEntryRepository{}
		processor := &MockEntryProcessor{}
		entry := pendingEntry()

		repo.On("ListByStatus", ctx, domain.StatusPending, 10).Return([]*domain.Entry{entry}, nil).Once()
		processor.On("Process", ctx, entry).Return(nil).Once()
		repo.On("Update", ctx, entry).Return(errors.New("down")).Once()

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{
			domain.KindMediaMetadata: processor,
		}, nil)
		n, err := uc.ProcessPending(ctx)

		assert.Error(t, err)
		assert.Zero(t, n)
	})
}

func TestReconcileUseCase_Start(t *testing.T) {
	t.Run("ContextCancellation", func(t *testing.T) {
		uc := NewReconcileUseCase(testConfig(), &MockEntryRepository{}, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := uc.Start(ctx)
		assert.Equal(t, context.Canceled, err)
	})

	t.Run("ProcessesOnTick", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		repo := repository.NewEntryRepository(store)
		processed := make(chan struct{}, 1)

		processor := &MockEntryProcessor{}
		processor.On("Process", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				select {
				case processed <- struct{}{}:
				default:
				}
			}).
			Return(nil)

		uc := NewReconcileUseCase(testConfig(), repo, map[string]EntryProcessor{
			domain.KindMediaMetadata: processor,
		}, nil)
		require.NoError(t, uc.Record(context.Background(), pendingEntry()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- uc.Start(ctx) }()

		select {
		case <-processed:
		case <-time.After(2 * time.Second):
			t.Fatal("entry was not processed")
		}
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)

		entries, err := uc.List(context.Background(), domain.StatusProcessed)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
