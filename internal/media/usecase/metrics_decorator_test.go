package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	mediaMocks "github.com/custodia-labs/custodia/internal/media/usecase/mocks"
	"github.com/custodia-labs/custodia/internal/metrics"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "media", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "media", operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}

func TestMediaMetricsDecorator(t *testing.T) {
	ctx := context.Background()
	address := "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"

	t.Run("Upload", func(t *testing.T) {
		next := &mediaMocks.MockMediaUseCase{}
		m := &mockBusinessMetrics{}
		input := &mediaDomain.UploadInput{Address: address, Content: []byte("x")}

		next.On("Upload", ctx, input).Return("blob-1", nil).Once()
		expectMetrics(ctx, m, "media_upload", "success")

		id, err := NewMediaUseCaseWithMetrics(next, m).Upload(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, "blob-1", id)
		m.AssertExpectations(t)
	})

	t.Run("Download", func(t *testing.T) {
		next := &mediaMocks.MockMediaUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Download", ctx, address, "pw", "blob-1").Return(nil, errors.New("boom")).Once()
		expectMetrics(ctx, m, "media_download", "error")

		media, err := NewMediaUseCaseWithMetrics(next, m).Download(ctx, address, "pw", "blob-1")
		assert.Error(t, err)
		assert.Nil(t, media)
		m.AssertExpectations(t)
	})

	t.Run("List", func(t *testing.T) {
		next := &mediaMocks.MockMediaUseCase{}
		m := &mockBusinessMetrics{}

		next.On("List", ctx, address).Return([]string{"a"}, nil).Once()
		expectMetrics(ctx, m, "media_list", "success")

		ids, err := NewMediaUseCaseWithMetrics(next, m).List(ctx, address)
		assert.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids)
		m.AssertExpectations(t)
	})

	t.Run("Share", func(t *testing.T) {
		next := &mediaMocks.MockMediaUseCase{}
		m := &mockBusinessMetrics{}
		input := &mediaDomain.ShareInput{Address: address}

		next.On("Share", ctx, input).Return(nil).Once()
		expectMetrics(ctx, m, "media_share", "success")

		assert.NoError(t, NewMediaUseCaseWithMetrics(next, m).Share(ctx, input))
		m.AssertExpectations(t)
	})
}
