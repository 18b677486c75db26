package blobstore

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

type timeoutStore struct {
	next    Store
	timeout time.Duration
}

// WithTimeout bounds each call to next. A call that runs out of time fails with
// errors.ErrUnavailable.
func WithTimeout(next Store, timeout time.Duration) Store {
	if timeout <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: timeout}
}

func (s *timeoutStore) Put(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.next.Put(ctx, data)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return "", apperrors.Unavailable(err, "blob put")
	}
	return id, err
}

func (s *timeoutStore) Get(ctx context.Context, blobID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.next.Get(ctx, blobID)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return nil, apperrors.Unavailable(err, "blob get")
	}
	return data, err
}
