package docstore

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// timeoutStore bounds every call to the wrapped store.
type timeoutStore struct {
	next    Store
	timeout time.Duration
}

// WithTimeout wraps next so that each call runs under its own deadline. A call that
// runs out of time fails with errors.ErrUnavailable.
func WithTimeout(next Store, timeout time.Duration) Store {
	if timeout <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: timeout}
}

func (s *timeoutStore) Put(ctx context.Context, collection, key string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return deadline(s.next.Put(ctx, collection, key, doc), "docstore put")
}

func (s *timeoutStore) Get(ctx context.Context, collection, key string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return deadline(s.next.Get(ctx, collection, key, out), "docstore get")
}

func (s *timeoutStore) Delete(ctx context.Context, collection, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return deadline(s.next.Delete(ctx, collection, key), "docstore delete")
}

func (s *timeoutStore) List(ctx context.Context, collection string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	keys, err := s.next.List(ctx, collection)
	return keys, deadline(err, "docstore list")
}

func (s *timeoutStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return deadline(s.next.Ping(ctx), "docstore ping")
}

func deadline(err error, op string) error {
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Unavailable(err, op)
	}
	return err
}
