package circuit

import (
	"context"
	"errors"
	"time"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/cache"
)

// Store guards a cache.Store with a Breaker. While the breaker is open reads
// miss and writes are skipped; prefix deletes still report the rejection so
// callers know stale pages may remain.
type Store struct {
	next    cache.Store
	breaker *Breaker
}

func NewStore(next cache.Store, breaker *Breaker) *Store {
	return &Store{next: next, breaker: breaker}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		ok   bool
	)
	err := s.breaker.Execute(func() error {
		var err error
		data, ok, err = s.next.Get(ctx, key)
		return err
	})
	if rejected(err) {
		return nil, false, nil
	}
	return data, ok, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.breaker.Execute(func() error {
		return s.next.Set(ctx, key, value, ttl)
	})
	if rejected(err) {
		return nil
	}
	return err
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	return s.breaker.Execute(func() error {
		return s.next.DeletePrefix(ctx, prefix)
	})
}

// Breaker exposes the guard for health reporting.
func (s *Store) Breaker() *Breaker {
	return s.breaker
}

func rejected(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}
