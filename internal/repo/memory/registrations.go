package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/geocoder89/courseadmin/internal/domain/registration"
)

// RegistrationStore is read-only to the admin side; records come from the seed.
type RegistrationStore struct {
	mu     sync.RWMutex
	items  []registration.Registration
	closed bool
	opts   Options
}

func NewRegistrationStore(opts Options, seed ...registration.Registration) *RegistrationStore {
	return &RegistrationStore{
		items: slices.Clone(seed),
		opts:  opts,
	}
}

func (s *RegistrationStore) List(ctx context.Context) ([]registration.Registration, error) {
	var out []registration.Registration

	err := observe(ctx, s.opts.Prom, "registrations.list", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return ErrClosed
		}
		out = make([]registration.Registration, len(s.items))
		copy(out, s.items)
		s.mu.RUnlock()

		return settle(ctx, s.opts.Latency)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *RegistrationStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.items = nil
	s.mu.Unlock()

	return nil
}
