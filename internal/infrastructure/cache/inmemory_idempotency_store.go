package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pethotel/backend/internal/domain/shared"
)

const defaultSweepEvery = 5 * time.Minute

// InMemoryIdempotencyStore keeps processed keys in a map with per-key
// expiry. State is local to the process.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// InMemoryOption configures an InMemoryIdempotencyStore
type InMemoryOption func(*inMemoryOptions)

type inMemoryOptions struct {
	now        func() time.Time
	sweepEvery time.Duration
}

// WithNow replaces the store's clock
func WithNow(now func() time.Time) InMemoryOption {
	return func(o *inMemoryOptions) { o.now = now }
}

// WithSweepInterval sets how often expired keys are purged. Zero disables
// the background purge.
func WithSweepInterval(d time.Duration) InMemoryOption {
	return func(o *inMemoryOptions) { o.sweepEvery = d }
}

// NewInMemoryIdempotencyStore creates a store and starts its purge loop
func NewInMemoryIdempotencyStore(opts ...InMemoryOption) *InMemoryIdempotencyStore {
	o := inMemoryOptions{now: time.Now, sweepEvery: defaultSweepEvery}
	for _, opt := range opts {
		opt(&o)
	}
	s := &InMemoryIdempotencyStore{
		expires: make(map[string]time.Time),
		now:     o.now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if o.sweepEvery > 0 {
		go s.purgeLoop(o.sweepEvery)
	} else {
		close(s.done)
	}
	return s
}

// MarkProcessed records key until now+ttl. It reports false when the key
// is already recorded and unexpired.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expires[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether key is recorded and unexpired
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[key]
	return ok && s.now().Before(exp), nil
}

// Close stops the purge loop. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

// Size returns the number of recorded keys, expired ones included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

func (s *InMemoryIdempotencyStore) purgeLoop(every time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purge()
		}
	}
}

func (s *InMemoryIdempotencyStore) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
