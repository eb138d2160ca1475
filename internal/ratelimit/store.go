package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore tracks request counts per key within fixed windows. Incr
// atomically increments the counter for the window containing now and
// returns the new count; the window is anchored at the first increment and
// the counter resets once it elapses.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Compile-time interface checks
var (
	_ CounterStore = (*MemoryCounterStore)(nil)
	_ CounterStore = (*RedisCounterStore)(nil)
)

type windowState struct {
	count  int64
	start  time.Time
	window time.Duration
}

// MemoryCounterStore is a single-instance fixed-window counter store. The
// check-and-increment is atomic under the mutex, so a burst of concurrent
// requests cannot slip past the threshold.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*windowState
	now     func() time.Time
}

// NewMemoryCounterStore creates an in-memory counter store and starts its
// stale-window cleanup loop.
func NewMemoryCounterStore() *MemoryCounterStore {
	s := &MemoryCounterStore{
		windows: make(map[string]*windowState),
		now:     time.Now,
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = &windowState{start: now, window: window}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}

func (s *MemoryCounterStore) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.sweep()
	}
}

// sweep drops windows that have fully elapsed. Active windows stay until
// their own duration passes, so a budget never resets mid-window no matter
// how long the window is.
func (s *MemoryCounterStore) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, w := range s.windows {
		if now.Sub(w.start) >= w.window {
			delete(s.windows, key)
		}
	}
}

// RedisCounterStore shares fixed-window counters across instances. The
// window is enforced by key expiry set on the first increment.
type RedisCounterStore struct {
	rdb *redis.Client
}

// NewRedisCounterStore creates a Redis-backed counter store.
func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
