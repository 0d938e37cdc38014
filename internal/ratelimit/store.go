// Package ratelimit counts requests per key in fixed time windows.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store records a hit for key and returns the number of hits in the
// window the hit fell into.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

const sweepThreshold = 10000

type bucket struct {
	count int64
	start time.Time
}

// MemoryStore keeps counters in process. It is only correct for a single
// instance of the server.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.buckets) >= sweepThreshold {
		m.sweep(now, window)
	}

	b, ok := m.buckets[key]
	if !ok || now.Sub(b.start) >= window {
		b = &bucket{start: now}
		m.buckets[key] = b
	}
	b.count++

	return b.count, nil
}

func (m *MemoryStore) sweep(now time.Time, window time.Duration) {
	for key, b := range m.buckets {
		if now.Sub(b.start) >= window {
			delete(m.buckets, key)
		}
	}
}
