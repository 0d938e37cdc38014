package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return start }

	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		n, err := store.Hit(ctx, "10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := store.Hit(ctx, "10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "keys are counted independently")
}

func TestMemoryStore_ResetsAfterWindow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	_, _ = store.Hit(ctx, "k", time.Minute)
	_, _ = store.Hit(ctx, "k", time.Minute)

	now = now.Add(time.Minute)
	n, err := store.Hit(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStore_ConcurrentHits(t *testing.T) {
	store := NewMemoryStore()
	const hits = 100

	var wg sync.WaitGroup
	wg.Add(hits)
	for i := 0; i < hits; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.Hit(context.Background(), "k", time.Hour)
		}()
	}
	wg.Wait()

	n, err := store.Hit(context.Background(), "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(hits+1), n)
}
