package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisStore shares counters between server instances. Each window gets
// its own key, so expiry is only needed for cleanup.
type RedisStore struct {
	client rueidis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client rueidis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	slot := r.now().UnixNano() / int64(window)
	redisKey := fmt.Sprintf("%s:%s:%d", r.prefix, key, slot)

	count, err := r.client.Do(ctx, r.client.B().Incr().Key(redisKey).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", redisKey, err)
	}

	if count == 1 {
		cmd := r.client.B().Pexpire().Key(redisKey).Milliseconds(2 * window.Milliseconds()).Build()
		if err := r.client.Do(ctx, cmd).Error(); err != nil {
			return count, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}

	return count, nil
}
