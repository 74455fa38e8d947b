package submitguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Guard = (*RedisGuard)(nil)

// RedisGuard хранит блокировки в Redis, поэтому работает для нескольких
// экземпляров сервера. Срок жизни ключа выставляет сам Redis.
type RedisGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisGuard создаёт RedisGuard. ttl <= 0 заменяется на DefaultTTL.
func NewRedisGuard(client redis.Cmdable, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, userID, testID string) error {
	ok, err := g.client.SetNX(ctx, key(userID, testID), time.Now().UTC().Format(time.RFC3339Nano), g.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !ok {
		return ErrAlreadySubmitted
	}

	return nil
}

func (g *RedisGuard) Release(ctx context.Context, userID, testID string) error {
	if err := g.client.Del(ctx, key(userID, testID)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}

	return nil
}
