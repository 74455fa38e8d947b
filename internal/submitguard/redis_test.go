package submitguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis реализует только те команды, которые использует RedisGuard.
type fakeRedis struct {
	redis.Cmdable
	keys map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: make(map[string]time.Duration)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, _ interface{}, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	if _, ok := f.keys[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.keys[key] = expiration
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestRedisGuard(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	g := NewRedisGuard(rdb, 3*time.Second)

	require.NoError(t, g.Acquire(ctx, "u1", "t1"))
	assert.Equal(t, 3*time.Second, rdb.keys["quiz:submit:u1:t1"])

	assert.ErrorIs(t, g.Acquire(ctx, "u1", "t1"), ErrAlreadySubmitted)

	require.NoError(t, g.Release(ctx, "u1", "t1"))
	assert.NoError(t, g.Acquire(ctx, "u1", "t1"))
}

func TestRedisGuard_Error(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	g := NewRedisGuard(rdb, 0)

	err := g.Acquire(context.Background(), "u1", "t1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, DefaultTTL, g.ttl)
}
