package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) (*miniredis.Miniredis, *redisRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, &redisRepository{client: client}
}

func TestRedisRepository_SetGetDelete(t *testing.T) {
	_, repo := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, got)

	require.NoError(t, repo.Delete(ctx, "k"))
	got, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisRepository_TrySetNX(t *testing.T) {
	_, repo := setupRepository(t)
	ctx := context.Background()

	ok, err := repo.TrySetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TrySetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRepository_Expire(t *testing.T) {
	mr, repo := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v", time.Second))
	require.NoError(t, repo.Expire(ctx, "k", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("k"))

	mr.FastForward(2 * time.Hour)
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisRepository_IncrementWithTTL(t *testing.T) {
	mr, repo := setupRepository(t)
	ctx := context.Background()

	count, err := repo.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mr.FastForward(30 * time.Second)
	count, err = repo.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 30*time.Second, mr.TTL("counter"))

	mr.FastForward(31 * time.Second)
	count, err = repo.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
