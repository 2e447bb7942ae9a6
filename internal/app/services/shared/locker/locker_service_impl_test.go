package locker

import (
	"context"
	"testing"
	"time"

	redisRepository "medmarket-service/internal/app/services/shared/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLocker(t *testing.T) (*miniredis.Miniredis, *lockService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, &lockService{redisRepo: redisRepository.NewRedisRepository(client), Log: zap.NewNop()}
}

func TestLockService_TryLockIsExclusive(t *testing.T) {
	_, svc := newTestLocker(t)
	ctx := context.Background()

	ok, token, err := svc.TryLock(ctx, "checkout:lock:g1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	ok, _, err = svc.TryLock(ctx, "checkout:lock:g1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Unlock(ctx, "checkout:lock:g1", token))

	ok, _, err = svc.TryLock(ctx, "checkout:lock:g1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockService_UnlockIgnoresForeignToken(t *testing.T) {
	mr, svc := newTestLocker(t)
	ctx := context.Background()

	ok, _, err := svc.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.Unlock(ctx, "k", "someone-else"))
	assert.True(t, mr.Exists("k"))
}

func TestLockService_Refresh(t *testing.T) {
	mr, svc := newTestLocker(t)
	ctx := context.Background()

	_, token, err := svc.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(ctx, "k", token, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	assert.Error(t, svc.Refresh(ctx, "k", "wrong", time.Minute))
}
