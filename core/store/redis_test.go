package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/store"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := store.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)
	res := sampleResult()

	require.NoError(t, s.Put(ctx, res))
	assert.True(t, mr.Exists(store.Key(res.ID)))
	assert.Equal(t, time.Minute, mr.TTL(store.Key(res.ID)))

	got, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res, got)

	require.NoError(t, s.Delete(ctx, res.ID))
	_, err = s.Get(ctx, res.ID)
	assert.ErrorIs(t, err, core.ErrMissingSections)
}

func TestRedisStore_UnknownID(t *testing.T) {
	s, _ := newRedisStore(t, time.Minute)
	_, err := s.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, core.ErrMissingSections)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)
	res := sampleResult()
	require.NoError(t, s.Put(ctx, res))

	mr.FastForward(time.Minute + time.Second)
	_, err := s.Get(ctx, res.ID)
	assert.ErrorIs(t, err, core.ErrMissingSections)
}

func TestRedisStore_RejectsMissingID(t *testing.T) {
	s, _ := newRedisStore(t, time.Minute)
	assert.Error(t, s.Put(context.Background(), nil))
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	mr.Close()

	_, err := s.Get(context.Background(), "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrMissingSections)
}
