package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*Storage)(nil)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewClient(t *testing.T) {
	mr, _ := newTestRedis(t)

	c, err := NewClient(context.Background(), Options{Addr: mr.Addr(), OpTimeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient(context.Background(), Options{Addr: addr, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestStorage_SetGetDelete(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewStorage(rdb, "limiter:", 0)

	got, err := s.Get("ip-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("ip-1", []byte("payload"), time.Minute))
	assert.True(t, mr.Exists("limiter:ip-1"))
	assert.Equal(t, time.Minute, mr.TTL("limiter:ip-1"))

	got, err = s.Get("ip-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Delete("ip-1"))
	got, err = s.Get("ip-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_Expiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewStorage(rdb, "limiter:", 0)

	require.NoError(t, s.Set("k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_EmptyKeyOrValueIsIgnored(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewStorage(rdb, "p:", 0)

	require.NoError(t, s.Set("", []byte("v"), 0))
	require.NoError(t, s.Set("k", nil, 0))
	assert.Empty(t, mr.Keys())

	got, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Delete(""))
}

func TestStorage_ResetOnlyTouchesPrefix(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewStorage(rdb, "limiter:", 0)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, s.Reset())
	assert.Equal(t, []string{"other:key"}, mr.Keys())
	assert.NoError(t, s.Close())
}
