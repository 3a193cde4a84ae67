package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

func setupSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client), mr
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store, mr := setupSessionStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, "acc-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := mr.Get("session:" + sid)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got)
	assert.Equal(t, time.Hour, mr.TTL("session:"+sid))

	live, err := store.Exists(ctx, sid)
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, store.Revoke(ctx, sid))

	live, err = store.Exists(ctx, sid)
	require.NoError(t, err)
	assert.False(t, live)
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := setupSessionStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, "acc-1", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	live, err := store.Exists(ctx, sid)
	require.NoError(t, err)
	assert.False(t, live)
}

func TestSessionStore_DefaultTTL(t *testing.T) {
	store, mr := setupSessionStore(t)

	sid, err := store.Create(context.Background(), "acc-1", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultSessionTTL, mr.TTL("session:"+sid))
}

func TestSessionStore_EmptySessionID(t *testing.T) {
	store, _ := setupSessionStore(t)

	live, err := store.Exists(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestSessionStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	store := NewSessionStore(client)

	_, err := store.Create(context.Background(), "acc-1", time.Hour)
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestConnect_URLAddr(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: "redis://" + mr.Addr() + "/3"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.Equal(t, 3, client.Options().DB)

	_, err = Connect(context.Background(), Config{Addr: "redis://" + mr.Addr() + "/not-a-db"})
	assert.ErrorContains(t, err, "redis url")
}

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, Ping(client)(context.Background()))
}
