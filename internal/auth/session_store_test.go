package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb), mr
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Set(ctx, "abc", userID, SessionTTL))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, SessionTTL, mr.TTL("session:abc"))

	got, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, userID, got)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, found, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "abc"))
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", uuid.New(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, found, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionStore_CorruptValue(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("session:bad", "not-a-uuid"))

	_, found, err := store.Get(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionStore_PropagatesOutage(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "abc", uuid.New(), time.Minute))
}

func TestNewSessionToken(t *testing.T) {
	a, err := NewSessionToken()
	require.NoError(t, err)
	b, err := NewSessionToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasherWithCost(4)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, h.Verify(hash, "Secret123"))
	assert.False(t, h.Verify(hash, "secret123"))
	assert.False(t, h.Verify("garbage", "Secret123"))
}
