package imagecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBigCacheStore_RoundTrip(t *testing.T) {
	store, err := NewBigCacheStore(8, time.Minute, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	store.Set(ctx, "logo:bitcoin", []byte("png bytes"), time.Minute)

	got, ok := store.Get(ctx, "logo:bitcoin")
	assert.True(t, ok)
	assert.Equal(t, []byte("png bytes"), got)

	_, ok = store.Get(ctx, "logo:ethereum")
	assert.False(t, ok)
}

func TestBigCacheStore_Delete(t *testing.T) {
	store, err := NewBigCacheStore(8, time.Minute, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	store.Set(ctx, "logo:bitcoin", []byte("png bytes"), time.Minute)
	store.Delete(ctx, "logo:bitcoin")

	_, ok := store.Get(ctx, "logo:bitcoin")
	assert.False(t, ok)
}

func TestMultiStore_ReadThroughPromotes(t *testing.T) {
	l1 := newFakeStore()
	l2 := newFakeStore()
	multi := NewMultiStore(zap.NewNop(), l1, l2)

	ctx := context.Background()
	l2.Set(ctx, "logo:bitcoin", []byte("from l2"), time.Minute)

	got, ok := multi.Get(ctx, "logo:bitcoin")
	assert.True(t, ok)
	assert.Equal(t, []byte("from l2"), got)

	promoted, ok := l1.Get(ctx, "logo:bitcoin")
	assert.True(t, ok, "a later-tier hit must be promoted into the first tier")
	assert.Equal(t, []byte("from l2"), promoted)
}

func TestMultiStore_FirstTierHitSkipsLaterTiers(t *testing.T) {
	l1 := newFakeStore()
	l2 := newFakeStore()
	multi := NewMultiStore(zap.NewNop(), l1, l2)

	ctx := context.Background()
	l1.Set(ctx, "key", []byte("from l1"), time.Minute)
	l2.Set(ctx, "key", []byte("from l2"), time.Minute)

	got, ok := multi.Get(ctx, "key")
	assert.True(t, ok)
	assert.Equal(t, []byte("from l1"), got)
}

func TestMultiStore_SetAndDeleteReachEveryTier(t *testing.T) {
	l1 := newFakeStore()
	l2 := newFakeStore()
	multi := NewMultiStore(zap.NewNop(), l1, l2)

	ctx := context.Background()
	multi.Set(ctx, "key", []byte("value"), time.Minute)

	_, ok := l1.Get(ctx, "key")
	assert.True(t, ok)
	_, ok = l2.Get(ctx, "key")
	assert.True(t, ok)

	multi.Delete(ctx, "key")
	_, ok = l1.Get(ctx, "key")
	assert.False(t, ok)
	_, ok = l2.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMultiStore_MissEverywhere(t *testing.T) {
	multi := NewMultiStore(zap.NewNop(), newFakeStore(), newFakeStore())

	_, ok := multi.Get(context.Background(), "missing")
	assert.False(t, ok)
}

func TestNoOpStore(t *testing.T) {
	store := NewNoOpStore()
	ctx := context.Background()

	store.Set(ctx, "key", []byte("value"), time.Minute)
	_, ok := store.Get(ctx, "key")
	assert.False(t, ok)

	store.Delete(ctx, "key")
	assert.NoError(t, store.Close())
}
