package imagecache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
)

// Ensure MultiStore implements interfaces.ByteStore
var _ interfaces.ByteStore = (*MultiStore)(nil)

// MultiStore reads through an ordered list of byte stores and writes to all
// of them. A hit in a later tier is promoted into the earlier ones.
type MultiStore struct {
	stores []interfaces.ByteStore
	logger *zap.Logger
}

// NewMultiStore creates a MultiStore over the given tiers, fastest first.
func NewMultiStore(logger *zap.Logger, stores ...interfaces.ByteStore) *MultiStore {
	return &MultiStore{stores: stores, logger: logger}
}

// Get returns the first hit, promoting it into the tiers that missed.
func (m *MultiStore) Get(ctx context.Context, key string) ([]byte, bool) {
	for i, store := range m.stores {
		if val, ok := store.Get(ctx, key); ok {
			for j := 0; j < i; j++ {
				m.stores[j].Set(ctx, key, val, 0)
			}
			return val, true
		}
	}
	return nil, false
}

// Set stores the value in every tier.
func (m *MultiStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	for _, store := range m.stores {
		store.Set(ctx, key, val, ttl)
	}
}

// Delete removes the key from every tier.
func (m *MultiStore) Delete(ctx context.Context, key string) {
	for _, store := range m.stores {
		store.Delete(ctx, key)
	}
}

// Close closes every tier, returning the first error.
func (m *MultiStore) Close() error {
	var first error
	for _, store := range m.stores {
		if err := store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
