package imagecache

import (
	"context"
	"time"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
)

// Ensure NoOpStore implements interfaces.ByteStore
var _ interfaces.ByteStore = (*NoOpStore)(nil)

// NoOpStore stands in for a disabled byte store tier.
type NoOpStore struct{}

// NewNoOpStore creates a NoOpStore.
func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

// Get always misses.
func (n *NoOpStore) Get(ctx context.Context, key string) ([]byte, bool) {
	return nil, false
}

// Set does nothing.
func (n *NoOpStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
}

// Delete does nothing.
func (n *NoOpStore) Delete(ctx context.Context, key string) {
}

// Close does nothing.
func (n *NoOpStore) Close() error {
	return nil
}
