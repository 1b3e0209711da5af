package interfaces

import (
	"context"
	"time"
)

//go:generate mockgen -package=mock -source=bytestore.go -destination=mock/bytestore.go

// ByteStore is a minimal byte-level cache with TTLs, used for raw image
// payloads. Implementations must be safe for concurrent use.
type ByteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}
