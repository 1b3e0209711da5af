package imagecache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
)

// FetchFunc downloads raw image bytes from an origin URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Loader serves coin logo bytes through the byte store, collapsing
// concurrent requests for the same key into one origin download.
type Loader struct {
	store  interfaces.ByteStore
	fetch  FetchFunc
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewLoader creates a Loader over the given store.
func NewLoader(store interfaces.ByteStore, fetch FetchFunc, ttl time.Duration, logger *zap.Logger) *Loader {
	return &Loader{
		store:  store,
		fetch:  fetch,
		ttl:    ttl,
		logger: logger,
	}
}

// Load returns the bytes cached under key, downloading from url on a miss.
// N concurrent misses for the same key trigger exactly one download.
func (l *Loader) Load(ctx context.Context, key, url string) ([]byte, error) {
	if data, ok := l.store.Get(ctx, key); ok {
		return data, nil
	}
	metrics.ImageMisses.Inc()

	v, err, shared := l.group.Do(key, func() (any, error) {
		metrics.ImageFetches.Inc()
		data, err := l.fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		l.store.Set(ctx, key, data, l.ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.logger.Debug("image fetch shared between callers", zap.String("key", key))
	}
	return v.([]byte), nil
}

// Invalidate drops the cached bytes for key.
func (l *Loader) Invalidate(ctx context.Context, key string) {
	l.group.Forget(key)
	l.store.Delete(ctx, key)
}
