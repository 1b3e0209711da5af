package imagecache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
)

// Ensure RedisStore implements interfaces.ByteStore
var _ interfaces.ByteStore = (*RedisStore)(nil)

// keyPrefix namespaces image entries so the store can share a database.
const keyPrefix = "img:"

// RedisStore is an optional shared byte store sitting behind the in-process
// one. Failures degrade to a miss; the image layer works without it.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// RedisOptions configures the store connection.
type RedisOptions struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisStore connects to the configured server and verifies it with a
// ping so a dead endpoint is caught at startup, not on the first request.
func NewRedisStore(opts RedisOptions, logger *zap.Logger) (*RedisStore, error) {
	ropts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	ropts.DialTimeout = opts.DialTimeout
	ropts.ReadTimeout = opts.ReadTimeout
	ropts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(ropts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{
		client:       client,
		logger:       logger,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}, nil
}

// Get retrieves raw bytes from the shared store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	metrics.ImageHits.WithLabelValues("l2").Inc()
	return data, true
}

// Set stores raw bytes with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, keyPrefix+key, val, ttl).Err(); err != nil {
		s.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes an entry.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		s.logger.Warn("redis delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
