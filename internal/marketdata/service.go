package marketdata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/cache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/connectivity"
	"github.com/Jansenc08/CryptoApp-sub004/internal/fetch"
	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
	"github.com/Jansenc08/CryptoApp-sub004/internal/models"
)

// Source performs the actual remote fetches. It is opaque to the service
// beyond returning a typed result or a typed error.
type Source interface {
	Markets(ctx context.Context, q models.MarketQuery) ([]models.Market, error)
	Chart(ctx context.Context, q models.ChartQuery) ([]models.ChartPoint, error)
}

// TTLs configures how long each resource stays fresh.
type TTLs struct {
	Markets time.Duration
	Charts  time.Duration
}

// Service is the consuming side of the resilience core: it checks the
// bounded cache first, funnels misses through the orchestrator and feeds
// application-level success signals back to the connectivity monitor.
type Service struct {
	cache   *cache.Cache
	orch    *fetch.Orchestrator
	monitor *connectivity.Monitor
	source  Source
	keys    *cache.KeyBuilder
	ttls    TTLs
	logger  *zap.Logger
}

// NewService wires the shared components together.
func NewService(
	c *cache.Cache,
	orch *fetch.Orchestrator,
	monitor *connectivity.Monitor,
	source Source,
	ttls TTLs,
	logger *zap.Logger,
) *Service {
	return &Service{
		cache:   c,
		orch:    orch,
		monitor: monitor,
		source:  source,
		keys:    cache.NewKeyBuilder(),
		ttls:    ttls,
		logger:  logger,
	}
}

// Markets returns one page of coin market data, cached or fetched.
func (s *Service) Markets(ctx context.Context, q models.MarketQuery, prio fetch.Priority) ([]models.Market, error) {
	key := s.keys.Markets(q)

	if v, ok := cache.Get[[]models.Market](s.cache, key); ok {
		metrics.RecordCacheLookup("markets", true)
		return v, nil
	}
	metrics.RecordCacheLookup("markets", false)

	return fetch.Execute(s.orch, ctx, key, prio, func(ctx context.Context) ([]models.Market, error) {
		v, err := s.source.Markets(ctx, q)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, s.ttls.Markets)
		s.monitor.ReportAppSuccess()
		return v, nil
	})
}

// Chart returns a coin price chart, cached or fetched.
func (s *Service) Chart(ctx context.Context, q models.ChartQuery, prio fetch.Priority) ([]models.ChartPoint, error) {
	key := s.keys.Chart(q)

	if v, ok := cache.Get[[]models.ChartPoint](s.cache, key); ok {
		metrics.RecordCacheLookup("chart", true)
		return v, nil
	}
	metrics.RecordCacheLookup("chart", false)

	return fetch.Execute(s.orch, ctx, key, prio, func(ctx context.Context) ([]models.ChartPoint, error) {
		v, err := s.source.Chart(ctx, q)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, s.ttls.Charts)
		s.monitor.ReportAppSuccess()
		return v, nil
	})
}
