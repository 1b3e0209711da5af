package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/cache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/config"
	"github.com/Jansenc08/CryptoApp-sub004/internal/connectivity"
	"github.com/Jansenc08/CryptoApp-sub004/internal/fetch"
	"github.com/Jansenc08/CryptoApp-sub004/internal/httpserver"
	"github.com/Jansenc08/CryptoApp-sub004/internal/imagecache"
	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
	"github.com/Jansenc08/CryptoApp-sub004/internal/marketdata"
	"github.com/Jansenc08/CryptoApp-sub004/internal/scheduler"
)

// CompositionRoot holds all application dependencies. The process-wide
// "one cache, one orchestrator, one monitor" semantics live here: every
// consumer receives the same explicitly constructed instances.
type CompositionRoot struct {
	Config *config.Config
	Logger *zap.Logger

	Cache        *cache.Cache
	SweepTask    *scheduler.Task
	Orchestrator *fetch.Orchestrator
	Monitor      *connectivity.Monitor
	ImageStore   interfaces.ByteStore
	ImageLoader  *imagecache.Loader
	Service      *marketdata.Service
	HTTPServer   *httpserver.Server
}

// NewCompositionRoot creates and wires all application dependencies.
//
// Initialization order:
// 1. Logger (needed by everything else)
// 2. Configuration
// 3. Cache + periodic sweep
// 4. Orchestrator
// 5. Connectivity monitor
// 6. Image byte store and loader
// 7. Market data service
// 8. HTTP server
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}
	clk := clock.New()

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	root.Logger = logger

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := root.Config

	root.Cache = cache.New(cache.Options{
		MaxItems:  cfg.Cache.MaxItems,
		MaxMemory: cfg.Cache.MaxMemoryBytes(),
	}, clk, logger)
	root.SweepTask = scheduler.New(cfg.Cache.SweepInterval(), clk, root.Cache.Sweep)

	root.Orchestrator = fetch.New(fetch.Options{
		MinInterval:   cfg.Fetch.MinRequestInterval(),
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
	}, clk, logger)

	root.Monitor = connectivity.NewMonitor(connectivity.Config{
		Endpoints:            cfg.Connectivity.ProbeEndpoints,
		RequiredSuccesses:    cfg.Connectivity.RequiredSuccesses,
		RequiredFailures:     cfg.Connectivity.RequiredFailures,
		GracePeriod:          cfg.Connectivity.APISuccessGrace(),
		ConnectedInterval:    cfg.Connectivity.ConnectedPoll(),
		DisconnectedInterval: cfg.Connectivity.DisconnectedPoll(),
		SingleTimeout:        cfg.Connectivity.SingleProbeTimeout(),
		BurstTimeout:         cfg.Connectivity.BurstProbeTimeout(),
	}, connectivity.NewHTTPProber(), clk, logger)

	if err := root.initImageStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	source := marketdata.NewHTTPSource(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), logger)
	root.Service = marketdata.NewService(
		root.Cache,
		root.Orchestrator,
		root.Monitor,
		source,
		marketdata.TTLs{
			Markets: cfg.Cache.MarketsTTL(),
			Charts:  cfg.Cache.ChartsTTL(),
		},
		logger,
	)

	root.HTTPServer = httpserver.NewServer(
		root.Cache,
		root.Orchestrator,
		root.Monitor,
		root.Service,
		root.ImageLoader,
		logger,
	)

	return root, nil
}

// loadConfig reads the config file named by MARKET_CACHE_CONFIG_FILE,
// falling back to built-in defaults when unset.
func (r *CompositionRoot) loadConfig() error {
	path := os.Getenv("MARKET_CACHE_CONFIG_FILE")
	if path == "" {
		r.Logger.Info("No config file set, using defaults")
		r.Config = config.Default()
		return nil
	}

	cfg, err := config.Load(path, r.Logger)
	if err != nil {
		return err
	}
	r.Config = cfg
	return nil
}

// initImageStore builds the logo byte store: in-process tier, optionally
// backed by a shared redis tier. A redis that cannot be reached degrades to
// the in-process tier alone rather than failing startup.
func (r *CompositionRoot) initImageStore() error {
	cfg := r.Config.Images

	if !cfg.Enabled {
		r.ImageStore = imagecache.NewNoOpStore()
		r.Logger.Info("Image store disabled")
		return nil
	}

	l1, err := imagecache.NewBigCacheStore(cfg.SizeMB, cfg.TTL(), r.Logger)
	if err != nil {
		return err
	}

	var store interfaces.ByteStore = l1
	if cfg.Redis.Enabled {
		l2, err := imagecache.NewRedisStore(imagecache.RedisOptions{
			URL:          cfg.Redis.URL,
			DialTimeout:  cfg.Redis.DialTimeout(),
			ReadTimeout:  cfg.Redis.ReadTimeout(),
			WriteTimeout: cfg.Redis.WriteTimeout(),
		}, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to redis, image store runs in-process only",
				zap.Error(err))
		} else {
			store = imagecache.NewMultiStore(r.Logger, l1, l2)
			r.Logger.Info("Shared image store initialized", zap.String("url", cfg.Redis.URL))
		}
	}
	r.ImageStore = store

	r.ImageLoader = imagecache.NewLoader(store, downloadImage, cfg.TTL(), r.Logger)
	r.Logger.Info("Image store initialized", zap.Int("size_mb", cfg.SizeMB))
	return nil
}

// downloadImage fetches raw logo bytes from the origin.
func downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image origin returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}

// Cleanup releases all resources.
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.SweepTask != nil {
		r.SweepTask.Stop()
	}
	if r.Monitor != nil {
		r.Monitor.Stop()
	}
	if r.Orchestrator != nil {
		r.Orchestrator.CancelAll()
	}
	if r.ImageStore != nil {
		if err := r.ImageStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close image store: %w", err))
		}
	}
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
