package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure.
type Config struct {
	Cache        CacheConfig        `yaml:"cache"`
	Fetch        FetchConfig        `yaml:"fetch"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Images       ImagesConfig       `yaml:"images"`
	Upstream     UpstreamConfig     `yaml:"upstream"`
	Server       ServerConfig       `yaml:"server"`
}

// CacheConfig bounds the in-memory TTL cache.
type CacheConfig struct {
	MaxItems             int `yaml:"max_items" validate:"min=0"`
	MaxMemoryMB          int `yaml:"max_memory_mb" validate:"min=0"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" validate:"min=0"`
	MarketsTTLSeconds    int `yaml:"markets_ttl_seconds" validate:"min=0"`
	ChartsTTLSeconds     int `yaml:"charts_ttl_seconds" validate:"min=0"`
}

// FetchConfig configures the request orchestrator.
type FetchConfig struct {
	MinRequestIntervalMS int `yaml:"min_request_interval_ms" validate:"min=0"`
	MaxConcurrent        int `yaml:"max_concurrent" validate:"min=0"`
}

// ConnectivityConfig configures the connectivity monitor.
type ConnectivityConfig struct {
	ProbeEndpoints []string `yaml:"probe_endpoints" validate:"omitempty,dive,url"`

	RequiredSuccesses int `yaml:"required_successes" validate:"min=0"`
	RequiredFailures  int `yaml:"required_failures" validate:"min=0"`

	APISuccessGraceSeconds int `yaml:"api_success_grace_seconds" validate:"min=0"`

	ConnectedPollSeconds    int `yaml:"connected_poll_seconds" validate:"min=0"`
	DisconnectedPollSeconds int `yaml:"disconnected_poll_seconds" validate:"min=0"`

	SingleProbeTimeoutMS int `yaml:"single_probe_timeout_ms" validate:"min=0"`
	BurstProbeTimeoutMS  int `yaml:"burst_probe_timeout_ms" validate:"min=0"`
}

// ImagesConfig configures the logo byte store.
type ImagesConfig struct {
	Enabled    bool        `yaml:"enabled"`
	SizeMB     int         `yaml:"size_mb" validate:"min=0"`
	TTLSeconds int         `yaml:"ttl_seconds" validate:"min=0"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig configures the optional shared image store.
type RedisConfig struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url" validate:"omitempty,uri"`
	DialTimeoutMS  int    `yaml:"dial_timeout_ms" validate:"min=0"`
	ReadTimeoutMS  int    `yaml:"read_timeout_ms" validate:"min=0"`
	WriteTimeoutMS int    `yaml:"write_timeout_ms" validate:"min=0"`
}

// UpstreamConfig points at the market data API.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url" validate:"omitempty,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=0"`
}

// ServerConfig configures the observability HTTP server.
type ServerConfig struct {
	ListenAddr             string `yaml:"listen_addr"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds" validate:"min=0"`
}

// Load reads, defaults and validates a configuration file.
func Load(path string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var cfg Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, for embedders
// that do not carry a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with the reference defaults.
func (c *Config) ApplyDefaults() {
	if c.Cache.MaxItems == 0 {
		c.Cache.MaxItems = 500
	}
	if c.Cache.MaxMemoryMB == 0 {
		c.Cache.MaxMemoryMB = 50
	}
	if c.Cache.SweepIntervalSeconds == 0 {
		c.Cache.SweepIntervalSeconds = 60
	}
	if c.Cache.MarketsTTLSeconds == 0 {
		c.Cache.MarketsTTLSeconds = 30
	}
	if c.Cache.ChartsTTLSeconds == 0 {
		c.Cache.ChartsTTLSeconds = 300
	}

	if c.Fetch.MinRequestIntervalMS == 0 {
		c.Fetch.MinRequestIntervalMS = 1000
	}

	if len(c.Connectivity.ProbeEndpoints) == 0 {
		c.Connectivity.ProbeEndpoints = []string{
			"https://www.google.com/generate_204",
			"https://www.cloudflare.com/cdn-cgi/trace",
			"https://www.apple.com/library/test/success.html",
		}
	}
	if c.Connectivity.RequiredSuccesses == 0 {
		c.Connectivity.RequiredSuccesses = 1
	}
	if c.Connectivity.RequiredFailures == 0 {
		c.Connectivity.RequiredFailures = 1
	}
	if c.Connectivity.APISuccessGraceSeconds == 0 {
		c.Connectivity.APISuccessGraceSeconds = 10
	}
	if c.Connectivity.ConnectedPollSeconds == 0 {
		c.Connectivity.ConnectedPollSeconds = 5
	}
	if c.Connectivity.DisconnectedPollSeconds == 0 {
		c.Connectivity.DisconnectedPollSeconds = 1
	}
	if c.Connectivity.SingleProbeTimeoutMS == 0 {
		c.Connectivity.SingleProbeTimeoutMS = 2000
	}
	if c.Connectivity.BurstProbeTimeoutMS == 0 {
		c.Connectivity.BurstProbeTimeoutMS = 1500
	}

	if c.Images.SizeMB == 0 {
		c.Images.SizeMB = 32
	}
	if c.Images.TTLSeconds == 0 {
		c.Images.TTLSeconds = 3600
	}
	if c.Images.Redis.DialTimeoutMS == 0 {
		c.Images.Redis.DialTimeoutMS = 2000
	}
	if c.Images.Redis.ReadTimeoutMS == 0 {
		c.Images.Redis.ReadTimeoutMS = 500
	}
	if c.Images.Redis.WriteTimeoutMS == 0 {
		c.Images.Redis.WriteTimeoutMS = 500
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 15
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 30
	}
}

// Duration accessors keep the yaml surface in plain integers while the rest
// of the code deals in time.Duration.

func (c CacheConfig) SweepInterval() time.Duration { return seconds(c.SweepIntervalSeconds) }
func (c CacheConfig) MarketsTTL() time.Duration    { return seconds(c.MarketsTTLSeconds) }
func (c CacheConfig) ChartsTTL() time.Duration     { return seconds(c.ChartsTTLSeconds) }
func (c CacheConfig) MaxMemoryBytes() int64        { return int64(c.MaxMemoryMB) * 1024 * 1024 }

func (c FetchConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMS) * time.Millisecond
}

func (c ConnectivityConfig) APISuccessGrace() time.Duration { return seconds(c.APISuccessGraceSeconds) }
func (c ConnectivityConfig) ConnectedPoll() time.Duration   { return seconds(c.ConnectedPollSeconds) }
func (c ConnectivityConfig) DisconnectedPoll() time.Duration {
	return seconds(c.DisconnectedPollSeconds)
}
func (c ConnectivityConfig) SingleProbeTimeout() time.Duration {
	return time.Duration(c.SingleProbeTimeoutMS) * time.Millisecond
}
func (c ConnectivityConfig) BurstProbeTimeout() time.Duration {
	return time.Duration(c.BurstProbeTimeoutMS) * time.Millisecond
}

func (c ImagesConfig) TTL() time.Duration { return seconds(c.TTLSeconds) }

func (c RedisConfig) DialTimeout() time.Duration  { return millis(c.DialTimeoutMS) }
func (c RedisConfig) ReadTimeout() time.Duration  { return millis(c.ReadTimeoutMS) }
func (c RedisConfig) WriteTimeout() time.Duration { return millis(c.WriteTimeoutMS) }

func (c UpstreamConfig) Timeout() time.Duration { return seconds(c.TimeoutSeconds) }

func (c ServerConfig) ShutdownTimeout() time.Duration { return seconds(c.ShutdownTimeoutSeconds) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
func millis(n int) time.Duration  { return time.Duration(n) * time.Millisecond }
