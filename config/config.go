package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonwraymond/snipfmt/cache"
	"github.com/jonwraymond/snipfmt/observe"
	"github.com/jonwraymond/snipfmt/snippet"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the full application configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Snippets SnippetsConfig `yaml:"snippets"`
	Cache    CacheConfig    `yaml:"cache"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`

	// Secrets configures secret providers by name, e.g. file: {root: /run/secrets}.
	Secrets map[string]map[string]any `yaml:"secrets"`
}

// SnippetsConfig locates the snippet catalog.
type SnippetsConfig struct {
	Dir        string          `yaml:"dir"`
	Ignore     []string        `yaml:"ignore"`
	Categories snippet.Catalog `yaml:"categories"`
}

// CacheConfig selects and tunes the cache store.
type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	MaxEntries int           `yaml:"max_entries"`
	ConvertTTL time.Duration `yaml:"convert_ttl"`
	SearchTTL  time.Duration `yaml:"search_ttl"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	OpTimeout    time.Duration `yaml:"op_timeout"`
	MaxFailures  int           `yaml:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout"`

	// StartupWait is how long serve retries the first PING. Zero skips
	// the wait and starts degraded.
	StartupWait time.Duration `yaml:"startup_wait"`
}

// UploadConfig guards the snippet upload endpoint. With no API keys and no
// JWT secret, uploads are open.
type UploadConfig struct {
	// APIKeys maps a principal name to its key.
	APIKeys      map[string]string `yaml:"api_keys"`
	JWTSecret    string            `yaml:"jwt_secret"`
	JWTIssuer    string            `yaml:"jwt_issuer"`
	JWTAudience  string            `yaml:"jwt_audience"`
	RequiredRole string            `yaml:"required_role"`

	// RatePerMinute is the sustained per-client upload rate. Zero disables
	// rate limiting.
	RatePerMinute float64 `yaml:"rate_per_minute"`
	Burst         int     `yaml:"burst"`

	MaxBytes int64 `yaml:"max_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// TracingConfig configures trace export.
type TracingConfig struct {
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
	Endpoint  string  `yaml:"endpoint"`
	Insecure  bool    `yaml:"insecure"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":5000",
		ShutdownTimeout: 10 * time.Second,
		Snippets: SnippetsConfig{
			Dir:        "snippets",
			Categories: snippet.DefaultCatalog(),
		},
		Cache: CacheConfig{
			Backend:    BackendMemory,
			MaxEntries: 10000,
			ConvertTTL: cache.ConvertTTL,
			SearchTTL:  cache.SearchTTL,
			Redis: RedisConfig{
				Addr:         "localhost:6379",
				OpTimeout:    250 * time.Millisecond,
				MaxFailures:  5,
				ResetTimeout: 30 * time.Second,
			},
		},
		Upload: UploadConfig{
			RatePerMinute: 6,
			Burst:         3,
			MaxBytes:      1 << 20,
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Exporter: "prometheus"},
		Tracing: TracingConfig{Exporter: "none", SamplePct: 1},
	}
}

// Validate reports every invalid field, each wrapped with ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Addr == "" {
		bad("addr is required")
	}
	if c.ShutdownTimeout <= 0 {
		bad("shutdown_timeout must be positive")
	}
	if c.Snippets.Dir == "" {
		bad("snippets.dir is required")
	}
	if err := c.Snippets.Categories.Validate(); err != nil {
		bad("snippets.categories: %v", err)
	}

	if !slices.Contains([]string{BackendMemory, BackendRedis, BackendNone}, c.Cache.Backend) {
		bad("cache.backend %q (want memory, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend != BackendNone && (c.Cache.ConvertTTL <= 0 || c.Cache.SearchTTL <= 0) {
		bad("cache TTLs must be positive")
	}
	if c.Cache.MaxEntries < 0 {
		bad("cache.max_entries must not be negative")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		bad("cache.redis.addr is required for the redis backend")
	}

	if c.Upload.RatePerMinute < 0 {
		bad("upload.rate_per_minute must not be negative")
	}
	if c.Upload.RatePerMinute > 0 && c.Upload.Burst < 1 {
		bad("upload.burst must be at least 1")
	}
	if c.Upload.MaxBytes <= 0 {
		bad("upload.max_bytes must be positive")
	}
	for name, key := range c.Upload.APIKeys {
		if name == "" || key == "" {
			bad("upload.api_keys: empty name or key")
		}
	}

	obs := c.Observe("snipfmt", "")
	if err := obs.Validate(); err != nil {
		bad("%v", err)
	}

	return errors.Join(errs...)
}

// Observe returns the observer configuration.
func (c *Config) Observe(service, version string) observe.Config {
	return observe.Config{
		ServiceName: service,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Tracing.Exporter != "" && c.Tracing.Exporter != "none",
			Exporter:  c.Tracing.Exporter,
			SamplePct: c.Tracing.SamplePct,
			Endpoint:  c.Tracing.Endpoint,
			Insecure:  c.Tracing.Insecure,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Metrics.Exporter != "" && c.Metrics.Exporter != "none",
			Exporter: c.Metrics.Exporter,
			Endpoint: c.Metrics.Endpoint,
			Insecure: c.Metrics.Insecure,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.Log.Level,
			Format:  c.Log.Format,
		},
	}
}

// RedisCache returns the Redis store configuration.
func (c *Config) RedisCache() cache.RedisConfig {
	r := c.Cache.Redis
	return cache.RedisConfig{
		Addr:         r.Addr,
		Password:     r.Password,
		DB:           r.DB,
		OpTimeout:    r.OpTimeout,
		MaxFailures:  r.MaxFailures,
		ResetTimeout: r.ResetTimeout,
	}
}

// CachePolicy returns the conversion cache policy for the selected backend.
func (c *Config) CachePolicy() cache.Policy {
	if c.Cache.Backend == BackendNone {
		return cache.NoCachePolicy()
	}
	p := cache.DefaultPolicy()
	p.DefaultTTL = c.Cache.ConvertTTL
	return p
}

// AuthEnabled reports whether uploads require credentials.
func (u UploadConfig) AuthEnabled() bool {
	return len(u.APIKeys) > 0 || u.JWTSecret != ""
}
