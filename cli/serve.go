package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/snipfmt/auth"
	"github.com/jonwraymond/snipfmt/cache"
	"github.com/jonwraymond/snipfmt/config"
	"github.com/jonwraymond/snipfmt/convert"
	"github.com/jonwraymond/snipfmt/health"
	"github.com/jonwraymond/snipfmt/observe"
	"github.com/jonwraymond/snipfmt/resilience"
	"github.com/jonwraymond/snipfmt/server"
	"github.com/jonwraymond/snipfmt/snippet"
)

const serviceName = "snipfmt"

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the snippet catalog and formatter web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) (err error) {
	obs, err := observe.NewObserver(ctx, cfg.Observe(serviceName, Version))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		err = errors.Join(err, obs.Shutdown(shutdownCtx))
	}()
	log := obs.Logger()

	agg := health.NewAggregator()
	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	agg.Register("snippets", health.NewDirChecker("snippets", cfg.Snippets.Dir))

	store, closeStore, err := buildCache(ctx, cfg, log, agg)
	if err != nil {
		return err
	}
	defer closeStore()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}
	httpMetrics, err := observe.NewHTTPMetrics(obs.Meter())
	if err != nil {
		return err
	}

	repo, err := snippet.NewFileRepository(cfg.Snippets.Dir, cfg.Snippets.Ignore...)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Converter: convert.New(store,
			convert.WithPolicy(cfg.CachePolicy()),
			convert.WithTTL(cfg.Cache.ConvertTTL),
			convert.WithMiddleware(mw),
		),
		Store: repo,
		Searcher: snippet.NewSearcher(repo, store,
			snippet.WithSearchTTL(cfg.Cache.SearchTTL),
			snippet.WithSearchMiddleware(mw),
		),
		Catalog:         cfg.Snippets.Categories,
		Health:          agg,
		Metrics:         obs.MetricsHandler(),
		HTTPMetrics:     httpMetrics,
		Logger:          log,
		UploadAuth:      buildAuthenticator(cfg.Upload),
		UploadRole:      cfg.Upload.RequiredRole,
		UploadLimiter:   buildUploadLimiter(cfg.Upload),
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	log.Info(ctx, "starting",
		observe.F("version", Version),
		observe.F("cache", cfg.Cache.Backend),
		observe.F("snippets", cfg.Snippets.Dir),
		observe.F("upload_auth", cfg.Upload.AuthEnabled()),
	)
	return srv.Run(ctx, cfg.Addr)
}

// buildCache returns the store for the configured backend, registering a
// health check when it has one. The none backend yields a nil store.
func buildCache(ctx context.Context, cfg config.Config, log observe.Logger, agg *health.Aggregator) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return nil, func() {}, nil
	case config.BackendMemory:
		return cache.NewMemoryCache(cache.WithMaxEntries(cfg.Cache.MaxEntries)), func() {}, nil
	case config.BackendRedis:
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	rcfg := cfg.RedisCache()
	rc := cache.NewRedisCache(cache.NewRedisClient(rcfg), rcfg,
		cache.WithErrorHandler(func(op string, err error) {
			log.Debug(ctx, "redis cache miss on error", observe.F("op", op), observe.F("error", err.Error()))
		}),
	)
	closeFn := func() {
		if err := rc.Close(); err != nil {
			log.Warn(ctx, "close redis", observe.F("error", err.Error()))
		}
	}

	if wait := cfg.Cache.Redis.StartupWait; wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		retry := resilience.NewRetry(resilience.RetryConfig{
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Jitter:       true,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				log.Info(ctx, "waiting for redis",
					observe.F("attempt", attempt),
					observe.F("retry_in", delay.String()),
					observe.F("error", err.Error()),
				)
			},
		})
		err := retry.Until(waitCtx, rc.Ping)
		cancel()
		if err != nil {
			log.Warn(ctx, "redis unavailable, starting degraded",
				observe.F("addr", rcfg.Addr),
				observe.F("error", err.Error()),
			)
		}
	}

	agg.Register("cache", health.NewPingChecker("cache", rc, health.StatusDegraded,
		health.WithDetails(func() map[string]any {
			return map[string]any{"backend": "redis", "circuit": rc.CircuitState().String()}
		}),
	))
	return rc, closeFn, nil
}

// buildAuthenticator combines the configured API keys and JWT secret.
// Nil means uploads are open.
func buildAuthenticator(u config.UploadConfig) auth.Authenticator {
	var auths []auth.Authenticator
	if len(u.APIKeys) > 0 {
		var roles []string
		if u.RequiredRole != "" {
			roles = []string{u.RequiredRole}
		}
		keys := auth.NewMemoryAPIKeyStore()
		for principal, key := range u.APIKeys {
			keys.AddKey(principal, key, roles...)
		}
		auths = append(auths, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, keys))
	}
	if u.JWTSecret != "" {
		auths = append(auths, auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret:   []byte(u.JWTSecret),
			Issuer:   u.JWTIssuer,
			Audience: u.JWTAudience,
		}))
	}

	switch len(auths) {
	case 0:
		return nil
	case 1:
		return auths[0]
	default:
		return auth.NewCompositeAuthenticator(auths...)
	}
}

// buildUploadLimiter returns nil when rate limiting is disabled.
func buildUploadLimiter(u config.UploadConfig) *resilience.KeyedRateLimiter {
	if u.RatePerMinute <= 0 {
		return nil
	}
	return resilience.NewKeyedRateLimiter(resilience.RateLimiterConfig{
		Rate:  u.RatePerMinute / 60,
		Burst: u.Burst,
	})
}
