package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/snipfmt/resilience"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	// Default: "localhost:6379"
	Addr string

	// Password is the AUTH password. Empty disables AUTH.
	Password string

	// DB selects the logical database.
	DB int

	// OpTimeout bounds every GET/SET/DEL.
	// Default: 250ms
	OpTimeout time.Duration

	// MaxFailures consecutive failures open the circuit; while open every
	// call is a miss without touching the network.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before probing.
	// Default: 30 seconds
	ResetTimeout time.Duration
}

// NewRedisClient builds a go-redis client from cfg.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisCache is a Cache backed by Redis SET ... EX / GET.
//
// Backend failures never surface from Get: an unreachable server is a miss,
// so callers fall back to computing the value.
type RedisCache struct {
	client  redis.UniversalClient
	breaker *resilience.CircuitBreaker
	exec    *resilience.Executor
	onError func(op string, err error)
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithErrorHandler registers a callback for backend failures.
func WithErrorHandler(fn func(op string, err error)) RedisOption {
	return func(c *RedisCache) {
		c.onError = fn
	}
}

// NewRedisCache wraps client with a circuit breaker and per-call timeout.
func NewRedisCache(client redis.UniversalClient, cfg RedisConfig, opts ...RedisOption) *RedisCache {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 250 * time.Millisecond
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  cfg.MaxFailures,
		ResetTimeout: cfg.ResetTimeout,
	})

	c := &RedisCache{
		client:  client,
		breaker: breaker,
		exec: resilience.NewExecutor(
			resilience.WithCircuitBreaker(breaker),
			resilience.WithTimeout(cfg.OpTimeout),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value. redis.Nil and backend errors are both misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value []byte
		found bool
	)
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		value, found = b, true
		return nil
	})
	if err != nil {
		c.report("get", err)
		return nil, false
	}
	return value, found
}

// Set stores value with an expiry. TTL<=0 is a no-op.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		c.report("set", err)
	}
	return err
}

// Delete removes key. Idempotent - no error on miss.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		return c.client.Del(ctx, key).Err()
	})
	if err != nil {
		c.report("delete", err)
	}
	return err
}

// Ping checks the server directly, bypassing the circuit breaker.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// CircuitState reports the breaker state guarding the backend.
func (c *RedisCache) CircuitState() resilience.State {
	return c.breaker.State()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) report(op string, err error) {
	if c.onError != nil {
		c.onError(op, err)
	}
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
