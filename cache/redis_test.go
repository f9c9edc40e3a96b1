package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/jonwraymond/snipfmt/resilience"
)

func newTestRedis(t *testing.T, cfg RedisConfig, opts ...RedisOption) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	cfg.Addr = srv.Addr()
	c := NewRedisCache(NewRedisClient(cfg), cfg, opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	c, srv := newTestRedis(t, RedisConfig{})
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get on missing key should miss")
	}

	if err := c.Set(ctx, "format:json:abc", []byte("{}"), ConvertTTL); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := c.Get(ctx, "format:json:abc")
	if !ok || string(got) != "{}" {
		t.Errorf("Get = (%q, %v), want (\"{}\", true)", got, ok)
	}
	if ttl := srv.TTL("format:json:abc"); ttl != ConvertTTL {
		t.Errorf("server TTL = %v, want %v", ttl, ConvertTTL)
	}

	if err := c.Delete(ctx, "format:json:abc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if srv.Exists("format:json:abc") {
		t.Error("key still present after Delete")
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	c, srv := newTestRedis(t, RedisConfig{})
	ctx := context.Background()

	_ = c.Set(ctx, "search:q", []byte("[]"), SearchTTL)
	srv.FastForward(SearchTTL + time.Second)

	if _, ok := c.Get(ctx, "search:q"); ok {
		t.Error("entry should have expired")
	}
}

func TestRedisCache_ZeroTTLNotStored(t *testing.T) {
	c, srv := newTestRedis(t, RedisConfig{})

	_ = c.Set(context.Background(), "k", []byte("v"), 0)
	if srv.Exists("k") {
		t.Error("TTL=0 should not write")
	}
}

func TestRedisCache_UnavailableIsMissAndOpensCircuit(t *testing.T) {
	var failures int
	c, srv := newTestRedis(t,
		RedisConfig{MaxFailures: 2, ResetTimeout: time.Hour, OpTimeout: time.Second},
		WithErrorHandler(func(op string, err error) { failures++ }),
	)
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), time.Minute)

	srv.Close()

	for i := 0; i < 3; i++ {
		if _, ok := c.Get(ctx, "k"); ok {
			t.Fatal("unreachable backend should report a miss")
		}
	}
	if failures != 3 {
		t.Errorf("error handler called %d times, want 3", failures)
	}
	if state := c.CircuitState(); state != resilience.StateOpen {
		t.Errorf("CircuitState() = %v, want open", state)
	}
	if err := c.Ping(ctx); err == nil {
		t.Error("Ping should fail against a closed server")
	}
}
