package cache

import (
	"context"
	"time"
)

// ComputeFunc produces the value to store on a cache miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Request identifies a memoized computation.
type Request struct {
	// Operation names the computation (format, parse, convert, search).
	Operation string

	// Mode is the detected input mode. May be empty.
	Mode string

	// Input is the raw text the computation is a pure function of.
	Input string

	// TTL overrides the policy default when positive.
	TTL time.Duration
}

// Memoizer wraps computations with a read-through cache.
//
// Concurrent misses for the same key are not coordinated: each caller
// computes and writes, and the last write wins.
type Memoizer struct {
	cache  Cache
	keyer  Keyer
	policy Policy
}

// NewMemoizer creates a memoizer. A nil keyer uses NewDefaultKeyer("").
func NewMemoizer(cache Cache, keyer Keyer, policy Policy) *Memoizer {
	if keyer == nil {
		keyer = NewDefaultKeyer("")
	}
	return &Memoizer{
		cache:  cache,
		keyer:  keyer,
		policy: policy,
	}
}

// Key returns the cache key for req.
func (m *Memoizer) Key(req Request) string {
	return m.keyer.Key(req.Operation, req.Mode, req.Input)
}

// Do returns the cached value for req if present, otherwise it calls
// compute and stores the result. hit reports whether compute was skipped.
// Errors are NOT cached, and a failing store never fails the call.
func (m *Memoizer) Do(ctx context.Context, req Request, compute ComputeFunc) (value []byte, hit bool, err error) {
	if m == nil || m.cache == nil || !m.policy.ShouldCache() {
		value, err = compute(ctx)
		return value, false, err
	}

	key := m.Key(req)
	if ValidateKey(key) != nil {
		value, err = compute(ctx)
		return value, false, err
	}

	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, true, nil
	}

	value, err = compute(ctx)
	if err != nil {
		return value, false, err
	}

	if ttl := m.policy.EffectiveTTL(req.TTL); ttl > 0 {
		_ = m.cache.Set(ctx, key, value, ttl)
	}

	return value, false, nil
}
