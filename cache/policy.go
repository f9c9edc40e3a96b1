package cache

import "time"

// Default TTLs used by the application.
const (
	// ConvertTTL is how long format, parse and convert results live.
	ConvertTTL = 120 * time.Second

	// SearchTTL is how long snippet search results live.
	SearchTTL = 60 * time.Second
)

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the policy used for conversion results.
// DefaultTTL: 120 seconds, MaxTTL: 1 hour.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: ConvertTTL,
		MaxTTL:     1 * time.Hour,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
// A policy with caching disabled always yields zero.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	if !p.ShouldCache() {
		return 0
	}

	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
