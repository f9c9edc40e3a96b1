package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 3, Now: clock.Now})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if rl.Allow() {
		t.Error("request beyond burst allowed")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimiterConfig{Rate: 2, Burst: 2, Now: clock.Now})

	rl.AllowN(2)
	clock.Advance(500 * time.Millisecond)
	if !rl.Allow() {
		t.Error("token should refill after 500ms at 2/s")
	}
	if rl.Allow() {
		t.Error("only one token should have refilled")
	}

	clock.Advance(time.Hour)
	if got := rl.Tokens(); got != 2 {
		t.Errorf("Tokens() = %v, want capped at burst 2", got)
	}
}

func TestRateLimiter_ExecuteRejects(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, Now: clock.Now})
	ctx := context.Background()

	if err := rl.Execute(ctx, passing); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if err := rl.Execute(ctx, passing); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("err = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1, MaxWait: time.Hour})
	rl.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 2, Now: clock.Now})
	rl.AllowN(2)
	rl.Reset()
	if rl.Tokens() != 2 {
		t.Errorf("Tokens() after Reset = %v, want 2", rl.Tokens())
	}
}

func TestKeyedRateLimiter_IndependentBuckets(t *testing.T) {
	clock := newFakeClock()
	k := NewKeyedRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, Now: clock.Now})

	if !k.Allow("10.0.0.1") {
		t.Fatal("first request for client A denied")
	}
	if k.Allow("10.0.0.1") {
		t.Error("second request for client A allowed")
	}
	if !k.Allow("10.0.0.2") {
		t.Error("client B throttled by client A")
	}
}

func TestKeyedRateLimiter_SweepsIdleBuckets(t *testing.T) {
	clock := newFakeClock()
	k := NewKeyedRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, Now: clock.Now})

	k.Allow("a")
	k.Allow("b")
	if k.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", k.Len())
	}

	clock.Advance(2 * time.Minute)
	k.Allow("c")
	if k.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", k.Len())
	}
}

func TestKeyedRateLimiter_Execute(t *testing.T) {
	clock := newFakeClock()
	k := NewKeyedRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, Now: clock.Now})
	ctx := context.Background()

	_ = k.Execute(ctx, "a", passing)
	if err := k.Execute(ctx, "a", passing); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("err = %v, want ErrRateLimitExceeded", err)
	}
}
