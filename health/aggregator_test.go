package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func fixed(name string, r Result) Checker {
	return NewCheckerFunc(name, func(context.Context) Result { return r })
}

func TestAggregator_RegisterKeepsOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Register("cache", fixed("cache", Healthy("ok")))
	agg.Register("snippets", fixed("snippets", Healthy("ok")))
	agg.Register("cache", fixed("cache", Degraded("replaced")))

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "cache" || names[1] != "snippets" {
		t.Fatalf("CheckerNames() = %v", names)
	}

	r, err := agg.Check(context.Background(), "cache")
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusDegraded {
		t.Errorf("replaced checker status = %v, want degraded", r.Status)
	}

	agg.Unregister("cache")
	if names := agg.CheckerNames(); len(names) != 1 || names[0] != "snippets" {
		t.Errorf("after Unregister = %v", names)
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	_, err := NewAggregator().Check(context.Background(), "missing")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("err = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()
	agg.Register("a", fixed("a", Healthy("ok")))
	agg.Register("b", fixed("b", Degraded("slow")))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results["b"].Status != StatusDegraded {
		t.Errorf("b = %v", results["b"].Status)
	}
	if results["a"].Duration < 0 || results["a"].Timestamp.IsZero() {
		t.Errorf("a missing timing: %+v", results["a"])
	}
	if got := agg.OverallStatus(results); got != StatusDegraded {
		t.Errorf("OverallStatus = %v, want degraded", got)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()
	if got := agg.OverallStatus(nil); got != StatusHealthy {
		t.Errorf("empty = %v, want healthy", got)
	}
	got := agg.OverallStatus(map[string]Result{
		"a": Degraded("x"),
		"b": Unhealthy("y", nil),
		"c": Healthy("z"),
	})
	if got != StatusUnhealthy {
		t.Errorf("mixed = %v, want unhealthy", got)
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return Healthy("late")
	}))

	r := agg.CheckAll(context.Background())["stuck"]
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, ErrCheckTimeout) {
		t.Errorf("stuck check = %+v, want timeout", r)
	}
}

func TestAggregator_ConcurrencyLimit(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Concurrency: 1})
	var running, peak atomic.Int32
	for _, name := range []string{"a", "b", "c"} {
		agg.Register(name, NewCheckerFunc(name, func(context.Context) Result {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return Healthy("ok")
		}))
	}

	agg.CheckAll(context.Background())
	if got := peak.Load(); got != 1 {
		t.Errorf("peak concurrency = %d, want 1", got)
	}
}
