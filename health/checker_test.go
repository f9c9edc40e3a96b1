package health

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	err := errors.New("boom")
	r := Unhealthy("down", err).WithDetails(map[string]any{"k": 1})
	if r.Status != StatusUnhealthy || r.Error != err || r.Details["k"] != 1 {
		t.Errorf("Unhealthy result = %+v", r)
	}
	if r.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if Degraded("slow").Status != StatusDegraded {
		t.Error("Degraded() status mismatch")
	}
}

func TestPingChecker(t *testing.T) {
	up := NewPingChecker("cache", pingerFunc(func(context.Context) error { return nil }), StatusDegraded)
	if up.Name() != "cache" {
		t.Errorf("Name() = %q", up.Name())
	}
	if r := up.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("reachable pinger status = %v, want healthy", r.Status)
	}

	refused := errors.New("connection refused")
	down := NewPingChecker("cache", pingerFunc(func(context.Context) error { return refused }), StatusDegraded,
		WithDetails(func() map[string]any { return map[string]any{"circuit": "open"} }))
	r := down.Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("failing pinger status = %v, want degraded", r.Status)
	}
	if !errors.Is(r.Error, refused) {
		t.Errorf("Error = %v, want %v", r.Error, refused)
	}
	if r.Details["circuit"] != "open" {
		t.Errorf("Details = %v", r.Details)
	}
}
