package health

import (
	"context"
	"time"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	// Status is the health status.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary metadata about the check.
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// Timestamp is when the check was performed.
	Timestamp time.Time

	// Error is the error if the check failed.
	Error error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{
		Status:    StatusDegraded,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{
		Status:    StatusUnhealthy,
		Message:   message,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// WithDetails adds details to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration sets the duration on a result.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}

// Pinger is a dependency that can be probed, such as the cache backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports a Pinger as healthy when Ping succeeds and as
// failStatus otherwise.
type PingChecker struct {
	name       string
	pinger     Pinger
	failStatus Status
	details    func() map[string]any
}

// PingOption configures a PingChecker.
type PingOption func(*PingChecker)

// WithDetails attaches extra details, evaluated on every check.
func WithDetails(fn func() map[string]any) PingOption {
	return func(p *PingChecker) { p.details = fn }
}

// NewPingChecker creates a checker for p. failStatus is usually
// StatusDegraded for optional dependencies and StatusUnhealthy otherwise.
func NewPingChecker(name string, p Pinger, failStatus Status, opts ...PingOption) *PingChecker {
	c := &PingChecker{name: name, pinger: p, failStatus: failStatus}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the name of this checker.
func (p *PingChecker) Name() string {
	return p.name
}

// Check pings the dependency.
func (p *PingChecker) Check(ctx context.Context) Result {
	var r Result
	if err := p.pinger.Ping(ctx); err != nil {
		r = Result{Status: p.failStatus, Message: p.name + " unreachable", Error: err, Timestamp: time.Now()}
	} else {
		r = Healthy(p.name + " reachable")
	}
	if p.details != nil {
		r = r.WithDetails(p.details())
	}
	return r
}
