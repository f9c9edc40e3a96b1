package resilience

import (
	"context"
	"time"
)

// Executor guards calls to a remote dependency. A call first passes the
// circuit breaker, then runs up to the retry budget, and every attempt is
// bounded by the per-attempt timeout. The breaker sees one outcome per
// call, not per attempt.
type Executor struct {
	breaker *CircuitBreaker
	retry   *Retry
	timeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor. With no options it calls op directly.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker fails calls fast while cb is open.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.breaker = cb }
}

// WithRetry retries failed attempts inside one breaker call.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithTimeout bounds each attempt. Non-positive durations are ignored.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Execute runs op under the configured guards.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	attempt := op
	if e.timeout > 0 {
		attempt = func(ctx context.Context) error {
			return CallTimeout(ctx, e.timeout, op)
		}
	}

	call := attempt
	if e.retry != nil {
		call = func(ctx context.Context) error {
			return e.retry.Execute(ctx, attempt)
		}
	}

	if e.breaker == nil {
		return call(ctx)
	}
	return e.breaker.Execute(ctx, call)
}
