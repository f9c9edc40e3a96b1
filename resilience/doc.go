// Package resilience provides the failure-handling patterns used around the
// cache backend and the snippet upload endpoint.
//
// # Patterns
//
//   - Circuit Breaker: stops calling a failing cache backend after a
//     threshold so requests fall straight through to computation.
//
//   - Retry: retries an operation with exponential, linear or constant
//     backoff (used while waiting for the cache backend at startup).
//
//   - Rate Limiter: token buckets, optionally one per client key, used to
//     throttle snippet uploads.
//
//   - Timeout: bounds a single operation.
//
// # Usage
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    MaxFailures:  5,
//	    ResetTimeout: 30 * time.Second,
//	})
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithTimeout(250*time.Millisecond),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return client.Get(ctx, key).Err()
//	})
package resilience
