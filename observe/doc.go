// Package observe provides the logging, metrics and tracing used by snipfmt.
//
// It wraps OpenTelemetry providers behind a small Observer interface,
// backs structured logs with zerolog, exposes operation and HTTP request
// instruments, and serves a Prometheus registry for /metrics.
package observe
