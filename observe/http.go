package observe

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LatencyBuckets are the request latency histogram boundaries in seconds.
var LatencyBuckets = []float64{0.1, 0.3, 0.5, 1, 2, 5}

// HTTPMetrics holds the request counter and latency histogram.
type HTTPMetrics struct {
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewHTTPMetrics creates the HTTP instruments on meter. With the Prometheus
// exporter they are exposed as http_requests_total and
// http_request_latency_seconds.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter(
		"http.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(
		"http.request.latency",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(LatencyBuckets...),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, latency: latency}, nil
}

// HTTPMiddlewareConfig configures HTTPMiddleware.
type HTTPMiddlewareConfig struct {
	Metrics *HTTPMetrics
	Logger  Logger

	// SkipPrefixes are path prefixes that are neither counted nor logged.
	SkipPrefixes []string
}

// HTTPMiddleware records a counter and latency sample per request, labelled
// by method, matched route pattern and status, and logs each request.
func HTTPMiddleware(cfg HTTPMiddlewareConfig, next http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range cfg.SkipPrefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		elapsed := time.Since(start)

		endpoint := routeLabel(r)
		if cfg.Metrics != nil {
			opt := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("endpoint", endpoint),
				attribute.String("http_status", strconv.Itoa(sw.status)),
			)
			cfg.Metrics.requests.Add(r.Context(), 1, opt)
			cfg.Metrics.latency.Record(r.Context(), elapsed.Seconds(), opt)
		}

		logger.Info(r.Context(), "request",
			F("method", r.Method),
			F("path", r.URL.Path),
			F("status", sw.status),
			F("bytes", sw.bytes),
			F("duration_ms", float64(elapsed.Microseconds())/1000),
		)
	})
}

// routeLabel prefers the ServeMux pattern so path parameters do not explode
// label cardinality.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		if _, path, ok := strings.Cut(r.Pattern, " "); ok {
			return path
		}
		return r.Pattern
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("observe: response writer does not support hijacking")
	}
	return h.Hijack()
}
