// Package exporters builds the OpenTelemetry exporters snipfmt can ship
// telemetry to.
package exporters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrNoEndpoint is returned for otlp when neither Target.Endpoint nor the
// standard OTEL_EXPORTER_OTLP_* variables name a collector.
var ErrNoEndpoint = errors.New("exporters: otlp endpoint not configured")

// Target selects an exporter.
type Target struct {
	// Name is otlp, stdout, prometheus (metrics only) or none.
	Name string

	// Endpoint is the OTLP collector host:port. Empty defers to the
	// OTEL_EXPORTER_OTLP_ENDPOINT family of variables.
	Endpoint string

	// Insecure disables TLS towards Endpoint.
	Insecure bool

	// Writer receives stdout exporter output. Default: os.Stdout
	Writer io.Writer
}

func (t Target) writer() io.Writer {
	if t.Writer != nil {
		return t.Writer
	}
	return os.Stdout
}

// endpointSet reports whether an OTLP collector is configured for signal
// ("TRACES" or "METRICS").
func (t Target) endpointSet(signal string) bool {
	return t.Endpoint != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_"+signal+"_ENDPOINT") != ""
}

// NewSpanExporter returns the span exporter for t, or nil for none.
func NewSpanExporter(ctx context.Context, t Target) (sdktrace.SpanExporter, error) {
	switch t.Name {
	case "none", "":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(t.writer()))
	case "otlp":
		if !t.endpointSet("TRACES") {
			return nil, fmt.Errorf("%w for traces", ErrNoEndpoint)
		}
		var opts []otlptracegrpc.Option
		if t.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(t.Endpoint))
		}
		if t.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("exporters: unknown tracing exporter %q", t.Name)
	}
}

// NewMetricReader returns the metric reader for t, or nil for none. The
// prometheus reader registers its collector with reg.
func NewMetricReader(ctx context.Context, t Target, reg promclient.Registerer) (sdkmetric.Reader, error) {
	switch t.Name {
	case "none", "":
		return nil, nil
	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(t.writer()))
		if err != nil {
			return nil, fmt.Errorf("exporters: stdout metrics: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	case "otlp":
		if !t.endpointSet("METRICS") {
			return nil, fmt.Errorf("%w for metrics", ErrNoEndpoint)
		}
		var opts []otlpmetricgrpc.Option
		if t.Endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(t.Endpoint))
		}
		if t.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("exporters: otlp metrics: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	case "prometheus":
		if reg == nil {
			return nil, errors.New("exporters: prometheus needs a registerer")
		}
		exp, err := otelprom.New(otelprom.WithRegisterer(reg))
		if err != nil {
			return nil, fmt.Errorf("exporters: prometheus: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("exporters: unknown metrics exporter %q", t.Name)
	}
}
