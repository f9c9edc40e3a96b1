package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMiddleware_SuccessPath(t *testing.T) {
	rec, tracer := newTestTracer()
	reader, mp := newTestMeter(t)
	metrics, _ := NewMetrics(mp.Meter("test"))

	mw := NewMiddleware(tracer, metrics, NopLogger())
	wrapped := mw.Wrap(func(ctx context.Context, meta OperationMeta) (Outcome, error) {
		return Outcome{Mode: "yaml", CacheHit: true}, nil
	})

	out, err := wrapped(context.Background(), OperationMeta{Component: "convert", Name: "convert", Mode: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Mode != "yaml" || !out.CacheHit {
		t.Errorf("outcome not passed through: %+v", out)
	}

	if spans := rec.Ended(); len(spans) != 1 || spans[0].Name() != "convert.convert" {
		t.Fatalf("unexpected spans: %v", spans)
	}
	if findMetric(collect(t, reader), "operation.total") == nil {
		t.Error("operation.total not recorded")
	}
}

func TestMiddleware_ErrorPropagatesAndLogs(t *testing.T) {
	var buf bytes.Buffer
	mw := NewMiddleware(nil, nil, NewLoggerWithWriter("info", "json", &buf))
	testErr := errors.New("yaml: mapping values are not allowed in this context")

	_, err := mw.Wrap(func(context.Context, OperationMeta) (Outcome, error) {
		return Outcome{}, testErr
	})(context.Background(), OperationMeta{Name: "format"})

	if !errors.Is(err, testErr) {
		t.Fatalf("err = %v, want %v", err, testErr)
	}
	out := buf.String()
	if !strings.Contains(out, "operation failed") || !strings.Contains(out, "mapping values") {
		t.Errorf("failure not logged: %s", out)
	}
}

func TestMiddleware_ContextCarriesSpan(t *testing.T) {
	_, tracer := newTestTracer()
	mw := NewMiddleware(tracer, nil, nil)

	_, _ = mw.Wrap(func(ctx context.Context, _ OperationMeta) (Outcome, error) {
		if ctx == context.Background() {
			t.Error("wrapped function received the parent context, want span context")
		}
		return Outcome{}, nil
	})(context.Background(), OperationMeta{Name: "parse"})
}

func TestMiddlewareFromObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("err = %v, want ErrNilObserver", err)
	}

	obs, err := NewObserver(context.Background(), Config{ServiceName: "snipfmt"})
	if err != nil {
		t.Fatal(err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil || mw == nil {
		t.Fatalf("MiddlewareFromObserver = %v, %v", mw, err)
	}
}

func TestNopMiddleware(t *testing.T) {
	calls := 0
	_, _ = NopMiddleware().Wrap(func(context.Context, OperationMeta) (Outcome, error) {
		calls++
		return Outcome{}, nil
	})(context.Background(), OperationMeta{Name: "x"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
