package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf)

	logger.Info(context.Background(), "converted", F("bytes", 12), F("mode", "yaml"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	entry := lines[0]
	if entry["message"] != "converted" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["mode"] != "yaml" {
		t.Errorf("mode = %v", entry["mode"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", "json", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(lines))
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", "json", &buf)

	logger.Info(context.Background(), "upload",
		F("input", "password: hunter2"),
		F("Authorization", "Bearer abc"),
		F("title", "nginx"),
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "Bearer abc") {
		t.Errorf("sensitive value leaked: %s", out)
	}
	entry := decodeLines(t, &buf)[0]
	if entry["input"] != "[REDACTED]" {
		t.Errorf("input = %v, want [REDACTED]", entry["input"])
	}
	if entry["title"] != "nginx" {
		t.Errorf("title = %v", entry["title"])
	}
}

func TestLogger_WithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf).
		WithOperation(OperationMeta{Component: "convert", Name: "format", Mode: "json"})

	logger.Info(context.Background(), "done")

	entry := decodeLines(t, &buf)[0]
	if entry["operation"] != "format" || entry["component"] != "convert" || entry["mode"] != "json" {
		t.Errorf("operation fields missing: %v", entry)
	}
}

func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter("info", "json", &buf).
		Error(context.Background(), "failed", F("error", errors.New("boom")))

	if entry := decodeLines(t, &buf)[0]; entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
}

func TestLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter("info", "console", &buf).Info(context.Background(), "listening", F("addr", ":5000"))

	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, "addr=") {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Info(context.Background(), "x")
	if l.With(F("a", 1)) == nil || l.WithOperation(OperationMeta{Name: "x"}) == nil {
		t.Fatal("NopLogger derivations must be non-nil")
	}
}
