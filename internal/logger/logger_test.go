package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestLogger_WritesJSONWithServiceAndTrace(t *testing.T) {
	var buf bytes.Buffer
	traceFn := func(context.Context) string { return "abc123" }
	log := New(&buf, LevelInfo, "swap-explorer", traceFn)

	log.Info(context.Background(), "catalog loaded", "tokens", 42)

	var rec map[string]any
	if err := jsoniter.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if rec["msg"] != "catalog loaded" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["service"] != "swap-explorer" {
		t.Errorf("service = %v", rec["service"])
	}
	if rec["trace_id"] != "abc123" {
		t.Errorf("trace_id = %v", rec["trace_id"])
	}
	if rec["tokens"] != float64(42) {
		t.Errorf("tokens = %v", rec["tokens"])
	}
	if caller, _ := rec["caller"].(string); !strings.HasPrefix(caller, "logger_test.go:") {
		t.Errorf("caller = %v", rec["caller"])
	}
}

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "svc", nil)

	log.Debug(context.Background(), "debug")
	log.Info(context.Background(), "info")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	log.Error(context.Background(), "boom")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error record, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"loud":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
