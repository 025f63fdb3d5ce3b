package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).Named("refine").With("cycle_id", "c-1")

	logger.Info("game refined", "event_id", "401", "err", errors.New("boom"), 42, "odd", "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	got := entries[0].ContextMap()
	if got["cycle_id"] != "c-1" || got["event_id"] != "401" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if got["err"] != "boom" {
		t.Fatalf("expected error field, got %v", got["err"])
	}
	if got["arg"] != "odd" {
		t.Fatalf("expected non-string key to become arg, got %v", got["arg"])
	}
	if _, ok := got["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
	if entries[0].LoggerName != "refine" {
		t.Fatalf("expected logger name refine, got %q", entries[0].LoggerName)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "orphan delete failed")
	logger.DebugContext(ctx, "filtered out")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry above level, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("unexpected trace fields: %v", fields)
	}
}

func TestNew_WritesJSONToOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("cycle finished", "refined", 3)
	logger.Debug("not written")
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, `"msg":"cycle finished"`) || !strings.Contains(out, `"refined":3`) {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Contains(out, "not written") {
		t.Fatalf("debug line should be filtered: %s", out)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil || logger.Named("x") == nil {
		t.Fatalf("expected nop loggers")
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}
}

func TestSetMirror_ReceivesBoundArgs(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core)).With("cycle_id", "c-9")

	var gotMsg string
	var gotArgs []any
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		if level == LevelInfo {
			gotMsg, gotArgs = msg, args
		}
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.Info("cycle finished", "refined", 2)
	logger.Debug("below level")

	if gotMsg != "cycle finished" {
		t.Fatalf("mirror got msg %q", gotMsg)
	}
	if len(gotArgs) != 4 || gotArgs[0] != "cycle_id" || gotArgs[3] != 2 {
		t.Fatalf("mirror got args %v", gotArgs)
	}
}
