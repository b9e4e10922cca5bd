// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("algorithm", "kmeans").Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
	if !strings.Contains(output, `"algorithm":"kmeans"`) {
		t.Errorf("expected structured field in output, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	if !ValidLevel("WARN") {
		t.Error("expected WARN to be valid")
	}
	if ValidLevel("verbose") {
		t.Error("expected verbose to be invalid")
	}
}

func TestCtxAddsIdentifiers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr1234")

	Ctx(ctx).Info().Msg("hello")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-1"`) {
		t.Errorf("expected request_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"correlation_id":"corr1234"`) {
		t.Errorf("expected correlation_id in output, got: %s", output)
	}
}

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if id := GenerateCorrelationID(); len(id) != 8 {
		t.Errorf("expected 8-character correlation ID, got %d", len(id))
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 {
		t.Errorf("expected 36-character request ID, got %d", len(a))
	}
	if a == b {
		t.Error("expected unique request IDs")
	}
}

func TestSlogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))
	logger.WithGroup("svc").Info("service started", "name", "dataset-preload", "attempt", 1)

	output := buf.String()
	if !strings.Contains(output, `"svc.name":"dataset-preload"`) {
		t.Errorf("expected grouped key in output, got: %s", output)
	}
	if !strings.Contains(output, `"svc.attempt":1`) {
		t.Errorf("expected int attribute in output, got: %s", output)
	}
	if !strings.Contains(output, "service started") {
		t.Errorf("expected message in output, got: %s", output)
	}
}
