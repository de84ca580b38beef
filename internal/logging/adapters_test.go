// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	l := NewSlogLogger().With("service", "http").WithGroup("req")
	l.Warn("slow", "ms", 1200)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"http"`, `"req.ms":1200`, `"message":"slow"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatermillAdapter(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer Init(DefaultConfig())

	var adapter watermill.LoggerAdapter = NewWatermillAdapterWithLogger(zerolog.New(&buf))
	adapter = adapter.With(watermill.LogFields{"topic": "interaction.recorded"})

	adapter.Error("handler failed", errors.New("boom"), watermill.LogFields{"attempt": 2})
	out := buf.String()
	for _, want := range []string{`"topic":"interaction.recorded"`, `"attempt":2`, `"error":"boom"`, `"message":"handler failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}

	buf.Reset()
	adapter.Debug("subscribed", nil)
	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Errorf("expected debug line: %s", buf.String())
	}
}
