// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf)))

	logger.Warn("service restarted",
		"service", "http-server",
		"attempt", 3,
		"backoff", 2*time.Second,
		"ok", false,
		"err", errors.New("listener closed"),
	)

	entry := decode(t, bytes.TrimSpace(buf.Bytes()))
	if entry["level"] != "warn" || entry["message"] != "service restarted" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["service"] != "http-server" || entry["attempt"] != float64(3) || entry["ok"] != false {
		t.Errorf("attributes missing: %v", entry)
	}
	if entry["err"] != "listener closed" {
		t.Errorf("err = %v, want listener closed", entry["err"])
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf))).
		With("layer", "api").
		WithGroup("supervisor").
		WithGroup("event")

	logger.Info("tick", "name", "cache-gc", slog.Group("counts", "runs", 2))

	entry := decode(t, bytes.TrimSpace(buf.Bytes()))
	for _, key := range []string{"layer", "supervisor.event.name", "supervisor.event.counts.runs"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("key %q missing from %v", key, entry)
		}
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
	if h.WithAttrs(nil) != h {
		t.Error("WithAttrs(nil) should return the same handler")
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
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := withGlobal(t, Config{Level: "info"})

	NewSlogLogger().Info("via slog")
	if !bytes.Contains(buf.Bytes(), []byte("via slog")) {
		t.Errorf("output = %q", buf.String())
	}
}
