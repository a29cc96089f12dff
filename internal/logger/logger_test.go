package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.out {
			t.Errorf("parseLevel(%q)=%v want %v", tt.in, got, tt.out)
		}
	}
}

func TestInitAndWithContext(t *testing.T) {
	Init("debug", "text")
	if defaultLogger == nil {
		t.Fatalf("defaultLogger not initialized")
	}

	ctx := context.WithValue(context.Background(), "request_id", "req-123")
	l := WithContext(ctx)
	if l == nil {
		t.Fatalf("WithContext returned nil")
	}
	l.Info("context logger works")
}
