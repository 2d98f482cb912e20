package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestTruncateHandler tests attribute value truncation.
func TestTruncateHandler(t *testing.T) {
	t.Parallel()

	t.Run("long string values are truncated", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := slog.New(NewTruncateHandler(inner, 10))

		logger.Info("fetched page", "body", strings.Repeat("x", 100))

		out := buf.String()
		if !strings.Contains(out, truncationMark) {
			t.Errorf("expected truncation mark in output: %s", out)
		}
		if strings.Contains(out, strings.Repeat("x", 11)) {
			t.Errorf("expected value capped at 10 chars: %s", out)
		}
	})

	t.Run("short values pass through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := slog.New(NewTruncateHandler(inner, 64))

		logger.Info("parsed rows", "slug", "some_rfc", "rows", 20)

		out := buf.String()
		if !strings.Contains(out, "some_rfc") {
			t.Errorf("expected untouched value in output: %s", out)
		}
		if strings.Contains(out, truncationMark) {
			t.Errorf("unexpected truncation: %s", out)
		}
	})

	t.Run("group attributes are truncated recursively", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := slog.New(NewTruncateHandler(inner, 10))

		logger.Info("fetch",
			slog.Group("page", slog.String("body", strings.Repeat("y", 50))),
		)

		if !strings.Contains(buf.String(), truncationMark) {
			t.Errorf("expected truncation inside group: %s", buf.String())
		}
	})
}

// TestNew tests logger construction and level selection.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("verbose logger emits debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(&buf, true)
		logger.Debug("crawl started")
		if !strings.Contains(buf.String(), "crawl started") {
			t.Error("expected debug output in verbose mode")
		}
	})

	t.Run("quiet logger suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(&buf, false)
		logger.Info("crawl started")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}
	})
}
