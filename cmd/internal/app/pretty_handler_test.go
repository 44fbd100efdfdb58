package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyHandler_FormatsRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)

	r := slog.NewRecord(time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC), slog.LevelInfo, "poll cycle", 0)
	r.AddAttrs(slog.String("partner", "u1"), slog.Int64("msg_id", 42))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	line := buf.String()
	for _, want := range []string{"lvl=[INFO]", "msg=poll", "partner=u1", "msg_id=42"} {
		if !strings.Contains(line, want) {
			t.Fatalf("output %q missing %q", line, want)
		}
	}
}

func TestPrettyHandler_QuotesValuesWithSpaces(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, nil, false)

	r := slog.NewRecord(time.Now(), slog.LevelWarn, "send failed", 0)
	r.AddAttrs(slog.String("err", "connection refused"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if !strings.Contains(buf.String(), `err="connection refused"`) {
		t.Fatalf("output %q not quoted", buf.String())
	}
}

func TestPrettyHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := newPrettyHandler(&buf, nil, false)
	h := base.WithAttrs([]slog.Attr{slog.String("chat_session", "abc")}).WithGroup("db")

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "insert", 0)
	r.AddAttrs(slog.String("table", "messages"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "db.chat_session=abc") {
		t.Fatalf("output %q missing grouped base attr", line)
	}
	if !strings.Contains(line, "db.table=messages") {
		t.Fatalf("output %q missing grouped record attr", line)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := newPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, false)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn threshold")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn threshold")
	}
}

func TestLevelTag_ColorsDistinct(t *testing.T) {
	t.Parallel()

	tags := map[string]string{
		levelTag(slog.LevelDebug, true): "debug",
		levelTag(slog.LevelInfo, true):  "info",
		levelTag(slog.LevelWarn, true):  "warn",
		levelTag(slog.LevelError, true): "error",
	}
	if len(tags) != 4 {
		t.Fatalf("expected 4 distinct colored tags, got %d", len(tags))
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"plain", "plain"},
		{"a b", `"a b"`},
		{`k=v`, `"k=v"`},
	}
	for _, tc := range cases {
		if got := quoteIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteIfNeeded(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}
