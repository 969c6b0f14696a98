package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" ERROR ": slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "INFO").Info("set issues", "keys", 2)

	rec := decode(t, &buf)
	if rec["msg"] != "set issues" {
		t.Errorf("expected msg 'set issues', got %v", rec["msg"])
	}
	if rec["service"] != "trackforever" {
		t.Errorf("expected service trackforever, got %v", rec["service"])
	}
	if _, ok := rec["source"]; !ok {
		t.Error("expected source attribute")
	}
	if _, ok := rec["stacktrace"]; ok {
		t.Error("INFO records must not carry a stack trace")
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "WARN")
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected INFO to be filtered, got %q", buf.String())
	}
	logger.Debug("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected DEBUG to be filtered, got %q", buf.String())
	}
}

func TestNew_ErrorHasStack(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "").With("op", "set projects").Error("store failure")

	rec := decode(t, &buf)
	trace, ok := rec["stacktrace"].(string)
	if !ok || !strings.Contains(trace, "goroutine") {
		t.Errorf("expected stack trace, got %v", rec["stacktrace"])
	}
	if rec["op"] != "set projects" {
		t.Errorf("expected op attribute to survive WithAttrs, got %v", rec["op"])
	}
}
