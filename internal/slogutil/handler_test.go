package slogutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	h := NewHandler(buf, &slog.HandlerOptions{Level: level})
	h.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }
	return slog.New(h)
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	r := slog.NewRecord(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), slog.LevelWarn, "fix computation failed", 0)
	r.AddAttrs(slog.String("code", "namespace-hash-mismatch"), slog.Int("offset", 42))
	if err := h.Handle(t.Context(), r); err != nil {
		t.Fatal(err)
	}
	want := "2024-01-15T10:30:00Z [warn] fix computation failed | code=namespace-hash-mismatch offset=42\n"
	if got := buf.String(); got != want {
		t.Fatalf("line = %q", got)
	}
}

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("shown")
	logger.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record leaked: %s", out)
	}
	if !strings.Contains(out, "[info] shown") || !strings.Contains(out, "[error] also shown") {
		t.Fatalf("output = %s", out)
	}
}

func TestHandlerGroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf, slog.LevelDebug).With("file", "src/My Token.sol").WithGroup("solc")
	logger.Debug("resolved", "version", "0.8.27", slog.Group("from", "source", "foundry.toml"))

	out := buf.String()
	for _, want := range []string{`file="src/My Token.sol"`, "solc.version=0.8.27", "solc.from.source=foundry.toml"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestHandlerNoAttrsHasNoSeparator(t *testing.T) {
	var buf bytes.Buffer
	fixedLogger(&buf, slog.LevelInfo).Info("ready")
	if strings.Contains(buf.String(), "|") {
		t.Fatalf("unexpected separator: %q", buf.String())
	}
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"off":     LevelOff,
		"bogus":   slog.LevelWarn,
	}
	for in, want := range tests {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{5, false, slog.LevelDebug},
		{3, true, LevelOff},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity, tt.quiet); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
		}
	}
}

func TestDiscardLoggerIsDisabled(t *testing.T) {
	if NewDiscardLogger().Enabled(t.Context(), slog.LevelError) {
		t.Fatal("discard logger should be disabled")
	}
}
