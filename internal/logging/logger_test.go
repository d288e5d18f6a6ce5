package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerRespectsLevel(t *testing.T) {
	t.Setenv("PARTICLES_JSON_LOG", "")
	var buf bytes.Buffer
	log := NewLogger("particles", "info", &buf)

	log.Debug("hidden")
	log.Info("shown", "shape", "TORUS")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "shape=TORUS") {
		t.Fatalf("missing info line: %q", out)
	}
}

func TestLogLevelDefault(t *testing.T) {
	t.Setenv("PARTICLES_LOG_LEVEL", "")
	if got := LogLevel(); got != "warn" {
		t.Fatalf("LogLevel() = %q, want warn", got)
	}
	t.Setenv("PARTICLES_LOG_LEVEL", "trace")
	if got := LogLevel(); got != "trace" {
		t.Fatalf("LogLevel() = %q, want trace", got)
	}
}
