package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{"INFO", LogLevelInfo},
		{" debug ", LogLevelDebug},
		{"TRACE", LogLevelTrace},
		{"", LogLevelInfo},
		{"bogus", LogLevelInfo},
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	l := NewLogger(LogLevelWarn)
	l.Error("e1")
	l.Warn("w1")
	l.Info("i1")
	l.Debug("d1")

	out := buf.String()
	if !strings.Contains(out, "[ERROR] e1") || !strings.Contains(out, "[WARN] w1") {
		t.Errorf("Expected error and warn lines, got: %q", out)
	}
	if strings.Contains(out, "i1") || strings.Contains(out, "d1") {
		t.Errorf("Info/debug leaked past WARN gate: %q", out)
	}
}

func TestNamedLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	NewLogger(LogLevelInfo).Named("loader").Info("loaded %d rows", 42)

	if !strings.Contains(buf.String(), "[INFO] [loader] loaded 42 rows") {
		t.Errorf("Expected component tag in output, got: %q", buf.String())
	}
}
