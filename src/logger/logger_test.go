package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})

	log.Debug("hidden %d", 1)
	log.Info("downloaded %d files", 3)
	log.Error("extract failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (debug filtered): %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "downloaded 3 files" {
		t.Errorf("message = %v, want formatted message", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
}

func TestConsoleLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf}).With("component", "archive")

	log.Debug("literal %s")

	if !strings.Contains(buf.String(), `"component":"archive"`) {
		t.Errorf("missing component field: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "literal %s") {
		t.Errorf("message without args should not be formatted: %s", buf.String())
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	Named(New(Options{Output: &buf}), "broker").Info("ready")
	if !strings.Contains(buf.String(), `"component":"broker"`) {
		t.Errorf("missing component field: %s", buf.String())
	}

	silent := NewSilentLogger()
	if Named(silent, "broker") != Logger(silent) {
		t.Error("Named should return loggers without fields unchanged")
	}
}

func TestSilentLogger(t *testing.T) {
	var l Logger = NewSilentLogger()
	l.Info("x")
	l.Error("y")
	l.Debug("z")
}
