package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.Level)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected string
	}{
		{"debug", "debug", "DEBUG"},
		{"Debug uppercase", "DEBUG", "DEBUG"},
		{"info", "info", "INFO"},
		{"warn", "warn", "WARN"},
		{"warning alias", "warning", "WARN"},
		{"error", "error", "ERROR"},
		{"unknown defaults to info", "unknown", "INFO"},
		{"empty defaults to info", "", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := parseLevel(tt.level)
			assert.Equal(t, tt.expected, level.String())
		})
	}
}

func TestSetupWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(Config{Format: "text", Level: "info"}, &buf)

	Info("hello", "key", "value")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "key=value")
}

func TestSetupWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(Config{Format: "json", Level: "info"}, &buf)

	Info("hello", "key", "value")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "value", record["key"])
}

func TestSetupWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(Config{Format: "text", Level: "warn"}, &buf)

	Debug("too quiet")
	Info("still too quiet")
	Warn("audible")

	out := buf.String()
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "audible")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(Config{Format: "text", Level: "info"}, &buf)

	With("component", "scanner").Info("started")
	assert.Contains(t, buf.String(), "component=scanner")
}

func TestGet_ReturnsDefaultBeforeSetup(t *testing.T) {
	// Reset global logger for this test
	oldLogger := logger
	logger = nil
	defer func() { logger = oldLogger }()

	got := Get()
	assert.NotNil(t, got)
}

func TestLogFunctions_DoNotPanic(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(DefaultConfig(), &buf)

	assert.NotPanics(t, func() { Debug("test message") })
	assert.NotPanics(t, func() { Info("test message") })
	assert.NotPanics(t, func() { Warn("test message") })
	assert.NotPanics(t, func() { Error("test message") })

	assert.Equal(t, 3, strings.Count(buf.String(), "test message"))
}
