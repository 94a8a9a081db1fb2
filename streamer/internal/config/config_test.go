package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 40*time.Millisecond, cfg.Stream.Interval)
	require.Equal(t, Text("Hello! This is a streaming AI response. You will see this text appear gradually."), cfg.Stream.Text)
	require.Equal(t, LogFormatText, cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	file := writeConfig(t, `
http_addr: 127.0.0.1:9000
stream:
  text: "hi"
  interval: 10ms
websocket:
  min_flush_interval: 50ms
  max_flush_interval: 10ms
log:
  format: JSON
`)

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	require.Equal(t, Text("hi"), cfg.Stream.Text)
	require.Equal(t, 10*time.Millisecond, cfg.Stream.Interval)
	require.Equal(t, 50*time.Millisecond, cfg.WebSocket.MaxFlushInterval, "max is raised to min")
	require.Equal(t, LogFormatJSON, cfg.Log.Format)
	require.Equal(t, 1000, cfg.History.LogSize, "untouched values keep defaults")
}

func TestLoadConfigEmptyText(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "stream:\n  text: \"\"\n"))
	require.NoError(t, err)
	require.Empty(t, cfg.Stream.Text)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to open config file")

	_, err = LoadConfig(writeConfig(t, "stream: [1, 2"))
	require.ErrorContains(t, err, "failed to parse config file")

	_, err = LoadConfig(writeConfig(t, "log:\n  format: xml\n"))
	require.ErrorContains(t, err, `unknown log format "xml"`)

	_, err = LoadConfig(writeConfig(t, "stream:\n  interval: -1s\nhistory:\n  event_size: 0\n"))
	require.ErrorContains(t, err, "stream.interval must not be negative")
	require.ErrorContains(t, err, "history.event_size must be positive")
}
