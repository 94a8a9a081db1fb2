package setup

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikhailv/fake-streamer/internal/log"
)

func TestLoggerConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := Logger(LogOptions{Console: &buf}, nil)
	require.NoError(t, err)
	defer closeFn()

	log.WithPrefix(logger, "session").Debug("hidden")
	log.WithPrefix(logger, "session").Info("visible")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `msg="session: visible"`)
}

func TestLoggerFileAndWrap(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var recorder log.Recorder
	logger, closeFn, err := Logger(LogOptions{Debug: true, File: file}, func(h slog.Handler) slog.Handler {
		recorder = log.NewRecorder(h, 10)
		return recorder
	})
	require.NoError(t, err)

	logger.Debug("to file")
	closeFn()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"to file"`)
	require.Equal(t, 1, recorder.Stream().Size())
}

func TestLoggerBadFile(t *testing.T) {
	_, _, err := Logger(LogOptions{File: filepath.Join(t.TempDir(), "missing", "app.log")}, nil)
	require.ErrorContains(t, err, "failed to open log file")
}
