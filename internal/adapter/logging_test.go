package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestSetupLogger_Stderr(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&LoggingConfig{Level: "WARN"}, &buf, nil)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "file", "messages.po")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "file=messages.po")
}

func TestSetupLogger_ConsoleOnlyWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&LoggingConfig{Level: "DEBUG"}, &buf, nil)
	require.NoError(t, err)

	logger.Debug("debug line")
	logger.Info("downloading catalogue", "file", "messages.po")
	logger.Warn("transfer skipped", "file", "forms.po")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "downloading catalogue")
	assert.Contains(t, out, "transfer skipped")
}

func TestSetupLogger_NoConsoleDiscards(t *testing.T) {
	logger, err := SetupLogger(&LoggingConfig{Level: "DEBUG"}, nil, nil)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestSetupLogger_UnknownPlaceholder(t *testing.T) {
	_, err := SetupLogger(&LoggingConfig{File: "%nope%/sync.log"}, nil, NewPlaceholderExpander(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to expand log file path")
}

func TestSetupLogger_File(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "logs", "sync.log")
	expander := NewPlaceholderExpander(map[string]string{"appdir": root})

	logger, err := SetupLogger(&LoggingConfig{File: "%appDir%/logs/sync.log", Level: "DEBUG"}, nil, expander)
	require.NoError(t, err)
	logger.Debug("exported", "locale", "cs")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "exported", entry["msg"])
	assert.Equal(t, "cs", entry["locale"])
}
