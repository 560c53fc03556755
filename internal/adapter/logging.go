package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

// SetupLogger builds the run logger. With logging.file set, JSON lines are
// appended to that path after %name% expansion through expander. Without
// one, WARN and above go to console as text; a nil console discards
// everything.
func SetupLogger(cfg *LoggingConfig, console io.Writer, expander domain.PathExpander) (*slog.Logger, error) {
	level := parseLogLevel(cfg.Level)

	if cfg.File == "" {
		if console == nil {
			return NullLogger(), nil
		}
		return slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: max(level, slog.LevelWarn),
		})), nil
	}

	logPath := cfg.File
	if expander != nil {
		expanded, err := expander.Expand(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to expand log file path: %w", err)
		}
		logPath = expanded
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level})), nil
}

// parseLogLevel maps a config level name to slog; unknown names are INFO
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
