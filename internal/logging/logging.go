package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"spaceweather-backend/internal/config"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Init installs the process-wide slog logger. Logs go to stderr unless
// cfg.LogFile is set, in which case they go to a rotating file. slog.SetDefault
// also routes the std log package through the same handler.
func Init(cfg *config.Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	logPath := strings.TrimSpace(cfg.LogFile)
	if logPath == "" {
		logger := slog.New(newConsoleHandler(cfg, os.Stderr, opts))
		slog.SetDefault(logger)
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		logger := slog.New(newConsoleHandler(cfg, os.Stderr, opts))
		slog.SetDefault(logger)
		return logger, err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	logger := slog.New(newHandler(cfg.LogFormat, writer, opts))
	slog.SetDefault(logger)
	return logger, nil
}

func newConsoleHandler(cfg *config.Config, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if cfg.IsDevelopment() && strings.ToLower(strings.TrimSpace(cfg.LogFormat)) != "json" {
		return tint.NewHandler(out, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.Kitchen,
		})
	}
	return newHandler(cfg.LogFormat, out, opts)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(out, opts)
	default:
		return slog.NewTextHandler(out, opts)
	}
}
