package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions configures the application logger. FilePath is only used
// when Output is "file" or "both".
type LoggerOptions struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	AddSource  bool
}

// NewLogger builds a slog logger: JSON in production, rotated file output
// via lumberjack when requested.
func NewLogger(opts LoggerOptions) *slog.Logger {
	var w io.Writer = os.Stdout
	switch strings.ToLower(opts.Output) {
	case "file":
		w = rotatingWriter(opts)
	case "both":
		w = io.MultiWriter(os.Stdout, rotatingWriter(opts))
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "text" {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	return slog.New(handler)
}

// SetDefaultLogger builds a logger and installs it as the slog default.
func SetDefaultLogger(opts LoggerOptions) *slog.Logger {
	logger := NewLogger(opts)
	slog.SetDefault(logger)
	return logger
}

func rotatingWriter(opts LoggerOptions) io.Writer {
	return &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
