package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default JSON logger. When logFile is set, output is
// mirrored into a rotating file.
func Setup(service, level, logFile string) *slog.Logger {
	var w io.Writer = os.Stdout
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
			slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error(
				"failed to create log directory", "path", filepath.Dir(logFile), "error", err,
			)
		} else {
			w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    5,
				MaxBackups: 3,
				MaxAge:     30,
				Compress:   true,
			})
		}
	}

	logger := New(w, service, level)
	slog.SetDefault(logger)
	return logger
}

// New builds a JSON logger writing to w.
func New(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return slog.New(handler).With("service", service)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	slog.Default().LogAttrs(context.Background(), slog.LevelInfo, msg, attrs(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	slog.Default().LogAttrs(context.Background(), slog.LevelWarn, msg, attrs(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	slog.Default().LogAttrs(context.Background(), slog.LevelError, msg, attrs(fields)...)
}

func attrs(fields map[string]any) []slog.Attr {
	out := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out = append(out, slog.Any(k, v))
	}
	return out
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
