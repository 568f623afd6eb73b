package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with additional context and structured logging
type Logger struct {
	*slog.Logger
	component string
	closer    io.Closer
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler

	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// Dir enables a rotating log file in this directory next to stdout.
	Dir string

	// Output overrides stdout, mostly for tests.
	Output io.Writer
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
	}
}

// New creates a new logger with the given configuration
func New(config Config) (*Logger, error) {
	var closer io.Closer
	handler := config.Handler
	if handler == nil {
		var writer io.Writer = os.Stdout
		if config.Output != nil {
			writer = config.Output
		}

		if config.Dir != "" {
			if err := os.MkdirAll(config.Dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
			file := &lumberjack.Logger{
				Filename:   filepath.Join(config.Dir, "homekeep.log"),
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     30, // days
				Compress:   true,
			}
			writer = io.MultiWriter(writer, file)
			closer = file
		}

		opts := &slog.HandlerOptions{
			Level:     config.Level,
			AddSource: config.Level == slog.LevelDebug,
		}
		if config.JSON {
			handler = slog.NewJSONHandler(writer, opts)
		} else {
			handler = slog.NewTextHandler(writer, opts)
		}
	}

	return &Logger{
		Logger:    slog.New(handler),
		component: config.Component,
		closer:    closer,
	}, nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
	}
}

// WithComponent returns a plain slog logger tagged with a component name,
// suitable for handing to packages that take *slog.Logger.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.Logger.With(FieldComponent, component)
}

// Info logs at Info level with component context
func (l *Logger) Info(msg string, args ...any) {
	l.Logger.Info(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// InfoContext logs at Info level with context and component
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Logger.InfoContext(ctx, msg, append([]any{FieldComponent, l.component}, args...)...)
}

// Warn logs at Warn level with component context
func (l *Logger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// Error logs at Error level with component context
func (l *Logger) Error(msg string, args ...any) {
	l.Logger.Error(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// Debug logs at Debug level with component context
func (l *Logger) Debug(msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

// Close releases the rotating log file, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
