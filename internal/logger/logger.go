// Package logger owns the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oggyb/muzz-dating/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

const redacted = "[redacted]"

// sensitiveKeys never reach the output with their value.
var sensitiveKeys = map[string]struct{}{
	"password": {},
	"dsn":      {},
	"token":    {},
}

type Config struct {
	Level      string
	Format     Format
	Component  string
	Env        string
	WithSource bool
	// Output defaults to stdout.
	Output io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	active  = Config{Level: "info", Format: FormatText}
)

// InitFromConfig initializes the global logger from app config.
func InitFromConfig(c *config.Config) {
	if c == nil {
		Init(nil)
		return
	}
	Init(&Config{
		Level:      c.Log.Level,
		Format:     Format(strings.ToLower(c.Log.Format)),
		Component:  c.Log.Component,
		Env:        c.App.ENV,
		WithSource: c.Log.Source,
	})
}

// Init sets up the global logger. Safe to call multiple times; nil keeps the
// previous settings.
func Init(c *Config) {
	mu.Lock()
	defer mu.Unlock()

	if c != nil {
		active = *c
	}
	current = build(active)
}

func build(c Config) *slog.Logger {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(c.Level),
		AddSource: c.WithSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
				return slog.String(a.Key, redacted)
			}
			if a.Key == slog.TimeKey && c.Format != FormatJSON {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.DateTime))
			}
			return a
		},
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if c.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	}

	var attrs []any
	if c.Component != "" {
		attrs = append(attrs, "component", c.Component)
	}
	if c.Env != "" {
		attrs = append(attrs, "env", c.Env)
	}
	return slog.New(handler).With(attrs...)
}

// L returns the global logger, initializing defaults on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = build(active)
	}
	return current
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// IsDebug reports whether the global logger emits debug records. The
// database layer uses it to turn on SQL tracing.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return parseLevel(active.Level) == slog.LevelDebug
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
