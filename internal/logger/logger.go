package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oggyb/filmorate/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type Config struct {
	Level      string
	Format     Format
	Component  string
	WithSource bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// defaultConfig is what L() falls back to before Init is called.
var defaultConfig = Config{Level: "info", Format: FormatText}

var (
	mu     sync.RWMutex
	global *slog.Logger
	level  slog.Level
)

// FromAppConfig maps the LOG_* settings onto a logger Config.
func FromAppConfig(c *config.Config) Config {
	if c == nil {
		return defaultConfig
	}
	return Config{
		Level:      c.Log.Level,
		Format:     Format(c.Log.Format),
		Component:  c.Log.Component,
		WithSource: c.Log.Source,
	}
}

// New builds a standalone logger. Text output uses a short timestamp; JSON
// keeps RFC 3339.
func New(c Config) *slog.Logger {
	format := Format(strings.ToLower(string(c.Format)))
	opts := &slog.HandlerOptions{
		Level:     parseLevel(c.Level),
		AddSource: c.WithSource,
	}
	if format != FormatJSON {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.DateTime))
			}
			return a
		}
	}

	out := c.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	}

	l := slog.New(handler)
	if c.Component != "" {
		l = l.With("component", c.Component)
	}
	return l
}

// InitFromConfig initializes global logger from app config.
func InitFromConfig(c *config.Config) {
	cfg := FromAppConfig(c)
	Init(&cfg)
}

// Init replaces the global logger. nil means defaultConfig. Safe to call
// multiple times.
func Init(c *Config) {
	cfg := defaultConfig
	if c != nil {
		cfg = *c
	}
	l := New(cfg)

	mu.Lock()
	defer mu.Unlock()
	global = l
	level = parseLevel(cfg.Level)
}

// L returns the global logger. Always returns a non-nil instance.
func L() *slog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	Init(nil)
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Level returns the minimum level of the global logger.
func Level() slog.Level {
	_ = L()
	mu.RLock()
	defer mu.RUnlock()
	return level
}

func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

type ctxKey struct{}

// NewContext returns a copy of ctx carrying l, typically a request-scoped child.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by NewContext, or fallback when none
// is present. A nil fallback means the global logger.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return L()
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
