package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

// Logger is the structured logger carried on every context in framekit.
type Logger interface {
	Debug(msg string, tags ...any)
	Info(msg string, tags ...any)
	Warn(msg string, tags ...any)
	Error(msg string, tags ...any)

	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)

	With(attrs ...any) Logger
	WithGroup(name string) Logger
}

var _ Logger = (*appLogger)(nil)

type appLogger struct {
	logger *slog.Logger
}

// Config holds logger construction options.
type Config struct {
	debug  bool
	format string
	writer io.Writer
	quiet  bool
	stderr io.Writer
}

// Option configures a logger.
type Option func(*Config)

// WithDebug lowers the level to debug and records the source location.
func WithDebug() Option {
	return func(c *Config) {
		c.debug = true
	}
}

// WithFormat selects "text" or "json" output.
func WithFormat(format string) Option {
	return func(c *Config) {
		c.format = format
	}
}

// WithWriter adds a second destination, e.g. a log file.
func WithWriter(w io.Writer) Option {
	return func(c *Config) {
		c.writer = w
	}
}

// WithQuiet suppresses the console destination.
func WithQuiet() Option {
	return func(c *Config) {
		c.quiet = true
	}
}

// WithConsole replaces stderr as the console destination.
func WithConsole(w io.Writer) Option {
	return func(c *Config) {
		c.stderr = w
	}
}

var defaultLogger = NewLogger(WithFormat("text"))

// NewLogger builds a logger that fans out to the console and, optionally,
// to an extra writer.
func NewLogger(opts ...Option) Logger {
	cfg := &Config{stderr: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.debug,
	}

	var handlers []slog.Handler
	if !cfg.quiet {
		handlers = append(handlers, newHandler(cfg.stderr, cfg.format, handlerOpts))
	}
	if cfg.writer != nil {
		handlers = append(handlers, &lockedHandler{
			handler: newHandler(cfg.writer, cfg.format, handlerOpts),
			mu:      &sync.Mutex{},
		})
	}

	return &appLogger{logger: slog.New(slogmulti.Fanout(handlers...))}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

var _ slog.Handler = (*lockedHandler)(nil)

// lockedHandler serializes records written to a shared writer. Derived
// handlers share the parent's mutex.
type lockedHandler struct {
	handler slog.Handler
	mu      *sync.Mutex
}

func (h *lockedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *lockedHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handler.Handle(ctx, record)
}

func (h *lockedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &lockedHandler{handler: h.handler.WithAttrs(attrs), mu: h.mu}
}

func (h *lockedHandler) WithGroup(name string) slog.Handler {
	return &lockedHandler{handler: h.handler.WithGroup(name), mu: h.mu}
}

func (a *appLogger) Debug(msg string, tags ...any) { a.logger.Debug(msg, tags...) }
func (a *appLogger) Info(msg string, tags ...any)  { a.logger.Info(msg, tags...) }
func (a *appLogger) Warn(msg string, tags ...any)  { a.logger.Warn(msg, tags...) }
func (a *appLogger) Error(msg string, tags ...any) { a.logger.Error(msg, tags...) }

func (a *appLogger) Debugf(format string, v ...any) { a.logger.Debug(fmt.Sprintf(format, v...)) }
func (a *appLogger) Infof(format string, v ...any)  { a.logger.Info(fmt.Sprintf(format, v...)) }
func (a *appLogger) Warnf(format string, v ...any)  { a.logger.Warn(fmt.Sprintf(format, v...)) }
func (a *appLogger) Errorf(format string, v ...any) { a.logger.Error(fmt.Sprintf(format, v...)) }

func (a *appLogger) With(attrs ...any) Logger {
	return &appLogger{logger: a.logger.With(attrs...)}
}

func (a *appLogger) WithGroup(name string) Logger {
	return &appLogger{logger: a.logger.WithGroup(name)}
}
