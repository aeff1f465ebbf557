// Package logging builds the slog loggers used by the server and the CLI and
// carries request-scoped loggers through context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace sits below debug. Per-row import detail and request start lines
// are logged at this level.
const LevelTrace = slog.Level(-8)

// Config selects the level, terminal format and optional rolling file.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, text, pretty
	Service string
	Version string
	File    FileConfig
}

// FileConfig describes the rolling JSON file written next to the terminal
// output.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns a logger writing to stdout.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter returns a logger writing cfg.Format to w, plus JSON to the
// rolling file when one is configured. Sensitive attributes are masked on
// every sink. Each record carries service_name and service_version.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: NewReplaceAttr()}

	var handler slog.Handler = terminalHandler(cfg.Format, w, opts)

	if file := cfg.File; file.Enabled && file.Path != "" {
		handler = fanout{handler, slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   file.Compress,
		}, opts)}
	}

	return slog.New(handler).With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)
}

func terminalHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "pretty":
		charm := log.NewWithOptions(w, log.Options{
			Level:           charmLevel(opts.Level.Level()),
			ReportTimestamp: true,
		})

		return &masked{next: charm, replace: opts.ReplaceAttr}
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

var levels = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel maps a level name onto slog, defaulting to info.
func parseLevel(name string) slog.Level {
	if level, ok := levels[strings.ToLower(name)]; ok {
		return level
	}

	return slog.LevelInfo
}

// charmLevel maps slog levels onto charm's four levels. Trace folds into debug.
func charmLevel(level slog.Level) log.Level {
	switch {
	case level >= slog.LevelError:
		return log.ErrorLevel
	case level >= slog.LevelWarn:
		return log.WarnLevel
	case level >= slog.LevelInfo:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// masked runs replace over every attribute before passing the record on.
// charm's handler has no ReplaceAttr hook of its own.
type masked struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func (m *masked) Enabled(ctx context.Context, level slog.Level) bool {
	return m.next.Enabled(ctx, level)
}

func (m *masked) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(m.replace(m.groups, a))
		return true
	})

	return m.next.Handle(ctx, clean)
}

func (m *masked) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		clean = append(clean, m.replace(m.groups, a))
	}

	return &masked{next: m.next.WithAttrs(clean), replace: m.replace, groups: m.groups}
}

func (m *masked) WithGroup(name string) slog.Handler {
	groups := make([]string, len(m.groups), len(m.groups)+1)
	copy(groups, m.groups)

	return &masked{next: m.next.WithGroup(name), replace: m.replace, groups: append(groups, name)}
}
