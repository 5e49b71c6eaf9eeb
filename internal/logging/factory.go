package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// Options selects and tunes a Logger implementation.
type Options struct {
	Backend string // "zerolog" (default) or "slog"
	Level   string // debug, info, warn, error
	Format  string // json (default) or console
}

// New builds a Logger writing to w according to opts.
func New(w io.Writer, opts Options) Logger {
	if strings.EqualFold(opts.Backend, "slog") {
		return NewSlogLogger(NewSlog(w, opts))
	}

	zl := zerolog.New(w)
	if strings.EqualFold(opts.Format, "console") {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w})
	}
	zl = zl.Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
	return NewZerologLogger(zl)
}

// NewSlog builds the *slog.Logger used by components that need the stdlib
// type directly (the supervisor event hook).
func NewSlog(w io.Writer, opts Options) *slog.Logger {
	ho := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
	if strings.EqualFold(opts.Format, "console") {
		return slog.New(slog.NewTextHandler(w, ho))
	}
	return slog.New(slog.NewJSONHandler(w, ho))
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

func zerologLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
