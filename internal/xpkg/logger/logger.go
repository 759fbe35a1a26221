package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logger shared by every mode of the binary.
type Logger interface {
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

type logger struct {
	l *slog.Logger
}

// New returns a JSON logger tagged with the service name and hostname.
func New(service string, level slog.Level, w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	hostname, _ := os.Hostname()

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &logger{
		l: slog.New(h).With("service", service, "hostname", hostname),
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
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

func (lg *logger) Action(action string) Logger {
	return &logger{l: lg.l.With("action", action)}
}

func (lg *logger) With(args ...any) Logger {
	return &logger{l: lg.l.With(args...)}
}

func (lg *logger) WithGroup(name string) Logger {
	return &logger{l: lg.l.WithGroup(name)}
}

func (lg *logger) Debug(msg string, args ...any) {
	lg.l.Debug(msg, args...)
}

func (lg *logger) Info(msg string, args ...any) {
	lg.l.Info(msg, args...)
}

func (lg *logger) Warn(msg string, args ...any) {
	lg.l.Warn(msg, args...)
}

func (lg *logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	lg.l.Error(msg, args...)
}

// Discard returns a logger that drops every entry. Used by tests.
func Discard() Logger {
	return &logger{l: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}
