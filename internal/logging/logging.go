// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging is the structured event sink used by the client core.
// Callers pass a component, an event name and fields; the core never
// formats human-readable text itself.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Fields is the metadata attached to one event.
type Fields map[string]any

// Logger emits structured events. The zero value is not usable; use New
// or Nop.
type Logger struct {
	zl zerolog.Logger
}

// New returns a logger writing JSON lines to w at the given level. When
// pretty is set, events are rendered with zerolog's console writer.
func New(w io.Writer, level string, pretty bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	zl := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards every event.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// map to info; "warning" is accepted as an alias.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Debug records a debug event.
func (l *Logger) Debug(component, event string, fields Fields) {
	l.emit(l.zl.Debug(), component, event, fields)
}

// Info records an informational event.
func (l *Logger) Info(component, event string, fields Fields) {
	l.emit(l.zl.Info(), component, event, fields)
}

// Warn records a warning event.
func (l *Logger) Warn(component, event string, fields Fields) {
	l.emit(l.zl.Warn(), component, event, fields)
}

// Error records a failure together with its error value.
func (l *Logger) Error(component, event string, err error, fields Fields) {
	l.emit(l.zl.Error().Err(err), component, event, fields)
}

func (l *Logger) emit(e *zerolog.Event, component, event string, fields Fields) {
	if e == nil {
		return
	}
	e.Str("component", component).Fields(map[string]any(fields)).Msg(event)
}

// OrNop lets packages accept a nil *Logger.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}
