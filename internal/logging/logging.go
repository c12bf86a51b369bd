// Package logging configures the zerolog loggers used across terra.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a root logger writing to w.
//
// format "json" emits one JSON object per line; anything else uses the
// human-readable console writer.
func Setup(w io.Writer, level, format string) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logging: level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// LineWriter adapts a logger to line-oriented writers such as the HAL logger.
type LineWriter struct {
	logger zerolog.Logger
}

// NewLineWriter wraps l.
func NewLineWriter(l zerolog.Logger) *LineWriter {
	return &LineWriter{logger: l}
}

// WriteLineString logs s at info level.
func (w *LineWriter) WriteLineString(s string) {
	w.logger.Info().Msg(s)
}

// WriteLineBytes logs b at info level.
func (w *LineWriter) WriteLineBytes(b []byte) {
	w.logger.Info().Msg(string(b))
}
