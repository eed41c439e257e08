package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type zeroLogger struct {
	logger zerolog.Logger
}

// New creates a zerolog backed logger. Development environments get a
// human readable console writer, everything else emits JSON lines.
func New(env, level string) Logger {
	return NewWithWriter(os.Stdout, env, level)
}

// NewWithWriter is New with an explicit output, used by tests.
func NewWithWriter(w io.Writer, env, level string) Logger {
	out := w
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", "barberbook").
		Logger()
	return &zeroLogger{logger: l}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zeroLogger{logger: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Error logs an error message. err may be nil.
func (l *zeroLogger) Error(msg string, err error) {
	ev := l.logger.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}

// Warn logs a warning message.
func (l *zeroLogger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Info logs an informational message.
func (l *zeroLogger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Debug logs a debug message.
func (l *zeroLogger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}
