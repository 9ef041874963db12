package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/thediveo/enumflag/v2"
)

// Level is the minimum severity a message must have to be emitted.
type Level enumflag.Flag

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LevelIDs maps levels to the spellings accepted on the command line.
var LevelIDs = map[Level][]string{
	LevelDebug: {"debug"},
	LevelInfo:  {"info"},
	LevelWarn:  {"warn", "warning"},
	LevelError: {"error"},
}

// Format selects the log output encoding.
type Format enumflag.Flag

const (
	FormatJSON Format = iota
	FormatPretty
)

// FormatIDs maps formats to the spellings accepted on the command line.
var FormatIDs = map[Format][]string{
	FormatJSON:   {"json"},
	FormatPretty: {"pretty", "console"},
}

type Config struct {
	Level  Level
	Format Format
	Output io.Writer // defaults to os.Stderr
}

// Logger is a thin wrapper around zerolog that the rest of the code base
// logs through.
type Logger struct {
	zl zerolog.Logger
}

func NewLogger(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	if config.Format == FormatPretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	zl := zerolog.New(out).With().Timestamp().Logger().Level(level(config.Level))
	return &Logger{zl: zl}
}

// NewNopLogger returns a logger that discards everything. Constructors use
// it as the default so callers that never set a logger stay quiet.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithField returns a logger that attaches key=value to every message.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

func level(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
