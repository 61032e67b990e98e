package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Package logger provides a small leveled logging facade over zerolog so
// that callers never depend on the backend directly.

// LogLevel represents log severity levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	// CurrentLevel is the current logging level (default: Info)
	CurrentLevel = LevelInfo

	zl = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
)

// Init configures the backend from a textual level and an output style.
// Pretty output is for terminals; the default is one JSON object per line.
func Init(level string, pretty bool) {
	if pretty {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	SetLevel(ParseLevel(level))
}

// ParseLevel maps a level name to a LogLevel, defaulting to Info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel sets the minimum log level
func SetLevel(level LogLevel) {
	CurrentLevel = level
	zl = zl.Level(zerologLevel(level))
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
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

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	if CurrentLevel > LevelDebug {
		return
	}
	zl.Debug().Msgf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	if CurrentLevel > LevelInfo {
		return
	}
	zl.Info().Msgf(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	if CurrentLevel > LevelWarn {
		return
	}
	zl.Warn().Msgf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	zl.Error().Msgf(format, args...)
}

// Base exposes the underlying zerolog.Logger for callers that need
// structured fields, such as the HTTP request logger.
func Base() zerolog.Logger {
	return zl
}
