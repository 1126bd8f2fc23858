// Package logging provides structured logging for txclean.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Config holds logging configuration.
type Config struct {
	Level  string
	Pretty bool
}

// Init initializes the global logger with the given configuration. Unknown
// levels fall back to info.
func Init(cfg Config) {
	var output io.Writer = os.Stderr
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	Logger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Debug returns a debug level event.
func Debug() *zerolog.Event { return Logger.Debug() }

// Info returns an info level event.
func Info() *zerolog.Event { return Logger.Info() }

// Warn returns a warning level event.
func Warn() *zerolog.Event { return Logger.Warn() }

// Error returns an error level event.
func Error() *zerolog.Event { return Logger.Error() }

func init() {
	Init(Config{Level: "info", Pretty: true})
}
