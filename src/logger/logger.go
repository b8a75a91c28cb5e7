// Package logger provides the logging interface used throughout gh-triage-mcp.
//
// Logs always go to stderr (or a rotated file): stdout carries the MCP stdio
// transport and must stay clean.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, structured, etc.)
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// Options configures a ConsoleLogger.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Defaults to info.
	Level string
	// File, when set, receives JSON logs with rotation instead of stderr.
	File string
	// Output overrides the destination entirely. Used by tests.
	Output io.Writer
}

// ConsoleLogger writes structured logs through zerolog.
type ConsoleLogger struct {
	log zerolog.Logger
}

// New creates a logger from options.
func New(opts Options) *ConsoleLogger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer
	switch {
	case opts.Output != nil:
		out = opts.Output
	case opts.File != "":
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	default:
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	return &ConsoleLogger{
		log: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

// With returns a child logger carrying an extra field on every line.
func (c *ConsoleLogger) With(key, value string) *ConsoleLogger {
	return &ConsoleLogger{log: c.log.With().Str(key, value).Logger()}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.log.Info().Msg(format(msg, args))
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.log.Error().Msg(format(msg, args))
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	c.log.Debug().Msg(format(msg, args))
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Named returns l tagged with a component field when l supports fields.
func Named(l Logger, component string) Logger {
	if c, ok := l.(*ConsoleLogger); ok {
		return c.With("component", component)
	}
	return l
}

// SilentLogger discards all log messages.
// Used when running in TUI mode to prevent log output from interfering with the display.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
