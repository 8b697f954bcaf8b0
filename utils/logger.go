package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions selects the level, format and destination of a Logger.
type LogOptions struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // optional path; rotated by lumberjack
}

// Logger provides leveled logging throughout the application.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a console Logger at info level writing to stdout.
func NewLogger() *Logger {
	return NewLoggerWithOptions(LogOptions{Level: "info", Format: "console"})
}

// NewLoggerWithOptions builds a Logger from explicit options.
func NewLoggerWithOptions(opts LogOptions) *Logger {
	var out io.Writer = os.Stdout
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, rotator)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// NewLoggerTo writes JSON lines to w. Useful in tests.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// Request logs one served HTTP request with structured fields.
func (l *Logger) Request(method, path string, status, bytes int, elapsed time.Duration, requestID string) {
	l.zl.Info().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Int("bytes", bytes).
		Dur("elapsed", elapsed).
		Str("request_id", requestID).
		Msg("[http] request served")
}
