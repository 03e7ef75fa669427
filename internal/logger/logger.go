// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used throughout the
// photo sync server and its command line client.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Application code should pass *Logger by pointer and obtain request-scoped
// loggers via FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// Option customizes a logger built by NewLogger.
type Option func(*options)

type options struct {
	level    zerolog.Level
	filePath string
	stdout   bool
}

// WithLevel sets the global level from its textual name ("debug", "info",
// ...). Unknown names keep the debug default.
func WithLevel(level string) Option {
	return func(o *options) {
		if level == "" {
			return
		}
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			o.level = parsed
		}
	}
}

// WithFile additionally writes every entry to a size-rotated file at path.
func WithFile(path string) Option {
	return func(o *options) {
		o.filePath = path
	}
}

// NewLogger constructs a production-ready *Logger for the given role label
// (e.g. "server", "worker").
//
// The logger is configured with:
//   - global log level set to Debug unless WithLevel says otherwise;
//   - a "role" field set to role;
//   - a timestamp field added to every log entry;
//   - a "func" caller field that records the fully-qualified function name
//     instead of the default file:line format.
//
// Output is written to os.Stdout in JSON format, and to a rotating file when
// WithFile is given.
func NewLogger(role string, opts ...Option) *Logger {
	o := options{level: zerolog.DebugLevel, stdout: true}
	for _, opt := range opts {
		opt(&o)
	}
	return build(role, o)
}

// NewClientLogger builds the logger of the command line client. The client
// owns the terminal, so entries only go to the rotating file at path.
func NewClientLogger(role, path string) *Logger {
	return build(role, options{level: zerolog.DebugLevel, filePath: path})
}

func build(role string, o options) *Logger {
	zerolog.SetGlobalLevel(o.level)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name() // return function name
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(writer(o)).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

func writer(o options) io.Writer {
	if o.filePath == "" {
		return os.Stdout
	}

	rotating := &lumberjack.Logger{
		Filename:   o.filePath,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	if !o.stdout {
		return rotating
	}
	return zerolog.MultiLevelWriter(os.Stdout, rotating)
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver. The child logger can be enriched with additional context fields
// without affecting the parent logger.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest extracts the zerolog.Logger stored in the request's context by
// zerolog's log.Ctx helper and returns it as a *Logger.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its global logger,
// so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
