// Package slogger exposes the process-wide logger as package functions so
// call sites do not have to thread a logger through every constructor.
package slogger

import (
	"context"
	"sync"

	"codeatlas/internal/application/common/logging"
)

// Fields is an alias for logging.Fields for convenience.
type Fields = logging.Fields

var (
	mu     sync.RWMutex
	global logging.ApplicationLogger
)

// SetGlobalLogger replaces the process-wide logger. The cmd wiring calls
// this once at startup; tests use it to capture output.
func SetGlobalLogger(logger logging.ApplicationLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
}

// get returns the configured logger, lazily creating a JSON stdout logger
// for code paths that log before the cmd wiring has run.
func get() logging.ApplicationLogger {
	mu.RLock()
	logger := global
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		fallback, err := logging.NewApplicationLogger(logging.Config{Level: "info", Format: "json"})
		if err != nil {
			panic("failed to initialize fallback logger: " + err.Error())
		}
		global = fallback
	}
	return global
}

// Debug logs a debug message with context.
func Debug(ctx context.Context, msg string, fields Fields) {
	get().Debug(ctx, msg, fields)
}

// Info logs an info message with context.
func Info(ctx context.Context, msg string, fields Fields) {
	get().Info(ctx, msg, fields)
}

// Warn logs a warning message with context.
func Warn(ctx context.Context, msg string, fields Fields) {
	get().Warn(ctx, msg, fields)
}

// Error logs an error message with context.
func Error(ctx context.Context, msg string, fields Fields) {
	get().Error(ctx, msg, fields)
}

// InfoNoCtx logs an info message without request context.
func InfoNoCtx(msg string, fields Fields) {
	get().Info(context.Background(), msg, fields)
}

// ErrorNoCtx logs an error message without request context.
func ErrorNoCtx(msg string, fields Fields) {
	get().Error(context.Background(), msg, fields)
}
