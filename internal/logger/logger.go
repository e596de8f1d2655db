// Package logger provides structured logging using Zap.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" logs JSON at info level, "test" discards everything, and any
// other value uses the human-readable development encoder.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		switch env {
		case "production":
			base, err = zap.NewProduction()
		case "test":
			base = zap.NewNop()
		default:
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			base = zap.NewNop()
		}

		Replace(base)
	})
}

// InitFile replaces the global logger with one that writes to path, using
// the production encoder for "production" and the development one otherwise.
// Terminal programs use it to keep log lines off the screen.
func InitFile(env, path string) error {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	base, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	Replace(base)
	return nil
}

// Replace swaps the global logger. Tests use it with zaptest/observer cores.
func Replace(base *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = base.Sugar()
}

// Get returns the global sugared logger, initializing a development logger on
// first use.
func Get() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s == nil {
		Init("development")
		mu.RLock()
		s = sugar
		mu.RUnlock()
	}
	return s
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
