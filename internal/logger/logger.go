// Package logger holds the process-wide zap logger. Init is called once
// from main; everything else pulls named children off the singleton so
// log output carries the originating component.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init initializes the singleton for the given environment. Idempotent:
// only the first call has effect. "dev" gets the human-readable
// development config, anything else the JSON production config.
func Init(env string) {
	once.Do(func() {
		instance = build(env)
	})
}

// L returns the singleton logger. If Init was never called, a dev
// logger is created so library code and tests always have something to
// write to.
func L() *zap.Logger {
	if instance == nil {
		Init("dev")
	}
	return instance
}

// Named returns a logger carrying a component name.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes any buffered entries. Deferred from main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}

func build(env string) *zap.Logger {
	if env == "dev" || env == "test" {
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
