package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Options tune the singleton on first use.
type Options struct {
	Level string
	// File, when set, receives a copy of every entry in addition to stdout.
	File string
}

// Get returns a singleton logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the level
// and return the already initialized instance.
func Get(level string) *Logger {
	return GetWithOptions(Options{Level: level})
}

// GetWithOptions is Get with an optional log file. If the file cannot be
// opened the logger falls back to stdout only and reports it once.
func GetWithOptions(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts)
	})
	return globalLogger
}
