// Package logger provides the shared zap logger used across redmine-go for
// diagnostics such as retry and pagination events.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	level  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	global *zap.Logger
)

// Get returns the shared logger. The default writes JSON to stderr at warn
// level, so a client stays quiet unless a request is being retried.
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = newDefault()
	}
	return global
}

// SetLevel adjusts the default logger's verbosity. Pagination progress is
// logged at debug level, retries at warn. Has no effect after SetLogger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// SetLogger replaces the shared logger, for callers that already carry their
// own zap setup.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

func newDefault() *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}
