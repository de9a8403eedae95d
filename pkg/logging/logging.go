// Package logging holds the process-wide logger shared by the stage
// packages.
package logging

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can race with logging from any goroutine.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(newDefaultLogger())
}

// newDefaultLogger writes warnings and errors to stderr in console format.
// Debug and info records are dropped until SetLogger installs something
// more verbose.
func newDefaultLogger() *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		zap.WarnLevel,
	)
	return zap.New(core)
}

// SetLogger replaces the process logger. Pass nil to restore the default
// stderr logger.
//
//	logging.SetLogger(zap.Must(zap.NewDevelopment()))
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}

// Named returns the process logger scoped to a component name.
func Named(component string) *zap.Logger {
	return Logger().Named(component)
}
