package errors

import (
	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/logging"
)

// LogHandler is an ErrorHandler that logs errors through zap.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger overrides the process logger from package logging.
	Logger *zap.Logger
}

// HandleError logs err at error level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	log := h.Logger
	if log == nil {
		log = logging.Named("stage")
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Key != "" {
		fields = append(fields, zap.String("key", err.Key))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	log.Error("stage error", fields...)
}
