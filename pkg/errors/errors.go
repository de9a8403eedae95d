// Package errors provides structured error reporting for stage.
//
// Nothing in the pooling or surface code terminates the process. Failures
// that leave an operation with an empty result (a missing surface parent, a
// missing template) are reported here and execution continues.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates a required container or parent is not set.
	KindConfiguration
	// KindResourceNotFound indicates a named template could not be loaded.
	KindResourceNotFound
	// KindHost indicates the host failed to instantiate an object.
	KindHost
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindResourceNotFound:
		return "resource-not-found"
	case KindHost:
		return "host"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by reported errors.
var (
	// ErrNoParent is reported when a surface must be created but no parent
	// container has been configured.
	ErrNoParent = errors.New("stage: surface parent not set")

	// ErrTemplateNotFound is reported when the loader has no template for a
	// logical path.
	ErrTemplateNotFound = errors.New("stage: template not found")

	// ErrEmptyObject is reported when the host instantiates without error
	// but hands back a nil object.
	ErrEmptyObject = errors.New("stage: host returned an empty object")
)

// Error represents a structured error in stage.
type Error struct {
	// Op is the operation that failed (e.g., "surface.Resolve").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Key is the pool name or surface key involved, if any.
	Key string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// ErrorHandler receives errors reported by stage.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *Error)
}

// HandlerFunc adapts a function to ErrorHandler.
type HandlerFunc func(err *Error)

// HandleError calls f(err).
func (f HandlerFunc) HandleError(err *Error) { f(err) }
