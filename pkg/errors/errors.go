// Package errors provides structured error reporting for the desktop shim.
//
// Boundary operations never return errors to the host for invalid handles or
// setup failures. Instead they report a structured error to the global
// handler and degrade to a no-op or a fallback.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInit indicates a backend initialization failure.
	KindInit
	// KindBackend indicates a failure inside a backend adapter.
	KindBackend
	// KindHandle indicates an invalid or foreign widget handle.
	KindHandle
	// KindLoop indicates misuse of the event loop (e.g. nested Main).
	KindLoop
	// KindConfig indicates an invalid configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindBackend:
		return "backend"
	case KindHandle:
		return "handle"
	case KindLoop:
		return "loop"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// DesktopError represents a structured error reported by the shim.
type DesktopError struct {
	// Op is the boundary operation that failed (e.g., "desktop.Init").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Backend is the backend name, if applicable.
	Backend string
	// Handle is the widget handle involved, if any.
	Handle uintptr
	// Warning marks errors the shim recovered from by degrading.
	Warning bool
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *DesktopError) Error() string {
	msg := fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	if e.Backend != "" {
		msg += " backend=" + e.Backend
	}
	if e.Handle != 0 {
		msg += fmt.Sprintf(" handle=#%d", e.Handle)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *DesktopError) Unwrap() error {
	return e.Err
}

// PanicError represents a panic recovered at the boundary.
type PanicError struct {
	// Op is the operation that panicked (e.g., "desktop.WidgetShow").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the shim.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *DesktopError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
