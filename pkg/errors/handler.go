package errors

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives everything reported at the facade boundary.
	// The shim never aborts the host; reports are its only failure channel.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler installs h and returns the handler it replaced. Pass nil to
// restore a quiet LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := DefaultHandler
	DefaultHandler = h
	return prev
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report hands err to the installed handler, stamping it if needed.
func Report(err *DesktopError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// Warn reports an error the caller has already degraded around.
func Warn(op string, kind ErrorKind, err error) {
	Report(&DesktopError{Op: op, Kind: kind, Err: err, Warning: true})
}

// Fallback reports that backend could not start and fallback serves in its
// place.
func Fallback(op, backend, fallback string, err error) {
	Report(&DesktopError{
		Op:      op,
		Kind:    KindInit,
		Backend: backend,
		Err:     fmt.Errorf("falling back to %s backend: %w", fallback, err),
		Warning: true,
	})
}

// Recover reports a panic escaping a boundary call and lets the call
// return normally with its zero results.
//
//	defer errors.Recover("desktop.WidgetShow")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
	}
}

// RecoverWithCallback is Recover plus a callback, typically used to set a
// named result such as an exit code.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

func reportRecovered(op string, r any) {
	ReportPanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: captureStack(4),
		Timestamp:  time.Now(),
	})
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame.
func CaptureStack() string {
	return captureStack(3)
}

// captureStack skips skip frames, then drops runtime panic machinery and
// this package's own frames so a recovered stack starts at the code that
// panicked.
func captureStack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isPanicFrame(frame.Function) {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func isPanicFrame(fn string) bool {
	return strings.HasPrefix(fn, "runtime.gopanic") ||
		strings.HasPrefix(fn, "runtime.panic") ||
		strings.HasPrefix(fn, "github.com/vitte-lang/desktop/pkg/errors.")
}
