package errors

import (
	"fmt"
	"io"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs a DesktopError.
func (h *LogHandler) HandleError(err *DesktopError) {
	if err == nil {
		return
	}
	w := h.out()
	tag := "desktop error"
	if err.Warning {
		tag = "desktop warning"
	}
	if h.Verbose {
		fmt.Fprintf(w, "[%s] %s [%s]", tag, err.Op, err.Kind)
		if err.Backend != "" {
			fmt.Fprintf(w, " backend=%s", err.Backend)
		}
		if err.Handle != 0 {
			fmt.Fprintf(w, " handle=#%d", err.Handle)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "[%s] %s: %v\n", tag, err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	if err.Op != "" {
		fmt.Fprintf(w, "[desktop panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "[desktop panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
