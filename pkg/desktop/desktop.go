// Package desktop is the stable facade a host application programs against.
//
// A Desktop selects a backend by name at Init, applies argument defaults and
// shields the host from every failure mode: null and foreign handles are
// ignored, a second Init is a no-op, a backend that cannot start degrades to
// the stub backend with a warning, and no panic escapes a facade method.
//
// Typical use:
//
//	d := desktop.New(cfg)
//	d.Init(os.Args)
//	win := d.WindowNew("App", 640, 480)
//	ok := d.ButtonNew("OK")
//	d.WidgetSetParent(ok, win)
//	d.WidgetShow(win)
//	go func() { <-sig; d.MainQuit() }()
//	os.Exit(d.Main())
package desktop

import (
	"io"
	"os"
	"sync"

	"github.com/vitte-lang/desktop/pkg/backend"
	"github.com/vitte-lang/desktop/pkg/config"
	"github.com/vitte-lang/desktop/pkg/errors"
	"github.com/vitte-lang/desktop/pkg/stub"
	"github.com/vitte-lang/desktop/pkg/trace"
)

// Handle is an opaque widget reference. The zero value is the null handle.
type Handle = backend.Handle

// Null is the null handle.
const Null = backend.Null

// Desktop is the facade over one backend instance.
type Desktop struct {
	cfg       *config.Config
	traceOut  io.Writer
	extraSink trace.Sink

	mu     sync.Mutex
	be     backend.Backend
	tracer *trace.Tracer
}

// Option customises a Desktop.
type Option func(*Desktop)

// WithTraceOutput redirects stub trace output (default os.Stderr).
func WithTraceOutput(w io.Writer) Option {
	return func(d *Desktop) { d.traceOut = w }
}

// WithTraceSink attaches an additional sink to the stub tracer.
func WithTraceSink(s trace.Sink) Option {
	return func(d *Desktop) { d.extraSink = s }
}

// New returns an uninitialised facade. A nil cfg selects config.Default();
// otherwise New works on a copy with unset fields defaulted.
func New(cfg *config.Config, opts ...Option) *Desktop {
	if cfg == nil {
		cfg = config.Default()
	}
	c := *cfg
	c.FillDefaults()
	d := &Desktop{cfg: &c, traceOut: os.Stderr}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init prepares the backend. It is idempotent and never fails: when the
// configured backend is unknown or cannot initialise, a warning is reported
// and the stub backend takes over.
func (d *Desktop) Init(args []string) {
	defer errors.Recover("desktop.Init")
	d.backend(args)
}

// backend returns the active backend, initialising it on first use so that
// calls made before Init still work.
func (d *Desktop) backend(args []string) backend.Backend {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.be != nil {
		return d.be
	}

	name := d.cfg.Backend
	if name != "" && name != stub.Name {
		be, err := backend.New(name)
		if err == nil {
			err = be.Init(args)
		}
		if err == nil {
			d.be = be
			return be
		}
		errors.Fallback("desktop.Init", name, stub.Name, err)
	}

	s := d.newStub()
	s.Init(args)
	d.be = s
	return s
}

func (d *Desktop) newStub() *stub.Backend {
	var sink trace.Sink
	if codec := trace.CodecFor(d.cfg.Trace.Format); codec != nil {
		sink = trace.NewCodecSink(d.traceOut, codec)
	} else {
		sink = trace.NewWriterSink(d.traceOut, d.cfg.Trace.Prefix)
	}
	tracer := trace.New(sink)
	tracer.AddSink(d.extraSink)
	tracer.SetEnabled(d.cfg.VerboseEnabled())
	d.tracer = tracer

	return stub.New(stub.Options{Tracer: tracer, Policy: d.cfg.Policy()})
}

// Backend returns the active backend, initialising it if needed.
func (d *Desktop) Backend() backend.Backend {
	return d.backend(nil)
}

// Config returns the facade's copy of its configuration.
func (d *Desktop) Config() *config.Config { return d.cfg }

// SetVerbose toggles trace emission at runtime. It has no effect on
// backends that do not trace.
func (d *Desktop) SetVerbose(on bool) {
	d.backend(nil)
	d.mu.Lock()
	tracer := d.tracer
	d.mu.Unlock()
	if tracer != nil {
		tracer.SetEnabled(on)
	}
}

// WindowNew creates a window. Non-positive sizes fall back to the configured
// defaults (800x600 unless overridden).
func (d *Desktop) WindowNew(title string, width, height int) (h Handle) {
	defer errors.Recover("desktop.WindowNew")
	if width <= 0 {
		width = orDefault(d.cfg.Window.Width, config.DefaultWidth)
	}
	if height <= 0 {
		height = orDefault(d.cfg.Window.Height, config.DefaultHeight)
	}
	return d.backend(nil).WindowNew(title, width, height)
}

// ButtonNew creates a button. An empty label falls back to the configured
// placeholder ("Button" unless overridden).
func (d *Desktop) ButtonNew(label string) (h Handle) {
	defer errors.Recover("desktop.ButtonNew")
	if label == "" {
		label = d.cfg.Button.Label
	}
	if label == "" {
		label = config.DefaultButtonLabel
	}
	return d.backend(nil).ButtonNew(label)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WidgetSetParent attaches child under parent, or detaches it when parent
// is Null. A Null child makes it a no-op.
func (d *Desktop) WidgetSetParent(child, parent Handle) {
	defer errors.Recover("desktop.WidgetSetParent")
	if child == Null {
		return
	}
	d.backend(nil).SetParent(child, parent)
}

// WidgetShow shows the widget. Null handles are ignored by the backend.
func (d *Desktop) WidgetShow(h Handle) {
	defer errors.Recover("desktop.WidgetShow")
	d.backend(nil).Show(h)
}

// WidgetSetTitle sets a window title or a button's text. A Null handle
// makes it a no-op.
func (d *Desktop) WidgetSetTitle(h Handle, title string) {
	defer errors.Recover("desktop.WidgetSetTitle")
	if h == Null {
		return
	}
	d.backend(nil).SetTitle(h, title)
}

// Main runs the event loop until MainQuit. It returns 0 on normal
// termination, 1 when the loop is already running, and 2 if the backend
// panicked.
func (d *Desktop) Main() (code int) {
	defer errors.RecoverWithCallback("desktop.Main", func(any) { code = 2 })
	return d.backend(nil).Main()
}

// MainQuit asks the loop to stop. Safe from any goroutine or signal handler.
func (d *Desktop) MainQuit() {
	defer errors.Recover("desktop.MainQuit")
	d.backend(nil).MainQuit()
}

// Stub returns the stub backend when it is active.
func (d *Desktop) Stub() (*stub.Backend, bool) {
	s, ok := d.backend(nil).(*stub.Backend)
	return s, ok
}
