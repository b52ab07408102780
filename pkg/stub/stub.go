// Package stub implements the simulation backend: widgets live in an
// in-memory registry, parenting is pure bookkeeping, and the event loop is
// a run/stop state machine. Nothing is rendered; every call emits a trace
// record instead.
package stub

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/vitte-lang/desktop/pkg/backend"
	"github.com/vitte-lang/desktop/pkg/errors"
	"github.com/vitte-lang/desktop/pkg/loop"
	"github.com/vitte-lang/desktop/pkg/parenting"
	"github.com/vitte-lang/desktop/pkg/registry"
	"github.com/vitte-lang/desktop/pkg/trace"
	"github.com/vitte-lang/desktop/pkg/widget"
)

// Name is the registered name of the stub backend.
const Name = "stub"

func init() {
	backend.Register(Name, func() (backend.Backend, error) {
		tracer := trace.New(trace.NewWriterSink(os.Stderr, ""))
		tracer.SetEnabled(trace.VerboseFromEnv())
		return New(Options{Tracer: tracer}), nil
	})
}

// Options configures a stub backend.
type Options struct {
	// Tracer receives diagnostic records. Nil disables tracing.
	Tracer *trace.Tracer
	// Policy selects how parent links are checked.
	Policy parenting.Policy
}

// Backend is the simulation backend. Each value owns an independent widget
// registry and loop.
type Backend struct {
	reg      *registry.Registry
	resolver *parenting.Resolver
	loop     *loop.Controller
	tracer   *trace.Tracer
	inited   atomic.Bool
}

var _ backend.Backend = (*Backend)(nil)

// New returns a stub backend with an empty registry and an idle loop.
func New(opts Options) *Backend {
	b := &Backend{
		reg:    registry.New(),
		tracer: opts.Tracer,
	}
	b.resolver = parenting.New(b.reg, b.tracer, opts.Policy)
	b.loop = loop.New(loop.Hooks{
		OnStart: func() { b.tracer.Message("main", "simulated loop started") },
		OnQuit: func(wasRunning bool) {
			if wasRunning {
				b.tracer.Message("main_quit", "stop requested")
			} else {
				b.tracer.Message("main_quit", "loop not running")
			}
		},
		OnStop: func() { b.tracer.Message("main_end", "simulated loop finished") },
	})
	return b
}

// Name returns "stub".
func (b *Backend) Name() string { return Name }

// Init records initialization once. It never fails.
func (b *Backend) Init(args []string) error {
	if b.inited.Swap(true) {
		return nil
	}
	b.tracer.Message("init", fmt.Sprintf("console mode, no real GUI (%d args)", len(args)))
	return nil
}

// WindowNew allocates a window widget.
func (b *Backend) WindowNew(title string, width, height int) backend.Handle {
	w := b.reg.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.NewWindow(id, title, width, height)
	})
	b.tracer.Widget("window_new", w)
	return handleOf(w.ID())
}

// ButtonNew allocates a button widget.
func (b *Backend) ButtonNew(label string) backend.Handle {
	w := b.reg.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.NewButton(id, label)
	})
	b.tracer.Widget("button_new", w)
	return handleOf(w.ID())
}

// SetParent links child under parent. Unknown handles make it a no-op.
func (b *Backend) SetParent(child, parent backend.Handle) {
	if child == backend.Null {
		return
	}
	// Unknown handles and rejected cycles leave the graph unchanged.
	_ = b.resolver.SetParent(idOf(child), idOf(parent))
}

// Show traces the widget. Showing renders nothing in this backend.
func (b *Backend) Show(h backend.Handle) {
	if h == backend.Null {
		b.tracer.Message("widget_show", "NULL handle ignored")
		return
	}
	if w, ok := b.reg.Lookup(idOf(h)); ok {
		b.tracer.Widget("widget_show", w)
	}
}

// SetTitle updates the title, and the label of buttons.
func (b *Backend) SetTitle(h backend.Handle, title string) {
	w, ok := b.reg.Lookup(idOf(h))
	if !ok {
		return
	}
	w.SetTitle(title)
	b.tracer.Widget("set_title", w)
}

// Main runs the simulated loop until MainQuit. It returns 0 on normal
// termination and 1 when the loop is already running.
func (b *Backend) Main() int {
	if err := b.loop.Run(); err != nil {
		b.tracer.Message("main", "rejected: "+err.Error())
		errors.Report(&errors.DesktopError{
			Op:      "stub.Main",
			Kind:    errors.KindLoop,
			Backend: Name,
			Err:     err,
		})
		return 1
	}
	return 0
}

// MainQuit stops the loop. Idempotent.
func (b *Backend) MainQuit() {
	b.loop.Quit()
}

// Registry exposes the widget registry for inspection.
func (b *Backend) Registry() *registry.Registry { return b.reg }

// Loop exposes the loop controller.
func (b *Backend) Loop() *loop.Controller { return b.loop }

// Tracer returns the backend tracer, which may be nil.
func (b *Backend) Tracer() *trace.Tracer { return b.tracer }

// Lookup resolves a handle to a widget snapshot.
func (b *Backend) Lookup(h backend.Handle) (widget.Snapshot, bool) {
	w, ok := b.reg.Lookup(idOf(h))
	if !ok {
		return widget.Snapshot{}, false
	}
	return w.Snapshot(), true
}

func handleOf(id widget.ID) backend.Handle { return backend.Handle(id) }

func idOf(h backend.Handle) widget.ID { return widget.ID(h) }
