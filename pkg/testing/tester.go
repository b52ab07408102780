package testing

import (
	"context"
	"io"
	"strings"
	stdtesting "testing"
	"time"

	"github.com/vitte-lang/desktop/pkg/config"
	"github.com/vitte-lang/desktop/pkg/desktop"
	"github.com/vitte-lang/desktop/pkg/stub"
	"github.com/vitte-lang/desktop/pkg/trace"
	"github.com/vitte-lang/desktop/pkg/widget"
)

// Tester owns a stub-backed facade and records its trace.
type Tester struct {
	t     stdtesting.TB
	d     *desktop.Desktop
	stub  *stub.Backend
	rec   *trace.Recorder
	clock *FakeClock
}

// NewTester returns a tester over a freshly initialised stub backend. A nil
// cfg selects config.Default(). The tester works on a copy of cfg with the
// stub backend and tracing forced on.
func NewTester(t stdtesting.TB, cfg *config.Config) *Tester {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	c := *cfg
	on := true
	c.Backend = stub.Name
	c.Verbose = &on

	rec := trace.NewRecorder(0)
	d := desktop.New(&c, desktop.WithTraceOutput(io.Discard), desktop.WithTraceSink(rec))
	d.Init([]string{t.Name()})
	s, ok := d.Stub()
	if !ok {
		t.Fatalf("desktoptest: stub backend not active (got %s)", d.Backend().Name())
	}

	clock := NewFakeClock()
	s.Tracer().SetClock(clock.Now)
	tester := &Tester{t: t, d: d, stub: s, rec: rec, clock: clock}
	t.Cleanup(func() { d.MainQuit() })
	return tester
}

// Desktop returns the facade under test.
func (tt *Tester) Desktop() *desktop.Desktop { return tt.d }

// Stub returns the stub backend.
func (tt *Tester) Stub() *stub.Backend { return tt.stub }

// Clock returns the clock stamping trace records.
func (tt *Tester) Clock() *FakeClock { return tt.clock }

// Records returns the trace recorded so far.
func (tt *Tester) Records() []trace.Record { return tt.rec.Records() }

// Widget returns the snapshot behind h, failing the test if it is unknown.
func (tt *Tester) Widget(h desktop.Handle) widget.Snapshot {
	tt.t.Helper()
	snap, ok := tt.stub.Lookup(h)
	if !ok {
		tt.t.Fatalf("desktoptest: unknown handle %d", h)
	}
	return snap
}

// ExpectOps fails the test unless the recorded ops equal want, in order.
func (tt *Tester) ExpectOps(want ...string) {
	tt.t.Helper()
	got := tt.rec.Ops()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		tt.t.Errorf("trace ops = %v, want %v", got, want)
	}
}

// Find returns the widgets matching f, in creation order.
func (tt *Tester) Find(f Finder) Result {
	var out []widget.Snapshot
	for _, s := range tt.stub.Registry().Snapshot() {
		if f(s) {
			out = append(out, s)
		}
	}
	return Result{widgets: out}
}

// LoopRun is a Main call running on its own goroutine.
type LoopRun struct {
	t    stdtesting.TB
	code chan int
}

// RunLoop starts Main on a new goroutine and returns once the loop is
// running.
func (tt *Tester) RunLoop() *LoopRun {
	tt.t.Helper()
	run := &LoopRun{t: tt.t, code: make(chan int, 1)}
	go func() { run.code <- tt.d.Main() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tt.stub.Loop().Wait(ctx); err != nil {
		tt.t.Fatalf("desktoptest: loop did not start: %v", err)
	}
	return run
}

// Wait returns Main's exit code, failing the test if it does not return
// within timeout.
func (r *LoopRun) Wait(timeout time.Duration) int {
	r.t.Helper()
	select {
	case code := <-r.code:
		return code
	case <-time.After(timeout):
		r.t.Fatalf("desktoptest: Main did not return within %v", timeout)
		return -1
	}
}
