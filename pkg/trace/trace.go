// Package trace emits diagnostic records describing what a simulated backend
// did with each call. Records replace pixels: tests assert on their order and
// content, and hosts read them on stderr.
package trace

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vitte-lang/desktop/pkg/widget"
)

// Environment variables consulted by VerboseFromEnv. The first one set wins.
const (
	EnvVerbose       = "VITTE_DESKTOP_VERBOSE"
	EnvVerboseLegacy = "QT_STUB_VERBOSE"
)

// Record is one diagnostic trace entry.
type Record struct {
	Seq     uint64           `json:"seq" msgpack:"seq"`
	Time    time.Time        `json:"time" msgpack:"time"`
	Op      string           `json:"op" msgpack:"op"`
	Widget  *widget.Snapshot `json:"widget,omitempty" msgpack:"widget,omitempty"`
	Message string           `json:"message,omitempty" msgpack:"message,omitempty"`
}

// Sink receives records from a Tracer. Implementations must be safe for
// concurrent use.
type Sink interface {
	Emit(rec Record)
}

// Tracer stamps records and fans them out to its sinks while enabled.
type Tracer struct {
	enabled atomic.Bool
	seq     atomic.Uint64

	mu    sync.RWMutex
	sinks []Sink
	now   func() time.Time
}

// New returns an enabled tracer writing to the given sinks.
func New(sinks ...Sink) *Tracer {
	t := &Tracer{sinks: sinks, now: time.Now}
	t.enabled.Store(true)
	return t
}

// VerboseFromEnv reports whether tracing should be enabled. "0" disables,
// any other value or absence enables.
func VerboseFromEnv() bool {
	for _, key := range []string{EnvVerbose, EnvVerboseLegacy} {
		if v, ok := os.LookupEnv(key); ok {
			return v != "0"
		}
	}
	return true
}

// SetEnabled toggles emission. It affects observability only.
func (t *Tracer) SetEnabled(on bool) {
	t.enabled.Store(on)
}

// Enabled reports whether records are emitted.
func (t *Tracer) Enabled() bool {
	return t.enabled.Load()
}

// SetClock replaces the time source used to stamp records.
func (t *Tracer) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// AddSink attaches another sink.
func (t *Tracer) AddSink(s Sink) {
	if s == nil {
		return
	}
	t.mu.Lock()
	t.sinks = append(t.sinks, s)
	t.mu.Unlock()
}

// Widget emits a record describing w after op.
func (t *Tracer) Widget(op string, w *widget.Widget) {
	if t == nil || !t.Enabled() || w == nil {
		return
	}
	snap := w.Snapshot()
	t.emit(Record{Op: op, Widget: &snap})
}

// Message emits a free-form record.
func (t *Tracer) Message(op, msg string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.emit(Record{Op: op, Message: msg})
}

func (t *Tracer) emit(rec Record) {
	t.mu.RLock()
	sinks, now := t.sinks, t.now
	t.mu.RUnlock()

	rec.Seq = t.seq.Add(1)
	rec.Time = now()
	for _, s := range sinks {
		s.Emit(rec)
	}
}
