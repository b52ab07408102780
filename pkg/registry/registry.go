// Package registry owns every live widget and allocates widget identities.
//
// A Registry is an explicit object: each backend instance holds its own, so
// tests can run independent graphs side by side. Identities start at 1, grow
// monotonically and are never reused. Widgets are never removed.
package registry

import (
	"errors"
	"sync"

	"github.com/vitte-lang/desktop/pkg/widget"
)

// ErrNotFound is returned when an ID was never issued by this registry.
var ErrNotFound = errors.New("registry: widget not found")

// Registry is a thread-safe store of widgets.
type Registry struct {
	mu      sync.RWMutex
	next    widget.ID
	widgets []*widget.Widget
}

// New returns an empty registry whose first identity is 1.
func New() *Registry {
	return &Registry{next: 1}
}

// Allocate creates a zeroed widget of the given kind and publishes it.
func (r *Registry) Allocate(kind widget.Kind) *widget.Widget {
	return r.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.New(id, kind)
	})
}

// AllocateWith assigns the next identity and publishes the widget returned by
// build. build runs under the allocation lock so the widget is fully
// initialised before any other goroutine can look it up; it must not call
// back into the registry.
func (r *Registry) AllocateWith(build func(id widget.ID) *widget.Widget) *widget.Widget {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	w := build(id)
	if w == nil || w.ID() != id {
		w = widget.New(id, widget.KindGeneric)
	}
	r.next++
	r.widgets = append(r.widgets, w)
	return w
}

// Lookup returns the widget with the given ID. Unknown IDs, including None
// and IDs issued by another registry past this one's counter, report false.
func (r *Registry) Lookup(id widget.ID) (*widget.Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// IDs are dense and start at 1, so the slice index is id-1.
	if id == widget.None || id >= r.next {
		return nil, false
	}
	return r.widgets[id-1], true
}

// Get is like Lookup but returns ErrNotFound for unknown IDs.
func (r *Registry) Get(id widget.ID) (*widget.Widget, error) {
	w, ok := r.Lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// Len returns the number of widgets allocated so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

// Next returns the identity the next allocation will receive.
func (r *Registry) Next() widget.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.next
}

// Snapshot returns copies of all widgets in insertion order.
func (r *Registry) Snapshot() []widget.Snapshot {
	r.mu.RLock()
	widgets := make([]*widget.Widget, len(r.widgets))
	copy(widgets, r.widgets)
	r.mu.RUnlock()

	out := make([]widget.Snapshot, len(widgets))
	for i, w := range widgets {
		out[i] = w.Snapshot()
	}
	return out
}

// Children returns snapshots of the widgets whose parent is id, in
// insertion order.
func (r *Registry) Children(id widget.ID) []widget.Snapshot {
	var out []widget.Snapshot
	for _, s := range r.Snapshot() {
		if s.Parent == id && s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
