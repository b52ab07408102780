// Package widget defines the logical widget model shared by every backend.
//
// A Widget is identified by a process-unique ID and carries a Kind that never
// changes after construction. Capabilities that depend on the kind, such as
// the window size, are fixed by the constructor used: only NewWindow accepts
// a size, so non-window widgets always report 0x0.
//
// Parent links are stored as IDs, never as pointers, so the registry remains
// the only owner of widget storage and a cycle introduced by a misbehaving
// caller cannot keep anything alive or cause a double release.
package widget

import (
	"fmt"
	"sync"
)

// ID identifies a widget. Zero means "no widget".
type ID uint64

// None is the zero ID, used for detached parents and null handles.
const None ID = 0

// Kind is the tagged variant of a widget.
type Kind uint8

const (
	// KindGeneric is a widget with no specific role.
	KindGeneric Kind = iota
	// KindWindow is a top-level window. Only windows carry a size.
	KindWindow
	// KindButton is a push button. Its title doubles as its visible label.
	KindButton
)

func (k Kind) String() string {
	switch k {
	case KindWindow:
		return "Window"
	case KindButton:
		return "Button"
	default:
		return "Widget"
	}
}

// MarshalText encodes the kind by name so inspection output stays readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Window":
		*k = KindWindow
	case "Button":
		*k = KindButton
	case "Widget", "Generic":
		*k = KindGeneric
	default:
		return fmt.Errorf("widget: unknown kind %q", text)
	}
	return nil
}

// HasSize reports whether widgets of this kind carry width and height.
func (k Kind) HasSize() bool {
	return k == KindWindow
}

// Widget is one logical UI element.
//
// ID and Kind are immutable. The remaining fields are guarded by an internal
// mutex so a host may mutate a widget from a goroutine other than the one
// that created it.
type Widget struct {
	id   ID
	kind Kind

	mu     sync.RWMutex
	title  string
	label  string
	width  int
	height int
	parent ID
}

// New returns a zeroed widget of the given kind.
func New(id ID, kind Kind) *Widget {
	return &Widget{id: id, kind: kind}
}

// NewWindow returns a window widget. Negative sizes are clamped to zero;
// defaulting is the caller's concern.
func NewWindow(id ID, title string, width, height int) *Widget {
	w := New(id, KindWindow)
	w.title = title
	w.width = max(width, 0)
	w.height = max(height, 0)
	return w
}

// NewButton returns a button widget with the given label.
func NewButton(id ID, label string) *Widget {
	w := New(id, KindButton)
	w.label = label
	return w
}

// ID returns the widget identity.
func (w *Widget) ID() ID { return w.id }

// Kind returns the widget kind.
func (w *Widget) Kind() Kind { return w.kind }

// Title returns the current title.
func (w *Widget) Title() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.title
}

// Label returns the current button label.
func (w *Widget) Label() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.label
}

// Size returns the window size, or 0x0 for other kinds.
func (w *Widget) Size() (width, height int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width, w.height
}

// Parent returns the parent ID, or None when detached.
func (w *Widget) Parent() ID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent
}

// SetTitle updates the title. Buttons show their title as their label, so
// the label is updated too.
func (w *Widget) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	if w.kind == KindButton {
		w.label = title
	}
	w.mu.Unlock()
}

// SetLabel updates the button label.
func (w *Widget) SetLabel(label string) {
	w.mu.Lock()
	w.label = label
	w.mu.Unlock()
}

// SetParent records parent as the back-reference. No validation happens here.
func (w *Widget) SetParent(parent ID) {
	w.mu.Lock()
	w.parent = parent
	w.mu.Unlock()
}

// Snapshot returns a consistent copy of the widget state.
func (w *Widget) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		ID:     w.id,
		Kind:   w.kind,
		Title:  w.title,
		Label:  w.label,
		Width:  w.width,
		Height: w.height,
		Parent: w.parent,
	}
}

// Snapshot is an immutable copy of a widget's state.
type Snapshot struct {
	ID     ID     `json:"id" msgpack:"id" yaml:"id"`
	Kind   Kind   `json:"kind" msgpack:"kind" yaml:"kind"`
	Title  string `json:"title" msgpack:"title" yaml:"title"`
	Label  string `json:"label,omitempty" msgpack:"label,omitempty" yaml:"label,omitempty"`
	Width  int    `json:"width,omitempty" msgpack:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" msgpack:"height,omitempty" yaml:"height,omitempty"`
	Parent ID     `json:"parent,omitempty" msgpack:"parent,omitempty" yaml:"parent,omitempty"`
}

// String renders the snapshot in the diagnostic trace layout.
func (s Snapshot) String() string {
	return fmt.Sprintf("#%d kind=%s title='%s' label='%s' size=%dx%d parent=#%d",
		s.ID, s.Kind, s.Title, s.Label, s.Width, s.Height, s.Parent)
}
