// Package backend defines the contract every toolkit backend satisfies and
// a registry of named backend factories.
//
// Two families exist. The stub backend (package stub) keeps a logical widget
// graph in memory and traces every call. Real backends drive an actual
// toolkit and live outside this module: they register a Factory under a name
// from an init function, and the desktop facade selects one by name.
//
// Real adapters are expected to apply toolkit placement rules in SetParent:
// only containers accept children, and a window packs children into its
// single implicit vertical container. A button's title is its visible text.
// Invalid handles are ignored, never faulted.
package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Handle is an opaque widget reference. Zero is the null handle.
type Handle uintptr

// Null is the null handle.
const Null Handle = 0

// ErrUnknownBackend is returned by New for names with no registered factory.
var ErrUnknownBackend = errors.New("backend: unknown backend")

// Backend is the toolkit contract behind the desktop facade.
type Backend interface {
	// Name identifies the backend ("stub", "qt", ...).
	Name() string

	// Init prepares process-wide toolkit state. It must be idempotent. A
	// non-nil error means the environment cannot support the toolkit (for
	// example, no display); the facade then falls back to the stub.
	Init(args []string) error

	// WindowNew creates a top-level window. Arguments are already defaulted.
	WindowNew(title string, width, height int) Handle

	// ButtonNew creates a push button. The label is already defaulted.
	ButtonNew(label string) Handle

	// SetParent attaches child to parent, or detaches it when parent is Null.
	SetParent(child, parent Handle)

	// Show makes the widget visible.
	Show(h Handle)

	// SetTitle sets a window title or a button's text.
	SetTitle(h Handle, title string)

	// Main runs the event loop until MainQuit and returns its exit code.
	Main() int

	// MainQuit asks the running loop to return. Safe from any goroutine.
	MainQuit()
}

// Factory constructs a backend.
type Factory func() (Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a backend available by name. Registering a name twice
// replaces the earlier factory.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	factoriesMu.Lock()
	factories[name] = f
	factoriesMu.Unlock()
}

// Unregister removes a backend factory.
func Unregister(name string) {
	factoriesMu.Lock()
	delete(factories, name)
	factoriesMu.Unlock()
}

// New constructs the backend registered under name.
func New(name string) (Backend, error) {
	factoriesMu.RLock()
	f := factories[name]
	factoriesMu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return f()
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	factoriesMu.RLock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	factoriesMu.RUnlock()
	sort.Strings(names)
	return names
}
