package testing

import "github.com/vitte-lang/desktop/pkg/widget"

// Finder matches widget snapshots.
type Finder func(widget.Snapshot) bool

// ByKind matches widgets of the given kind.
func ByKind(k widget.Kind) Finder {
	return func(s widget.Snapshot) bool { return s.Kind == k }
}

// ByTitle matches widgets with the given title.
func ByTitle(title string) Finder {
	return func(s widget.Snapshot) bool { return s.Title == title }
}

// ByLabel matches widgets with the given label.
func ByLabel(label string) Finder {
	return func(s widget.Snapshot) bool { return s.Label == label }
}

// ChildOf matches widgets whose parent is id.
func ChildOf(id widget.ID) Finder {
	return func(s widget.Snapshot) bool { return s.Parent == id && s.ID != id }
}

// And matches widgets satisfying every finder.
func And(fs ...Finder) Finder {
	return func(s widget.Snapshot) bool {
		for _, f := range fs {
			if !f(s) {
				return false
			}
		}
		return true
	}
}

// Result is the outcome of Find.
type Result struct {
	widgets []widget.Snapshot
}

// Exists reports whether anything matched.
func (r Result) Exists() bool { return len(r.widgets) > 0 }

// Count returns the number of matches.
func (r Result) Count() int { return len(r.widgets) }

// First returns the first match, or a zero snapshot.
func (r Result) First() widget.Snapshot {
	if len(r.widgets) == 0 {
		return widget.Snapshot{}
	}
	return r.widgets[0]
}

// All returns every match.
func (r Result) All() []widget.Snapshot { return r.widgets }
