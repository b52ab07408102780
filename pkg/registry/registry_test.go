package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/vitte-lang/desktop/pkg/widget"
)

func TestAllocateAssignsSequentialIDs(t *testing.T) {
	r := New()
	kinds := []widget.Kind{widget.KindWindow, widget.KindButton, widget.KindGeneric}
	for i, k := range kinds {
		w := r.Allocate(k)
		if want := widget.ID(i + 1); w.ID() != want {
			t.Errorf("allocation %d: ID = %d, want %d", i, w.ID(), want)
		}
		got, ok := r.Lookup(w.ID())
		if !ok || got != w {
			t.Fatalf("Lookup(%d) = %v, %v", w.ID(), got, ok)
		}
		if got.Kind() != k {
			t.Errorf("Kind = %v, want %v", got.Kind(), k)
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
	if r.Next() != 4 {
		t.Errorf("Next = %d, want 4", r.Next())
	}
}

func TestAllocateWithPublishesBuiltWidget(t *testing.T) {
	r := New()
	w := r.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.NewWindow(id, "App", 640, 480)
	})
	got, _ := r.Lookup(w.ID())
	if got.Title() != "App" {
		t.Errorf("Title = %q, want %q", got.Title(), "App")
	}
}

func TestAllocateWithRejectsMismatchedID(t *testing.T) {
	r := New()
	w := r.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.New(id+10, widget.KindButton)
	})
	if w.ID() != 1 {
		t.Errorf("ID = %d, want 1", w.ID())
	}
}

func TestLookupUnknown(t *testing.T) {
	r := New()
	r.Allocate(widget.KindWindow)

	for _, id := range []widget.ID{widget.None, 2, 1 << 40} {
		if w, ok := r.Lookup(id); ok || w != nil {
			t.Errorf("Lookup(%d) = %v, %v; want nil, false", id, w, ok)
		}
	}
	if _, err := r.Get(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(99) error = %v, want ErrNotFound", err)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Allocate(widget.KindWindow)
	a.Allocate(widget.KindWindow)
	if w := b.Allocate(widget.KindButton); w.ID() != 1 {
		t.Errorf("second registry ID = %d, want 1", w.ID())
	}
	if _, ok := b.Lookup(2); ok {
		t.Error("foreign ID should not resolve")
	}
}

func TestConcurrentAllocationUniqueIDs(t *testing.T) {
	const (
		goroutines = 8
		perG       = 1000
	)
	r := New()

	ids := make([][]widget.ID, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				kind := widget.KindButton
				if i%2 == 0 {
					kind = widget.KindWindow
				}
				ids[g] = append(ids[g], r.Allocate(kind).ID())
			}
		}(g)
	}
	wg.Wait()

	seen := make(map[widget.ID]bool, goroutines*perG)
	for _, list := range ids {
		for _, id := range list {
			if seen[id] {
				t.Fatalf("duplicate id %d", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != goroutines*perG {
		t.Fatalf("got %d unique ids, want %d", len(seen), goroutines*perG)
	}
	for id := widget.ID(1); id <= goroutines*perG; id++ {
		if !seen[id] {
			t.Fatalf("id %d was skipped", id)
		}
		if w, ok := r.Lookup(id); !ok || w.ID() != id {
			t.Fatalf("Lookup(%d) mismatch", id)
		}
	}
}

func TestSnapshotAndChildren(t *testing.T) {
	r := New()
	win := r.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.NewWindow(id, "App", 640, 480)
	})
	ok := r.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.NewButton(id, "OK")
	})
	cancel := r.AllocateWith(func(id widget.ID) *widget.Widget {
		return widget.NewButton(id, "Cancel")
	})
	ok.SetParent(win.ID())
	cancel.SetParent(win.ID())

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len(Snapshot) = %d, want 3", len(snap))
	}
	if snap[0].ID != 1 || snap[2].ID != 3 {
		t.Errorf("snapshot not in insertion order: %+v", snap)
	}

	children := r.Children(win.ID())
	if len(children) != 2 || children[0].Label != "OK" || children[1].Label != "Cancel" {
		t.Errorf("Children = %+v", children)
	}
}
