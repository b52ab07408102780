package parenting

import (
	"errors"
	"testing"

	"github.com/vitte-lang/desktop/pkg/registry"
	"github.com/vitte-lang/desktop/pkg/trace"
	"github.com/vitte-lang/desktop/pkg/widget"
)

func setup(policy Policy) (*Resolver, *registry.Registry, *trace.Recorder) {
	reg := registry.New()
	rec := trace.NewRecorder(0)
	return New(reg, trace.New(rec), policy), reg, rec
}

func TestSetParentAndDetach(t *testing.T) {
	r, reg, rec := setup(PolicyPermissive)
	win := reg.Allocate(widget.KindWindow)
	btn := reg.Allocate(widget.KindButton)

	if err := r.SetParent(btn.ID(), win.ID()); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if btn.Parent() != win.ID() {
		t.Errorf("Parent = %d, want %d", btn.Parent(), win.ID())
	}

	if err := r.SetParent(btn.ID(), widget.None); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if btn.Parent() != widget.None {
		t.Errorf("Parent after detach = %d, want None", btn.Parent())
	}

	recs := rec.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for _, r := range recs {
		if r.Op != "set_parent" || r.Widget == nil || r.Widget.ID != btn.ID() {
			t.Errorf("record = %+v, want set_parent naming #%d", r, btn.ID())
		}
	}
	if recs[0].Widget.Parent != win.ID() || recs[1].Widget.Parent != widget.None {
		t.Errorf("records do not reflect the link state: %+v, %+v", *recs[0].Widget, *recs[1].Widget)
	}
}

func TestPermissiveIgnoresKind(t *testing.T) {
	r, reg, _ := setup(PolicyPermissive)
	win := reg.Allocate(widget.KindWindow)
	btn := reg.Allocate(widget.KindButton)

	if err := r.SetParent(win.ID(), btn.ID()); err != nil {
		t.Fatalf("window under button should be accepted: %v", err)
	}
}

func TestPermissiveAcceptsCycles(t *testing.T) {
	r, reg, _ := setup(PolicyPermissive)
	a := reg.Allocate(widget.KindGeneric)
	b := reg.Allocate(widget.KindGeneric)

	if err := r.SetParent(a.ID(), b.ID()); err != nil {
		t.Fatal(err)
	}
	if err := r.SetParent(b.ID(), a.ID()); err != nil {
		t.Fatal(err)
	}
	if err := r.SetParent(a.ID(), a.ID()); err != nil {
		t.Fatal(err)
	}
	if a.Parent() != a.ID() || b.Parent() != a.ID() {
		t.Errorf("links not recorded: a.parent=%d b.parent=%d", a.Parent(), b.Parent())
	}
}

func TestRejectCycles(t *testing.T) {
	r, reg, rec := setup(PolicyRejectCycles)
	a := reg.Allocate(widget.KindWindow)
	b := reg.Allocate(widget.KindGeneric)
	c := reg.Allocate(widget.KindButton)

	if err := r.SetParent(b.ID(), a.ID()); err != nil {
		t.Fatal(err)
	}
	if err := r.SetParent(c.ID(), b.ID()); err != nil {
		t.Fatal(err)
	}
	rec.Reset()

	tests := []struct {
		name          string
		child, parent widget.ID
	}{
		{"self", a.ID(), a.ID()},
		{"direct", b.ID(), c.ID()},
		{"transitive", a.ID(), c.ID()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := reg.Snapshot()
			err := r.SetParent(tt.child, tt.parent)
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("err = %v, want ErrCycle", err)
			}
			after := reg.Snapshot()
			for i := range before {
				if before[i] != after[i] {
					t.Errorf("state changed: %+v -> %+v", before[i], after[i])
				}
			}
		})
	}
	if n := len(rec.Records()); n != 0 {
		t.Errorf("rejected links traced %d records, want 0", n)
	}

	if err := r.SetParent(c.ID(), a.ID()); err != nil {
		t.Errorf("re-parenting to an ancestor should be allowed: %v", err)
	}
}

func TestRejectCyclesTerminatesOnExistingCycle(t *testing.T) {
	reg := registry.New()
	a := reg.Allocate(widget.KindGeneric)
	b := reg.Allocate(widget.KindGeneric)
	c := reg.Allocate(widget.KindGeneric)
	a.SetParent(b.ID())
	b.SetParent(a.ID())

	r := New(reg, nil, PolicyRejectCycles)
	if err := r.SetParent(c.ID(), a.ID()); err != nil {
		t.Errorf("SetParent: %v", err)
	}
}

func TestUnknownWidgets(t *testing.T) {
	r, reg, rec := setup(PolicyPermissive)
	win := reg.Allocate(widget.KindWindow)

	if err := r.SetParent(99, win.ID()); !errors.Is(err, ErrUnknownWidget) {
		t.Errorf("unknown child: err = %v", err)
	}
	if err := r.SetParent(widget.None, win.ID()); !errors.Is(err, ErrUnknownWidget) {
		t.Errorf("null child: err = %v", err)
	}
	if err := r.SetParent(win.ID(), 42); !errors.Is(err, ErrUnknownWidget) {
		t.Errorf("foreign parent: err = %v", err)
	}
	if win.Parent() != widget.None {
		t.Errorf("Parent = %d, want None", win.Parent())
	}
	if n := len(rec.Records()); n != 0 {
		t.Errorf("got %d records, want 0", n)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyPermissive, false},
		{"permissive", PolicyPermissive, false},
		{"Reject-Cycles", PolicyRejectCycles, false},
		{"strict", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) err = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if PolicyRejectCycles.String() != "reject-cycles" {
		t.Errorf("String = %q", PolicyRejectCycles.String())
	}
}
