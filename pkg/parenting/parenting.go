// Package parenting attaches widgets to parents inside a registry.
//
// The resolver does bookkeeping only. It does not look at the parent's kind,
// so a window parented under a button is accepted structurally. Placement
// rules (only containers accept children, a window packs children into its
// implicit container) belong to real toolkit adapters.
package parenting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitte-lang/desktop/pkg/registry"
	"github.com/vitte-lang/desktop/pkg/trace"
	"github.com/vitte-lang/desktop/pkg/widget"
)

var (
	// ErrUnknownWidget is returned when the child or a non-nil parent does
	// not resolve in the registry.
	ErrUnknownWidget = errors.New("parenting: unknown widget")

	// ErrCycle is returned under PolicyRejectCycles when the link would make
	// a widget its own ancestor.
	ErrCycle = errors.New("parenting: link would create a cycle")
)

// Policy controls how strictly links are checked.
type Policy int

const (
	// PolicyPermissive records every link between known widgets, including
	// self-parenting and cycles. Nothing in the shim traverses parent
	// chains, so a cycle is unreachable but harmless.
	PolicyPermissive Policy = iota
	// PolicyRejectCycles refuses self-parenting and cycles.
	PolicyRejectCycles
)

func (p Policy) String() string {
	switch p {
	case PolicyRejectCycles:
		return "reject-cycles"
	default:
		return "permissive"
	}
}

// ParsePolicy parses the configuration spelling of a policy. Empty selects
// PolicyPermissive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return PolicyPermissive, nil
	case "reject-cycles":
		return PolicyRejectCycles, nil
	default:
		return 0, fmt.Errorf("parenting: unknown policy %q", s)
	}
}

// Resolver links children to parents in one registry.
type Resolver struct {
	reg    *registry.Registry
	tracer *trace.Tracer
	policy Policy
}

// New returns a resolver over reg. tracer may be nil.
func New(reg *registry.Registry, tracer *trace.Tracer, policy Policy) *Resolver {
	return &Resolver{reg: reg, tracer: tracer, policy: policy}
}

// Policy returns the active policy.
func (r *Resolver) Policy() Policy { return r.policy }

// SetParent sets child's parent to parent, or detaches child when parent is
// widget.None. On success exactly one "set_parent" record naming the child
// is traced. On error nothing changes and nothing is traced.
func (r *Resolver) SetParent(child, parent widget.ID) error {
	c, ok := r.reg.Lookup(child)
	if !ok {
		return fmt.Errorf("%w: child #%d", ErrUnknownWidget, child)
	}
	if parent != widget.None {
		if _, ok := r.reg.Lookup(parent); !ok {
			return fmt.Errorf("%w: parent #%d", ErrUnknownWidget, parent)
		}
		if r.policy == PolicyRejectCycles && r.isAncestorOrSelf(child, parent) {
			return fmt.Errorf("%w: #%d under #%d", ErrCycle, child, parent)
		}
	}
	c.SetParent(parent)
	r.tracer.Widget("set_parent", c)
	return nil
}

// isAncestorOrSelf reports whether child appears on the parent chain
// starting at start. The walk is bounded by the registry size so an
// existing cycle created under a permissive policy cannot loop forever.
func (r *Resolver) isAncestorOrSelf(child, start widget.ID) bool {
	limit := r.reg.Len()
	for id, steps := start, 0; id != widget.None && steps <= limit; steps++ {
		if id == child {
			return true
		}
		w, ok := r.reg.Lookup(id)
		if !ok {
			return false
		}
		id = w.Parent()
	}
	return false
}
