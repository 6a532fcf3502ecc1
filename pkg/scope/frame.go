package scope

import (
	"github.com/arthur-debert/handrail/pkg/ambient"
	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/paths"
)

// frameState tracks the lifecycle of one pushed frame. The only legal
// transitions are CREATED -> (ENSURED)? -> ACTIVE -> POPPED.
type frameState int

const (
	stateCreated frameState = iota
	stateEnsured
	stateActive
	statePopped
)

func (s frameState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateEnsured:
		return "ensured"
	case stateActive:
		return "active"
	case statePopped:
		return "popped"
	default:
		return "unknown"
	}
}

// Frame is one entry on the context stack: a logical target, its
// resolved absolute path (computed once on push, immutable after), and
// the flags governing creation, dry-run and ambient binding.
type Frame struct {
	id       string
	target   string
	resolved string
	create   bool
	dryRun   bool
	ambient  bool
	state    frameState
	bindings *ambient.BindingSet
}

// ID returns the frame's unique identifier.
func (f *Frame) ID() string { return f.id }

// Target returns the logical path fragment this frame was pushed with.
func (f *Frame) Target() string { return f.target }

// Path returns the frame's resolved absolute path.
func (f *Frame) Path() string { return f.resolved }

// DryRun reports whether operations through this frame are simulated.
func (f *Frame) DryRun() bool { return f.dryRun }

// State returns the frame's lifecycle state name.
func (f *Frame) State() string { return f.state.String() }

// BoundNames returns the ambient names this frame installed, or nil.
func (f *Frame) BoundNames() []string {
	if f.bindings == nil {
		return nil
	}
	return f.bindings.Names()
}

// Resolve joins rel against this frame's resolved path. Resolving
// through a popped frame is a use-after-pop defect.
func (f *Frame) Resolve(rel string) (string, error) {
	if f.state == statePopped {
		return "", errors.Newf(errors.ErrInvalidState,
			"frame %q already popped (use-after-pop)", f.target).
			WithDetail("frame_id", f.id)
	}
	return paths.Resolve(f.resolved, rel), nil
}
