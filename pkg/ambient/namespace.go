// Package ambient implements receiver-less operation calls: a scope
// can temporarily bind its operations into a shared callable
// namespace, shadowing any same-named bindings of enclosing scopes and
// restoring them exactly on exit.
//
// The namespace is not a genuinely global table. It is an explicit
// dispatcher object; the process-wide Default() instance exists for
// script-like ergonomics and is serialized through ownership tracking.
// Concurrent ambient use of one namespace from independent execution
// contexts is a hard usage error (AMBIENT_CONFLICT), never silently
// tolerated.
package ambient

import (
	"sync"

	"github.com/arthur-debert/handrail/pkg/errors"
)

// Func is a callable bound into the namespace.
type Func func(args ...string) (interface{}, error)

// Namespace is a shared table of named callables with ownership
// tracking. All methods are safe for concurrent use; the ownership
// rules decide whether a caller may install bindings at all.
type Namespace struct {
	mu    sync.Mutex
	table map[string]Func

	// owner identifies the execution context currently holding the
	// namespace; depth counts its nested installs.
	owner string
	depth int
}

// New creates an empty namespace.
func New() *Namespace {
	return &Namespace{table: make(map[string]Func)}
}

var (
	defaultOnce sync.Once
	defaultNS   *Namespace
)

// Default returns the process-wide shared namespace.
func Default() *Namespace {
	defaultOnce.Do(func() { defaultNS = New() })
	return defaultNS
}

// Lookup returns the callable bound under name.
func (n *Namespace) Lookup(name string) (Func, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn, ok := n.table[name]
	return fn, ok
}

// Call invokes the callable bound under name.
func (n *Namespace) Call(name string, args ...string) (interface{}, error) {
	fn, ok := n.Lookup(name)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "no ambient function %q", name)
	}
	return fn(args...)
}

// Names returns the currently bound names, unordered.
func (n *Namespace) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.table))
	for name := range n.table {
		out = append(out, name)
	}
	return out
}

// Len returns the number of bound names.
func (n *Namespace) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.table)
}

// acquire claims the namespace for owner. Nested claims by the same
// owner stack; a claim while another owner holds the namespace is an
// ambient conflict.
func (n *Namespace) acquire(owner string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.owner != "" && n.owner != owner {
		return errors.Newf(errors.ErrAmbientConflict,
			"namespace is held by another execution context (owner %s)", n.owner)
	}
	n.owner = owner
	n.depth++
	return nil
}

// release undoes one acquire; the namespace becomes free when the
// outermost claim is released.
func (n *Namespace) release(owner string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.owner != owner || n.depth == 0 {
		return errors.Newf(errors.ErrInvalidState,
			"release by %s does not match namespace owner %q", owner, n.owner)
	}
	n.depth--
	if n.depth == 0 {
		n.owner = ""
	}
	return nil
}
