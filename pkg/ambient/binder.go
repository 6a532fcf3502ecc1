package ambient

import (
	"sort"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/logging"
)

// binding records the prior state of one name so uninstall can restore
// the namespace exactly, including deleting names that had no prior
// value.
type binding struct {
	name     string
	hadPrior bool
	prior    Func
}

// BindingSet is the restoration record for one install. Uninstall
// replays the records in reverse installation order.
type BindingSet struct {
	ns          *Namespace
	owner       string
	records     []binding
	uninstalled bool
}

// Install claims ns for owner and binds the given callables, capturing
// each name's prior value first. Names are installed in sorted order so
// the restoration sequence is deterministic. The returned BindingSet
// must be uninstalled on every exit path of the owning scope.
func Install(ns *Namespace, owner string, fns map[string]Func) (*BindingSet, error) {
	if err := ns.acquire(owner); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)

	ns.mu.Lock()
	set := &BindingSet{ns: ns, owner: owner, records: make([]binding, 0, len(names))}
	for _, name := range names {
		prior, had := ns.table[name]
		set.records = append(set.records, binding{name: name, hadPrior: had, prior: prior})
		ns.table[name] = fns[name]
	}
	ns.mu.Unlock()

	logger := logging.GetLogger("ambient")
	logger.Debug().Str("owner", owner).Strs("names", names).Msg("Installed ambient bindings")
	return set, nil
}

// Names returns the installed names in installation order.
func (b *BindingSet) Names() []string {
	out := make([]string, 0, len(b.records))
	for _, rec := range b.records {
		out = append(out, rec.name)
	}
	return out
}

// Uninstall restores the namespace to its pre-install state and
// releases the owner's claim. It is an InvalidState error to uninstall
// a set twice.
func (b *BindingSet) Uninstall() error {
	if b.uninstalled {
		return errors.New(errors.ErrInvalidState, "binding set already uninstalled")
	}
	b.uninstalled = true

	b.ns.mu.Lock()
	for i := len(b.records) - 1; i >= 0; i-- {
		rec := b.records[i]
		if rec.hadPrior {
			b.ns.table[rec.name] = rec.prior
		} else {
			delete(b.ns.table, rec.name)
		}
	}
	b.ns.mu.Unlock()

	logger := logging.GetLogger("ambient")
	logger.Debug().Str("owner", b.owner).Msg("Restored ambient bindings")
	return b.ns.release(b.owner)
}
