// Package registry provides the per-category handler registries that
// back dispatch for files, directories, archives and executables.
//
// A registry holds named handlers in registration order plus a default
// fallback. Resolution walks the handlers in order and returns the
// first whose Validate accepts the path; when none does, the default
// wins, so resolution never fails. Aliases registered via AddSimilar
// share the base handler instance, not a copy.
package registry

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/logging"
)

// Matcher is the minimal capability a registry needs from its items.
// Validate reports whether the handler applies to the given path; a
// panicking Validate is absorbed by the registry and treated as "does
// not apply".
type Matcher interface {
	Name() string
	Validate(path string) bool
}

// Registry is an insertion-ordered, thread-safe collection of named
// handlers with a default fallback.
type Registry[H Matcher] struct {
	mu       sync.RWMutex
	category string
	order    []string
	items    map[string]H
	exts     map[string]string // extension -> handler name
	fallback H
}

// New creates a registry for the given category. A registry without a
// default handler cannot resolve anything, so a nil default is a
// construction-time configuration fault and panics immediately.
func New[H Matcher](category string, fallback H) *Registry[H] {
	if isNil(fallback) {
		panic(errors.Newf(errors.ErrHandlerUnavailable,
			"registry %q constructed without a default handler", category))
	}
	return &Registry[H]{
		category: category,
		items:    make(map[string]H),
		exts:     make(map[string]string),
		fallback: fallback,
	}
}

// Category returns the category name this registry serves.
func (r *Registry[H]) Category() string {
	return r.category
}

// Register adds a handler under name. Registering an existing name
// overwrites the previous handler (last write wins) while keeping its
// position in the resolution order.
func (r *Registry[H]) Register(name string, handler H) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "handler name cannot be empty")
	}
	if isNil(handler) {
		return errors.Newf(errors.ErrInvalidInput, "handler %q cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	logger := logging.GetLogger("registry")
	if _, exists := r.items[name]; exists {
		logger.Debug().Str("category", r.category).Str("handler", name).
			Msg("Overwriting registered handler")
	} else {
		r.order = append(r.order, name)
		logger.Debug().Str("category", r.category).Str("handler", name).
			Msg("Registered handler")
	}
	r.items[name] = handler
	return nil
}

// RegisterFront adds a handler at the head of the resolution order,
// giving it priority over every existing handler. Like Register it
// upserts, but an existing name is moved to the front.
func (r *Registry[H]) RegisterFront(name string, handler H) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "handler name cannot be empty")
	}
	if isNil(handler) {
		return errors.Newf(errors.ErrInvalidInput, "handler %q cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.order = append([]string{name}, r.order...)
	r.items[name] = handler

	logger := logging.GetLogger("registry")
	logger.Debug().Str("category", r.category).Str("handler", name).
		Msg("Registered handler at front")
	return nil
}

// Get retrieves a handler by name.
func (r *Registry[H]) Get(name string) (H, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero H
		return zero, errors.Newf(errors.ErrNotFound,
			"handler %q not found in %s registry", name, r.category)
	}
	return item, nil
}

// Default returns the category's fallback handler.
func (r *Registry[H]) Default() H {
	return r.fallback
}

// Has checks whether a handler is registered under name.
func (r *Registry[H]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.items[name]
	return exists
}

// List returns all registered names in resolution order.
func (r *Registry[H]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ResolveFor returns the handler applicable to path. Handlers are
// consulted in registration order and the first match wins; the walk
// short-circuits so handlers after a match are never asked. When no
// handler validates, the default is returned.
func (r *Registry[H]) ResolveFor(path string) H {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	items := make(map[string]H, len(r.items))
	for k, v := range r.items {
		items[k] = v
	}
	r.mu.RUnlock()

	for _, name := range names {
		if r.safeValidate(name, items[name], path) {
			return items[name]
		}
	}
	return r.fallback
}

// safeValidate calls handler.Validate, converting a panic into "does
// not apply" so one faulty handler cannot break dispatch for the
// whole category.
func (r *Registry[H]) safeValidate(name string, handler H, path string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger := logging.GetLogger("registry")
			logger.Warn().Str("category", r.category).Str("handler", name).
				Str("path", path).Interface("panic", rec).
				Msg("Handler validation panicked, treating as no match")
			ok = false
		}
	}()
	return handler.Validate(path)
}

// AddSimilar registers alias bound to the same handler instance as
// base, recording extension for type detection. Lookups by either name
// return the identical instance, so state on the handler is visible
// through every alias.
func (r *Registry[H]) AddSimilar(alias, extension, base string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	handler, exists := r.items[base]
	if !exists {
		return errors.Newf(errors.ErrNotFound,
			"base handler %q not found in %s registry", base, r.category)
	}
	if _, exists := r.items[alias]; !exists {
		r.order = append(r.order, alias)
	}
	r.items[alias] = handler
	if ext := normalizeExt(extension); ext != "" {
		r.exts[ext] = alias
	}

	logger := logging.GetLogger("registry")
	logger.Debug().Str("category", r.category).Str("alias", alias).
		Str("base", base).Str("extension", extension).
		Msg("Registered similar handler")
	return nil
}

// RegisterExtension associates a file extension with a registered
// handler name, for DetectType lookups.
func (r *Registry[H]) RegisterExtension(extension, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; !exists {
		return errors.Newf(errors.ErrNotFound,
			"handler %q not found in %s registry", name, r.category)
	}
	if ext := normalizeExt(extension); ext != "" {
		r.exts[ext] = name
	}
	return nil
}

// DetectType returns the registered handler name matching the
// extension of path, preferring the longest matching extension
// ("x.tar.gz" matches "tar.gz" before "gz"). The empty string means no
// extension mapping applies.
func (r *Registry[H]) DetectType(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.exts))
	for ext := range r.exts {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })

	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, "."+ext) {
			return r.exts[ext]
		}
	}
	return ""
}

// Extensions returns the extension-to-handler-name table.
func (r *Registry[H]) Extensions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.exts))
	for k, v := range r.exts {
		out[k] = v
	}
	return out
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// isNil catches both an untyped nil and a typed-nil pointer boxed into
// the interface; handlers are pointer types, so the plain comparison
// would miss the common case.
func isNil[H Matcher](h H) bool {
	v := reflect.ValueOf(any(h))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}
