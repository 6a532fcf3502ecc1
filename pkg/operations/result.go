// Package operations provides the stateless operation facades over a
// resolved path plus a dispatched handler, and the context front ends
// that combine a scope with handler dispatch. Facade functions never
// resolve paths themselves; callers pass paths already resolved by a
// scope or given absolute.
package operations

// Result is the uniform outcome of a mutating facade operation. A
// simulated result has the same shape as a live one, so chained call
// sites need no dry-run branching.
type Result struct {
	Op        string
	Path      string
	Simulated bool
}
