package operations

import (
	"path/filepath"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/handlers"
	"github.com/arthur-debert/handrail/pkg/registry"
)

// Execute runs the executable at path through its handler and runner.
// When allowlist is non-nil, the executable's base name must appear in
// it; anything else is refused before the runner is consulted.
func Execute(r handlers.Runner, h handlers.ExecutableHandler, path string, args, allowlist []string) (handlers.ExecResult, error) {
	if allowlist != nil && !allowed(path, allowlist) {
		return handlers.ExecResult{}, errors.Newf(errors.ErrExecNotAllowed,
			"command %q is not in the allowlist", filepath.Base(path)).
			WithDetail("path", path)
	}
	return h.Execute(r, path, args)
}

func allowed(path string, allowlist []string) bool {
	base := filepath.Base(path)
	for _, entry := range allowlist {
		if entry == base || entry == path {
			return true
		}
	}
	return false
}

// DetectArchiveType returns the archive registry's type name for path,
// or the empty string when no extension mapping applies.
func DetectArchiveType(reg *registry.Registry[handlers.ArchiveHandler], path string) string {
	return reg.DetectType(path)
}

// ArchiveInfo returns handler-specific metadata for the archive.
func ArchiveInfo(h handlers.ArchiveHandler, path string) (map[string]interface{}, error) {
	return h.Info(path)
}
