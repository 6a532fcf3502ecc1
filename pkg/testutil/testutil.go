// Package testutil provides small helpers shared by handrail tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/stretchr/testify/require"
)

// NewMemoryFS returns an in-memory filesystem pre-populated from tree.
// Keys ending in "/" create directories, everything else files with
// the value as content.
func NewMemoryFS(t *testing.T, tree map[string]string) fsx.FS {
	t.Helper()
	fsys := fsx.NewMemory()
	WriteTree(t, fsys, tree)
	return fsys
}

// WriteTree materializes tree on fsys, failing the test on any error.
func WriteTree(t *testing.T, fsys fsx.FS, tree map[string]string) {
	t.Helper()
	for path, content := range tree {
		if strings.HasSuffix(path, "/") {
			require.NoError(t, fsys.MkdirAll(strings.TrimSuffix(path, "/"), 0755))
			continue
		}
		_, err := fsx.EnsureFile(fsys, path)
		require.NoError(t, err)
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
}

// RequireContent asserts the file at path holds exactly want.
func RequireContent(t *testing.T, fsys fsx.FS, path, want string) {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, string(data))
}

// RequireExists asserts path exists on fsys.
func RequireExists(t *testing.T, fsys fsx.FS, path string) {
	t.Helper()
	require.True(t, fsx.Exists(fsys, path), "expected %s to exist", path)
}

// RequireNotExists asserts path does not exist on fsys.
func RequireNotExists(t *testing.T, fsys fsx.FS, path string) {
	t.Helper()
	require.False(t, fsx.Exists(fsys, path), "expected %s to not exist", path)
}
