package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare tilde", "~", home},
		{"tilde slash", "~/projects", filepath.Join(home, "projects")},
		{"no tilde", "/var/log", "/var/log"},
		{"tilde mid path untouched", "/a/~b", "/a/~b"},
		{"relative untouched", "docs/readme.md", "docs/readme.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		target string
		want   string
	}{
		{"relative joins base", "/a/b", "c.txt", "/a/b/c.txt"},
		{"absolute wins", "/a/b", "/x/y", "/x/y"},
		{"dot segments cleaned", "/a/b", "../c", "/a/c"},
		{"nested relative", "/a", "b/c/d", "/a/b/c/d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.base, tt.target))
		})
	}
}

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "notes.txt", "txt"},
		{"compound", "backup.tar.gz", "tar.gz"},
		{"triple", "a.tar.bz2", "tar.bz2"},
		{"with directory", "/tmp/x/backup.tar.gz", "tar.gz"},
		{"hidden file", ".bashrc", ""},
		{"hidden with extension", ".config.yaml", "yaml"},
		{"no extension", "Makefile", ""},
		{"trailing dot", "weird.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitExtension(tt.in))
		})
	}
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("a.tar.gz", ".tar.gz"))
	assert.True(t, HasExtension("a.tar.gz", "tar.gz"))
	assert.True(t, HasExtension("A.ZIP", ".zip"))
	assert.True(t, HasExtension("a.tar.gz", ".gz"))
	assert.False(t, HasExtension("a.zip", ".tar.gz"))
	assert.False(t, HasExtension("zip", ".zip"))
	assert.False(t, HasExtension("a.zip", ""))
}

func TestConfigFile(t *testing.T) {
	assert.True(t, strings.HasSuffix(ConfigFile(), filepath.Join("handrail", "handrail.toml")))
}
