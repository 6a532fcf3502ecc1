package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ImplicitRootCwd, cfg.ImplicitRoot)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, 0, cfg.Verbosity)
	assert.Equal(t, "/bin/sh", cfg.Exec.Shell)
	assert.Nil(t, cfg.AllowlistOrNil())
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handrail.toml")
	content := `
implicit_root = "error"
dry_run = true
verbosity = 2

[exec]
shell = "/bin/zsh"
allowlist = ["git", "make"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ImplicitRootError, cfg.ImplicitRoot)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, "/bin/zsh", cfg.Exec.Shell)
	assert.Equal(t, []string{"git", "make"}, cfg.AllowlistOrNil())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handrail.yaml")
	content := `
dry_run: true
exec:
  shell: /usr/bin/bash
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, "/usr/bin/bash", cfg.Exec.Shell)
	// Unset keys keep their defaults.
	assert.Equal(t, ImplicitRootCwd, cfg.ImplicitRoot)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handrail.toml")
	require.NoError(t, os.WriteFile(path, []byte(`dry_run = false`), 0644))

	t.Setenv("HANDRAIL_DRY_RUN", "true")
	t.Setenv("HANDRAIL_EXEC__SHELL", "/bin/dash")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, "/bin/dash", cfg.Exec.Shell)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad implicit root", func(c *Config) { c.ImplicitRoot = "parent" }},
		{"negative verbosity", func(c *Config) { c.Verbosity = -1 }},
		{"empty shell", func(c *Config) { c.Exec.Shell = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestInvalidFileValueRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handrail.toml")
	require.NoError(t, os.WriteFile(path, []byte(`implicit_root = "bogus"`), 0644))

	_, err := LoadFile(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
