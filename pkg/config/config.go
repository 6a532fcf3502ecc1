// Package config loads handrail's runtime configuration. Settings are
// layered with koanf: built-in defaults, then an optional config file
// (TOML or YAML), then HANDRAIL_* environment variables. Later layers
// win.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/paths"
)

// Implicit root policies for relative targets pushed on an empty stack.
const (
	ImplicitRootCwd   = "cwd"
	ImplicitRootError = "error"
)

// Exec holds the command execution settings.
type Exec struct {
	// Shell is the interpreter used for scripts without a shebang.
	Shell string `koanf:"shell"`
	// Allowlist restricts which commands may run, matched by base
	// name. An empty list allows everything.
	Allowlist []string `koanf:"allowlist"`
}

// Config is the materialized handrail configuration.
type Config struct {
	// ImplicitRoot decides how a relative target is resolved when no
	// scope is active: "cwd" falls back to the working directory,
	// "error" refuses.
	ImplicitRoot string `koanf:"implicit_root"`
	DryRun       bool   `koanf:"dry_run"`
	Verbosity    int    `koanf:"verbosity"`
	Exec         Exec   `koanf:"exec"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"implicit_root":  ImplicitRootCwd,
		"dry_run":        false,
		"verbosity":      0,
		"exec.shell":     "/bin/sh",
		"exec.allowlist": []string{},
	}
}

// Default returns the built-in configuration without reading any file
// or environment variable.
func Default() *Config {
	cfg, _ := load("")
	return cfg
}

// Load reads configuration from the standard location
// ($XDG_CONFIG_HOME/handrail/handrail.toml), layered over the defaults
// and under the environment. A missing file is not an error.
func Load() (*Config, error) {
	path := paths.ConfigFile()
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	return load(path)
}

// LoadFile reads configuration from an explicit file path. The parser
// is chosen by extension: .yaml/.yml use YAML, everything else TOML.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %q not found", path)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// HANDRAIL_DRY_RUN=true, HANDRAIL_EXEC__SHELL=/bin/zsh, etc.
	// A double underscore separates nesting levels so that keys like
	// dry_run survive the mapping.
	if err := k.Load(env.Provider("HANDRAIL_", ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	if paths.HasExtension(path, "yaml") || paths.HasExtension(path, "yml") {
		return yaml.Parser()
	}
	return toml.Parser()
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "HANDRAIL_"))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks the configuration for values no component accepts.
func (c *Config) Validate() error {
	switch c.ImplicitRoot {
	case ImplicitRootCwd, ImplicitRootError:
	default:
		return errors.Newf(errors.ErrConfigValid,
			"implicit_root must be %q or %q, got %q", ImplicitRootCwd, ImplicitRootError, c.ImplicitRoot)
	}
	if c.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "verbosity must not be negative, got %d", c.Verbosity)
	}
	if c.Exec.Shell == "" {
		return errors.New(errors.ErrConfigValid, "exec.shell must not be empty")
	}
	return nil
}

// AllowlistOrNil returns the exec allowlist, mapping the empty list to
// nil so that callers can treat it as allow-everything.
func (c *Config) AllowlistOrNil() []string {
	if len(c.Exec.Allowlist) == 0 {
		return nil
	}
	return c.Exec.Allowlist
}
