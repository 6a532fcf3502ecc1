// Package paths provides centralized path handling for handrail.
// All functions here are purely syntactic: they never touch the
// filesystem, so they are safe to call from dry-run code paths.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
// Paths without a leading tilde are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Resolve joins target against base unless target is already absolute.
// The result is cleaned but never checked against the filesystem.
func Resolve(base, target string) string {
	target = ExpandHome(target)
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(base, target)
}

// SplitExtension returns the compound extension of a filename without
// the leading dot: "x.tar.gz" yields "tar.gz", "x.zip" yields "zip".
// Hidden files such as ".bashrc" have no extension.
func SplitExtension(name string) string {
	base := filepath.Base(name)
	// A leading dot marks a hidden file, not an extension separator.
	trimmed := strings.TrimPrefix(base, ".")
	idx := strings.Index(trimmed, ".")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	return trimmed[idx+1:]
}

// HasExtension reports whether name carries the given compound
// extension. The extension may be given with or without a leading dot.
func HasExtension(name, ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(filepath.Base(name)), "."+strings.ToLower(ext))
}

// ConfigFile returns the path where the handrail config file is
// searched, following the XDG base directory specification.
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "handrail", "handrail.toml")
}

// StateDir returns the handrail state directory under XDG_STATE_HOME.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "handrail")
}
