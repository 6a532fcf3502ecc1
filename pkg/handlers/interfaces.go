// Package handlers defines the capability interfaces implemented per
// concrete format, and the built-in handlers for the four object
// categories: file, directory, archive and executable.
//
// Handlers are constructed over a read-only filesystem collaborator
// used for validation and metadata. Mutating capabilities take their
// collaborator (filesystem, process runner) explicitly, so a dry-run
// routes the same call through a recording implementation.
package handlers

import "github.com/arthur-debert/handrail/pkg/fsx"

// Handler is the base capability interface all handlers implement.
type Handler interface {
	// Name returns the unique name of this handler within its category
	Name() string

	// Validate reports whether this handler applies to the given path
	Validate(path string) bool

	// Info returns format-specific metadata for the object at path
	Info(path string) (map[string]interface{}, error)
}

// FileHandler manages operations on one file format.
type FileHandler interface {
	Handler

	// Read returns the file content decoded by format-specific logic
	Read(path string) (string, error)

	// Write encodes and writes content through the given filesystem
	Write(fsys fsx.FS, path, content string) error
}

// DirectoryHandler manages operations on one directory flavor
// (plain directory, git repository, python project, ...).
type DirectoryHandler interface {
	Handler

	// List returns the entry names relevant to this directory flavor
	List(path string) ([]string, error)
}

// ArchiveHandler manages one archive family. Codec work is a
// collaborator concern; handlers only classify and describe.
type ArchiveHandler interface {
	Handler

	// Extensions returns the file extensions this handler claims,
	// without leading dots
	Extensions() []string
}

// ExecResult is the outcome of running an executable.
type ExecResult struct {
	Code      int
	Stdout    string
	Stderr    string
	Success   bool
	Simulated bool
}

// Runner executes a command. The live implementation shells out; the
// dry-run implementation records the invocation and reports success.
type Runner interface {
	Run(name string, args ...string) (ExecResult, error)
}

// ExecutableHandler manages one kind of runnable file.
type ExecutableHandler interface {
	Handler

	// Execute runs the file through the given runner
	Execute(r Runner, path string, args []string) (ExecResult, error)
}
