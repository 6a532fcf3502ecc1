package operations

import (
	"sync"

	"github.com/arthur-debert/handrail/pkg/ambient"
	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/handlers"
	"github.com/arthur-debert/handrail/pkg/registry"
	"github.com/arthur-debert/handrail/pkg/scope"
)

// Env bundles the collaborators context operations dispatch through:
// the four category registries and the process runner.
type Env struct {
	Files       *registry.Registry[handlers.FileHandler]
	Directories *registry.Registry[handlers.DirectoryHandler]
	Archives    *registry.Registry[handlers.ArchiveHandler]
	Executables *registry.Registry[handlers.ExecutableHandler]
	Runner      handlers.Runner
	Allowlist   []string
}

var (
	defaultEnvOnce sync.Once
	defaultEnv     *Env
)

// DefaultEnv returns the process-wide environment backed by the
// singleton registries and the OS runner.
func DefaultEnv() *Env {
	defaultEnvOnce.Do(func() {
		defaultEnv = &Env{
			Files:       handlers.FileRegistry(),
			Directories: handlers.DirectoryRegistry(),
			Archives:    handlers.ArchiveRegistry(),
			Executables: handlers.ExecutableRegistry(),
			Runner:      OSRunner{},
		}
	})
	return defaultEnv
}

// Execute runs the executable at path through the environment's
// dispatched handler, runner and allowlist.
func (e *Env) Execute(path string, args []string) (handlers.ExecResult, error) {
	return Execute(e.Runner, e.Executables.ResolveFor(path), path, args, e.Allowlist)
}

// ContextOptions configure a context front end.
type ContextOptions struct {
	Create  bool
	DryRun  bool
	Ambient bool
}

// Dir is the directory context front end: a scope plus dispatch into
// the directory and file registries.
type Dir struct {
	*scope.Scope
	env *Env
}

// OpenDir pushes a directory scope for target. With Ambient enabled
// the directory's operations are bound into the stack's namespace as
// receiver-less calls until the scope closes.
func OpenDir(s *scope.Stack, env *Env, target string, o ContextOptions) (*Dir, error) {
	d := &Dir{env: env}
	opts := scope.Options{
		Kind:    scope.KindDirectory,
		Create:  o.Create,
		DryRun:  o.DryRun,
		Ambient: o.Ambient,
	}
	if o.Ambient {
		opts.Bindings = d.bindings()
	}
	sc, err := s.Push(target, opts)
	if err != nil {
		return nil, err
	}
	d.Scope = sc
	return d, nil
}

func (d *Dir) bindings() map[string]ambient.Func {
	return map[string]ambient.Func{
		"pwd": func(args ...string) (interface{}, error) {
			return d.Path(), nil
		},
		"list_contents": func(args ...string) (interface{}, error) {
			return d.List()
		},
		"read_content": func(args ...string) (interface{}, error) {
			if len(args) != 1 {
				return nil, errors.New(errors.ErrInvalidInput, "read_content expects a path")
			}
			return d.ReadFile(args[0])
		},
		"write_content": func(args ...string) (interface{}, error) {
			if len(args) != 2 {
				return nil, errors.New(errors.ErrInvalidInput, "write_content expects a path and content")
			}
			return d.WriteFile(args[0], args[1])
		},
		"create_file": func(args ...string) (interface{}, error) {
			if len(args) != 1 {
				return nil, errors.New(errors.ErrInvalidInput, "create_file expects a path")
			}
			return d.CreateFile(args[0])
		},
	}
}

// List lists the directory through its dispatched handler.
func (d *Dir) List() ([]string, error) {
	return ListContents(d.env.Directories.ResolveFor(d.Path()), d.Path())
}

// Info returns metadata from the dispatched directory handler.
func (d *Dir) Info() (map[string]interface{}, error) {
	return DirectoryInfo(d.env.Directories.ResolveFor(d.Path()), d.Path())
}

// ReadFile reads rel (resolved against this scope) through its
// dispatched file handler.
func (d *Dir) ReadFile(rel string) (string, error) {
	path, err := d.Resolve(rel)
	if err != nil {
		return "", err
	}
	return ReadContent(d.env.Files.ResolveFor(path), path)
}

// WriteFile writes content to rel through its dispatched file handler.
func (d *Dir) WriteFile(rel, content string) (Result, error) {
	path, err := d.Resolve(rel)
	if err != nil {
		return Result{}, err
	}
	return WriteContent(d.FS(), d.env.Files.ResolveFor(path), path, content)
}

// CreateFile ensures an empty file at rel.
func (d *Dir) CreateFile(rel string) (Result, error) {
	path, err := d.Resolve(rel)
	if err != nil {
		return Result{}, err
	}
	return CreateFile(d.FS(), path)
}

// File is the file context front end.
type File struct {
	*scope.Scope
	env *Env
}

// OpenFile pushes a file scope for target.
func OpenFile(s *scope.Stack, env *Env, target string, o ContextOptions) (*File, error) {
	f := &File{env: env}
	opts := scope.Options{
		Kind:    scope.KindFile,
		Create:  o.Create,
		DryRun:  o.DryRun,
		Ambient: o.Ambient,
	}
	if o.Ambient {
		opts.Bindings = f.bindings()
	}
	sc, err := s.Push(target, opts)
	if err != nil {
		return nil, err
	}
	f.Scope = sc
	return f, nil
}

func (f *File) bindings() map[string]ambient.Func {
	return map[string]ambient.Func{
		"read_content": func(args ...string) (interface{}, error) {
			return f.Read()
		},
		"write_content": func(args ...string) (interface{}, error) {
			if len(args) != 1 {
				return nil, errors.New(errors.ErrInvalidInput, "write_content expects content")
			}
			return f.Write(args[0])
		},
		"append_line": func(args ...string) (interface{}, error) {
			if len(args) != 1 {
				return nil, errors.New(errors.ErrInvalidInput, "append_line expects a line")
			}
			return f.AppendLine(args[0])
		},
		"add_heading": func(args ...string) (interface{}, error) {
			if len(args) != 1 {
				return nil, errors.New(errors.ErrInvalidInput, "add_heading expects a title")
			}
			return f.AddHeading(args[0], 1)
		},
	}
}

func (f *File) handler() handlers.FileHandler {
	return f.env.Files.ResolveFor(f.Path())
}

// Read returns the file content through its dispatched handler.
func (f *File) Read() (string, error) {
	return ReadContent(f.handler(), f.Path())
}

// Write replaces the file content.
func (f *File) Write(content string) (Result, error) {
	return WriteContent(f.FS(), f.handler(), f.Path(), content)
}

// AppendLine appends one line to the file.
func (f *File) AppendLine(line string) (Result, error) {
	return AppendLine(f.FS(), f.handler(), f.Path(), line)
}

// AddHeading appends a markdown heading.
func (f *File) AddHeading(title string, level int) (Result, error) {
	return AddHeading(f.FS(), f.handler(), f.Path(), title, level)
}

// Info returns metadata from the dispatched file handler.
func (f *File) Info() (map[string]interface{}, error) {
	return FileInfo(f.handler(), f.Path())
}

// Archive is the archive context front end. Codec work stays in
// collaborators; the context classifies and describes.
type Archive struct {
	*scope.Scope
	env *Env
}

// OpenArchive pushes a file scope for the archive at target.
func OpenArchive(s *scope.Stack, env *Env, target string, o ContextOptions) (*Archive, error) {
	a := &Archive{env: env}
	opts := scope.Options{
		Kind:    scope.KindFile,
		Create:  o.Create,
		DryRun:  o.DryRun,
		Ambient: o.Ambient,
	}
	if o.Ambient {
		opts.Bindings = a.bindings()
	}
	sc, err := s.Push(target, opts)
	if err != nil {
		return nil, err
	}
	a.Scope = sc
	return a, nil
}

func (a *Archive) bindings() map[string]ambient.Func {
	return map[string]ambient.Func{
		"archive_type": func(args ...string) (interface{}, error) {
			return a.Type(), nil
		},
		"archive_info": func(args ...string) (interface{}, error) {
			return a.Info()
		},
	}
}

// Type returns the registered archive type name for this path.
func (a *Archive) Type() string {
	return DetectArchiveType(a.env.Archives, a.Path())
}

// Info returns metadata from the dispatched archive handler.
func (a *Archive) Info() (map[string]interface{}, error) {
	return ArchiveInfo(a.env.Archives.ResolveFor(a.Path()), a.Path())
}
