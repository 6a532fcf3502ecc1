package operations

import (
	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/handlers"
	"github.com/arthur-debert/handrail/pkg/paths"
)

// ListContents lists the directory at path through its handler.
func ListContents(h handlers.DirectoryHandler, path string) ([]string, error) {
	names, err := h.List(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot list %q", path)
	}
	return names, nil
}

// ListFiles lists directory entries filtered by extension (without a
// leading dot). An empty extension returns everything.
func ListFiles(h handlers.DirectoryHandler, path, extension string) ([]string, error) {
	names, err := ListContents(h, path)
	if err != nil {
		return nil, err
	}
	if extension == "" {
		return names, nil
	}
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if paths.HasExtension(name, extension) {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}

// CreateDirectory ensures a directory at path through fsys.
func CreateDirectory(fsys fsx.FS, path string) (Result, error) {
	res, err := fsx.EnsureDirectory(fsys, path)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %q", path)
	}
	return Result{Op: "mkdir", Path: res.Path, Simulated: res.Simulated}, nil
}

// CreateFile ensures an empty file at path through fsys, creating
// parent directories as needed.
func CreateFile(fsys fsx.FS, path string) (Result, error) {
	res, err := fsx.EnsureFile(fsys, path)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot create %q", path)
	}
	return Result{Op: "create", Path: res.Path, Simulated: res.Simulated}, nil
}

// DirectoryInfo returns handler-specific metadata for the directory.
func DirectoryInfo(h handlers.DirectoryHandler, path string) (map[string]interface{}, error) {
	return h.Info(path)
}
