// Package fsx defines the filesystem collaborator used by the scope
// stack and the operation facades. The core never performs I/O
// directly; everything flows through an FS implementation, which makes
// dry-run a matter of swapping in the recording implementation.
package fsx

import (
	"io/fs"
)

// FS is the filesystem surface the core depends on.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
	Rename(oldpath, newpath string) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Result reports the outcome of an ensure-exists call. Simulated is
// true when the call was routed to a recording filesystem, so chained
// call sites can treat live and dry-run results uniformly.
type Result struct {
	Path      string
	Created   bool
	Simulated bool
}

// Exists reports whether path exists on the given filesystem.
func Exists(fsys FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// EnsureDirectory guarantees that path exists as a directory. It is
// the single mutation performed when a directory scope is pushed with
// create enabled.
func EnsureDirectory(fsys FS, path string) (Result, error) {
	if Exists(fsys, path) {
		return Result{Path: path, Simulated: IsRecording(fsys)}, nil
	}
	if err := fsys.MkdirAll(path, 0755); err != nil {
		return Result{Path: path}, err
	}
	return Result{Path: path, Created: true, Simulated: IsRecording(fsys)}, nil
}

// EnsureFile guarantees that path exists as a file, creating parent
// directories as needed.
func EnsureFile(fsys FS, path string) (Result, error) {
	if Exists(fsys, path) {
		return Result{Path: path, Simulated: IsRecording(fsys)}, nil
	}
	if dir := parentDir(path); dir != "" {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return Result{Path: path}, err
		}
	}
	if err := fsys.WriteFile(path, nil, 0644); err != nil {
		return Result{Path: path}, err
	}
	return Result{Path: path, Created: true, Simulated: IsRecording(fsys)}, nil
}

// IsRecording reports whether fsys is the dry-run recording
// implementation.
func IsRecording(fsys FS) bool {
	_, ok := fsys.(*RecordingFS)
	return ok
}
