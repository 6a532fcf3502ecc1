package handlers

import (
	"sync"

	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/registry"
)

// Process-wide registries, one per category, built lazily on first use.
var (
	fileOnce sync.Once
	fileReg  *registry.Registry[FileHandler]

	dirOnce sync.Once
	dirReg  *registry.Registry[DirectoryHandler]

	archiveOnce sync.Once
	archiveReg  *registry.Registry[ArchiveHandler]

	execOnce sync.Once
	execReg  *registry.Registry[ExecutableHandler]
)

// NewFileRegistry creates and populates a file handler registry over
// the given filesystem. The text handler is both a registered entry
// and the category default.
func NewFileRegistry(fsys fsx.FS) *registry.Registry[FileHandler] {
	text := NewTextHandler(fsys)
	reg := registry.New[FileHandler]("file", text)
	_ = reg.Register("json", NewJSONHandler(fsys))
	_ = reg.Register("text", text)
	_ = reg.RegisterExtension(".json", "json")
	_ = reg.RegisterExtension(".txt", "text")
	return reg
}

// NewDirectoryRegistry creates and populates a directory handler
// registry over the given filesystem.
func NewDirectoryRegistry(fsys fsx.FS) *registry.Registry[DirectoryHandler] {
	plain := NewPlainDirHandler(fsys)
	reg := registry.New[DirectoryHandler]("directory", plain)
	_ = reg.Register("git", NewGitDirHandler(fsys))
	_ = reg.Register("python", NewPythonDirHandler(fsys))
	_ = reg.Register("plain", plain)
	return reg
}

// NewArchiveRegistry creates and populates an archive handler registry
// over the given filesystem. Zip container formats are registered as
// aliases sharing the zip handler instance.
func NewArchiveRegistry(fsys fsx.FS) *registry.Registry[ArchiveHandler] {
	zip := NewZipHandler(fsys)
	reg := registry.New[ArchiveHandler]("archive", zip)
	_ = reg.Register("zip", zip)
	_ = reg.Register("tar.gz", NewTarGzHandler(fsys))
	_ = reg.Register("tar", NewTarHandler(fsys))
	_ = reg.RegisterExtension(".zip", "zip")
	_ = reg.RegisterExtension(".tar.gz", "tar.gz")
	_ = reg.RegisterExtension(".tgz", "tar.gz")
	_ = reg.RegisterExtension(".tar", "tar")
	_ = reg.AddSimilar("jar", ".jar", "zip")
	_ = reg.AddSimilar("whl", ".whl", "zip")
	_ = reg.AddSimilar("docx", ".docx", "zip")
	return reg
}

// NewExecutableRegistry creates and populates an executable handler
// registry over the given filesystem.
func NewExecutableRegistry(fsys fsx.FS) *registry.Registry[ExecutableHandler] {
	binary := NewBinaryHandler(fsys)
	reg := registry.New[ExecutableHandler]("executable", binary)
	_ = reg.Register("script", NewScriptHandler(fsys))
	_ = reg.Register("binary", binary)
	return reg
}

// FileRegistry returns the process-wide file handler registry.
func FileRegistry() *registry.Registry[FileHandler] {
	fileOnce.Do(func() { fileReg = NewFileRegistry(fsx.NewOS()) })
	return fileReg
}

// DirectoryRegistry returns the process-wide directory handler registry.
func DirectoryRegistry() *registry.Registry[DirectoryHandler] {
	dirOnce.Do(func() { dirReg = NewDirectoryRegistry(fsx.NewOS()) })
	return dirReg
}

// ArchiveRegistry returns the process-wide archive handler registry.
func ArchiveRegistry() *registry.Registry[ArchiveHandler] {
	archiveOnce.Do(func() { archiveReg = NewArchiveRegistry(fsx.NewOS()) })
	return archiveReg
}

// ExecutableRegistry returns the process-wide executable handler registry.
func ExecutableRegistry() *registry.Registry[ExecutableHandler] {
	execOnce.Do(func() { execReg = NewExecutableRegistry(fsx.NewOS()) })
	return execReg
}
