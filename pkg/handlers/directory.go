package handlers

import (
	"path/filepath"

	"github.com/arthur-debert/handrail/pkg/fsx"
)

// PlainDirHandler is the catch-all directory handler.
type PlainDirHandler struct {
	fs fsx.FS
}

// NewPlainDirHandler creates the default directory handler.
func NewPlainDirHandler(fsys fsx.FS) *PlainDirHandler {
	return &PlainDirHandler{fs: fsys}
}

func (h *PlainDirHandler) Name() string { return "plain" }

func (h *PlainDirHandler) Validate(path string) bool { return true }

func (h *PlainDirHandler) List(path string) ([]string, error) {
	entries, err := h.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (h *PlainDirHandler) Info(path string) (map[string]interface{}, error) {
	entries, err := h.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	files, dirs := 0, 0
	for _, e := range entries {
		if e.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	return map[string]interface{}{
		"type":        "directory",
		"entry_count": len(entries),
		"file_count":  files,
		"dir_count":   dirs,
	}, nil
}

// GitDirHandler recognizes git repositories.
type GitDirHandler struct {
	plain *PlainDirHandler
}

// NewGitDirHandler creates a handler for git repository directories.
func NewGitDirHandler(fsys fsx.FS) *GitDirHandler {
	return &GitDirHandler{plain: NewPlainDirHandler(fsys)}
}

func (h *GitDirHandler) Name() string { return "git" }

func (h *GitDirHandler) Validate(path string) bool {
	return fsx.Exists(h.plain.fs, filepath.Join(path, ".git"))
}

func (h *GitDirHandler) List(path string) ([]string, error) {
	return h.plain.List(path)
}

func (h *GitDirHandler) Info(path string) (map[string]interface{}, error) {
	fsys := h.plain.fs
	hasReadme := false
	for _, name := range []string{"README.md", "README.txt", "README"} {
		if fsx.Exists(fsys, filepath.Join(path, name)) {
			hasReadme = true
			break
		}
	}
	return map[string]interface{}{
		"type":          "git_repository",
		"has_git_dir":   fsx.Exists(fsys, filepath.Join(path, ".git")),
		"has_gitignore": fsx.Exists(fsys, filepath.Join(path, ".gitignore")),
		"has_readme":    hasReadme,
	}, nil
}

// PythonDirHandler recognizes python projects by their marker files.
type PythonDirHandler struct {
	plain *PlainDirHandler
}

// pythonIndicators are the files whose presence marks a python project.
var pythonIndicators = []string{
	"setup.py", "pyproject.toml", "requirements.txt",
	"Pipfile", "setup.cfg", "environment.yml",
}

// NewPythonDirHandler creates a handler for python project directories.
func NewPythonDirHandler(fsys fsx.FS) *PythonDirHandler {
	return &PythonDirHandler{plain: NewPlainDirHandler(fsys)}
}

func (h *PythonDirHandler) Name() string { return "python" }

func (h *PythonDirHandler) Validate(path string) bool {
	for _, indicator := range pythonIndicators {
		if fsx.Exists(h.plain.fs, filepath.Join(path, indicator)) {
			return true
		}
	}
	return false
}

func (h *PythonDirHandler) List(path string) ([]string, error) {
	entries, err := h.plain.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) == ".py" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (h *PythonDirHandler) Info(path string) (map[string]interface{}, error) {
	fsys := h.plain.fs
	return map[string]interface{}{
		"type":               "python_project",
		"has_setup_py":       fsx.Exists(fsys, filepath.Join(path, "setup.py")),
		"has_pyproject_toml": fsx.Exists(fsys, filepath.Join(path, "pyproject.toml")),
		"has_requirements":   fsx.Exists(fsys, filepath.Join(path, "requirements.txt")),
		"has_src_layout":     fsx.Exists(fsys, filepath.Join(path, "src")),
		"has_tests":          fsx.Exists(fsys, filepath.Join(path, "tests")),
	}, nil
}
