package fsx

import (
	"io/fs"
	"sync"
	"time"

	"github.com/arthur-debert/handrail/pkg/logging"
)

// Action is one recorded mutation from a dry-run.
type Action struct {
	Op   string
	Path string
}

// RecordingFS wraps a live filesystem for dry-run execution. Reads
// pass through unchanged; every mutation becomes a no-op recorded in
// the journal. Paths "created" during the run are visible to later
// Stat calls, so a dry-run sees the same control flow as a live run.
type RecordingFS struct {
	mu      sync.Mutex
	under   FS
	journal []Action
	// created tracks simulated paths: true marks a directory
	created map[string]bool
}

// NewRecording creates a recording filesystem over the given one.
func NewRecording(under FS) *RecordingFS {
	return &RecordingFS{
		under:   under,
		created: make(map[string]bool),
	}
}

// Journal returns a copy of the recorded actions in order.
func (r *RecordingFS) Journal() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.journal))
	copy(out, r.journal)
	return out
}

func (r *RecordingFS) record(op, path string, isDir bool) {
	r.mu.Lock()
	r.journal = append(r.journal, Action{Op: op, Path: path})
	r.created[path] = isDir
	r.mu.Unlock()

	logger := logging.GetLogger("fsx")
	logger.Debug().Str("op", op).Str("path", path).Msg("dry-run: recorded mutation")
}

func (r *RecordingFS) Stat(name string) (fs.FileInfo, error) {
	if info, err := r.under.Stat(name); err == nil {
		return info, nil
	}
	r.mu.Lock()
	isDir, ok := r.created[name]
	r.mu.Unlock()
	if ok {
		return simulatedInfo{name: name, dir: isDir}, nil
	}
	return r.under.Stat(name)
}

func (r *RecordingFS) ReadFile(name string) ([]byte, error) {
	return r.under.ReadFile(name)
}

func (r *RecordingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	r.record("write", name, false)
	return nil
}

func (r *RecordingFS) MkdirAll(path string, perm fs.FileMode) error {
	r.record("mkdir", path, true)
	return nil
}

func (r *RecordingFS) Remove(name string) error {
	r.record("remove", name, false)
	return nil
}

func (r *RecordingFS) Rename(oldpath, newpath string) error {
	r.record("rename", newpath, false)
	return nil
}

func (r *RecordingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return r.under.ReadDir(name)
}

// simulatedInfo is the FileInfo reported for paths that exist only in
// the dry-run journal.
type simulatedInfo struct {
	name string
	dir  bool
}

func (s simulatedInfo) Name() string { return s.name }
func (s simulatedInfo) Size() int64  { return 0 }
func (s simulatedInfo) Mode() fs.FileMode {
	if s.dir {
		return 0755 | fs.ModeDir
	}
	return 0644
}
func (s simulatedInfo) ModTime() time.Time { return time.Time{} }
func (s simulatedInfo) IsDir() bool        { return s.dir }
func (s simulatedInfo) Sys() interface{}   { return nil }
