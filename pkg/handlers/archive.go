package handlers

import (
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/paths"
)

// archiveHandler classifies one archive family by extension. Actual
// codec work (zip, tar, 7z) lives in collaborators outside the core;
// handlers only claim extensions and describe the object.
type archiveHandler struct {
	fs   fsx.FS
	name string
	exts []string
}

func newArchiveHandler(fsys fsx.FS, name string, exts ...string) *archiveHandler {
	return &archiveHandler{fs: fsys, name: name, exts: exts}
}

// NewZipHandler creates the handler for the zip archive family. It is
// the default for the archive category since most alias formats (jar,
// whl, docx) are zip containers.
func NewZipHandler(fsys fsx.FS) ArchiveHandler {
	return newArchiveHandler(fsys, "zip", "zip")
}

// NewTarGzHandler creates the handler for gzip-compressed tarballs.
func NewTarGzHandler(fsys fsx.FS) ArchiveHandler {
	return newArchiveHandler(fsys, "tar.gz", "tar.gz", "tgz")
}

// NewTarHandler creates the handler for uncompressed tarballs.
func NewTarHandler(fsys fsx.FS) ArchiveHandler {
	return newArchiveHandler(fsys, "tar", "tar")
}

func (h *archiveHandler) Name() string { return h.name }

func (h *archiveHandler) Extensions() []string {
	out := make([]string, len(h.exts))
	copy(out, h.exts)
	return out
}

func (h *archiveHandler) Validate(path string) bool {
	for _, ext := range h.exts {
		if paths.HasExtension(path, ext) {
			return true
		}
	}
	return false
}

func (h *archiveHandler) Info(path string) (map[string]interface{}, error) {
	out := map[string]interface{}{
		"type":      "archive",
		"family":    h.name,
		"extension": paths.SplitExtension(path),
		"exists":    false,
	}
	info, err := h.fs.Stat(path)
	if err == nil {
		out["exists"] = true
		out["size_bytes"] = info.Size()
	}
	return out, nil
}
