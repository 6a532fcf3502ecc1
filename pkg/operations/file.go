package operations

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/handlers"
)

// ReadContent reads the file at path through its handler.
func ReadContent(h handlers.FileHandler, path string) (string, error) {
	content, err := h.Read(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "cannot read %q", path)
	}
	return content, nil
}

// WriteContent writes content to path through the handler, using fsys
// as the mutation collaborator. Passing a recording filesystem yields
// a simulated result without touching storage.
func WriteContent(fsys fsx.FS, h handlers.FileHandler, path, content string) (Result, error) {
	if err := h.Write(fsys, path, content); err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %q", path)
	}
	return Result{Op: "write", Path: path, Simulated: fsx.IsRecording(fsys)}, nil
}

// AppendContent appends content to the file at path. A missing file is
// treated as empty.
func AppendContent(fsys fsx.FS, h handlers.FileHandler, path, content string) (Result, error) {
	existing, err := h.Read(path)
	if err != nil {
		existing = ""
	}
	if err := h.Write(fsys, path, existing+content); err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot append to %q", path)
	}
	return Result{Op: "append", Path: path, Simulated: fsx.IsRecording(fsys)}, nil
}

// AppendLine appends line plus a trailing newline to the file at path.
func AppendLine(fsys fsx.FS, h handlers.FileHandler, path, line string) (Result, error) {
	return AppendContent(fsys, h, path, line+"\n")
}

// AddHeading appends a markdown heading of the given level.
func AddHeading(fsys fsx.FS, h handlers.FileHandler, path, title string, level int) (Result, error) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	heading := fmt.Sprintf("%s %s", strings.Repeat("#", level), title)
	return AppendLine(fsys, h, path, heading)
}

// FileInfo returns handler-specific metadata for the file at path.
func FileInfo(h handlers.FileHandler, path string) (map[string]interface{}, error) {
	return h.Info(path)
}
