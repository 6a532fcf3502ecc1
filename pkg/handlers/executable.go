package handlers

import (
	"strings"

	"github.com/arthur-debert/handrail/pkg/fsx"
)

// BinaryHandler is the catch-all executable handler: it runs the file
// directly.
type BinaryHandler struct {
	fs fsx.FS
}

// NewBinaryHandler creates the default executable handler.
func NewBinaryHandler(fsys fsx.FS) *BinaryHandler {
	return &BinaryHandler{fs: fsys}
}

func (h *BinaryHandler) Name() string { return "binary" }

func (h *BinaryHandler) Validate(path string) bool {
	info, err := h.fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode()&0111 != 0
}

func (h *BinaryHandler) Execute(r Runner, path string, args []string) (ExecResult, error) {
	return r.Run(path, args...)
}

func (h *BinaryHandler) Info(path string) (map[string]interface{}, error) {
	info, err := h.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"type":          "binary",
		"size_bytes":    info.Size(),
		"mode":          info.Mode().String(),
		"is_executable": info.Mode()&0111 != 0,
	}, nil
}

// ScriptHandler runs interpreted scripts through the interpreter named
// in their shebang line.
type ScriptHandler struct {
	fs fsx.FS
}

// NewScriptHandler creates a handler for shebang scripts.
func NewScriptHandler(fsys fsx.FS) *ScriptHandler {
	return &ScriptHandler{fs: fsys}
}

func (h *ScriptHandler) Name() string { return "script" }

func (h *ScriptHandler) Validate(path string) bool {
	line, _ := h.shebang(path)
	return line != ""
}

// Execute runs the script through its shebang interpreter, passing the
// script path as the first argument.
func (h *ScriptHandler) Execute(r Runner, path string, args []string) (ExecResult, error) {
	interp, interpArgs := h.shebang(path)
	if interp == "" {
		return r.Run(path, args...)
	}
	full := append(interpArgs, path)
	full = append(full, args...)
	return r.Run(interp, full...)
}

func (h *ScriptHandler) Info(path string) (map[string]interface{}, error) {
	info, err := h.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	interp, _ := h.shebang(path)
	return map[string]interface{}{
		"type":        "script",
		"size_bytes":  info.Size(),
		"interpreter": interp,
		"has_shebang": interp != "",
	}, nil
}

// shebang returns the interpreter and its arguments from the script's
// first line, or "" when the file has no shebang.
func (h *ScriptHandler) shebang(path string) (string, []string) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return "", nil
	}
	if !strings.HasPrefix(string(data), "#!") {
		return "", nil
	}
	line := string(data)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(strings.TrimPrefix(line, "#!"))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
