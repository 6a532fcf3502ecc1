package handlers

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/paths"
)

// TextHandler is the catch-all file handler. It treats any path as
// plain text, which makes it the natural default for the file
// category.
type TextHandler struct {
	fs fsx.FS
}

// NewTextHandler creates a text file handler over the given filesystem.
func NewTextHandler(fsys fsx.FS) *TextHandler {
	return &TextHandler{fs: fsys}
}

func (h *TextHandler) Name() string { return "text" }

// Validate accepts paths that do not exist yet (any file can start as
// text) and existing files whose leading bytes are valid UTF-8.
func (h *TextHandler) Validate(path string) bool {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return !fsx.Exists(h.fs, path)
	}
	if len(data) > 1024 {
		data = data[:1024]
	}
	return utf8.Valid(data)
}

func (h *TextHandler) Read(path string) (string, error) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *TextHandler) Write(fsys fsx.FS, path, content string) error {
	return fsys.WriteFile(path, []byte(content), 0644)
}

func (h *TextHandler) Info(path string) (map[string]interface{}, error) {
	info, err := h.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := h.Read(path)
	if err != nil {
		return nil, err
	}
	lines := 0
	if content != "" {
		lines = strings.Count(content, "\n") + 1
	}
	return map[string]interface{}{
		"type":       "text",
		"size_bytes": info.Size(),
		"line_count": lines,
		"char_count": len(content),
		"word_count": len(strings.Fields(content)),
		"is_empty":   strings.TrimSpace(content) == "",
	}, nil
}

// JSONHandler handles .json files with validation and formatting.
type JSONHandler struct {
	fs     fsx.FS
	indent string
}

// NewJSONHandler creates a JSON file handler over the given filesystem.
func NewJSONHandler(fsys fsx.FS) *JSONHandler {
	return &JSONHandler{fs: fsys, indent: "  "}
}

func (h *JSONHandler) Name() string { return "json" }

// Validate applies only to .json paths; an existing file must also
// parse.
func (h *JSONHandler) Validate(path string) bool {
	if !paths.HasExtension(path, ".json") {
		return false
	}
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return !fsx.Exists(h.fs, path)
	}
	return json.Valid(data)
}

func (h *JSONHandler) Read(path string) (string, error) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write validates and pretty-prints the JSON before writing.
func (h *JSONHandler) Write(fsys fsx.FS, path, content string) error {
	var parsed interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return err
	}
	formatted, err := json.MarshalIndent(parsed, "", h.indent)
	if err != nil {
		return err
	}
	return fsys.WriteFile(path, append(formatted, '\n'), 0644)
}

func (h *JSONHandler) Info(path string) (map[string]interface{}, error) {
	info, err := h.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{
		"type":       "json",
		"size_bytes": info.Size(),
		"is_valid":   json.Valid(data),
	}
	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err == nil {
		switch v := parsed.(type) {
		case map[string]interface{}:
			out["json_type"] = "object"
			out["key_count"] = len(v)
		case []interface{}:
			out["json_type"] = "array"
			out["array_length"] = len(v)
		default:
			out["json_type"] = "scalar"
		}
	}
	return out, nil
}
