package style

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/operations"
	"github.com/stretchr/testify/assert"
)

func TestPlainRenderResults(t *testing.T) {
	r := NewPlainRenderer()

	assert.Equal(t, "Nothing to do", r.RenderResults(nil))

	out := r.RenderResults([]operations.Result{
		{Op: "mkdir", Path: "/a"},
		{Op: "write", Path: "/a/b.txt", Simulated: true},
	})
	assert.Equal(t, "mkdir /a\nwrite /a/b.txt (dry-run)", out)
}

func TestPlainRenderHandlers(t *testing.T) {
	r := NewPlainRenderer()

	out := r.RenderHandlers([]HandlerListing{
		{Category: "file", Names: []string{"json", "text"}, Default: "text"},
	})
	assert.Contains(t, out, "file:")
	assert.Contains(t, out, "- json")
	assert.Contains(t, out, "- text (default)")
}

func TestPlainRenderInfoSortsKeys(t *testing.T) {
	r := NewPlainRenderer()

	out := r.RenderInfo("/x", map[string]interface{}{"b": 2, "a": 1})
	assert.True(t, strings.Index(out, "a: 1") < strings.Index(out, "b: 2"))
}

func TestPlainRenderError(t *testing.T) {
	r := NewPlainRenderer()

	assert.Equal(t, "", r.RenderError(nil))
	out := r.RenderError(errors.New(errors.ErrNotFound, "no such target"))
	assert.Contains(t, out, "NOT_FOUND")
	assert.Contains(t, out, "no such target")
}

func TestForWriterNonTTY(t *testing.T) {
	r := ForWriter(&bytes.Buffer{})
	assert.IsType(t, &PlainRenderer{}, r)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", Indent("a\nb", 1))
	assert.Equal(t, "    a\n\n    b", Indent("a\n\nb", 2))
}
