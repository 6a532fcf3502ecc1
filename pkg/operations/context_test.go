package operations

import (
	"testing"

	"github.com/arthur-debert/handrail/pkg/ambient"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/handlers"
	"github.com/arthur-debert/handrail/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(fsys fsx.FS) *Env {
	return &Env{
		Files:       handlers.NewFileRegistry(fsys),
		Directories: handlers.NewDirectoryRegistry(fsys),
		Archives:    handlers.NewArchiveRegistry(fsys),
		Executables: handlers.NewExecutableRegistry(fsys),
		Runner:      NewRecordingRunner(),
	}
}

func newTestWorld(t *testing.T) (*scope.Stack, *Env, fsx.FS, *ambient.Namespace) {
	t.Helper()
	fsys := fsx.NewMemory()
	ns := ambient.New()
	s := scope.NewStack(scope.Config{FS: fsys, Namespace: ns})
	return s, newTestEnv(fsys), fsys, ns
}

func TestDirContextNestedWrites(t *testing.T) {
	s, env, fsys, _ := newTestWorld(t)

	projects, err := OpenDir(s, env, "/projects", ContextOptions{Create: true})
	require.NoError(t, err)
	app, err := OpenDir(s, env, "app", ContextOptions{Create: true})
	require.NoError(t, err)

	_, err = app.WriteFile("readme.md", "# app\n")
	require.NoError(t, err)

	content, err := app.ReadFile("readme.md")
	require.NoError(t, err)
	assert.Equal(t, "# app\n", content)
	assert.True(t, fsx.Exists(fsys, "/projects/app/readme.md"))

	names, err := app.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"readme.md"}, names)

	require.NoError(t, app.Close())
	require.NoError(t, projects.Close())
	assert.Equal(t, 0, s.Depth())
}

func TestDirContextDispatchesJSONHandler(t *testing.T) {
	s, env, fsys, _ := newTestWorld(t)

	d, err := OpenDir(s, env, "/cfg", ContextOptions{Create: true})
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Close()) }()

	_, err = d.WriteFile("settings.json", `{"b":2,"a":1}`)
	require.NoError(t, err)

	// The json handler pretty-prints on write.
	data, err := fsys.ReadFile("/cfg/settings.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"a\": 1")
}

func TestDirContextDryRun(t *testing.T) {
	s, env, fsys, _ := newTestWorld(t)

	d, err := OpenDir(s, env, "/out", ContextOptions{Create: true, DryRun: true})
	require.NoError(t, err)

	res, err := d.WriteFile("a.txt", "x")
	require.NoError(t, err)
	assert.True(t, res.Simulated)

	res, err = d.CreateFile("b.txt")
	require.NoError(t, err)
	assert.True(t, res.Simulated)

	require.NoError(t, d.Close())

	assert.False(t, fsx.Exists(fsys, "/out"))
	assert.False(t, fsx.Exists(fsys, "/out/a.txt"))
	assert.False(t, fsx.Exists(fsys, "/out/b.txt"))
}

func TestDirContextAmbientBindings(t *testing.T) {
	s, env, _, ns := newTestWorld(t)

	d, err := OpenDir(s, env, "/work", ContextOptions{Create: true, Ambient: true})
	require.NoError(t, err)

	got, err := ns.Call("pwd")
	require.NoError(t, err)
	assert.Equal(t, "/work", got)

	_, err = ns.Call("write_content", "notes.txt", "remember")
	require.NoError(t, err)

	got, err = ns.Call("read_content", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "remember", got)

	require.NoError(t, d.Close())
	assert.Equal(t, 0, ns.Len())
}

func TestNestedAmbientShadowing(t *testing.T) {
	s, env, _, ns := newTestWorld(t)

	outer, err := OpenDir(s, env, "/outer", ContextOptions{Create: true, Ambient: true})
	require.NoError(t, err)
	inner, err := OpenDir(s, env, "inner", ContextOptions{Create: true, Ambient: true})
	require.NoError(t, err)

	got, err := ns.Call("pwd")
	require.NoError(t, err)
	assert.Equal(t, "/outer/inner", got)

	require.NoError(t, inner.Close())

	got, err = ns.Call("pwd")
	require.NoError(t, err)
	assert.Equal(t, "/outer", got)

	require.NoError(t, outer.Close())
}

func TestFileContext(t *testing.T) {
	s, env, fsys, _ := newTestWorld(t)

	d, err := OpenDir(s, env, "/docs", ContextOptions{Create: true})
	require.NoError(t, err)
	f, err := OpenFile(s, env, "readme.md", ContextOptions{Create: true})
	require.NoError(t, err)

	_, err = f.AddHeading("My Project", 1)
	require.NoError(t, err)
	_, err = f.AppendLine("This is my project.")
	require.NoError(t, err)

	content, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, "# My Project\nThis is my project.\n", content)

	info, err := f.Info()
	require.NoError(t, err)
	assert.Equal(t, 3, info["line_count"])

	require.NoError(t, f.Close())
	require.NoError(t, d.Close())
	assert.True(t, fsx.Exists(fsys, "/docs/readme.md"))
}

func TestFileContextAmbient(t *testing.T) {
	s, env, _, ns := newTestWorld(t)

	f, err := OpenFile(s, env, "/notes.txt", ContextOptions{Create: true, Ambient: true})
	require.NoError(t, err)

	_, err = ns.Call("append_line", "hello")
	require.NoError(t, err)

	got, err := ns.Call("read_content")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", got)

	require.NoError(t, f.Close())
}

func TestArchiveContext(t *testing.T) {
	s, env, _, _ := newTestWorld(t)

	a, err := OpenArchive(s, env, "/backup.tar.gz", ContextOptions{Create: true})
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close()) }()

	assert.Equal(t, "tar.gz", a.Type())

	info, err := a.Info()
	require.NoError(t, err)
	assert.Equal(t, "archive", info["type"])
	assert.Equal(t, "tar.gz", info["family"])
}

func TestDefaultEnvSingleton(t *testing.T) {
	assert.Same(t, DefaultEnv(), DefaultEnv())
	assert.NotNil(t, DefaultEnv().Runner)
}
