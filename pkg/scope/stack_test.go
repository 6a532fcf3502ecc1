package scope

import (
	"testing"

	"github.com/arthur-debert/handrail/pkg/ambient"
	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStack(t *testing.T) (*Stack, fsx.FS) {
	t.Helper()
	fsys := fsx.NewMemory()
	s := NewStack(Config{FS: fsys, Namespace: ambient.New()})
	return s, fsys
}

func TestNestedPushResolvesIteratively(t *testing.T) {
	s, fsys := newTestStack(t)

	a, err := s.Push("/a", Options{Create: true})
	require.NoError(t, err)
	b, err := s.Push("b", Options{Create: true})
	require.NoError(t, err)

	resolved, err := s.Resolve("c.txt")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c.txt", resolved)

	assert.True(t, fsx.Exists(fsys, "/a/b"))

	require.NoError(t, b.Close())
	require.NoError(t, a.Close())
	assert.Equal(t, 0, s.Depth())
}

func TestResolveIndependentOfCreateFlag(t *testing.T) {
	s, fsys := newTestStack(t)
	require.NoError(t, fsys.MkdirAll("/x/y", 0755))

	a, err := s.Push("/x", Options{Create: false})
	require.NoError(t, err)
	b, err := s.Push("y", Options{Create: false})
	require.NoError(t, err)

	resolved, err := s.Resolve("z")
	require.NoError(t, err)
	assert.Equal(t, "/x/y/z", resolved)

	require.NoError(t, b.Close())
	require.NoError(t, a.Close())
}

func TestPushMissingTargetWithoutCreate(t *testing.T) {
	s, _ := newTestStack(t)

	_, err := s.Push("/missing", Options{Create: false})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, 0, s.Depth())
}

func TestPushFileKind(t *testing.T) {
	s, fsys := newTestStack(t)

	dir, err := s.Push("/docs", Options{Create: true})
	require.NoError(t, err)
	file, err := s.Push("readme.md", Options{Kind: KindFile, Create: true})
	require.NoError(t, err)

	assert.Equal(t, "/docs/readme.md", file.Path())
	assert.True(t, fsx.Exists(fsys, "/docs/readme.md"))

	require.NoError(t, file.Close())
	require.NoError(t, dir.Close())
}

func TestEmptyStackResolvesAgainstCwd(t *testing.T) {
	s, _ := newTestStack(t)

	resolved, err := s.Resolve("rel.txt")
	require.NoError(t, err)
	assert.NotEqual(t, "rel.txt", resolved, "result should be absolute")
}

func TestEmptyStackImplicitRootDisabled(t *testing.T) {
	fsys := fsx.NewMemory()
	s := NewStack(Config{FS: fsys, Namespace: ambient.New(), ImplicitRootError: true})

	_, err := s.Resolve("rel.txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidState))

	_, err = s.Push("rel", Options{Create: true})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidState))

	// Absolute targets still work: they do not need the implicit root.
	sc, err := s.Push("/abs", Options{Create: true})
	require.NoError(t, err)
	require.NoError(t, sc.Close())
}

func TestUseAfterPop(t *testing.T) {
	s, _ := newTestStack(t)

	sc, err := s.Push("/a", Options{Create: true})
	require.NoError(t, err)
	require.NoError(t, sc.Close())

	_, err = sc.Resolve("x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidState))

	err = sc.Close()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidState))

	assert.Equal(t, "popped", sc.Frame().State())
}

func TestUnbalancedPop(t *testing.T) {
	s, _ := newTestStack(t)

	outer, err := s.Push("/a", Options{Create: true})
	require.NoError(t, err)
	inner, err := s.Push("b", Options{Create: true})
	require.NoError(t, err)

	err = outer.Close()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidState))

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())
}

func TestFrameLifecycleStates(t *testing.T) {
	s, fsys := newTestStack(t)
	require.NoError(t, fsys.MkdirAll("/existing", 0755))

	created, err := s.Push("/a", Options{Create: true})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Frame().State())
	require.NoError(t, created.Close())

	noCreate, err := s.Push("/existing", Options{Create: false})
	require.NoError(t, err)
	assert.Equal(t, "active", noCreate.Frame().State())
	require.NoError(t, noCreate.Close())
}

func TestDryRunMonotonicPropagation(t *testing.T) {
	s, fsys := newTestStack(t)

	outer, err := s.Push("/a", Options{Create: true, DryRun: true})
	require.NoError(t, err)
	// The child requests a live run but inherits dry-run.
	inner, err := s.Push("b", Options{Create: true, DryRun: false})
	require.NoError(t, err)

	assert.True(t, inner.DryRun())
	assert.False(t, fsx.Exists(fsys, "/a"))
	assert.False(t, fsx.Exists(fsys, "/a/b"))

	journal := s.Journal()
	require.Len(t, journal, 2)
	assert.Equal(t, "/a", journal[0].Path)
	assert.Equal(t, "/a/b", journal[1].Path)

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())
}

func TestDryRunSeesSimulatedParents(t *testing.T) {
	s, fsys := newTestStack(t)

	outer, err := s.Push("/a", Options{Create: true, DryRun: true})
	require.NoError(t, err)

	// create=false against a path that exists only in the dry journal
	// must behave as it would in a live run after the parent creation.
	inner, err := s.Push("/a", Options{Create: false, DryRun: true})
	require.NoError(t, err)

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())
	assert.False(t, fsx.Exists(fsys, "/a"))
}

func TestAmbientBindingsFollowStack(t *testing.T) {
	fsys := fsx.NewMemory()
	ns := ambient.New()
	s := NewStack(Config{FS: fsys, Namespace: ns})

	outer, err := s.Push("/a", Options{
		Create:  true,
		Ambient: true,
		Bindings: map[string]ambient.Func{
			"pwd": func(args ...string) (interface{}, error) { return "/a", nil },
		},
	})
	require.NoError(t, err)

	inner, err := s.Push("b", Options{
		Create:  true,
		Ambient: true,
		Bindings: map[string]ambient.Func{
			"pwd": func(args ...string) (interface{}, error) { return "/a/b", nil },
		},
	})
	require.NoError(t, err)

	got, err := ns.Call("pwd")
	require.NoError(t, err)
	assert.Equal(t, "/a/b", got)

	require.NoError(t, inner.Close())
	got, err = ns.Call("pwd")
	require.NoError(t, err)
	assert.Equal(t, "/a", got)

	require.NoError(t, outer.Close())
	assert.Equal(t, 0, ns.Len())
}

func TestAmbientConflictRollsBackPush(t *testing.T) {
	fsys := fsx.NewMemory()
	ns := ambient.New()
	s1 := NewStack(Config{FS: fsys, Namespace: ns})
	s2 := NewStack(Config{FS: fsys, Namespace: ns})

	bindings := map[string]ambient.Func{
		"pwd": func(args ...string) (interface{}, error) { return "", nil },
	}

	sc1, err := s1.Push("/a", Options{Create: true, Ambient: true, Bindings: bindings})
	require.NoError(t, err)

	_, err = s2.Push("/b", Options{Create: true, Ambient: true, Bindings: bindings})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbientConflict))
	assert.Equal(t, 0, s2.Depth(), "failed push must leave no frame behind")

	require.NoError(t, sc1.Close())
}

func TestWithClosesOnPanic(t *testing.T) {
	fsys := fsx.NewMemory()
	ns := ambient.New()
	s := NewStack(Config{FS: fsys, Namespace: ns})

	bindings := map[string]ambient.Func{
		"pwd": func(args ...string) (interface{}, error) { return "", nil },
	}

	func() {
		defer func() {
			rec := recover()
			require.NotNil(t, rec)
		}()
		_ = s.With("/a", Options{Create: true, Ambient: true, Bindings: bindings}, func(sc *Scope) error {
			panic("boom")
		})
	}()

	// The panic unwound through the guard: stack balanced, namespace clean.
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 0, ns.Len())
}

func TestWithReturnsBodyError(t *testing.T) {
	s, _ := newTestStack(t)

	sentinel := errors.New(errors.ErrInternal, "body failed")
	err := s.With("/a", Options{Create: true}, func(sc *Scope) error {
		return sentinel
	})
	assert.Same(t, sentinel, err)
	assert.Equal(t, 0, s.Depth())
}

func TestScopeFSRouting(t *testing.T) {
	s, _ := newTestStack(t)

	live, err := s.Push("/live", Options{Create: true})
	require.NoError(t, err)
	_, isRecording := live.FS().(*fsx.RecordingFS)
	assert.False(t, isRecording)
	require.NoError(t, live.Close())

	dry, err := s.Push("/dry", Options{Create: true, DryRun: true})
	require.NoError(t, err)
	_, isRecording = dry.FS().(*fsx.RecordingFS)
	assert.True(t, isRecording)
	require.NoError(t, dry.Close())
}

func TestDeepNestingResolution(t *testing.T) {
	s, _ := newTestStack(t)

	targets := []string{"/root", "one", "two", "three"}
	var scopes []*Scope
	for _, target := range targets {
		sc, err := s.Push(target, Options{Create: true})
		require.NoError(t, err)
		scopes = append(scopes, sc)
	}

	resolved, err := s.Resolve("leaf.txt")
	require.NoError(t, err)
	assert.Equal(t, "/root/one/two/three/leaf.txt", resolved)

	for i := len(scopes) - 1; i >= 0; i-- {
		require.NoError(t, scopes[i].Close())
	}
	assert.Equal(t, 0, s.Depth())
}
