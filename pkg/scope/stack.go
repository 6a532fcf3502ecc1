// Package scope implements the hierarchical context stack: nested
// directory/file scopes whose paths resolve against the innermost
// active frame, with guaranteed cleanup on every exit path.
//
// A Stack belongs to exactly one execution context (goroutine). It is
// cheap to construct; independent goroutines must each own their own
// instance. The one process-wide resource scopes touch is the ambient
// namespace, which serializes access through ownership tracking (see
// package ambient).
package scope

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/handrail/pkg/ambient"
	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/logging"
	"github.com/arthur-debert/handrail/pkg/paths"
)

// Kind selects which ensure-exists collaborator a pushed frame uses.
type Kind int

const (
	// KindDirectory frames ensure a directory on push
	KindDirectory Kind = iota
	// KindFile frames ensure a file on push
	KindFile
)

// Options configure one Push.
type Options struct {
	// Kind of the target; decides the ensure-exists call
	Kind Kind

	// Create the target when missing. When false, a missing target
	// fails the push with NotFound before any mutation.
	Create bool

	// DryRun routes mutations to the recording filesystem. Dry-run is
	// monotonic down the stack: descendants of a dry-run frame are
	// dry-run regardless of their own value.
	DryRun bool

	// Ambient installs Bindings into the stack's namespace for the
	// lifetime of the frame.
	Ambient  bool
	Bindings map[string]ambient.Func
}

// Config configures a Stack.
type Config struct {
	// FS is the live filesystem collaborator. Defaults to the OS.
	FS fsx.FS

	// Namespace receives ambient bindings. Defaults to ambient.Default().
	Namespace *ambient.Namespace

	// ImplicitRootError makes resolving against an empty stack fail
	// with InvalidState instead of falling back to the process
	// working directory.
	ImplicitRootError bool
}

// Stack is the per-execution-context stack of active frames.
type Stack struct {
	id        string
	fs        fsx.FS
	recording *fsx.RecordingFS
	ns        *ambient.Namespace
	rootErr   bool
	frames    []*Frame
	log       zerolog.Logger
}

// NewStack creates an empty stack.
func NewStack(cfg Config) *Stack {
	fsys := cfg.FS
	if fsys == nil {
		fsys = fsx.NewOS()
	}
	ns := cfg.Namespace
	if ns == nil {
		ns = ambient.Default()
	}
	return &Stack{
		id:        uuid.New().String(),
		fs:        fsys,
		recording: fsx.NewRecording(fsys),
		ns:        ns,
		rootErr:   cfg.ImplicitRootError,
		log:       logging.GetLogger("scope"),
	}
}

// ID returns the stack's unique identifier, used as the ambient owner.
func (s *Stack) ID() string { return s.id }

// Depth returns the number of active frames.
func (s *Stack) Depth() int { return len(s.frames) }

// Current returns the innermost active frame, or nil.
func (s *Stack) Current() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Journal returns the mutations recorded by dry-run frames.
func (s *Stack) Journal() []fsx.Action {
	return s.recording.Journal()
}

// base returns the path relative targets resolve against: the top
// frame's resolved path, or the implicit root.
func (s *Stack) base() (string, error) {
	if top := s.Current(); top != nil {
		return top.Path(), nil
	}
	if s.rootErr {
		return "", errors.New(errors.ErrInvalidState,
			"cannot resolve against an empty stack (implicit root disabled)")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot determine working directory")
	}
	return cwd, nil
}

// Resolve joins rel against the innermost frame, or the implicit root
// when the stack is empty. Purely syntactic. Absolute paths resolve
// without consulting the stack at all.
func (s *Stack) Resolve(rel string) (string, error) {
	return s.resolveTarget(rel)
}

func (s *Stack) resolveTarget(target string) (string, error) {
	expanded := paths.ExpandHome(target)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	base, err := s.base()
	if err != nil {
		return "", err
	}
	return paths.Resolve(base, target), nil
}

// Push enters a new scope for target and returns its guard. The
// returned Scope must be closed on every exit path, typically with
// defer. Pushing with Create routes exactly one ensure-exists call to
// the filesystem collaborator; under dry-run the identical call is
// routed to the recording collaborator instead.
func (s *Stack) Push(target string, opts Options) (*Scope, error) {
	resolved, err := s.resolveTarget(target)
	if err != nil {
		return nil, err
	}

	dryRun := opts.DryRun
	if top := s.Current(); top != nil && top.dryRun {
		dryRun = true
	}

	frame := &Frame{
		id:       uuid.New().String(),
		target:   target,
		resolved: resolved,
		create:   opts.Create,
		dryRun:   dryRun,
		ambient:  opts.Ambient,
		state:    stateCreated,
	}

	collab := fsx.FS(s.fs)
	if dryRun {
		collab = s.recording
	}

	if opts.Create {
		var res fsx.Result
		if opts.Kind == KindFile {
			res, err = fsx.EnsureFile(collab, resolved)
		} else {
			res, err = fsx.EnsureDirectory(collab, resolved)
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate,
				"cannot ensure %q exists", resolved)
		}
		frame.state = stateEnsured
		s.log.Debug().Str("path", resolved).Bool("created", res.Created).
			Bool("simulated", res.Simulated).Msg("Ensured scope target")
	} else if !fsx.Exists(collab, resolved) {
		return nil, errors.Newf(errors.ErrNotFound,
			"target %q does not exist and create is disabled", resolved).
			WithDetail("target", target)
	}

	s.frames = append(s.frames, frame)
	frame.state = stateActive

	if opts.Ambient {
		set, err := ambient.Install(s.ns, s.id, opts.Bindings)
		if err != nil {
			// Roll the frame back so a failed push leaves no trace.
			s.frames = s.frames[:len(s.frames)-1]
			frame.state = statePopped
			return nil, err
		}
		frame.bindings = set
	}

	s.log.Debug().Str("target", target).Str("path", resolved).
		Int("depth", len(s.frames)).Bool("dry_run", dryRun).
		Msg("Pushed scope")
	return &Scope{stack: s, frame: frame}, nil
}

// pop retires the given frame, which must be the innermost active one.
func (s *Stack) pop(frame *Frame) error {
	if frame.state == statePopped {
		return errors.Newf(errors.ErrInvalidState,
			"frame %q already popped (use-after-pop)", frame.target)
	}
	if top := s.Current(); top != frame {
		return errors.Newf(errors.ErrInvalidState,
			"pop order mismatch: frame %q is not innermost", frame.target)
	}

	var err error
	if frame.bindings != nil {
		err = frame.bindings.Uninstall()
	}
	s.frames = s.frames[:len(s.frames)-1]
	frame.state = statePopped

	s.log.Debug().Str("target", frame.target).Int("depth", len(s.frames)).
		Msg("Popped scope")
	return err
}

// With pushes a scope around body and guarantees the pop on every exit
// path, including panics unwinding out of body.
func (s *Stack) With(target string, opts Options, body func(*Scope) error) (err error) {
	sc, perr := s.Push(target, opts)
	if perr != nil {
		return perr
	}
	defer func() {
		if cerr := sc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return body(sc)
}

// Scope is the guard handle for one pushed frame. Closing it pops the
// frame and restores ambient bindings; Close is safe to defer and
// executes during panic unwinding.
type Scope struct {
	stack *Stack
	frame *Frame
}

// Frame returns the underlying frame.
func (sc *Scope) Frame() *Frame { return sc.frame }

// Path returns the frame's resolved absolute path.
func (sc *Scope) Path() string { return sc.frame.Path() }

// DryRun reports whether this scope simulates mutations.
func (sc *Scope) DryRun() bool { return sc.frame.DryRun() }

// FS returns the filesystem collaborator operations through this scope
// must use: the recording filesystem under dry-run, the live one
// otherwise.
func (sc *Scope) FS() fsx.FS {
	if sc.frame.dryRun {
		return sc.stack.recording
	}
	return sc.stack.fs
}

// Resolve joins rel against this scope's path. Fails with InvalidState
// after the scope is closed.
func (sc *Scope) Resolve(rel string) (string, error) {
	return sc.frame.Resolve(rel)
}

// Close pops the frame. Unbalanced or repeated closes surface as
// InvalidState defects.
func (sc *Scope) Close() error {
	return sc.stack.pop(sc.frame)
}
