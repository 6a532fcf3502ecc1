package operations

import (
	"bytes"
	stderrors "errors"
	"os/exec"
	"sync"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/handlers"
	"github.com/arthur-debert/handrail/pkg/logging"
)

// OSRunner executes commands through the operating system.
type OSRunner struct{}

// Run executes name with args, capturing stdout and stderr. A non-zero
// exit status is reported in the result, not as an error; errors are
// reserved for failures to start the process at all.
func (OSRunner) Run(name string, args ...string) (handlers.ExecResult, error) {
	logger := logging.GetLogger("operations").With().
		Str("command", name).Strs("args", args).Logger()
	defer logging.LogOperationStart(logger, "execute")()

	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := handlers.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		result.Success = true
		return result, nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		result.Code = exitErr.ExitCode()
		return result, nil
	}
	return result, errors.Wrapf(err, errors.ErrExecFailed, "cannot run %q", name)
}

// RunnerCall is one recorded invocation from a dry-run.
type RunnerCall struct {
	Name string
	Args []string
}

// RecordingRunner is the dry-run runner: it records invocations and
// reports simulated success without starting any process.
type RecordingRunner struct {
	mu    sync.Mutex
	calls []RunnerCall
}

// NewRecordingRunner creates an empty recording runner.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{}
}

func (r *RecordingRunner) Run(name string, args ...string) (handlers.ExecResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, RunnerCall{Name: name, Args: args})
	r.mu.Unlock()

	logger := logging.GetLogger("operations")
	logger.Debug().Str("command", name).Strs("args", args).Msg("dry-run: recorded command")
	return handlers.ExecResult{Success: true, Simulated: true}, nil
}

// Calls returns the recorded invocations in order.
func (r *RecordingRunner) Calls() []RunnerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RunnerCall, len(r.calls))
	copy(out, r.calls)
	return out
}
