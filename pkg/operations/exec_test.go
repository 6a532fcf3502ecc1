package operations

import (
	"testing"

	"github.com/arthur-debert/handrail/pkg/errors"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteThroughRecordingRunner(t *testing.T) {
	fsys := fsx.NewMemory()
	require.NoError(t, fsys.WriteFile("/run.sh", []byte("#!/bin/sh\necho hi\n"), 0755))
	h := handlers.NewScriptHandler(fsys)
	runner := NewRecordingRunner()

	res, err := Execute(runner, h, "/run.sh", []string{"--flag"}, nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.Simulated)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bin/sh", calls[0].Name)
	assert.Equal(t, []string{"/run.sh", "--flag"}, calls[0].Args)
}

func TestExecuteAllowlist(t *testing.T) {
	fsys := fsx.NewMemory()
	h := handlers.NewBinaryHandler(fsys)
	runner := NewRecordingRunner()

	t.Run("allowed by base name", func(t *testing.T) {
		res, err := Execute(runner, h, "/usr/bin/which", []string{"go"}, []string{"which"})
		require.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("refused before the runner is consulted", func(t *testing.T) {
		before := len(runner.Calls())
		_, err := Execute(runner, h, "/usr/bin/rm", []string{"-rf"}, []string{"which"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrExecNotAllowed))
		assert.Equal(t, before, len(runner.Calls()))
	})

	t.Run("nil allowlist allows everything", func(t *testing.T) {
		_, err := Execute(runner, h, "/usr/bin/anything", nil, nil)
		assert.NoError(t, err)
	})
}

func TestEnvExecuteHonorsAllowlist(t *testing.T) {
	fsys := fsx.NewMemory()
	require.NoError(t, fsys.WriteFile("/tools/run.sh", []byte("#!/bin/sh\necho hi\n"), 0755))
	runner := NewRecordingRunner()
	env := newTestEnv(fsys)
	env.Runner = runner
	env.Allowlist = []string{"run.sh"}

	res, err := env.Execute("/tools/run.sh", []string{"-x"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bin/sh", calls[0].Name)
	assert.Equal(t, []string{"/tools/run.sh", "-x"}, calls[0].Args)

	_, err = env.Execute("/tools/other.sh", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecNotAllowed))
	assert.Len(t, runner.Calls(), 1)
}

func TestDetectArchiveType(t *testing.T) {
	reg := handlers.NewArchiveRegistry(fsx.NewMemory())

	assert.Equal(t, "tar.gz", DetectArchiveType(reg, "/backup.tar.gz"))
	assert.Equal(t, "zip", DetectArchiveType(reg, "/b.zip"))
	assert.Equal(t, "", DetectArchiveType(reg, "/b.rar"))
}

func TestOSRunnerMissingBinary(t *testing.T) {
	_, err := OSRunner{}.Run("/no/such/binary-xyz")
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecFailed))
}
