// pkg/executor/runner_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: sh
// PURPOSE: Test shell execution, environment overlay and failure diagnostics

package executor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, opts ...ShellRunnerOption) *ShellRunner {
	t.Helper()
	if _, err := exec.LookPath(DefaultShell); err != nil {
		t.Skip("sh not available")
	}
	opts = append([]ShellRunnerOption{WithLogger(zerolog.Nop())}, opts...)
	return NewShellRunner(opts...)
}

func spec(tokens ...string) types.CommandSpec {
	return types.NewCommandSpec(tokens)
}

func TestShellRunnerSuccess(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), spec("true"), Options{})
	assert.NoError(t, err)
}

func TestShellRunnerWorkingDirectory(t *testing.T) {
	r := newTestRunner(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0644))

	err := r.Run(context.Background(), spec("test", "-f", "marker"), Options{Dir: dir})
	assert.NoError(t, err)
}

func TestShellRunnerMissingWorkingDirectory(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), spec("true"), Options{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecution))
}

func TestShellRunnerEnvOverlay(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), spec("test", `"$SCAFFUP_TEST_VALUE"`, "=", "overlay"),
		Options{Env: map[string]string{"SCAFFUP_TEST_VALUE": "overlay"}})
	assert.NoError(t, err)
}

func TestShellRunnerFailureCarriesStderr(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), spec("echo", "tool not found", ">&2;", "exit", "3"), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecution))
	assert.Equal(t, "tool not found", errors.Diagnostic(err))
}

func TestShellRunnerFailureFallsBackToStdout(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), spec("echo", "only stdout;", "exit", "1"), Options{})
	require.Error(t, err)
	assert.Equal(t, "only stdout", errors.Diagnostic(err))
}

func TestShellRunnerFailureWithoutOutput(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), spec("exit", "4"), Options{})
	require.Error(t, err)
	assert.Contains(t, errors.Diagnostic(err), "exit status 4")
}

func TestShellRunnerTimeout(t *testing.T) {
	r := newTestRunner(t, WithTimeout(50*time.Millisecond))
	err := r.Run(context.Background(), spec("sleep", "2"), Options{})
	require.Error(t, err)
	assert.Contains(t, errors.Diagnostic(err), "timed out")
}

func TestShellRunnerEmptyCommand(t *testing.T) {
	r := newTestRunner(t)
	err := r.Run(context.Background(), types.CommandSpec{}, Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestShellRunnerConstraintFailureSkipsRun(t *testing.T) {
	dir := t.TempDir()
	r := newTestRunner(t, WithProber(fakeProber{"copier": "9.0.0"}))

	err := r.Run(context.Background(), spec("touch", "ran"), Options{
		Dir:             dir,
		ToolConstraints: []ToolConstraint{{Tool: ToolCopier, Binary: "copier", Constraint: ">=9.1"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConstraint))

	_, statErr := os.Stat(filepath.Join(dir, "ran"))
	assert.True(t, os.IsNotExist(statErr), "command must not run when a constraint fails")
}
