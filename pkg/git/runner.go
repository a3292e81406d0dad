package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/scaffup/pkg/errors"
)

// Runner abstracts git command execution for testability.
type Runner interface {
	// Run executes git with args in dir and returns its raw stdout.
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecRunner is the production implementation of Runner.
type ExecRunner struct{}

// NewExecRunner creates a new Runner that shells out to git.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner. Output is returned untrimmed: porcelain formats
// give meaning to leading spaces.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.Wrapf(err, errors.ErrGitStatus, "git %s: %s", strings.Join(args, " "), msg).
			WithDetail("dir", dir)
	}
	return stdout.Bytes(), nil
}
