package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultShell runs the joined command string.
const DefaultShell = "sh"

// DefaultTimeout bounds a single copier run.
const DefaultTimeout = 15 * time.Minute

// Options control a single run.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is overlaid on the current process environment.
	Env map[string]string
	// ToolConstraints are checked before the command runs.
	ToolConstraints []ToolConstraint
}

// Runner executes a command spec.
type Runner interface {
	Run(ctx context.Context, cmd types.CommandSpec, opts Options) error
}

// ShellRunner runs commands through a shell.
type ShellRunner struct {
	logger  zerolog.Logger
	shell   string
	timeout time.Duration
	prober  VersionProber
}

// ShellRunnerOption configures a ShellRunner.
type ShellRunnerOption func(*ShellRunner)

// WithShell sets the shell binary.
func WithShell(shell string) ShellRunnerOption {
	return func(r *ShellRunner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

// WithTimeout sets the per-run timeout. Zero disables it.
func WithTimeout(timeout time.Duration) ShellRunnerOption {
	return func(r *ShellRunner) {
		r.timeout = timeout
	}
}

// WithProber replaces the tool version prober.
func WithProber(p VersionProber) ShellRunnerOption {
	return func(r *ShellRunner) {
		r.prober = p
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) ShellRunnerOption {
	return func(r *ShellRunner) {
		r.logger = logger
	}
}

// NewShellRunner creates a new shell runner
func NewShellRunner(opts ...ShellRunnerOption) *ShellRunner {
	r := &ShellRunner{
		logger:  logging.GetLogger("executor.shell"),
		shell:   DefaultShell,
		timeout: DefaultTimeout,
		prober:  NewExecProber(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks tool constraints and executes cmd. It blocks until the
// command exits or the context (or the runner timeout) ends it.
func (r *ShellRunner) Run(ctx context.Context, cmd types.CommandSpec, opts Options) error {
	if cmd.IsZero() {
		return errors.New(errors.ErrInvalidInput, "execute requires a command")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := CheckConstraints(ctx, r.prober, opts.Dir, opts.ToolConstraints); err != nil {
		r.logger.Error().Err(err).Msg("Tool constraint check failed")
		return err
	}

	command := cmd.String()
	logging.LogCommand(r.logger, r.shell, []string{"-c", command})

	c := exec.CommandContext(ctx, r.shell, "-c", command)
	if opts.Dir != "" {
		if _, err := os.Stat(opts.Dir); err != nil {
			return errors.Wrapf(err, errors.ErrExecution,
				"working directory does not exist: %s", opts.Dir)
		}
		c.Dir = opts.Dir
	}
	c.Env = mergeEnv(os.Environ(), opts.Env)
	// Children that outlive a killed shell must not hold the pipes open.
	c.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	if stdout.Len() > 0 {
		r.logger.Debug().Str("output", stdout.String()).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Debug().Str("output", stderr.String()).Msg("Command stderr")
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", r.timeout, err)
		}
		diag := diagnostic(stdout.String(), stderr.String(), err)
		r.logger.Error().
			Err(err).
			Str("command", command).
			Str("dir", opts.Dir).
			Msg("Command execution failed")
		return errors.Wrap(err, errors.ErrExecution, diag).
			WithDetail("command", command)
	}

	r.logger.Info().Str("command", command).Msg("Command executed successfully")
	return nil
}

// diagnostic picks the most useful failure text: stderr, then stdout, then
// the exec error itself.
func diagnostic(stdout, stderr string, err error) string {
	if s := strings.TrimSpace(stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(stdout); s != "" {
		return s
	}
	return err.Error()
}

// mergeEnv overlays env on base. Later entries win for duplicate keys.
func mergeEnv(base []string, overlay map[string]string) []string {
	env := append([]string(nil), base...)
	for key, value := range overlay {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	return env
}
