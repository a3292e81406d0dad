package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/scaffup/pkg/copier"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/executor"
	"github.com/arthur-debert/scaffup/pkg/git"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/rs/zerolog"
)

// ConflictNotice is attached to every addition whose path had merge
// conflicts.
const ConflictNotice = "This file had merge conflicts. Please check the proposed changes carefully!"

// Outcome names the terminal state of an update. It is only used for
// logging; callers read the ArtifactResult.
type Outcome string

const (
	OutcomeInputRejected Outcome = "input-rejected"
	OutcomeFailed        Outcome = "failed"
	OutcomeNoChange      Outcome = "no-change"
	OutcomeChanged       Outcome = "changed"
)

// CommandBuilder produces the copier invocation for a request.
type CommandBuilder interface {
	Build(opts types.CopierOptions, policy copier.TrustPolicy, answersFile, version string) (types.CommandSpec, error)
}

// ContentLoader reads the final contents of changed files.
type ContentLoader interface {
	ReadAll(ctx context.Context, files []string) ([][]byte, error)
}

// Reconciler runs copier for one answers file and turns the resulting
// working-tree changes into an ArtifactResult.
type Reconciler struct {
	builder CommandBuilder
	runner  executor.Runner
	status  git.StatusReader
	loader  ContentLoader

	// dir is the working directory copier runs in.
	dir          string
	copierBinary string
	logger       zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithWorkingDir sets the directory copier runs in.
func WithWorkingDir(dir string) Option {
	return func(r *Reconciler) {
		r.dir = dir
	}
}

// WithCopierBinary sets the binary probed for copier version constraints.
func WithCopierBinary(binary string) Option {
	return func(r *Reconciler) {
		r.copierBinary = binary
	}
}

// New creates a Reconciler from its collaborators.
func New(builder CommandBuilder, runner executor.Runner, status git.StatusReader, loader ContentLoader, opts ...Option) *Reconciler {
	r := &Reconciler{
		builder: builder,
		runner:  runner,
		status:  status,
		loader:  loader,
		logger:  logging.GetLogger("reconcile"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UpdateArtifacts updates the template instance identified by
// req.AnswersFile. It never returns a Go error: failures are encoded as
// artifact errors in the result.
func (r *Reconciler) UpdateArtifacts(ctx context.Context, req types.UpdateRequest) types.ArtifactResult {
	logger := r.logger.With().Str("answersFile", req.AnswersFile).Logger()
	defer logging.LogOperationStart(logger, "update artifacts")()

	if n := len(req.Deps); n != 1 {
		return r.reject(logger, req.AnswersFile,
			fmt.Sprintf("Unexpected number of dependencies: %d (should be 1)", n))
	}
	dep := req.Deps[0]
	logger = logger.With().Str("depName", dep.DepName).Logger()

	version := dep.TargetVersion()
	if version == "" {
		return r.reject(logger, req.AnswersFile, "Missing copier template version to update to")
	}

	cmd, err := r.builder.Build(req.Config.Copier, copier.PolicyFor(req.Config), req.AnswersFile, version)
	if err != nil {
		event := logger.Error().Err(err)
		if errors.IsErrorCode(err, errors.ErrPathViolation) {
			event = event.Bool("pathViolation", true)
		}
		event.Msg("Failed to build copier command")
		return r.fail(logger, req.AnswersFile, errors.Diagnostic(err))
	}

	err = r.runner.Run(ctx, cmd, executor.Options{
		Dir:             r.dir,
		Env:             req.Config.Env,
		ToolConstraints: executor.ToolConstraintsFor(req.Config.Constraints, r.copierBinary),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update copier template")
		return r.fail(logger, req.AnswersFile, errors.Diagnostic(err))
	}

	delta, err := r.status.Status(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read repository status")
		return r.fail(logger, req.AnswersFile, errors.Diagnostic(err))
	}

	if !delta.IsModified(req.AnswersFile) {
		logger.Debug().Str("outcome", string(OutcomeNoChange)).Msg("Copier made no changes")
		return types.NoChange()
	}

	if len(delta.Conflicted) > 0 {
		logger.Debug().Msg(ConflictSummary(delta.Conflicted))
	}

	artifacts, err := r.assemble(ctx, delta)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read updated files")
		return r.fail(logger, req.AnswersFile, errors.Diagnostic(err))
	}

	logger.Debug().
		Str("outcome", string(OutcomeChanged)).
		Int("artifacts", len(artifacts)).
		Msg("Copier template updated")
	return types.Changed(artifacts)
}

// assemble builds the ordered change set: modified, not added and
// conflicted paths as additions, then deleted paths as deletions.
func (r *Reconciler) assemble(ctx context.Context, delta types.StatusDelta) ([]types.UpdateArtifact, error) {
	// A path listed twice (a conflicted file that is also reported as
	// modified) is emitted once, at its first position.
	var additions []string
	seen := make(map[string]bool)
	for _, list := range [][]string{delta.Modified, delta.NotAdded, delta.Conflicted} {
		for _, path := range list {
			if !seen[path] {
				seen[path] = true
				additions = append(additions, path)
			}
		}
	}

	contents, err := r.loader.ReadAll(ctx, additions)
	if err != nil {
		return nil, err
	}

	artifacts := make([]types.UpdateArtifact, 0, len(additions)+len(delta.Deleted))
	for i, path := range additions {
		artifact := types.UpdateArtifact{File: types.NewAddition(path, contents[i])}
		if delta.IsConflicted(path) {
			artifact.Notice = &types.Notice{File: path, Message: ConflictNotice}
		}
		artifacts = append(artifacts, artifact)
	}
	for _, path := range delta.Deleted {
		artifacts = append(artifacts, types.UpdateArtifact{File: types.NewDeletion(path)})
	}
	return artifacts, nil
}

// ConflictSummary formats the advisory logged when copier reports
// conflicts. Copier is known to over-report them, so this never fails the
// update.
func ConflictSummary(conflicted []string) string {
	return fmt.Sprintf(
		"Updating the Copier template yielded %d merge conflicts. "+
			"Please check the proposed changes carefully! Conflicting files:\n  * %s",
		len(conflicted), strings.Join(conflicted, "\n  * "))
}

func (r *Reconciler) reject(logger zerolog.Logger, answersFile, message string) types.ArtifactResult {
	logger.Warn().Str("outcome", string(OutcomeInputRejected)).Msg(message)
	return ArtifactError(answersFile, message)
}

func (r *Reconciler) fail(logger zerolog.Logger, answersFile, message string) types.ArtifactResult {
	logger.Debug().Str("outcome", string(OutcomeFailed)).Msg("Reporting artifact error")
	return ArtifactError(answersFile, message)
}
