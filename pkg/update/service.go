package update

import (
	"context"

	"github.com/arthur-debert/scaffup/pkg/answers"
	"github.com/arthur-debert/scaffup/pkg/config"
	"github.com/arthur-debert/scaffup/pkg/copier"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/executor"
	"github.com/arthur-debert/scaffup/pkg/filesystem"
	"github.com/arthur-debert/scaffup/pkg/git"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/reconcile"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/rs/zerolog"
)

// Updater moves one template instance to a new version.
type Updater interface {
	UpdateArtifacts(ctx context.Context, req types.UpdateRequest) types.ArtifactResult
}

// Options selects the repository and the configuration overrides.
type Options struct {
	// RepoRoot is the repository to operate on. Empty means detect it.
	RepoRoot string
	// Overrides is the highest-priority configuration layer.
	Overrides map[string]interface{}
}

// Request is one update as asked for on the command line.
type Request struct {
	// AnswersFile may be absolute or relative to the repository root.
	AnswersFile string
	// DepName defaults to the _src_path recorded in the answers file.
	DepName string
	Version string
}

// Service runs scaffup operations against one repository.
type Service struct {
	paths   paths.Paths
	cfg     *config.Config
	fs      types.FS
	loader  *filesystem.Loader
	builder *copier.Builder
	updater Updater
	logger  zerolog.Logger
}

// New resolves the repository, loads configuration and wires the
// production collaborators.
func New(opts Options) (*Service, error) {
	p, err := paths.New(opts.RepoRoot)
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewLoader(p).WithOverrides(opts.Overrides).Load()
	if err != nil {
		return nil, err
	}

	root := p.RepoRoot()
	fsys := filesystem.NewOS()
	builder := copier.NewBuilder(cfg.Copier.Binary, root)
	loader := filesystem.NewLoader(fsys, root)

	runner := executor.NewShellRunner(
		executor.WithShell(cfg.Exec.Shell),
		executor.WithTimeout(cfg.Exec.Timeout),
	)
	status := git.NewStatusReader(root, git.NewExecRunner())

	rec := reconcile.New(builder, runner, status, loader,
		reconcile.WithWorkingDir(root),
		reconcile.WithCopierBinary(cfg.Copier.Binary),
	)

	return NewService(p, cfg, fsys, rec), nil
}

// NewService assembles a service from explicit collaborators.
func NewService(p paths.Paths, cfg *config.Config, fsys types.FS, updater Updater) *Service {
	return &Service{
		paths:   p,
		cfg:     cfg,
		fs:      fsys,
		loader:  filesystem.NewLoader(fsys, p.RepoRoot()),
		builder: copier.NewBuilder(cfg.Copier.Binary, p.RepoRoot()),
		updater: updater,
		logger:  logging.GetLogger("update"),
	}
}

// Paths returns the resolved repository paths.
func (s *Service) Paths() paths.Paths {
	return s.paths
}

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Update runs copier for req and returns the resulting change set.
//
// A Go error is returned only when the request cannot be turned into an
// update at all: an answers file outside the repository. Everything past
// that point is reported through the result.
func (s *Service) Update(ctx context.Context, req Request) (types.ArtifactResult, error) {
	updateReq, err := s.request(req)
	if err != nil {
		return types.ArtifactResult{}, err
	}

	s.logger.Info().
		Str("answersFile", updateReq.AnswersFile).
		Str("version", req.Version).
		Msg("Updating copier template")
	return s.updater.UpdateArtifacts(ctx, updateReq), nil
}

// Command returns the copier invocation Update would run, without running
// it.
func (s *Service) Command(req Request) (types.CommandSpec, error) {
	updateReq, err := s.request(req)
	if err != nil {
		return types.CommandSpec{}, err
	}
	if len(updateReq.Deps) != 1 {
		return types.CommandSpec{}, errors.New(errors.ErrInvalidInput, "exactly one dependency is required")
	}
	return s.builder.Build(updateReq.Config.Copier, copier.PolicyFor(updateReq.Config),
		updateReq.AnswersFile, updateReq.Deps[0].TargetVersion())
}

func (s *Service) request(req Request) (types.UpdateRequest, error) {
	if req.AnswersFile == "" {
		return types.UpdateRequest{}, errors.New(errors.ErrInvalidInput, "an answers file is required")
	}
	rel, err := s.paths.Rel(req.AnswersFile)
	if err != nil {
		return types.UpdateRequest{}, err
	}

	depName := req.DepName
	if depName == "" {
		depName = s.sourceOf(rel)
	}

	return types.UpdateRequest{
		AnswersFile: rel,
		Deps: []types.DependencyUpdate{
			{DepName: depName, NewVersion: req.Version},
		},
		Config: s.cfg.UpdateConfig(),
	}, nil
}

// sourceOf returns the template source recorded in the answers file at
// rel, or rel itself when it cannot be read.
func (s *Service) sourceOf(rel string) string {
	content, err := s.loader.Read(rel)
	if err != nil {
		s.logger.Debug().Err(err).Str("answersFile", rel).Msg("Cannot read answers file")
		return rel
	}
	dep, err := answers.Extract(rel, content)
	if err != nil {
		s.logger.Debug().Err(err).Str("answersFile", rel).Msg("Cannot extract template source")
		return rel
	}
	return dep.DepName
}
