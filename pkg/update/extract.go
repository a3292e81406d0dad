package update

import (
	"context"

	"github.com/arthur-debert/scaffup/pkg/answers"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/types"
)

// Extract reads the template reference from each answers file. With no
// files given, the repository is searched for answers files.
func (s *Service) Extract(ctx context.Context, files []string) ([]types.PackageDependency, error) {
	defer logging.LogOperationStart(s.logger, "extract")()

	if len(files) == 0 {
		matcher, err := answers.NewMatcher(s.cfg.Answers.FilePattern)
		if err != nil {
			return nil, err
		}
		files, err = answers.NewScanner(s.fs, s.paths.RepoRoot(), matcher).Discover()
		if err != nil {
			return nil, err
		}
	}

	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := s.paths.Rel(f)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}

	contents, err := s.loader.ReadAll(ctx, rels)
	if err != nil {
		return nil, err
	}

	deps := make([]types.PackageDependency, 0, len(rels))
	for i, rel := range rels {
		dep, err := answers.Extract(rel, contents[i])
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
