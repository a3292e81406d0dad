package answers

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/rs/zerolog"
)

// Directories never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Scanner walks a repository for answers files.
type Scanner struct {
	fs      types.FS
	root    string
	matcher *Matcher
	logger  zerolog.Logger
}

// NewScanner creates a scanner over fsys rooted at root.
func NewScanner(fsys types.FS, root string, matcher *Matcher) *Scanner {
	return &Scanner{
		fs:      fsys,
		root:    root,
		matcher: matcher,
		logger:  logging.GetLogger("answers.scanner"),
	}
}

// Discover returns the repository-relative paths of all answers files,
// sorted.
func (s *Scanner) Discover() ([]string, error) {
	var found []string
	if err := s.walk("", &found); err != nil {
		return nil, err
	}
	sort.Strings(found)

	s.logger.Debug().
		Str("root", s.root).
		Int("count", len(found)).
		Msg("Answers file discovery complete")
	return found, nil
}

func (s *Scanner) walk(rel string, found *[]string) error {
	dir := s.root
	if rel != "" {
		dir = filepath.Join(s.root, filepath.FromSlash(rel))
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot list %s", dir).
			WithDetail("path", dir)
	}

	for _, entry := range entries {
		name := entry.Name()
		child := name
		if rel != "" {
			child = rel + "/" + name
		}

		if entry.IsDir() {
			if skipDirs[name] {
				continue
			}
			if err := s.walk(child, found); err != nil {
				return err
			}
			continue
		}

		if s.matcher.Match(child) {
			s.logger.Trace().Str("file", child).Msg("Found answers file")
			*found = append(*found, child)
		}
	}
	return nil
}
