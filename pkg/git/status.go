package git

import (
	"bytes"
	"context"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/rs/zerolog"
)

// StatusReader reports the working-tree delta of the current repository.
type StatusReader interface {
	Status(ctx context.Context) (types.StatusDelta, error)
}

// CLIStatusReader reads status from `git status --porcelain=v1 -z`.
type CLIStatusReader struct {
	dir    string
	runner Runner
	logger zerolog.Logger
}

// NewStatusReader creates a status reader for the repository at dir.
// A nil runner selects ExecRunner.
func NewStatusReader(dir string, runner Runner) *CLIStatusReader {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &CLIStatusReader{
		dir:    dir,
		runner: runner,
		logger: logging.GetLogger("git.status"),
	}
}

var statusArgs = []string{"status", "--porcelain=v1", "-z", "--untracked-files=all"}

// Status implements StatusReader.
func (r *CLIStatusReader) Status(ctx context.Context) (types.StatusDelta, error) {
	out, err := r.runner.Run(ctx, r.dir, statusArgs...)
	if err != nil {
		return types.StatusDelta{}, err
	}

	delta, err := ParsePorcelain(out)
	if err != nil {
		return types.StatusDelta{}, err
	}

	r.logger.Debug().
		Int("modified", len(delta.Modified)).
		Int("notAdded", len(delta.NotAdded)).
		Int("conflicted", len(delta.Conflicted)).
		Int("deleted", len(delta.Deleted)).
		Msg("Read working tree status")

	return delta, nil
}

// Unmerged XY pairs, see git-status(1).
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true,
	"DU": true, "AA": true, "UU": true,
}

// ParsePorcelain parses NUL-terminated porcelain v1 status output.
//
// Classification, first match wins:
//   - unmerged pairs: conflicted
//   - "??" and paths added to the index or marked intent-to-add: not added
//   - a deletion in either column: deleted
//   - modifications or type changes in either column: modified
//
// Renames and copies, in either column, list the new path as not added; a rename also lists
// the original path as deleted. Ignored entries are dropped.
func ParsePorcelain(out []byte) (types.StatusDelta, error) {
	var delta types.StatusDelta

	entries := bytes.Split(out, []byte{0})
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) == 0 {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return types.StatusDelta{}, errors.Newf(errors.ErrGitStatus,
				"malformed status entry %q", string(entry))
		}

		x, y := entry[0], entry[1]
		path := string(entry[3:])

		renamed := x == 'R' || y == 'R'
		copied := x == 'C' || y == 'C'

		var origin string
		if renamed || copied {
			i++
			if i >= len(entries) || len(entries[i]) == 0 {
				return types.StatusDelta{}, errors.Newf(errors.ErrGitStatus,
					"rename entry %q has no source path", path)
			}
			origin = string(entries[i])
		}

		switch {
		case conflictCodes[string([]byte{x, y})]:
			delta.Conflicted = append(delta.Conflicted, path)
		case x == '!' && y == '!':
		case x == '?' && y == '?':
			delta.NotAdded = append(delta.NotAdded, path)
		case renamed || copied:
			if y != 'D' {
				delta.NotAdded = append(delta.NotAdded, path)
			}
			if renamed {
				delta.Deleted = append(delta.Deleted, origin)
			}
		case x == 'A' || y == 'A':
			if y != 'D' {
				delta.NotAdded = append(delta.NotAdded, path)
			}
		case x == 'D' || y == 'D':
			delta.Deleted = append(delta.Deleted, path)
		case x == 'M' || y == 'M' || x == 'T' || y == 'T':
			delta.Modified = append(delta.Modified, path)
		}
	}

	return delta, nil
}
