package filesystem

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/types"
	"golang.org/x/sync/errgroup"
)

// maxParallelReads bounds concurrent reads in ReadAll.
const maxParallelReads = 8

// Loader reads file contents relative to a repository root.
type Loader struct {
	fs   types.FS
	root string
}

// NewLoader creates a loader rooted at root.
func NewLoader(fsys types.FS, root string) *Loader {
	return &Loader{fs: fsys, root: root}
}

// Read returns the current contents of the repository-relative path.
func (l *Loader) Read(path string) ([]byte, error) {
	if _, err := paths.EnsureLocalPath(l.root, path); err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(filepath.Join(l.root, filepath.FromSlash(path)))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "file %s does not exist", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path).
			WithDetail("path", path)
	}
	return data, nil
}

// ReadAll reads every file concurrently. The returned slice is parallel to
// files. The first failure cancels outstanding reads and is returned.
func (l *Loader) ReadAll(ctx context.Context, files []string) ([][]byte, error) {
	contents := make([][]byte, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, p := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := l.Read(p)
			if err != nil {
				return err
			}
			contents[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}
