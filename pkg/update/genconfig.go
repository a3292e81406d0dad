package update

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/scaffup/pkg/config"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/types"
)

// GenConfigOptions holds options for the gen-config command
type GenConfigOptions struct {
	// Write stores the content in the repository config file instead of
	// returning it for printing.
	Write bool
	// Effective emits the merged configuration instead of the commented
	// defaults.
	Effective bool
	Overrides map[string]interface{}
}

// GenConfigResult is the outcome of GenConfig.
type GenConfigResult struct {
	Content string
	// FileWritten is empty unless Write was set and the file was created.
	FileWritten string
}

// GenConfig outputs or writes configuration for the repository described
// by p. An existing repository config is never overwritten.
func GenConfig(fsys types.FS, p paths.Paths, opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("update.genconfig")

	content := config.GenerateDefault()
	if opts.Effective {
		raw, err := config.NewLoader(p).WithOverrides(opts.Overrides).Effective()
		if err != nil {
			return nil, err
		}
		content = string(raw)
	}

	result := &GenConfigResult{Content: content}
	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	target := filepath.Join(p.RepoRoot(), paths.RepoConfigFiles[0])
	for _, name := range paths.RepoConfigFiles {
		existing := filepath.Join(p.RepoRoot(), name)
		if _, err := fsys.Stat(existing); err == nil {
			return result, errors.Newf(errors.ErrFileWrite, "config file %s already exists", existing).
				WithDetail("path", existing)
		} else if !os.IsNotExist(err) {
			return result, errors.Wrapf(err, errors.ErrFileRead, "cannot access %s", existing)
		}
	}

	if err := fsys.WriteFile(target, []byte(content), 0644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "failed to write config to %s", target).
			WithDetail("path", target)
	}

	logger.Info().Str("path", target).Msg("Written config file")
	result.FileWritten = target
	return result, nil
}
