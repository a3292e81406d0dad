package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/scaffup/pkg/errors"
)

// Environment variable names
const (
	// EnvRepoRoot overrides repository root detection
	EnvRepoRoot = "SCAFFUP_REPO_ROOT"

	// EnvConfigDir overrides the XDG config directory for scaffup
	EnvConfigDir = "SCAFFUP_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for scaffup-specific files
	AppDirName = "scaffup"

	// UserConfigFile is the name of the user configuration file
	UserConfigFile = "config.toml"
)

// RepoConfigFiles are the repository configuration file names, in lookup order
var RepoConfigFiles = []string{".scaffup.toml", "scaffup.toml"}

// Paths provides centralized path management for scaffup
type Paths interface {
	RepoRoot() string
	UsedFallback() bool
	ConfigDir() string
	UserConfigPath() string
	RepoConfigPath() string
	Rel(path string) (string, error)
}

type paths struct {
	repoRoot     string
	configDir    string
	usedFallback bool
}

// New creates a new Paths instance rooted at repoRoot.
// If repoRoot is empty, it is determined from the environment, the git
// toplevel of the working directory, or the working directory itself.
func New(repoRoot string) (Paths, error) {
	p := &paths{}

	if repoRoot == "" {
		root, usedFallback, err := findRepoRoot()
		if err != nil {
			return nil, err
		}
		p.repoRoot = root
		p.usedFallback = usedFallback
	} else {
		p.repoRoot = expandHome(repoRoot)
	}

	absRoot, err := filepath.Abs(p.repoRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to get absolute path for repository root")
	}
	p.repoRoot = absRoot

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = expandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return p, nil
}

// findRepoRoot determines the repository root using the following priority:
// 1. SCAFFUP_REPO_ROOT environment variable (if set)
// 2. Git repository root of the working directory
// 3. Current working directory (fallback)
func findRepoRoot() (string, bool, error) {
	if root := os.Getenv(EnvRepoRoot); root != "" {
		return expandHome(root), false, nil
	}

	gitRoot, err := FindGitRoot("")
	if err == nil {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileRead, "failed to get current directory")
	}

	return cwd, true, nil
}

// FindGitRoot returns the toplevel of the git repository containing dir.
// An empty dir means the current working directory.
func FindGitRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "not inside a git repository")
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// RepoRoot returns the absolute repository root
func (p *paths) RepoRoot() string {
	return p.repoRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ConfigDir returns the XDG config directory for scaffup
func (p *paths) ConfigDir() string {
	return p.configDir
}

// UserConfigPath returns the path of the user configuration file
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.configDir, UserConfigFile)
}

// RepoConfigPath returns the first existing repository config file, or the
// default name when none exists yet
func (p *paths) RepoConfigPath() string {
	for _, name := range RepoConfigFiles {
		candidate := filepath.Join(p.repoRoot, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(p.repoRoot, RepoConfigFiles[0])
}

// Rel returns path relative to the repository root. path must lie inside it.
func (p *paths) Rel(path string) (string, error) {
	return EnsureLocalPath(p.repoRoot, path)
}

// ExpandHome expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}
