// Package paths provides centralized path handling for scaffup.
//
// It handles:
//
//   - Repository root discovery (where copier runs and git status is read)
//   - XDG config directory lookup for the user config file
//   - Repository config files (.scaffup.toml, scaffup.toml)
//   - Keeping user-supplied paths inside the repository boundary
//
// # Environment Variables
//
//   - SCAFFUP_REPO_ROOT: Override repository root detection
//   - SCAFFUP_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/scaffup)
package paths
