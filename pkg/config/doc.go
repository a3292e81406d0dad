// Package config loads scaffup configuration.
//
// Configuration is layered with koanf. Each layer overrides the keys it
// sets and leaves the rest alone:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config in the XDG config directory
//  3. the repository config, .scaffup.toml or scaffup.toml
//  4. SCAFFUP_* environment variables
//  5. explicit overrides, usually command-line flags
//
// Environment variable names map to keys by dropping the prefix,
// lowercasing and treating a double underscore as the nesting separator:
// SCAFFUP_COPIER__SKIP_TASKS sets copier.skip_tasks.
package config
