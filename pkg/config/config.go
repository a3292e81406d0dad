package config

import (
	"time"

	"github.com/arthur-debert/scaffup/pkg/types"
)

// Config is the decoded scaffup configuration.
type Config struct {
	AllowScripts  bool              `koanf:"allow_scripts"`
	IgnoreScripts bool              `koanf:"ignore_scripts"`
	Copier        Copier            `koanf:"copier"`
	Constraints   Constraints       `koanf:"constraints"`
	Env           map[string]string `koanf:"env"`
	Exec          Exec              `koanf:"exec"`
	Answers       Answers           `koanf:"answers"`
}

// Copier holds the copier invocation settings.
type Copier struct {
	Binary    string            `koanf:"binary"`
	Recopy    bool              `koanf:"recopy"`
	SkipTasks bool              `koanf:"skip_tasks"`
	Skip      []string          `koanf:"skip"`
	Exclude   []string          `koanf:"exclude"`
	DataFile  string            `koanf:"data_file"`
	Data      map[string]string `koanf:"data"`
}

// Constraints pins tool versions.
type Constraints struct {
	Copier string `koanf:"copier"`
	Python string `koanf:"python"`
}

// Exec controls how the copier command is run.
type Exec struct {
	Timeout time.Duration `koanf:"timeout"`
	Shell   string        `koanf:"shell"`
}

// Answers controls answers-file discovery.
type Answers struct {
	FilePattern string `koanf:"file_pattern"`
}

// UpdateConfig returns the per-request configuration bag.
func (c *Config) UpdateConfig() types.UpdateConfig {
	return types.UpdateConfig{
		Copier: types.CopierOptions{
			Recopy:    c.Copier.Recopy,
			SkipTasks: c.Copier.SkipTasks,
			Skip:      c.Copier.Skip,
			Exclude:   c.Copier.Exclude,
			Data:      c.Copier.Data,
			DataFile:  c.Copier.DataFile,
		},
		AllowScripts:  c.AllowScripts,
		IgnoreScripts: c.IgnoreScripts,
		Env:           c.Env,
		Constraints: types.ToolConstraints{
			Copier: c.Constraints.Copier,
			Python: c.Constraints.Python,
		},
	}
}
