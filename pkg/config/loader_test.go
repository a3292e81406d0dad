package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layout struct {
	repo   string
	config string
}

func newLayout(t *testing.T) layout {
	t.Helper()
	l := layout{repo: t.TempDir(), config: t.TempDir()}
	t.Setenv(paths.EnvConfigDir, l.config)
	return l
}

func (l layout) loader(t *testing.T) *Loader {
	t.Helper()
	p, err := paths.New(l.repo)
	require.NoError(t, err)
	return NewLoader(p)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	l := newLayout(t)

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)

	assert.False(t, cfg.AllowScripts)
	assert.False(t, cfg.IgnoreScripts)
	assert.Equal(t, "copier", cfg.Copier.Binary)
	assert.False(t, cfg.Copier.Recopy)
	assert.Empty(t, cfg.Copier.Skip)
	assert.Empty(t, cfg.Copier.Data)
	assert.Equal(t, 15*time.Minute, cfg.Exec.Timeout)
	assert.Equal(t, "sh", cfg.Exec.Shell)
	assert.Equal(t, `(^|/)\.copier-answers(\..+)?\.ya?ml$`, cfg.Answers.FilePattern)
}

func TestLoadLayers(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.config, "config.toml"), `
allow_scripts = true

[copier]
skip = ["from-user"]

[env]
PIP_INDEX_URL = "https://pypi.example.com/simple"
`)
	writeFile(t, filepath.Join(l.repo, ".scaffup.toml"), `
[copier]
skip = ["from-repo"]

[copier.data]
project_name = "demo"

[exec]
timeout = "1m"
`)

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)

	assert.True(t, cfg.AllowScripts, "user layer")
	assert.Equal(t, []string{"from-repo"}, cfg.Copier.Skip, "repository layer replaces lists")
	assert.Equal(t, map[string]string{"project_name": "demo"}, cfg.Copier.Data)
	assert.Equal(t, map[string]string{"PIP_INDEX_URL": "https://pypi.example.com/simple"}, cfg.Env)
	assert.Equal(t, time.Minute, cfg.Exec.Timeout)
	assert.Equal(t, "sh", cfg.Exec.Shell, "untouched keys keep defaults")
}

func TestLoadRepoConfigFallbackName(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.repo, "scaffup.toml"), "ignore_scripts = true\n")

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)
	assert.True(t, cfg.IgnoreScripts)
}

func TestLoadEnvironment(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.repo, ".scaffup.toml"), "[copier]\nrecopy = false\n")
	t.Setenv("SCAFFUP_COPIER__RECOPY", "true")
	t.Setenv("SCAFFUP_ALLOW_SCRIPTS", "1")
	t.Setenv("SCAFFUP_COPIER__EXCLUDE", "docs,*.md")
	t.Setenv("SCAFFUP_CONSTRAINTS__COPIER", ">=9.1")

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)

	assert.True(t, cfg.Copier.Recopy)
	assert.True(t, cfg.AllowScripts)
	assert.Equal(t, []string{"docs", "*.md"}, cfg.Copier.Exclude)
	assert.Equal(t, ">=9.1", cfg.Constraints.Copier)
}

func TestLoadOverridesWin(t *testing.T) {
	l := newLayout(t)
	t.Setenv("SCAFFUP_COPIER__SKIP_TASKS", "false")

	cfg, err := l.loader(t).WithOverrides(map[string]interface{}{
		"copier.skip_tasks": true,
		"copier.data_file":  "answers/extra.yml",
	}).Load()
	require.NoError(t, err)

	assert.True(t, cfg.Copier.SkipTasks)
	assert.Equal(t, "answers/extra.yml", cfg.Copier.DataFile)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		user    bool
		content string
	}{
		{"malformed toml", false, "[copier\nrecopy = true\n"},
		{"malformed user toml", true, "[copier\nrecopy = true\n"},
		{"zero timeout", false, "[exec]\ntimeout = \"0s\"\n"},
		{"bad duration", false, "[exec]\ntimeout = \"soon\"\n"},
		{"empty shell", true, "[exec]\nshell = \" \"\n"},
		{"empty binary", true, "[copier]\nbinary = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(t)
			path := filepath.Join(l.repo, ".scaffup.toml")
			if tt.user {
				path = filepath.Join(l.config, "config.toml")
			}
			writeFile(t, path, tt.content)

			_, err := l.loader(t).Load()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse), err.Error())
		})
	}
}

func TestRepoConfigCannotSetUserOnlyKeys(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.repo, ".scaffup.toml"), `
allow_scripts = true

[copier]
binary = "touch /tmp/owned; copier"
skip_tasks = true

[exec]
shell = "bash"
`)

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)

	assert.False(t, cfg.AllowScripts)
	assert.False(t, cfg.UpdateConfig().AllowScripts)
	assert.Equal(t, "copier", cfg.Copier.Binary)
	assert.Equal(t, "sh", cfg.Exec.Shell)
	assert.True(t, cfg.Copier.SkipTasks, "other repository keys still apply")
}

func TestRepoConfigCanOptOutOfScripts(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.config, "config.toml"), "allow_scripts = true\n[copier]\nbinary = \"/opt/copier\"\n")
	writeFile(t, filepath.Join(l.repo, ".scaffup.toml"), "ignore_scripts = true\nallow_scripts = false\n")

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)

	assert.True(t, cfg.AllowScripts, "user allowance survives the repository layer")
	assert.True(t, cfg.IgnoreScripts)
	assert.Equal(t, "/opt/copier", cfg.Copier.Binary)
}

func TestEnvironmentKeepsEnvOverlayCase(t *testing.T) {
	l := newLayout(t)
	t.Setenv("SCAFFUP_ENV__PIP_INDEX_URL", "https://pypi.example.com/simple")

	cfg, err := l.loader(t).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://pypi.example.com/simple", cfg.Env["PIP_INDEX_URL"])
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "allow_scripts", envKey("SCAFFUP_ALLOW_SCRIPTS"))
	assert.Equal(t, "copier.skip_tasks", envKey("SCAFFUP_COPIER__SKIP_TASKS"))
	assert.Equal(t, "copier.data.project_name", envKey("SCAFFUP_COPIER__DATA__PROJECT_NAME"))
	assert.Equal(t, "env.PIP_INDEX_URL", envKey("SCAFFUP_ENV__PIP_INDEX_URL"))
	assert.Equal(t, "", envKey(paths.EnvRepoRoot))
	assert.Equal(t, "", envKey(paths.EnvConfigDir))
}

func TestUpdateConfig(t *testing.T) {
	cfg := &Config{
		AllowScripts: true,
		Copier: Copier{
			Binary:    "copier",
			Recopy:    true,
			SkipTasks: true,
			Skip:      []string{"a"},
			Exclude:   []string{"b"},
			DataFile:  "d.yml",
			Data:      map[string]string{"k": "v"},
		},
		Constraints: Constraints{Copier: ">=9", Python: ">=3.9"},
		Env:         map[string]string{"X": "1"},
	}

	assert.Equal(t, types.UpdateConfig{
		Copier: types.CopierOptions{
			Recopy:    true,
			SkipTasks: true,
			Skip:      []string{"a"},
			Exclude:   []string{"b"},
			Data:      map[string]string{"k": "v"},
			DataFile:  "d.yml",
		},
		AllowScripts: true,
		Env:          map[string]string{"X": "1"},
		Constraints:  types.ToolConstraints{Copier: ">=9", Python: ">=3.9"},
	}, cfg.UpdateConfig())
}

func TestGenerateDefault(t *testing.T) {
	content := GenerateDefault()

	assert.Contains(t, content, "# allow_scripts = false")
	assert.Contains(t, content, `# timeout = "15m"`)
	assert.Contains(t, content, "[copier]")

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "#"), "line not commented: %q", line)
	}

	var parsed map[string]interface{}
	require.NoError(t, toml.Unmarshal([]byte(content), &parsed))
}

func TestEffective(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.repo, ".scaffup.toml"), "[constraints]\npython = \">=3.10\"\n")

	out, err := l.loader(t).WithOverrides(map[string]interface{}{"copier.recopy": true}).Effective()
	require.NoError(t, err)

	var parsed struct {
		Copier struct {
			Recopy bool   `toml:"recopy"`
			Binary string `toml:"binary"`
		} `toml:"copier"`
		Constraints struct {
			Python string `toml:"python"`
		} `toml:"constraints"`
	}
	require.NoError(t, toml.Unmarshal(out, &parsed))
	assert.True(t, parsed.Copier.Recopy)
	assert.Equal(t, "copier", parsed.Copier.Binary)
	assert.Equal(t, ">=3.10", parsed.Constraints.Python)
}
