package answers

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scaffup/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerDiscover(t *testing.T) {
	mem := afero.NewMemMapFs()
	for _, name := range []string{
		".copier-answers.yml",
		"README.md",
		"services/api/.copier-answers.api.yaml",
		"services/api/main.go",
		".git/.copier-answers.yml",
		"node_modules/pkg/.copier-answers.yml",
		"docs/.copier-answers.docs.yml",
	} {
		require.NoError(t, afero.WriteFile(mem, filepath.Join("/repo", name), []byte("x"), 0644))
	}

	m, err := NewMatcher("")
	require.NoError(t, err)

	found, err := NewScanner(filesystem.NewAferoFS(mem), "/repo", m).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{
		".copier-answers.yml",
		"docs/.copier-answers.docs.yml",
		"services/api/.copier-answers.api.yaml",
	}, found)
}

func TestScannerDiscoverMissingRoot(t *testing.T) {
	m, err := NewMatcher("")
	require.NoError(t, err)

	_, err = NewScanner(filesystem.NewAferoFS(afero.NewMemMapFs()), "/nowhere", m).Discover()
	assert.Error(t, err)
}
