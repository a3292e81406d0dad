// pkg/update/service_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Temp repository on disk, Mock Updater
// PURPOSE: Test request assembly, extraction and config generation

package update

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scaffup/pkg/config"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/filesystem"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const answersBody = "_commit: v1.0.0\n_src_path: gh:acme/template\nproject: demo\n"

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) UpdateArtifacts(ctx context.Context, req types.UpdateRequest) types.ArtifactResult {
	return m.Called(req).Get(0).(types.ArtifactResult)
}

type testRepo struct {
	root    string
	paths   paths.Paths
	cfg     *config.Config
	updater *MockUpdater
	svc     *Service
}

func newTestRepo(t *testing.T, repoConfig string) *testRepo {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())

	root := t.TempDir()
	if repoConfig != "" {
		writeRepoFile(t, root, ".scaffup.toml", repoConfig)
	}

	p, err := paths.New(root)
	require.NoError(t, err)
	cfg, err := config.NewLoader(p).Load()
	require.NoError(t, err)

	r := &testRepo{root: p.RepoRoot(), paths: p, cfg: cfg, updater: new(MockUpdater)}
	r.svc = NewService(p, cfg, filesystem.NewOS(), r.updater)
	return r
}

func writeRepoFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestUpdateBuildsRequest(t *testing.T) {
	r := newTestRepo(t, "ignore_scripts = true\n[copier]\nskip = [\"README.md\"]\n")
	writeRepoFile(t, r.root, ".copier-answers.yml", answersBody)

	want := types.UpdateRequest{
		AnswersFile: ".copier-answers.yml",
		Deps:        []types.DependencyUpdate{{DepName: "gh:acme/template", NewVersion: "v2.0.0"}},
		Config:      r.cfg.UpdateConfig(),
	}
	r.updater.On("UpdateArtifacts", want).Return(types.NoChange())

	res, err := r.svc.Update(context.Background(), Request{
		AnswersFile: filepath.Join(r.root, ".copier-answers.yml"),
		Version:     "v2.0.0",
	})
	require.NoError(t, err)
	assert.True(t, res.IsNoChange())
	assert.True(t, want.Config.IgnoreScripts)
	assert.Equal(t, []string{"README.md"}, want.Config.Copier.Skip)
	r.updater.AssertExpectations(t)
}

func TestUpdateDepName(t *testing.T) {
	t.Run("explicit name wins", func(t *testing.T) {
		r := newTestRepo(t, "")
		writeRepoFile(t, r.root, ".copier-answers.yml", answersBody)
		r.updater.On("UpdateArtifacts", mock.MatchedBy(func(req types.UpdateRequest) bool {
			return req.Deps[0].DepName == "custom"
		})).Return(types.NoChange())

		_, err := r.svc.Update(context.Background(), Request{
			AnswersFile: ".copier-answers.yml", DepName: "custom", Version: "v2",
		})
		require.NoError(t, err)
		r.updater.AssertExpectations(t)
	})

	t.Run("unreadable answers file falls back to its path", func(t *testing.T) {
		r := newTestRepo(t, "")
		r.updater.On("UpdateArtifacts", mock.MatchedBy(func(req types.UpdateRequest) bool {
			return req.Deps[0].DepName == "missing.yml"
		})).Return(types.Failure("missing.yml", "boom"))

		res, err := r.svc.Update(context.Background(), Request{AnswersFile: "missing.yml", Version: "v2"})
		require.NoError(t, err)
		assert.Equal(t, types.ResultError, res.Kind())
		r.updater.AssertExpectations(t)
	})
}

func TestUpdateRejectsAnswersFileOutsideRepo(t *testing.T) {
	r := newTestRepo(t, "")

	_, err := r.svc.Update(context.Background(), Request{AnswersFile: "../elsewhere.yml", Version: "v2"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathViolation))

	_, err = r.svc.Update(context.Background(), Request{Version: "v2"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	r.updater.AssertNotCalled(t, "UpdateArtifacts", mock.Anything)
}

func TestCommand(t *testing.T) {
	r := newTestRepo(t, "[copier]\nrecopy = true\nexclude = [\"docs\"]\n")
	writeRepoFile(t, r.root, ".copier-answers.yml", answersBody)

	cmd, err := r.svc.Command(Request{AnswersFile: ".copier-answers.yml", Version: "v2.0.0"})
	require.NoError(t, err)
	assert.Equal(t,
		"copier recopy --skip-answered --defaults --exclude docs --answers-file .copier-answers.yml --vcs-ref v2.0.0",
		cmd.String())

	_, err = r.svc.Command(Request{AnswersFile: ".copier-answers.yml"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandBuild))
}

func TestCommandIgnoresRepositoryTrust(t *testing.T) {
	r := newTestRepo(t, "allow_scripts = true\n[copier]\nbinary = \"touch /tmp/owned; copier\"\n")
	writeRepoFile(t, r.root, ".copier-answers.yml", answersBody)

	cmd, err := r.svc.Command(Request{AnswersFile: ".copier-answers.yml", Version: "2.0.0"})
	require.NoError(t, err)
	assert.Equal(t,
		"copier update --skip-answered --defaults --answers-file .copier-answers.yml --vcs-ref 2.0.0",
		cmd.String())
}

func TestExtract(t *testing.T) {
	r := newTestRepo(t, "")
	writeRepoFile(t, r.root, ".copier-answers.yml", answersBody)
	writeRepoFile(t, r.root, "services/api/.copier-answers.api.yml", "_commit: 0.3.0\n_src_path: ./templates/api\n")
	writeRepoFile(t, r.root, ".git/.copier-answers.yml", "not: scanned\n")

	t.Run("discovers answers files", func(t *testing.T) {
		deps, err := r.svc.Extract(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []types.PackageDependency{
			{
				AnswersFile:  ".copier-answers.yml",
				DepName:      "gh:acme/template",
				PackageName:  "gh:acme/template",
				CurrentValue: "v1.0.0",
				Datasource:   "git-tags",
			},
			{
				AnswersFile:  "services/api/.copier-answers.api.yml",
				DepName:      "./templates/api",
				PackageName:  "./templates/api",
				CurrentValue: "0.3.0",
				Datasource:   "git-tags",
				SkipReason:   "local-template",
			},
		}, deps)
	})

	t.Run("explicit files", func(t *testing.T) {
		deps, err := r.svc.Extract(context.Background(), []string{filepath.Join(r.root, ".copier-answers.yml")})
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, ".copier-answers.yml", deps[0].AnswersFile)
	})

	t.Run("invalid answers file", func(t *testing.T) {
		writeRepoFile(t, r.root, "broken.yml", "project: demo\n")
		_, err := r.svc.Extract(context.Background(), []string{"broken.yml"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAnswersParse))
	})
}

func TestGenConfig(t *testing.T) {
	t.Run("prints defaults", func(t *testing.T) {
		r := newTestRepo(t, "")

		result, err := GenConfig(filesystem.NewOS(), r.paths, GenConfigOptions{})
		require.NoError(t, err)
		assert.Equal(t, config.GenerateDefault(), result.Content)
		assert.Empty(t, result.FileWritten)
	})

	t.Run("writes repository config once", func(t *testing.T) {
		r := newTestRepo(t, "")

		result, err := GenConfig(filesystem.NewOS(), r.paths, GenConfigOptions{Write: true})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(r.root, ".scaffup.toml"), result.FileWritten)

		data, err := os.ReadFile(result.FileWritten)
		require.NoError(t, err)
		assert.Equal(t, result.Content, string(data))

		_, err = GenConfig(filesystem.NewOS(), r.paths, GenConfigOptions{Write: true})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
	})

	t.Run("effective configuration", func(t *testing.T) {
		r := newTestRepo(t, "[exec]\ntimeout = \"2m\"\n")

		result, err := GenConfig(filesystem.NewOS(), r.paths, GenConfigOptions{
			Effective: true,
			Overrides: map[string]interface{}{"copier.recopy": true},
		})
		require.NoError(t, err)
		assert.Regexp(t, `timeout = ['"]2m['"]`, result.Content)
		assert.Contains(t, result.Content, "recopy = true")
	})
}
