package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "SCAFFUP_"

// Variables with the prefix that are read elsewhere and are not
// configuration keys.
var reservedEnv = map[string]bool{
	paths.EnvRepoRoot:  true,
	paths.EnvConfigDir: true,
}

// Keys a repository config cannot set. They decide what runs on the
// machine, so only the user, environment and flag layers own them.
var userOnlyKeys = []string{"allow_scripts", "exec.shell", "copier.binary"}

// Loader assembles the configuration layers for one repository.
type Loader struct {
	paths     paths.Paths
	overrides map[string]interface{}
	logger    zerolog.Logger
}

// NewLoader creates a loader for the repository and config directory
// described by p.
func NewLoader(p paths.Paths) *Loader {
	return &Loader{
		paths:  p,
		logger: logging.GetLogger("config"),
	}
}

// WithOverrides sets the highest-priority layer. Keys use dots for nesting,
// e.g. "copier.recopy".
func (l *Loader) WithOverrides(overrides map[string]interface{}) *Loader {
	l.overrides = overrides
	return l
}

// Load reads every layer and decodes the result.
func (l *Loader) Load() (*Config, error) {
	k, err := l.koanf()
	if err != nil {
		return nil, err
	}
	return decode(k)
}

// Effective returns the merged configuration as TOML.
func (l *Loader) Effective() ([]byte, error) {
	k, err := l.koanf()
	if err != nil {
		return nil, err
	}
	if _, err := decode(k); err != nil {
		return nil, err
	}
	return encodeTOML(k.Raw())
}

func (l *Loader) koanf() (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default configuration")
	}

	// 2. User config
	userPath := l.paths.UserConfigPath()
	if err := loadFile(k, userPath); err != nil {
		return nil, err
	}
	l.logger.Trace().Str("path", userPath).Msg("Config layer considered")

	// 3. Repository config, without the user-only keys
	repoPath := l.paths.RepoConfigPath()
	repo := koanf.New(".")
	if err := loadFile(repo, repoPath); err != nil {
		return nil, err
	}
	for _, key := range userOnlyKeys {
		if repo.Exists(key) {
			l.logger.Warn().Str("path", repoPath).Str("key", key).
				Msg("Ignoring user-only key in repository config")
			repo.Delete(key)
		}
	}
	if err := k.Merge(repo); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to merge config from %s", repoPath)
	}
	l.logger.Trace().Str("path", repoPath).Msg("Config layer considered")

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment configuration")
	}

	// 5. Overrides
	if len(l.overrides) > 0 {
		if err := k.Load(confmap.Provider(l.overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load configuration overrides")
		}
	}

	return k, nil
}

// loadFile merges the TOML file at path into k. A missing file is skipped.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot access config file %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps SCAFFUP_COPIER__SKIP_TASKS to copier.skip_tasks. Names
// under SCAFFUP_ENV__ keep their case, so SCAFFUP_ENV__PIP_INDEX_URL sets
// env.PIP_INDEX_URL. Reserved variables map to the empty key, which koanf
// skips.
func envKey(name string) string {
	if reservedEnv[name] {
		return ""
	}
	key := strings.ReplaceAll(strings.TrimPrefix(name, EnvPrefix), "__", ".")
	if head, rest, ok := strings.Cut(key, "."); ok && strings.EqualFold(head, "env") {
		return "env." + rest
	}
	return strings.ToLower(key)
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Exec.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigParse, "exec.timeout must be positive, got %s", cfg.Exec.Timeout)
	}
	if strings.TrimSpace(cfg.Exec.Shell) == "" {
		return errors.New(errors.ErrConfigParse, "exec.shell cannot be empty")
	}
	if strings.TrimSpace(cfg.Copier.Binary) == "" {
		return errors.New(errors.ErrConfigParse, "copier.binary cannot be empty")
	}
	return nil
}
