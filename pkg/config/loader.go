package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Find returns the project file in projectDir
func Find(projectDir string) (string, error) {
	for _, name := range FileNames() {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "stat %s", path)
		}
	}
	return "", errors.Newf(errors.ErrConfigNotFound, "no %s found in %s", JSONFile, projectDir).
		WithDetail("dir", projectDir)
}

// Load reads and validates the configuration of the project in projectDir
func Load(projectDir string) (*Config, error) {
	logger := logging.GetLogger("config")

	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "resolve %s", projectDir)
	}

	source, err := Find(dir)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	if err := k.Load(confmap.Provider(computedDefaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load host defaults")
	}

	// 2. Project file
	if err := k.Load(file.Provider(source), parserFor(source)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", source)
	}
	logger.Debug().Str("file", source).Msg("Loaded project config")

	// 3. .env next to the project file
	envPath := filepath.Join(dir, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		values, err := readEnvFile(envPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", envPath)
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", envPath)
		}
		logger.Debug().Str("file", envPath).Int("keys", len(values)).Msg("Loaded env file")
	}

	// 4. Process environment
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.ProjectDir = dir
	cfg.Source = source

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
