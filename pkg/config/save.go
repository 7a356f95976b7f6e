package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Save writes the project identity of cfg to compiler.config.json in
// projectDir. Host-dependent settings are not written.
func Save(projectDir string, cfg *Config) (string, error) {
	values := map[string]interface{}{"packName": cfg.PackName}
	if cfg.BehaviourPackPath != "" {
		values["behaviourPackPath"] = cfg.BehaviourPackPath
	}
	if cfg.ResourcePackPath != "" {
		values["resourcePackPath"] = cfg.ResourcePackPath
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to build config")
	}
	data, err := k.Marshal(json.Parser())
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode config")
	}

	path := filepath.Join(projectDir, JSONFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "write %s", path)
	}
	return path, nil
}
