package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// envKeys maps the suffix of an ADDONC_* variable to its config key
var envKeys = map[string]string{
	"PACK_NAME":    "packName",
	"INSTALL_ROOT": "installRoot",
	"OUT_DIR":      "outDir",
	"DIALECT":      "dialect",
	"WORKERS":      "workers",
	"CACHE_SIZE":   "cacheSize",
	"TRANSPILER":   "transpiler",
}

// envKey translates an environment variable name to a config key. Unknown
// variables map to "" so the env provider skips them.
func envKey(name string) string {
	if !strings.HasPrefix(name, EnvPrefix) {
		return ""
	}
	return envKeys[strings.TrimPrefix(name, EnvPrefix)]
}

// envValue is envKey for the env provider; empty variables are skipped
func envValue(name, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envKey(name), value
}

// computedDefaults are defaults that depend on the host
func computedDefaults() map[string]interface{} {
	return map[string]interface{}{
		"workers":     runtime.NumCPU(),
		"installRoot": xdg.DataHome,
	}
}

// parserFor picks the koanf parser from the project file extension
func parserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".toml":
		return toml.Parser()
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

// readEnvFile returns the ADDONC_* overrides of a .env file keyed by config
// key. The process environment is left untouched.
func readEnvFile(path string) (map[string]interface{}, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{})
	for name, value := range values {
		if key := envKey(name); key != "" && strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	return out, nil
}
