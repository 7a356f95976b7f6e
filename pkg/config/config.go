package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/arthur-debert/addonc/pkg/transpile"
	"github.com/arthur-debert/addonc/pkg/types"
)

const (
	// JSONFile is the project file name written by scaffold
	JSONFile = "compiler.config.json"
	TOMLFile = "compiler.config.toml"
	YAMLFile = "compiler.config.yaml"

	// EnvFile holds optional ADDONC_* overrides next to the project file
	EnvFile = ".env"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "ADDONC_"
)

// FileNames returns the accepted project file names in lookup order
func FileNames() []string {
	return []string{JSONFile, TOMLFile, YAMLFile}
}

// Config is the resolved project configuration
type Config struct {
	PackName          string `koanf:"packName"`
	BehaviourPackPath string `koanf:"behaviourPackPath"`
	ResourcePackPath  string `koanf:"resourcePackPath"`

	Dialect     string `koanf:"dialect"`
	OutDir      string `koanf:"outDir"`
	InstallRoot string `koanf:"installRoot"`
	Workers     int    `koanf:"workers"`
	CacheSize   int    `koanf:"cacheSize"`
	Transpiler  string `koanf:"transpiler"`

	// ProjectDir is the directory the configuration was loaded from
	ProjectDir string `koanf:"-"`
	// Source is the project file that was read
	Source string `koanf:"-"`
}

// ToProjectConfig returns the project identity used by the build engine
func (c *Config) ToProjectConfig() types.ProjectConfig {
	return types.ProjectConfig{
		ProjectName:  c.PackName,
		BehaviorPath: c.BehaviourPackPath,
		ResourcePath: c.ResourcePackPath,
	}
}

// SourceRoots returns the absolute source root of every enabled tree
func (c *Config) SourceRoots() map[types.TreeKind]string {
	return paths.SourceRoots(c.ProjectDir, c.ToProjectConfig())
}

// OutputDir returns the absolute packaged output directory
func (c *Config) OutputDir() string {
	return c.resolve(c.OutDir)
}

// TranspilerName returns the transpiler setting with script paths made
// absolute against the project directory
func (c *Config) TranspilerName() string {
	if strings.HasSuffix(c.Transpiler, transpile.ScriptExt) {
		return c.resolve(c.Transpiler)
	}
	return c.Transpiler
}

// ResolverOptions returns the resolver configuration for this project
func (c *Config) ResolverOptions() paths.Options {
	return paths.Options{
		OutputDir:   c.OutputDir(),
		InstallRoot: c.InstallRoot,
	}
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, filepath.FromSlash(p))
}
