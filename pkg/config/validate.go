package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/arthur-debert/addonc/pkg/transpile"
	"github.com/arthur-debert/addonc/pkg/types"
)

// Validate checks a loaded configuration
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.PackName) == "" {
		return invalid("packName is required")
	}
	if strings.ContainsAny(cfg.PackName, `/\`) {
		return invalid("packName %q must not contain path separators", cfg.PackName)
	}

	if cfg.BehaviourPackPath == "" && cfg.ResourcePackPath == "" {
		return invalid("at least one of behaviourPackPath and resourcePackPath is required")
	}
	for key, p := range map[string]string{
		"behaviourPackPath": cfg.BehaviourPackPath,
		"resourcePackPath":  cfg.ResourcePackPath,
	} {
		if p == "" {
			continue
		}
		if !insideProject(p) {
			return invalid("%s %q must stay inside the project directory", key, p)
		}
	}
	if cfg.BehaviourPackPath != "" && cfg.ResourcePackPath != "" &&
		paths.TreeDir(cfg.BehaviourPackPath) == paths.TreeDir(cfg.ResourcePackPath) {
		return invalid("behaviourPackPath and resourcePackPath must differ")
	}

	if !transpile.ValidDialect(cfg.Dialect) {
		return invalid("unknown dialect %q (expected one of %s)", cfg.Dialect, strings.Join(transpile.Dialects(), ", "))
	}
	if cfg.Workers < 1 {
		return invalid("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.CacheSize < 0 {
		return invalid("cacheSize must not be negative, got %d", cfg.CacheSize)
	}
	if cfg.OutDir == "" {
		return invalid("outDir must not be empty")
	}
	if err := validateOutDir(cfg); err != nil {
		return err
	}
	if cfg.Transpiler != transpile.DefaultTranspiler && !strings.HasSuffix(cfg.Transpiler, transpile.ScriptExt) {
		return invalid("transpiler must be %q or a %s script, got %q", transpile.DefaultTranspiler, transpile.ScriptExt, cfg.Transpiler)
	}
	return nil
}

// insideProject reports whether a tree path stays below the project
// directory. A leading slash is project-relative.
func insideProject(p string) bool {
	if filepath.VolumeName(p) != "" {
		return false
	}
	clean := paths.TreeDir(p)
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}

// validateOutDir rejects an outDir whose packaged roots overlap a source
// tree. A packaged build clears its destination first.
func validateOutDir(cfg *Config) error {
	base := cfg.ProjectDir
	if base == "" {
		base = string(filepath.Separator)
	}
	out := cfg.OutDir
	if !filepath.IsAbs(out) {
		out = filepath.Join(base, filepath.FromSlash(out))
	}

	project := cfg.ToProjectConfig()
	sources := paths.SourceRoots(base, project)
	for _, kind := range project.EnabledTrees() {
		dest := filepath.Join(out, kind.Abbrev())
		for _, src := range types.AllTreeKinds() {
			root, ok := sources[src]
			if ok && paths.Overlaps(dest, root) {
				return invalid("outDir %q puts the packaged %s tree at %s, which overlaps the %s source %s",
					cfg.OutDir, kind.Abbrev(), dest, src.Abbrev(), root)
			}
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrConfigInvalid, format, args...)
}
