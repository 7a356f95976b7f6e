// Package scaffold creates a new add-on project
package scaffold

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arthur-debert/addonc/pkg/config"
	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/logging"
)

const (
	// BehaviorDir and ResourceDir are the tree directories of a new project
	BehaviorDir = "BP"
	ResourceDir = "RP"

	// GitIgnore keeps packaged output out of version control
	GitIgnore = "/dist/\n"
)

// GitRunner initializes a repository in dir
type GitRunner func(ctx context.Context, dir string) error

// GitInit runs git init in dir
func GitInit(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "git init: %s", out)
	}
	return nil
}

// Options contains configuration for Init
type Options struct {
	ProjectDir string
	PackName   string

	// Git is called last; nil skips repository setup
	Git GitRunner
}

// Result lists what Init created
type Result struct {
	ConfigPath string
	Created    []string
	GitReady   bool
}

// Init lays out a new project. It refuses to touch a directory that
// already holds a project file. Repository setup is best effort.
func Init(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("scaffold")

	cfg := &config.Config{
		PackName:          opts.PackName,
		BehaviourPackPath: BehaviorDir,
		ResourcePackPath:  ResourceDir,
	}
	if err := validateName(cfg); err != nil {
		return nil, err
	}

	if existing, err := config.Find(opts.ProjectDir); err == nil {
		return nil, errors.Newf(errors.ErrConfigExists, "%s already exists", existing)
	} else if !errors.IsErrorCode(err, errors.ErrConfigNotFound) {
		return nil, err
	}

	if err := os.MkdirAll(opts.ProjectDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "create %s", opts.ProjectDir)
	}

	result := &Result{}
	path, err := config.Save(opts.ProjectDir, cfg)
	if err != nil {
		return nil, err
	}
	result.ConfigPath = path
	result.Created = append(result.Created, path)

	for _, dir := range []string{BehaviorDir, ResourceDir} {
		p := filepath.Join(opts.ProjectDir, dir)
		if err := os.MkdirAll(p, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "create %s", p)
		}
		result.Created = append(result.Created, p)
	}

	ignore := filepath.Join(opts.ProjectDir, ".gitignore")
	if err := os.WriteFile(ignore, []byte(GitIgnore), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "write %s", ignore)
	}
	result.Created = append(result.Created, ignore)

	if opts.Git != nil {
		if err := opts.Git(ctx, opts.ProjectDir); err != nil {
			logger.Warn().Err(err).Msg("Repository setup failed")
		} else {
			result.GitReady = true
		}
	}

	logger.Info().Str("dir", opts.ProjectDir).Str("pack", opts.PackName).Msg("Project scaffolded")
	return result, nil
}

// validateName applies the config rules that make sense before a project
// exists
func validateName(cfg *config.Config) error {
	candidate := *cfg
	candidate.Dialect = "es2021"
	candidate.Workers = 1
	candidate.OutDir = "dist"
	candidate.Transpiler = "typescript"
	return config.Validate(&candidate)
}
