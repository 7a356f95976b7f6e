// Package paths implements the target resolver: the pure mapping from a
// deployment target, a tree kind and a project name to the absolute
// destination root of that tree.
//
// All machine-specific locations (the local output directory and the
// per-user application data directory) are injected at construction time,
// so resolution never reads the environment.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/types"
)

// Installed application identifiers and the fixed layout below them.
// These mirror where the game looks for development packs and are not
// user-configurable.
const (
	// StablePackage is the installed-application identifier of the stable release
	StablePackage = "Microsoft.MinecraftUWP_8wekyb3d8bbwe"

	// PreviewPackage is the installed-application identifier of the preview release
	PreviewPackage = "Microsoft.MinecraftWindowsBeta_8wekyb3d8bbwe"

	// ComMojangDir is the data folder inside an installed application
	ComMojangDir = "LocalState/games/com.mojang"

	// PackagesDir is the folder under the install root holding applications
	PackagesDir = "Packages"

	// BehaviorPacksDir holds development behavior packs
	BehaviorPacksDir = "development_behavior_packs"

	// ResourcePacksDir holds development resource packs
	ResourcePacksDir = "development_resource_packs"

	// DefaultOutputDir is the packaged staging directory relative to the project
	DefaultOutputDir = "dist"
)

// Options holds the injected locations a Resolver works from
type Options struct {
	// OutputDir is the absolute local staging directory for the packaged target
	OutputDir string

	// InstallRoot is the per-user application data directory
	// (%LOCALAPPDATA% on Windows)
	InstallRoot string
}

// Resolver maps (target, tree kind, project name) to destination roots
type Resolver struct {
	outputDir   string
	installRoot string
}

// NewResolver creates a resolver from explicit locations
func NewResolver(opts Options) *Resolver {
	return &Resolver{
		outputDir:   filepath.Clean(opts.OutputDir),
		installRoot: filepath.Clean(opts.InstallRoot),
	}
}

// Resolve returns the absolute destination root for a tree. It only fails
// for undeclared targets or tree kinds, which are programmer errors.
func (r *Resolver) Resolve(target types.DeploymentTarget, kind types.TreeKind, projectName string) (string, error) {
	if !kind.Valid() {
		return "", errors.Newf(errors.ErrUnknownTreeKind, "unknown tree kind %s", kind).
			WithDetail("kind", int(kind))
	}

	switch target {
	case types.TargetPackaged:
		return filepath.Join(r.outputDir, kind.Abbrev()), nil
	case types.TargetStable:
		return r.installedRoot(StablePackage, kind, projectName), nil
	case types.TargetPreview:
		return r.installedRoot(PreviewPackage, kind, projectName), nil
	default:
		return "", errors.Newf(errors.ErrUnknownTarget, "unknown deployment target %s", target).
			WithDetail("target", int(target))
	}
}

func (r *Resolver) installedRoot(pkg string, kind types.TreeKind, projectName string) string {
	return filepath.Join(
		r.installRoot,
		PackagesDir,
		pkg,
		filepath.FromSlash(ComMojangDir),
		packsDirFor(kind),
		fmt.Sprintf("%s %s", projectName, kind.Abbrev()),
	)
}

// Destination returns the destination path for a slash-separated path
// relative to the tree root
func (r *Resolver) Destination(target types.DeploymentTarget, kind types.TreeKind, projectName, rel string) (string, error) {
	root, err := r.Resolve(target, kind, projectName)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return root, nil
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

func packsDirFor(kind types.TreeKind) string {
	if kind == types.TreeBehavior {
		return BehaviorPacksDir
	}
	return ResourcePacksDir
}

// TreeDir normalizes a configured tree path to a clean slash-separated path
// relative to the project directory. Leading and trailing slashes are
// dropped, so "/BP/" and "BP" name the same tree.
func TreeDir(p string) string {
	rel := strings.Trim(filepath.ToSlash(p), "/")
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
}

// SourceRoots returns the absolute source root of each enabled tree
func SourceRoots(projectDir string, cfg types.ProjectConfig) map[types.TreeKind]string {
	roots := make(map[types.TreeKind]string)
	for _, kind := range cfg.EnabledTrees() {
		roots[kind] = filepath.Join(projectDir, filepath.FromSlash(TreeDir(cfg.TreePath(kind))))
	}
	return roots
}

// Overlaps reports whether two directories are the same or one contains
// the other
func Overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

func within(dir, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(dir))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Classify finds the tree whose source root strictly contains path and
// returns the tree kind with the slash-separated path relative to that root.
// Paths equal to a root or outside every root are not classified.
func Classify(roots map[types.TreeKind]string, path string) (types.TreeKind, string, bool) {
	clean := filepath.Clean(path)
	for _, kind := range types.AllTreeKinds() {
		root, ok := roots[kind]
		if !ok {
			continue
		}
		prefix := filepath.Clean(root) + string(filepath.Separator)
		if strings.HasPrefix(clean, prefix) {
			return kind, filepath.ToSlash(strings.TrimPrefix(clean, prefix)), true
		}
	}
	return 0, "", false
}
