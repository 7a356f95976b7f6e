package paths

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) (*Resolver, string, string) {
	t.Helper()
	base := t.TempDir()
	out := filepath.Join(base, "project", "dist")
	install := filepath.Join(base, "LocalAppData")
	return NewResolver(Options{OutputDir: out, InstallRoot: install}), out, install
}

func TestResolve(t *testing.T) {
	r, out, install := testResolver(t)
	stableBase := filepath.Join(install, "Packages", StablePackage, "LocalState", "games", "com.mojang")
	previewBase := filepath.Join(install, "Packages", PreviewPackage, "LocalState", "games", "com.mojang")

	tests := []struct {
		name   string
		target types.DeploymentTarget
		kind   types.TreeKind
		want   string
	}{
		{"packaged behavior", types.TargetPackaged, types.TreeBehavior, filepath.Join(out, "BP")},
		{"packaged resource", types.TargetPackaged, types.TreeResource, filepath.Join(out, "RP")},
		{"stable behavior", types.TargetStable, types.TreeBehavior, filepath.Join(stableBase, "development_behavior_packs", "Demo BP")},
		{"stable resource", types.TargetStable, types.TreeResource, filepath.Join(stableBase, "development_resource_packs", "Demo RP")},
		{"preview behavior", types.TargetPreview, types.TreeBehavior, filepath.Join(previewBase, "development_behavior_packs", "Demo BP")},
		{"preview resource", types.TargetPreview, types.TreeResource, filepath.Join(previewBase, "development_resource_packs", "Demo RP")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.target, tt.kind, "Demo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, filepath.IsAbs(got))

			again, err := r.Resolve(tt.target, tt.kind, "Demo")
			require.NoError(t, err)
			assert.Equal(t, got, again, "resolution must be deterministic")
		})
	}
}

func TestResolveInjectiveInKind(t *testing.T) {
	r, _, _ := testResolver(t)

	for _, target := range []types.DeploymentTarget{types.TargetPackaged, types.TargetStable, types.TargetPreview} {
		for _, name := range []string{"Demo", "My Addon", ""} {
			bp, err := r.Resolve(target, types.TreeBehavior, name)
			require.NoError(t, err)
			rp, err := r.Resolve(target, types.TreeResource, name)
			require.NoError(t, err)
			assert.NotEqual(t, bp, rp, "target=%s name=%q", target, name)
		}
	}
}

func TestResolveStableAndPreviewDiffer(t *testing.T) {
	r, _, _ := testResolver(t)

	stable, err := r.Resolve(types.TargetStable, types.TreeBehavior, "Demo")
	require.NoError(t, err)
	preview, err := r.Resolve(types.TargetPreview, types.TreeBehavior, "Demo")
	require.NoError(t, err)

	assert.NotEqual(t, stable, preview)
	assert.Contains(t, stable, StablePackage)
	assert.Contains(t, preview, PreviewPackage)
}

func TestResolveRejectsUnknownValues(t *testing.T) {
	r, _, _ := testResolver(t)

	_, err := r.Resolve(types.TargetStable, types.TreeKind(42), "Demo")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTreeKind))

	_, err = r.Resolve(types.DeploymentTarget(9), types.TreeBehavior, "Demo")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTarget))
}

func TestDestination(t *testing.T) {
	r, _, install := testResolver(t)

	got, err := r.Destination(types.TargetStable, types.TreeBehavior, "Demo", "scripts/main.js")
	require.NoError(t, err)

	want := filepath.Join(install, "Packages", StablePackage, "LocalState", "games", "com.mojang",
		"development_behavior_packs", "Demo BP", "scripts", "main.js")
	assert.Equal(t, want, got)

	root, err := r.Destination(types.TargetStable, types.TreeBehavior, "Demo", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(filepath.Dir(want)), root)
}

func TestSourceRoots(t *testing.T) {
	project := t.TempDir()

	roots := SourceRoots(project, types.ProjectConfig{
		ProjectName:  "Demo",
		BehaviorPath: "/BP/",
		ResourcePath: "",
	})

	require.Len(t, roots, 1)
	assert.Equal(t, filepath.Join(project, "BP"), roots[types.TreeBehavior])
	_, ok := roots[types.TreeResource]
	assert.False(t, ok, "disabled trees have no source root")
}

func TestTreeDir(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"BP", "BP"},
		{"/BP/", "BP"},
		{"packs//BP/", "packs/BP"},
		{"./BP", "BP"},
		{"/../BP", "../BP"},
		{"/", "."},
		{"", "."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TreeDir(tt.in), tt.in)
	}
}

func TestOverlaps(t *testing.T) {
	project := t.TempDir()
	bp := filepath.Join(project, "BP")

	tests := []struct {
		name string
		dir  string
		want bool
	}{
		{"same directory", bp, true},
		{"inside", filepath.Join(bp, "BP"), true},
		{"contains", project, true},
		{"sibling", filepath.Join(project, "dist", "BP"), false},
		{"shared prefix", filepath.Join(project, "BP2"), false},
		{"dotted sibling", filepath.Join(project, "..BP"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.dir, bp))
			assert.Equal(t, tt.want, Overlaps(bp, tt.dir))
		})
	}
}

func TestClassify(t *testing.T) {
	project := t.TempDir()
	roots := map[types.TreeKind]string{
		types.TreeBehavior: filepath.Join(project, "BP"),
		types.TreeResource: filepath.Join(project, "RP"),
	}

	tests := []struct {
		name     string
		path     string
		wantOK   bool
		wantKind types.TreeKind
		wantRel  string
	}{
		{"behavior file", filepath.Join(project, "BP", "scripts", "main.ts"), true, types.TreeBehavior, "scripts/main.ts"},
		{"resource dir", filepath.Join(project, "RP", "textures"), true, types.TreeResource, "textures"},
		{"root itself", filepath.Join(project, "BP"), false, 0, ""},
		{"sibling with shared prefix", filepath.Join(project, "BPX", "file.json"), false, 0, ""},
		{"outside project", filepath.Join(project, "dist", "BP", "main.js"), false, 0, ""},
		{"swap file at project root", filepath.Join(project, ".main.ts.swp"), false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, rel, ok := Classify(roots, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, kind)
				assert.Equal(t, tt.wantRel, rel)
			}
		})
	}
}
