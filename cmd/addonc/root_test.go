package addonc

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/addonc/pkg/config"
	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps logs and install folders inside the test's temp dir
func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	t.Setenv("ADDONC_INSTALL_ROOT", filepath.Join(base, "LocalAppData"))
	for _, name := range []string{"ADDONC_OUT_DIR", "ADDONC_DIALECT", "ADDONC_WORKERS", "ADDONC_PACK_NAME", "ADDONC_CACHE_SIZE", "ADDONC_TRANSPILER"} {
		t.Setenv(name, "")
	}
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return base
}

func newProject(t *testing.T, base string) string {
	t.Helper()
	dir := filepath.Join(base, "project")
	files := map[string]string{
		config.JSONFile:                    `{"packName": "Demo", "behaviourPackPath": "BP", "resourcePackPath": "RP"}`,
		"BP/manifest.json":                 `{"format_version": 2}`,
		"BP/scripts/main.ts":               "const greeting: string = \"hi\";\n",
		"RP/textures/terrain_texture.json": "{}",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPackageCommand(t *testing.T) {
	base := isolate(t)
	dir := newProject(t, base)

	out, err := run(t, "package", "--dir", dir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 3 files in")

	js, err := os.ReadFile(filepath.Join(dir, "dist", "BP", "scripts", "main.js"))
	require.NoError(t, err)
	assert.Equal(t, "const greeting = \"hi\";\n", string(js))
	assert.FileExists(t, filepath.Join(dir, "dist", "BP", "manifest.json"))
	assert.FileExists(t, filepath.Join(dir, "dist", "RP", "textures", "terrain_texture.json"))
	assert.NoFileExists(t, filepath.Join(dir, "dist", "BP", "scripts", "main.ts"))
}

func TestPackageRejectsUnknownTarget(t *testing.T) {
	base := isolate(t)
	dir := newProject(t, base)

	_, err := run(t, "package", "--dir", dir, "-t", "es2099")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestMissingConfigFails(t *testing.T) {
	isolate(t)
	_, err := run(t, "package", "--dir", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
}

func TestOutdirCommand(t *testing.T) {
	base := isolate(t)
	dir := newProject(t, base)
	install := filepath.Join(base, "LocalAppData")

	out, err := run(t, "outdir", "--dir", dir, "--format", "text")
	require.NoError(t, err)

	bp := filepath.Join(install, "Packages", paths.StablePackage, "LocalState", "games", "com.mojang", "development_behavior_packs", "Demo BP")
	rp := filepath.Join(install, "Packages", paths.StablePackage, "LocalState", "games", "com.mojang", "development_resource_packs", "Demo RP")
	assert.Contains(t, out, `BP: "`+bp+`"`)
	assert.Contains(t, out, `RP: "`+rp+`"`)

	out, err = run(t, "outdir", "--dir", dir, "--format", "text", "--preview")
	require.NoError(t, err)
	assert.Contains(t, out, paths.PreviewPackage)

	out, err = run(t, "outdir", "--dir", dir, "--format", "text", "--packaged")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "dist", "BP"))
}

func TestScaffoldCommand(t *testing.T) {
	base := isolate(t)
	dir := filepath.Join(base, "fresh")

	out, err := run(t, "scaffold", "--dir", dir, "--name", "Fresh", "--no-git", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, `Created project "Fresh"`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", cfg.PackName)

	_, err = run(t, "scaffold", "--dir", dir, "--name", "Again", "--no-git")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigExists))
}

func TestScaffoldPrompts(t *testing.T) {
	base := isolate(t)
	dir := filepath.Join(base, "prompted")

	opts := &globalOptions{projectDir: dir, format: "text"}
	var asked string
	cmd := newScaffoldCmd(opts, func(label, fallback string) (string, error) {
		asked = label
		assert.Equal(t, "prompted", fallback)
		return "Prompted", nil
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-git"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, MsgScaffoldPrompt, asked)
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Prompted", cfg.PackName)
}

func TestNoCommand(t *testing.T) {
	isolate(t)
	_, err := run(t)
	assert.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "addonc")
}
