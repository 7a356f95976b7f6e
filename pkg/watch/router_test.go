package watch

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/filesystem"
	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/arthur-debert/addonc/pkg/transpile"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const project = "/work/project"

var upper = transpile.Func(func(_ context.Context, src []byte, _ string) ([]byte, error) {
	if bytes.HasPrefix(src, []byte("!")) {
		return nil, errors.New(errors.ErrTranspileSyntax, "unexpected token")
	}
	return bytes.ToUpper(src), nil
})

type env struct {
	fs       filesystem.FS
	resolver *paths.Resolver
	sync     *mirror.Synchronizer
	router   *Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fsys := filesystem.NewMemFS()
	resolver := paths.NewResolver(paths.Options{
		OutputDir:   filepath.Join(project, "dist"),
		InstallRoot: "/work/LocalAppData",
	})
	sources := paths.SourceRoots(project, types.ProjectConfig{
		ProjectName:  "Demo",
		BehaviorPath: "BP",
		ResourcePath: "RP",
	})
	for _, root := range sources {
		require.NoError(t, fsys.MkdirAll(root, 0755))
	}

	session := mirror.Session{Target: types.TargetStable, ProjectName: "Demo"}
	sync := mirror.New(mirror.Options{
		FS:       fsys,
		Resolver: resolver,
		Adapter:  transpile.NewAdapter(upper, ""),
		Session:  session,
		Sources:  sources,
		Workers:  2,
	})

	return &env{
		fs:       fsys,
		resolver: resolver,
		sync:     sync,
		router: NewRouter(Options{
			FS:           fsys,
			Resolver:     resolver,
			Synchronizer: sync,
			Sources:      sources,
			Target:       session.Target,
			ProjectName:  session.ProjectName,
		}),
	}
}

func (e *env) src(tree, rel string) string {
	return filepath.Join(project, tree, filepath.FromSlash(rel))
}

func (e *env) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, e.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, e.fs.WriteFile(path, []byte(content), 0644))
}

func (e *env) dest(t *testing.T, kind types.TreeKind, rel string) string {
	t.Helper()
	p, err := e.resolver.Destination(types.TargetStable, kind, "Demo", rel)
	require.NoError(t, err)
	return p
}

func (e *env) read(t *testing.T, path string) string {
	t.Helper()
	data, err := e.fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func (e *env) exists(t *testing.T, path string) bool {
	t.Helper()
	_, ok, err := filesystem.Exists(e.fs, path)
	require.NoError(t, err)
	return ok
}

func (e *env) build(t *testing.T) {
	t.Helper()
	_, err := e.sync.Build(context.Background(), types.AllTreeKinds())
	require.NoError(t, err)
}

func TestHandleModifiedFile(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "scripts/main.ts"), "main")
	e.write(t, e.src("BP", "scripts/other.ts"), "other")
	e.build(t)

	// Tamper with a sibling to prove it is left alone
	sibling := e.dest(t, types.TreeBehavior, "scripts/other.js")
	require.NoError(t, e.fs.WriteFile(sibling, []byte("tampered"), 0644))

	e.write(t, e.src("BP", "scripts/main.ts"), "changed")
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "scripts/main.ts"),
		Kind: types.ChangeModified,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, report.Action)
	assert.Equal(t, types.TreeBehavior, report.Kind)
	assert.Equal(t, "scripts/main.ts", report.RelPath)
	assert.Equal(t, "CHANGED", e.read(t, e.dest(t, types.TreeBehavior, "scripts/main.js")))
	assert.Equal(t, "tampered", e.read(t, sibling))
}

func TestHandleCreatedFileInNewDirectory(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("RP", "textures/blocks/ore.png"), "png")

	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("RP", "textures/blocks/ore.png"),
		Kind: types.ChangeCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, report.Action)
	assert.Equal(t, "png", e.read(t, e.dest(t, types.TreeResource, "textures/blocks/ore.png")))
}

func TestHandleRemovedFile(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("RP", "textures/a.png"), "a")
	e.write(t, e.src("RP", "textures/b.png"), "b")
	e.build(t)

	require.NoError(t, e.fs.RemoveAll(e.src("RP", "textures/a.png")))
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("RP", "textures/a.png"),
		Kind: types.ChangeRemoved,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionRemoved, report.Action)
	assert.False(t, e.exists(t, e.dest(t, types.TreeResource, "textures/a.png")))
	assert.Equal(t, "b", e.read(t, e.dest(t, types.TreeResource, "textures/b.png")))
}

func TestHandleRemovedScriptRemovesCompiledOutput(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "scripts/main.ts"), "main")
	e.build(t)
	require.True(t, e.exists(t, e.dest(t, types.TreeBehavior, "scripts/main.js")))

	require.NoError(t, e.fs.RemoveAll(e.src("BP", "scripts/main.ts")))
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "scripts/main.ts"),
		Kind: types.ChangeRemoved,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionRemoved, report.Action)
	assert.False(t, e.exists(t, e.dest(t, types.TreeBehavior, "scripts/main.js")))
}

func TestHandleRemovedScriptKeepsPlainSibling(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "b.js"), "plain")
	e.write(t, e.src("BP", "b.ts"), "script")
	e.build(t)
	require.Equal(t, "plain", e.read(t, e.dest(t, types.TreeBehavior, "b.js")))

	require.NoError(t, e.fs.RemoveAll(e.src("BP", "b.ts")))
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "b.ts"),
		Kind: types.ChangeRemoved,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionNoop, report.Action)
	assert.Equal(t, "plain", e.read(t, e.dest(t, types.TreeBehavior, "b.js")))
}

func TestHandleRemovedPlainFileRestoresScript(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "scripts/b.js"), "plain")
	e.write(t, e.src("BP", "scripts/b.ts"), "script")
	e.build(t)

	require.NoError(t, e.fs.RemoveAll(e.src("BP", "scripts/b.js")))
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "scripts/b.js"),
		Kind: types.ChangeRemoved,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionRemoved, report.Action)
	assert.Empty(t, report.Failures)
	assert.Equal(t, "SCRIPT", e.read(t, e.dest(t, types.TreeBehavior, "scripts/b.js")))
}

func TestHandleRemovedDirectory(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "items/sword.json"), "{}")
	e.write(t, e.src("BP", "items/shield.json"), "{}")
	e.write(t, e.src("BP", "manifest.json"), "{}")
	e.build(t)

	require.NoError(t, e.fs.RemoveAll(e.src("BP", "items")))
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path:  e.src("BP", "items"),
		Kind:  types.ChangeRemoved,
		IsDir: true,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionRemoved, report.Action)
	assert.False(t, e.exists(t, e.dest(t, types.TreeBehavior, "items")))
	assert.True(t, e.exists(t, e.dest(t, types.TreeBehavior, "manifest.json")))
}

func TestHandleRemovedNeverBuilt(t *testing.T) {
	e := newEnv(t)

	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "ghost.json"),
		Kind: types.ChangeRemoved,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionNoop, report.Action)
	assert.Equal(t, "ghost.json", report.RelPath)
}

func TestHandleDirectoryResync(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "scripts/a.ts"), "a")
	e.write(t, e.src("BP", "scripts/b.ts"), "b")
	e.build(t)

	bDest := e.dest(t, types.TreeBehavior, "scripts/b.js")
	require.NoError(t, e.fs.WriteFile(bDest, []byte("stale"), 0644))
	e.write(t, e.src("BP", "scripts/a.ts"), "a2")

	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "scripts"),
		Kind: types.ChangeModified,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionResynced, report.Action)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, "A2", e.read(t, e.dest(t, types.TreeBehavior, "scripts/a.js")))
	assert.Equal(t, "B", e.read(t, bDest), "every sibling is rewritten")
}

func TestHandleIgnoresHintWhenProbing(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "data.json"), "{}")

	// The hint claims a removed directory, but the path is a live file
	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path:  e.src("BP", "data.json"),
		Kind:  types.ChangeRemoved,
		IsDir: true,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, report.Action)
}

func TestHandleOutsideRoots(t *testing.T) {
	e := newEnv(t)
	outside := []string{
		filepath.Join(project, "README.md"),
		filepath.Join(project, "BPX", "file.json"),
		filepath.Join(project, "BP"),
		"/elsewhere/BP/file.json",
	}

	for _, p := range outside {
		t.Run(p, func(t *testing.T) {
			report, err := e.router.Handle(context.Background(), types.ChangeEvent{Path: p, Kind: types.ChangeModified})
			require.NoError(t, err)
			assert.Equal(t, ActionIgnored, report.Action)
		})
	}

	assert.False(t, e.exists(t, e.dest(t, types.TreeBehavior, "")))
	assert.False(t, e.exists(t, e.dest(t, types.TreeResource, "")))
}

func TestHandleTranspileFailure(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "bad.ts"), "!oops")

	report, err := e.router.Handle(context.Background(), types.ChangeEvent{
		Path: e.src("BP", "bad.ts"),
		Kind: types.ChangeModified,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, report.Action)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Diagnostic, "unexpected token")
	assert.False(t, e.exists(t, e.dest(t, types.TreeBehavior, "bad.js")))
}

func TestRunProcessesInOrder(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "a.json"), "a")

	events := make(chan types.ChangeEvent, 4)
	events <- types.ChangeEvent{Path: e.src("BP", "a.json"), Kind: types.ChangeCreated}
	events <- types.ChangeEvent{Path: "/elsewhere/x", Kind: types.ChangeCreated}
	events <- types.ChangeEvent{Path: e.src("BP", "gone.json"), Kind: types.ChangeRemoved}
	close(events)

	var actions []Action
	err := e.router.Run(context.Background(), events, func(r Report, err error) {
		require.NoError(t, err)
		actions = append(actions, r.Action)
	})
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionUpdated, ActionIgnored, ActionNoop}, actions)
}

func TestRunContinuesAfterError(t *testing.T) {
	e := newEnv(t)
	e.write(t, e.src("BP", "ok.json"), "ok")

	// The synchronizer has no enabled trees, so compiling aborts the event
	brokenRouter := NewRouter(Options{
		FS:           e.fs,
		Resolver:     e.resolver,
		Synchronizer: mirror.New(mirror.Options{FS: e.fs, Resolver: e.resolver, Adapter: transpile.NewAdapter(upper, ""), Session: mirror.Session{Target: types.TargetStable, ProjectName: "Demo"}, Sources: map[types.TreeKind]string{}}),
		Sources:      map[types.TreeKind]string{types.TreeBehavior: filepath.Join(project, "BP")},
		Target:       types.TargetStable,
		ProjectName:  "Demo",
	})

	events := make(chan types.ChangeEvent, 2)
	events <- types.ChangeEvent{Path: e.src("BP", "ok.json"), Kind: types.ChangeModified}
	events <- types.ChangeEvent{Path: e.src("BP", "missing.json"), Kind: types.ChangeRemoved}
	close(events)

	var errs []error
	var actions []Action
	err := brokenRouter.Run(context.Background(), events, func(r Report, err error) {
		errs = append(errs, err)
		actions = append(actions, r.Action)
	})
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.True(t, errors.IsErrorCode(errs[0], errors.ErrInvalidInput))
	assert.NoError(t, errs[1])
	assert.Equal(t, ActionNoop, actions[1])
}

func TestRunStopsOnCancel(t *testing.T) {
	e := newEnv(t)
	events := make(chan types.ChangeEvent)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.router.Run(ctx, events, nil)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop after cancellation")
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "resynced", ActionResynced.String())
	assert.Equal(t, "unknown", Action(42).String())
}
