package mirror

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/filesystem"
	"github.com/arthur-debert/addonc/pkg/logging"
	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/arthur-debert/addonc/pkg/transpile"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Session is fixed for the lifetime of a synchronizer
type Session struct {
	Target      types.DeploymentTarget
	ProjectName string
}

// Options contains configuration for the synchronizer
type Options struct {
	// FS is the filesystem both trees live on; defaults to the OS filesystem
	FS       filesystem.FS
	Resolver *paths.Resolver
	Adapter  *transpile.Adapter
	Session  Session

	// Sources maps each enabled tree to its absolute source root
	Sources map[types.TreeKind]string

	// Workers bounds concurrent per-file work inside one pass
	Workers int

	Logger zerolog.Logger
}

// Synchronizer mirrors source trees into their destination roots
type Synchronizer struct {
	fs       filesystem.FS
	resolver *paths.Resolver
	adapter  *transpile.Adapter
	session  Session
	sources  map[types.TreeKind]string
	workers  int
	logger   zerolog.Logger
}

// Failure is a per-file transpile failure. It never aborts a pass.
type Failure struct {
	Kind       types.TreeKind
	RelPath    string
	Diagnostic string
}

// Result summarizes one synchronization pass
type Result struct {
	// Files counts file entries processed; directories are not counted
	Files    int
	Failures []Failure
	Elapsed  time.Duration
}

// FileResult describes what happened to a single file
type FileResult struct {
	RelPath    string
	DestPath   string
	Outcome    transpile.OutcomeKind
	Diagnostic string
}

// New creates a new synchronizer
func New(opts Options) *Synchronizer {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("mirror")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Synchronizer{
		fs:       fsys,
		resolver: opts.Resolver,
		adapter:  opts.Adapter,
		session:  opts.Session,
		sources:  opts.Sources,
		workers:  workers,
		logger:   logger,
	}
}

// Session returns the target and project the synchronizer writes for
func (s *Synchronizer) Session() Session {
	return s.session
}

// pass collects results from the concurrent file tasks of one Sync call
type pass struct {
	kind     types.TreeKind
	files    atomic.Int64
	mu       sync.Mutex
	failures []Failure
}

func (p *pass) fail(rel, diagnostic string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = append(p.failures, Failure{Kind: p.kind, RelPath: rel, Diagnostic: diagnostic})
}

func (p *pass) result(start time.Time) Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Result{
		Files:    int(p.files.Load()),
		Failures: append([]Failure(nil), p.failures...),
		Elapsed:  time.Since(start),
	}
}

// Sync performs a full resync of the subtree at rel (slash-separated,
// relative to the tree root; "" is the whole tree). The destination subtree
// is cleared first and then repopulated, so nothing orphaned survives.
//
// Per-file work runs in a bounded task group that is joined before Sync
// returns. The pass is not atomic: an I/O error leaves the destination
// partially repopulated.
func (s *Synchronizer) Sync(ctx context.Context, kind types.TreeKind, rel string) (Result, error) {
	start := time.Now()
	p := &pass{kind: kind}

	srcRoot, destRoot, err := s.roots(kind)
	if err != nil {
		return p.result(start), err
	}

	logger := s.logger.With().Str("tree", kind.Abbrev()).Str("path", rel).Logger()
	logger.Debug().Str("dest", destRoot).Msg("Starting synchronization pass")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	walkErr := s.syncDir(gctx, g, p, srcRoot, destRoot, rel)
	waitErr := g.Wait()

	result := p.result(start)
	if waitErr != nil {
		return result, waitErr
	}
	if walkErr != nil {
		return result, walkErr
	}

	logger.Info().
		Int("files", result.Files).
		Int("failures", len(result.Failures)).
		Dur("elapsed", result.Elapsed).
		Msg("Synchronization pass completed")
	return result, nil
}

func (s *Synchronizer) syncDir(ctx context.Context, g *errgroup.Group, p *pass, srcRoot, destRoot, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcDir := join(srcRoot, rel)
	destDir := join(destRoot, rel)

	if err := s.clear(destDir); err != nil {
		return err
	}

	entries, err := s.fs.ReadDir(srcDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDirRead, "read %s", srcDir)
	}

	// Plain files keep their own name and win over a script compiling to it
	plain := make(map[string]bool)
	for _, entry := range entries {
		if entry.Type().IsRegular() && !transpile.Eligible(entry.Name()) {
			plain[entry.Name()] = true
		}
	}

	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		switch {
		case entry.IsDir():
			if err := s.syncDir(ctx, g, p, srcRoot, destRoot, childRel); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			p.files.Add(1)
			if shadowed(entry.Name(), plain) {
				s.logger.Warn().Str("file", childRel).Msg("Compiled name taken by a source file, script skipped")
				p.fail(childRel, collision(childRel))
				continue
			}
			g.Go(func() error {
				fr, err := s.compileInto(ctx, srcRoot, destDir, childRel)
				if err != nil {
					return err
				}
				if fr.Outcome == transpile.OutcomeFailed {
					p.fail(childRel, fr.Diagnostic)
				}
				return nil
			})
		}
	}
	return nil
}

// CompileFile recompiles or copies a single source file into its
// destination directory without touching siblings
func (s *Synchronizer) CompileFile(ctx context.Context, kind types.TreeKind, rel string) (FileResult, error) {
	srcRoot, destRoot, err := s.roots(kind)
	if err != nil {
		return FileResult{RelPath: rel}, err
	}

	name := path.Base(rel)
	if transpile.Eligible(name) && !transpile.IsDeclaration(name) {
		sibling := join(srcRoot, path.Join(path.Dir(rel), transpile.OutputName(name)))
		_, taken, err := filesystem.Exists(s.fs, sibling)
		if err != nil {
			return FileResult{RelPath: rel}, errors.Wrapf(err, errors.ErrFileRead, "stat %s", sibling)
		}
		if taken {
			s.logger.Warn().Str("file", rel).Msg("Compiled name taken by a source file, script skipped")
			return FileResult{RelPath: rel, Outcome: transpile.OutcomeFailed, Diagnostic: collision(rel)}, nil
		}
	}

	destDir := join(destRoot, path.Dir(rel))
	if err := s.fs.MkdirAll(destDir, 0755); err != nil {
		return FileResult{RelPath: rel}, errors.Wrapf(err, errors.ErrFileWrite, "create %s", destDir)
	}
	return s.compileInto(ctx, srcRoot, destDir, rel)
}

func (s *Synchronizer) compileInto(ctx context.Context, srcRoot, destDir, rel string) (FileResult, error) {
	src := join(srcRoot, rel)
	result := FileResult{RelPath: rel}

	info, err := s.fs.Stat(src)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrFileRead, "stat %s", src)
	}
	data, err := s.fs.ReadFile(src)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrFileRead, "read %s", src)
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}

	name := path.Base(rel)
	if !transpile.Eligible(name) {
		result.Outcome = transpile.OutcomePassthrough
		result.DestPath = filepath.Join(destDir, name)
		return result, s.write(result.DestPath, data, perm)
	}

	outcome := s.adapter.Transform(ctx, rel, data)
	result.Outcome = outcome.Kind
	switch outcome.Kind {
	case transpile.OutcomeSkipped:
		s.logger.Debug().Str("file", rel).Msg("Skipping declaration file")
		return result, nil
	case transpile.OutcomeFailed:
		result.Diagnostic = outcome.Diagnostic
		s.logger.Warn().Err(outcome.Err).Str("file", rel).Msg("Transpile failed, file skipped")
		// A failed script leaves no output, including one from an earlier pass
		stale := filepath.Join(destDir, outcome.Name)
		if err := s.fs.RemoveAll(stale); err != nil {
			return result, errors.Wrapf(err, errors.ErrRemove, "remove %s", stale)
		}
		return result, nil
	}

	result.DestPath = filepath.Join(destDir, outcome.Name)
	return result, s.write(result.DestPath, outcome.Output, perm)
}

func (s *Synchronizer) write(dest string, data []byte, perm fs.FileMode) error {
	if err := s.fs.WriteFile(dest, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "write %s", dest)
	}
	s.logger.Trace().Str("dest", dest).Int("bytes", len(data)).Msg("Wrote file")
	return nil
}

// shadowed reports whether a script's compiled name is taken by a plain
// file in the same directory
func shadowed(name string, plain map[string]bool) bool {
	return transpile.Eligible(name) && !transpile.IsDeclaration(name) && plain[transpile.OutputName(name)]
}

func collision(rel string) string {
	out := path.Join(path.Dir(rel), transpile.OutputName(path.Base(rel)))
	return fmt.Sprintf("Failed to compile %s: output %s is also a source file", rel, out)
}

// clear empties dir, creating it when missing
func (s *Synchronizer) clear(dir string) error {
	if err := s.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrDirClear, "clear %s", dir)
	}
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirClear, "create %s", dir)
	}
	return nil
}

// roots returns the source and destination roots of a tree
func (s *Synchronizer) roots(kind types.TreeKind) (string, string, error) {
	destRoot, err := s.resolver.Resolve(s.session.Target, kind, s.session.ProjectName)
	if err != nil {
		return "", "", err
	}
	srcRoot, ok := s.sources[kind]
	if !ok {
		return "", "", errors.Newf(errors.ErrInvalidInput, "%s tree is not enabled", kind)
	}
	for _, other := range types.AllTreeKinds() {
		if root, ok := s.sources[other]; ok && paths.Overlaps(destRoot, root) {
			return "", "", errors.Newf(errors.ErrInvalidInput, "%s destination %s overlaps the %s source %s",
				kind.Abbrev(), destRoot, other.Abbrev(), root)
		}
	}
	return srcRoot, destRoot, nil
}

// join appends a slash-separated relative path to an OS path
func join(root, rel string) string {
	if rel == "" || rel == "." {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
