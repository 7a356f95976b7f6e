package watch

import (
	"context"
	"path"
	"path/filepath"
	"time"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/filesystem"
	"github.com/arthur-debert/addonc/pkg/logging"
	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/arthur-debert/addonc/pkg/transpile"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/rs/zerolog"
)

// Action is what the router did for one event
type Action int

const (
	// ActionIgnored means the path was outside every source root
	ActionIgnored Action = iota
	// ActionRemoved means the destination image of a vanished source was deleted
	ActionRemoved
	// ActionNoop means neither source nor destination existed
	ActionNoop
	// ActionUpdated means a single file was recompiled or copied
	ActionUpdated
	// ActionResynced means a directory subtree was fully resynchronized
	ActionResynced
)

func (a Action) String() string {
	switch a {
	case ActionIgnored:
		return "ignored"
	case ActionRemoved:
		return "removed"
	case ActionNoop:
		return "noop"
	case ActionUpdated:
		return "updated"
	case ActionResynced:
		return "resynced"
	default:
		return "unknown"
	}
}

// Report describes the handling of one event
type Report struct {
	Action   Action
	Kind     types.TreeKind
	RelPath  string
	Files    int
	Failures []mirror.Failure
	Elapsed  time.Duration
}

// Options contains configuration for the router
type Options struct {
	FS           filesystem.FS
	Resolver     *paths.Resolver
	Synchronizer *mirror.Synchronizer
	Sources      map[types.TreeKind]string
	Target       types.DeploymentTarget
	ProjectName  string
	Logger       zerolog.Logger
}

// Router dispatches change events to the synchronizer
type Router struct {
	fs          filesystem.FS
	resolver    *paths.Resolver
	sync        *mirror.Synchronizer
	sources     map[types.TreeKind]string
	target      types.DeploymentTarget
	projectName string
	logger      zerolog.Logger
}

// NewRouter creates a router for one watch session
func NewRouter(opts Options) *Router {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("watch")
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Router{
		fs:          fsys,
		resolver:    opts.Resolver,
		sync:        opts.Synchronizer,
		sources:     opts.Sources,
		target:      opts.Target,
		projectName: opts.ProjectName,
		logger:      logger,
	}
}

// Handle resolves a single event. The event's directory hint is never
// trusted; the source path is probed instead.
func (r *Router) Handle(ctx context.Context, ev types.ChangeEvent) (Report, error) {
	start := time.Now()

	kind, rel, ok := paths.Classify(r.sources, ev.Path)
	if !ok {
		r.logger.Trace().Str("path", ev.Path).Msg("Ignoring event outside source roots")
		return Report{Action: ActionIgnored, Elapsed: time.Since(start)}, nil
	}
	report := Report{Kind: kind, RelPath: rel}

	info, exists, err := filesystem.Exists(r.fs, ev.Path)
	if err != nil {
		report.Elapsed = time.Since(start)
		return report, errors.Wrapf(err, errors.ErrFileRead, "stat %s", ev.Path)
	}

	switch {
	case !exists:
		removed, err := r.remove(kind, rel)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.Action = ActionNoop
		if removed {
			report.Action = ActionRemoved
		}
		if err := r.restore(ctx, kind, rel, &report); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
	case info.IsDir():
		result, err := r.sync.Sync(ctx, kind, rel)
		report.Files = result.Files
		report.Failures = result.Failures
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.Action = ActionResynced
	default:
		fr, err := r.sync.CompileFile(ctx, kind, rel)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.Action = ActionUpdated
		report.Files = 1
		if fr.Outcome == transpile.OutcomeFailed {
			report.Failures = []mirror.Failure{{Kind: kind, RelPath: rel, Diagnostic: fr.Diagnostic}}
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// remove deletes the destination image of rel. A script source maps to its
// compiled name, so both candidates are probed unless a plain source file
// owns the compiled name.
func (r *Router) remove(kind types.TreeKind, rel string) (bool, error) {
	candidates := []string{rel}
	if base := path.Base(rel); transpile.Eligible(base) {
		compiled := path.Join(path.Dir(rel), transpile.OutputName(base))
		owned, err := r.sourceExists(kind, compiled)
		if err != nil {
			return false, err
		}
		if !owned {
			candidates = append(candidates, compiled)
		}
	}

	removed := false
	for _, candidate := range candidates {
		dest, err := r.resolver.Destination(r.target, kind, r.projectName, candidate)
		if err != nil {
			return removed, err
		}
		_, exists, err := filesystem.Exists(r.fs, dest)
		if err != nil {
			return removed, errors.Wrapf(err, errors.ErrRemove, "stat %s", dest)
		}
		if !exists {
			continue
		}
		if err := r.fs.RemoveAll(dest); err != nil {
			return removed, errors.Wrapf(err, errors.ErrRemove, "remove %s", dest)
		}
		r.logger.Debug().Str("dest", dest).Msg("Removed destination")
		removed = true
	}
	return removed, nil
}

// restore recompiles the script whose output name was held by the removed
// plain file rel
func (r *Router) restore(ctx context.Context, kind types.TreeKind, rel string, report *Report) error {
	script := transpile.SourceName(path.Base(rel))
	if script == "" {
		return nil
	}
	script = path.Join(path.Dir(rel), script)
	exists, err := r.sourceExists(kind, script)
	if err != nil || !exists {
		return err
	}

	fr, err := r.sync.CompileFile(ctx, kind, script)
	if err != nil {
		return err
	}
	r.logger.Debug().Str("file", script).Msg("Recompiled script after its name was freed")
	if fr.Outcome == transpile.OutcomeFailed {
		report.Failures = append(report.Failures, mirror.Failure{Kind: kind, RelPath: script, Diagnostic: fr.Diagnostic})
	}
	return nil
}

func (r *Router) sourceExists(kind types.TreeKind, rel string) (bool, error) {
	src := filepath.Join(r.sources[kind], filepath.FromSlash(rel))
	_, exists, err := filesystem.Exists(r.fs, src)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "stat %s", src)
	}
	return exists, nil
}

// Run handles events strictly in arrival order until events is closed or
// ctx is done. An error aborts only the event that caused it. onReport may
// be nil.
func (r *Router) Run(ctx context.Context, events <-chan types.ChangeEvent, onReport func(Report, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			report, err := r.Handle(ctx, ev)
			if err != nil {
				r.logger.Error().Err(err).Str("path", ev.Path).Str("change", ev.Kind.String()).Msg("Event aborted")
			} else if report.Action != ActionIgnored {
				r.logger.Info().
					Str("action", report.Action.String()).
					Str("tree", report.Kind.Abbrev()).
					Str("path", report.RelPath).
					Dur("elapsed", report.Elapsed).
					Msg("Event handled")
			}
			if onReport != nil {
				onReport(report, err)
			}
		}
	}
}
