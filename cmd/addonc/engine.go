package addonc

import (
	"strings"

	"github.com/arthur-debert/addonc/pkg/config"
	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/filesystem"
	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/paths"
	"github.com/arthur-debert/addonc/pkg/transpile"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/arthur-debert/addonc/pkg/watch"
)

// engine is the build engine of one project session
type engine struct {
	cfg      *config.Config
	fs       filesystem.FS
	resolver *paths.Resolver
	sync     *mirror.Synchronizer
	session  mirror.Session
	sources  map[types.TreeKind]string
}

// newEngine loads the project in dir and wires the build engine for target.
// A non-empty dialect overrides the configured one.
func newEngine(dir string, target types.DeploymentTarget, dialect string) (*engine, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	if dialect != "" {
		if !transpile.ValidDialect(dialect) {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrDialect, dialect, strings.Join(transpile.Dialects(), ", "))
		}
		cfg.Dialect = dialect
	}

	t, err := transpile.New(transpile.Options{
		Name:      cfg.TranspilerName(),
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	resolver := paths.NewResolver(cfg.ResolverOptions())
	session := mirror.Session{Target: target, ProjectName: cfg.PackName}
	sources := cfg.SourceRoots()

	return &engine{
		cfg:      cfg,
		fs:       fsys,
		resolver: resolver,
		session:  session,
		sources:  sources,
		sync: mirror.New(mirror.Options{
			FS:       fsys,
			Resolver: resolver,
			Adapter:  transpile.NewAdapter(t, cfg.Dialect),
			Session:  session,
			Sources:  sources,
			Workers:  cfg.Workers,
		}),
	}, nil
}

// trees returns the enabled trees in a stable order
func (e *engine) trees() []types.TreeKind {
	return e.cfg.ToProjectConfig().EnabledTrees()
}

// router returns a change router bound to this engine
func (e *engine) router() *watch.Router {
	return watch.NewRouter(watch.Options{
		FS:           e.fs,
		Resolver:     e.resolver,
		Synchronizer: e.sync,
		Sources:      e.sources,
		Target:       e.session.Target,
		ProjectName:  e.session.ProjectName,
	})
}
