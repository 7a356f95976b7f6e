package transpile

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/addonc/pkg/errors"
)

// File name conventions for script sources
const (
	// SourceExt marks files that go through the transpiler
	SourceExt = ".ts"

	// CompiledExt replaces SourceExt on transpiled output
	CompiledExt = ".js"

	// DeclarationExt marks type-only declaration files, which produce no output
	DeclarationExt = ".d.ts"

	// DefaultDialect is used when no dialect is requested
	DefaultDialect = "es2021"

	// DefaultTranspiler names the built-in TypeScript transpiler in configuration
	DefaultTranspiler = "typescript"
)

// Transpiler transforms one script source for a language-level dialect.
// The dialect identifier is opaque to everything except the implementation.
type Transpiler interface {
	Transpile(ctx context.Context, source []byte, dialect string) ([]byte, error)
}

// Func adapts an ordinary function to the Transpiler interface
type Func func(ctx context.Context, source []byte, dialect string) ([]byte, error)

// Transpile calls f
func (f Func) Transpile(ctx context.Context, source []byte, dialect string) ([]byte, error) {
	return f(ctx, source, dialect)
}

// OutcomeKind classifies the result of handling one file
type OutcomeKind int

const (
	// OutcomePassthrough means the file is not a script and is copied verbatim
	OutcomePassthrough OutcomeKind = iota

	// OutcomeTransformed means the script was transpiled
	OutcomeTransformed

	// OutcomeSkipped means the file is a declaration file and produces nothing
	OutcomeSkipped

	// OutcomeFailed means the transpiler rejected the script
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePassthrough:
		return "passthrough"
	case OutcomeTransformed:
		return "transformed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the ephemeral result of transforming a single file
type Outcome struct {
	Kind OutcomeKind

	// Name is the destination file name
	Name string

	// Output is the content to write; nil unless Kind is Transformed or Passthrough
	Output []byte

	// Diagnostic is a one-line, user-facing message for failures
	Diagnostic string

	// Err is the underlying transpiler error for failures
	Err error
}

// Eligible reports whether a file name carries the script-source extension
func Eligible(name string) bool {
	return strings.HasSuffix(name, SourceExt)
}

// IsDeclaration reports whether a file name is a type declaration file
func IsDeclaration(name string) bool {
	return strings.HasSuffix(name, DeclarationExt)
}

// OutputName rewrites a script-source name to its compiled name.
// Names that are not eligible are returned unchanged.
func OutputName(name string) string {
	if !Eligible(name) {
		return name
	}
	return strings.TrimSuffix(name, SourceExt) + CompiledExt
}

// SourceName returns the script-source name that compiles to name, or ""
// when name is not a compiled name
func SourceName(name string) string {
	if !strings.HasSuffix(name, CompiledExt) {
		return ""
	}
	return strings.TrimSuffix(name, CompiledExt) + SourceExt
}

type fileKey struct{}

// WithFile returns a context naming the file being transpiled
func WithFile(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, fileKey{}, name)
}

// FileFrom returns the file name set by WithFile, or ""
func FileFrom(ctx context.Context) string {
	name, _ := ctx.Value(fileKey{}).(string)
	return name
}

// Adapter wraps a Transpiler with the file-level conventions of the build
type Adapter struct {
	transpiler Transpiler
	dialect    string
}

// NewAdapter creates an adapter; an empty dialect selects DefaultDialect
func NewAdapter(t Transpiler, dialect string) *Adapter {
	if dialect == "" {
		dialect = DefaultDialect
	}
	return &Adapter{transpiler: t, dialect: dialect}
}

// Dialect returns the dialect every script is transformed for
func (a *Adapter) Dialect() string {
	return a.dialect
}

// Transform produces the outcome for one file. Failures are returned as an
// Outcome, never as an error, so a single bad script cannot abort a pass.
func (a *Adapter) Transform(ctx context.Context, name string, source []byte) Outcome {
	base := filepath.Base(name)
	if !Eligible(base) {
		return Outcome{Kind: OutcomePassthrough, Name: base, Output: source}
	}
	if IsDeclaration(base) {
		return Outcome{Kind: OutcomeSkipped, Name: base}
	}

	out, err := a.transpiler.Transpile(WithFile(ctx, name), source, a.dialect)
	if err != nil {
		return Outcome{
			Kind:       OutcomeFailed,
			Name:       OutputName(base),
			Diagnostic: fmt.Sprintf("Failed to compile %s: %s", name, diagnosticText(err)),
			Err:        err,
		}
	}
	return Outcome{Kind: OutcomeTransformed, Name: OutputName(base), Output: out}
}

func diagnosticText(err error) string {
	var coded *errors.Error
	if stderrors.As(err, &coded) && coded.Wrapped == nil {
		return coded.Message
	}
	return err.Error()
}

// Options selects and configures a transpiler
type Options struct {
	// Name is DefaultTranspiler or the path of a .risor script
	Name string

	// CacheSize enables an LRU result cache when positive
	CacheSize int
}

// New builds the transpiler named in opts
func New(opts Options) (Transpiler, error) {
	var t Transpiler
	switch {
	case opts.Name == "" || opts.Name == DefaultTranspiler:
		t = NewTypeScript()
	case strings.HasSuffix(opts.Name, ScriptExt):
		script, err := LoadScript(opts.Name)
		if err != nil {
			return nil, err
		}
		t = script
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown transpiler %q", opts.Name)
	}

	if opts.CacheSize > 0 {
		cached, err := NewCached(t, opts.CacheSize)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return t, nil
}
