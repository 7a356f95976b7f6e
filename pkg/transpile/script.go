package transpile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/risor-io/risor"
)

// ScriptExt marks a user-supplied transpiler script
const ScriptExt = ".risor"

// Script is a transpiler implemented as a Risor script. The script sees the
// globals source, dialect and file (the path relative to its tree, empty when
// unknown) and must evaluate to the output string.
//
//	strings.replace_all(source, "DEBUG = true", "DEBUG = false")
type Script struct {
	label  string
	source string
}

// LoadScript reads a .risor transpiler script from disk
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "loading transpiler script %s", path)
	}
	return NewScript(filepath.Base(path), string(data)), nil
}

// NewScript creates a transpiler from Risor source code
func NewScript(label, source string) *Script {
	return &Script{label: label, source: source}
}

// Transpile implements Transpiler
func (s *Script) Transpile(ctx context.Context, source []byte, dialect string) ([]byte, error) {
	if dialect == "" {
		dialect = DefaultDialect
	}

	result, err := risor.Eval(ctx, s.source,
		risor.WithGlobal("source", string(source)),
		risor.WithGlobal("dialect", dialect),
		risor.WithGlobal("file", FileFrom(ctx)),
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTranspileScript, "script %s", s.label)
	}

	out, ok := result.Interface().(string)
	if !ok {
		return nil, errors.Newf(errors.ErrTranspileScript, "script %s must evaluate to a string, got %s", s.label, result.Type())
	}
	return []byte(out), nil
}
