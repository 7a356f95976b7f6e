// Package ui renders build and watch results for the command line.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/arthur-debert/addonc/pkg/watch"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// Build reports a completed full build
	Build(result mirror.Result) error

	// Event reports the handling of one watch event
	Event(report watch.Report) error

	// Failure reports a per-file transpile failure
	Failure(f mirror.Failure) error

	// Roots prints the destination root of each tree
	Roots(roots []TreeRoot) error

	// Message renders a simple message
	Message(msg string) error

	// Error renders an error with appropriate formatting
	Error(err error) error
}

// TreeRoot pairs a tree with its destination root
type TreeRoot struct {
	Kind types.TreeKind `json:"-"`
	Tree string         `json:"tree"`
	Path string         `json:"path"`
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return newTerminal(output), nil
	case FormatText:
		return newText(output), nil
	case FormatJSON:
		return newJSON(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}

// Messages shared by the text and terminal renderers

func compiledLine(files int, elapsed time.Duration) string {
	return fmt.Sprintf("Compiled %d files in %s", files, millis(elapsed))
}

func eventVerb(a watch.Action) string {
	switch a {
	case watch.ActionRemoved:
		return "Removed"
	case watch.ActionUpdated:
		return "Updated"
	default:
		return ""
	}
}

// millis formats a duration the way build times are reported
func millis(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
