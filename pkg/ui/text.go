package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/watch"
)

// textRenderer writes plain text without colors or styling
type textRenderer struct {
	output io.Writer
}

func newText(w io.Writer) *textRenderer {
	return &textRenderer{output: w}
}

func (r *textRenderer) Build(result mirror.Result) error {
	for _, f := range result.Failures {
		if err := r.Failure(f); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.output, compiledLine(result.Files, result.Elapsed))
	return err
}

func (r *textRenderer) Event(report watch.Report) error {
	for _, f := range report.Failures {
		if err := r.Failure(f); err != nil {
			return err
		}
	}
	if report.Action == watch.ActionResynced {
		_, err := fmt.Fprintln(r.output, compiledLine(report.Files, report.Elapsed))
		return err
	}
	verb := eventVerb(report.Action)
	if verb == "" {
		return nil
	}
	_, err := fmt.Fprintf(r.output, "%s: [%s] in %s\n", verb, report.RelPath, millis(report.Elapsed))
	return err
}

func (r *textRenderer) Failure(f mirror.Failure) error {
	_, err := fmt.Fprintln(r.output, f.Diagnostic)
	return err
}

func (r *textRenderer) Roots(roots []TreeRoot) error {
	for _, root := range roots {
		if _, err := fmt.Fprintf(r.output, "%s: %q\n", root.Tree, root.Path); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) Message(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *textRenderer) Error(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}
