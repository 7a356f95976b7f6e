package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/ui/styles"
	"github.com/arthur-debert/addonc/pkg/watch"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// terminalRenderer writes styled output for interactive terminals
type terminalRenderer struct {
	output io.Writer
	theme  *styles.Theme
}

func newTerminal(w io.Writer) *terminalRenderer {
	return &terminalRenderer{
		output: w,
		theme:  styles.Default(lipgloss.NewRenderer(w)),
	}
}

func (r *terminalRenderer) Build(result mirror.Result) error {
	for _, f := range result.Failures {
		if err := r.Failure(f); err != nil {
			return err
		}
	}
	line := fmt.Sprintf("Compiled %s files in %s",
		r.theme.Render("Count", fmt.Sprint(result.Files)),
		r.theme.Render("Muted", millis(result.Elapsed)))
	style := "Success"
	if len(result.Failures) > 0 {
		style = "Warning"
	}
	_, err := fmt.Fprintln(r.output, r.theme.Render(style, "✓")+" "+line)
	return err
}

func (r *terminalRenderer) Event(report watch.Report) error {
	for _, f := range report.Failures {
		if err := r.Failure(f); err != nil {
			return err
		}
	}
	if report.Action == watch.ActionResynced {
		_, err := fmt.Fprintf(r.output, "%s %s %s %s\n",
			r.theme.Render("Muted", "›"),
			r.theme.Render("Tree", report.Kind.Abbrev()),
			r.theme.Render("Success", compiledLine(report.Files, report.Elapsed)),
			r.theme.Render("Path", "["+report.RelPath+"]"))
		return err
	}
	verb := eventVerb(report.Action)
	if verb == "" {
		return nil
	}
	style := "Success"
	if report.Action == watch.ActionRemoved {
		style = "Warning"
	}
	_, err := fmt.Fprintf(r.output, "%s %s %s: [%s] in %s\n",
		r.theme.Render("Muted", "›"),
		r.theme.Render("Tree", report.Kind.Abbrev()),
		r.theme.Render(style, verb),
		r.theme.Render("Path", report.RelPath),
		r.theme.Render("Muted", millis(report.Elapsed)))
	return err
}

func (r *terminalRenderer) Failure(f mirror.Failure) error {
	_, err := fmt.Fprintf(r.output, "%s %s\n", pterm.Warning.Prefix.Text, r.theme.Render("Warning", f.Diagnostic))
	return err
}

func (r *terminalRenderer) Roots(roots []TreeRoot) error {
	for _, root := range roots {
		if _, err := fmt.Fprintf(r.output, "%s: %s\n",
			r.theme.Render("Tree", root.Tree),
			r.theme.Render("Path", fmt.Sprintf("%q", root.Path))); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) Message(msg string) error {
	_, err := fmt.Fprintln(r.output, r.theme.Render("Info", msg))
	return err
}

func (r *terminalRenderer) Error(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %s\n", pterm.Error.Prefix.Text, r.theme.Render("Error", err.Error()))
	return werr
}
