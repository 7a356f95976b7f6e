package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/addonc/pkg/mirror"
	"github.com/arthur-debert/addonc/pkg/watch"
)

// jsonRenderer writes one JSON object per line for machine consumption
type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSON(w io.Writer) *jsonRenderer {
	return &jsonRenderer{encoder: json.NewEncoder(w)}
}

type jsonFailure struct {
	Tree       string `json:"tree"`
	Path       string `json:"path"`
	Diagnostic string `json:"diagnostic"`
}

func toJSONFailures(failures []mirror.Failure) []jsonFailure {
	out := make([]jsonFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, jsonFailure{Tree: f.Kind.Abbrev(), Path: f.RelPath, Diagnostic: f.Diagnostic})
	}
	return out
}

func (r *jsonRenderer) Build(result mirror.Result) error {
	return r.encoder.Encode(map[string]interface{}{
		"type":      "build",
		"files":     result.Files,
		"elapsedMs": result.Elapsed.Milliseconds(),
		"failures":  toJSONFailures(result.Failures),
	})
}

func (r *jsonRenderer) Event(report watch.Report) error {
	if report.Action == watch.ActionIgnored {
		return nil
	}
	return r.encoder.Encode(map[string]interface{}{
		"type":      "event",
		"action":    report.Action.String(),
		"tree":      report.Kind.Abbrev(),
		"path":      report.RelPath,
		"files":     report.Files,
		"elapsedMs": report.Elapsed.Milliseconds(),
		"failures":  toJSONFailures(report.Failures),
	})
}

func (r *jsonRenderer) Failure(f mirror.Failure) error {
	return r.encoder.Encode(map[string]interface{}{
		"type":       "failure",
		"tree":       f.Kind.Abbrev(),
		"path":       f.RelPath,
		"diagnostic": f.Diagnostic,
	})
}

func (r *jsonRenderer) Roots(roots []TreeRoot) error {
	return r.encoder.Encode(map[string]interface{}{
		"type":  "roots",
		"roots": roots,
	})
}

func (r *jsonRenderer) Message(msg string) error {
	return r.encoder.Encode(map[string]string{"type": "message", "message": msg})
}

func (r *jsonRenderer) Error(err error) error {
	return r.encoder.Encode(map[string]string{"type": "error", "error": err.Error()})
}
