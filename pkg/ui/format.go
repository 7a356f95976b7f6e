package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how build and watch progress is printed
type Format int

const (
	FormatAuto Format = iota
	// FormatTerminal styles lines with the theme
	FormatTerminal
	// FormatText is plain lines, the same ones a log scraper expects
	FormatText
	// FormatJSON writes one object per build, event, failure or root
	FormatJSON
)

var formatNames = []string{"auto", "term", "text", "json"}

// formatAliases maps every accepted --format value to its Format
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat reads a --format value; matching is case-insensitive
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(s)]
	if !ok {
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q (expected one of %s)",
			s, strings.Join(formatNames, ", "))
	}
	return f, nil
}

// DetectFormat resolves FormatAuto for output. Styling needs a terminal with
// at least a 16 color profile and NO_COLOR unset.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(output).Profile == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
