// Package styles maps semantic style names to lipgloss styles.
//
// Styles and adaptive colors are defined in an embedded YAML file so the
// palette lives in one place:
//
//	styles:
//	  Success:
//	    foreground: green
//	    bold: true
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Underline   bool   `yaml:"underline,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	Background  string `yaml:"background,omitempty"`
	Width       int    `yaml:"width,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Theme is a set of named styles bound to one lipgloss renderer
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

// Default returns the embedded theme bound to r. A nil renderer uses the
// lipgloss default renderer.
func Default(r *lipgloss.Renderer) *Theme {
	theme, err := Load(embeddedStyles, r)
	if err != nil {
		// The embedded file is part of the binary; fall back to unstyled text
		return &Theme{renderer: r, styles: map[string]lipgloss.Style{}}
	}
	return theme
}

// Load parses a YAML style definition
func Load(data []byte, r *lipgloss.Renderer) (*Theme, error) {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	theme := &Theme{renderer: r, styles: make(map[string]lipgloss.Style, len(config.Styles))}
	for name, def := range config.Styles {
		theme.styles[name] = buildStyle(r, colors, def)
	}
	return theme, nil
}

// buildStyle constructs a lipgloss style from a style definition
func buildStyle(r *lipgloss.Renderer, colors map[string]lipgloss.AdaptiveColor, def StyleDef) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}

	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}
	return style
}

// Get returns the named style, or a plain style when it is not defined
func (t *Theme) Get(name string) lipgloss.Style {
	if style, ok := t.styles[name]; ok {
		return style
	}
	if t.renderer != nil {
		return t.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// Has reports whether a style is defined
func (t *Theme) Has(name string) bool {
	_, ok := t.styles[name]
	return ok
}

// Render applies the named style to text
func (t *Theme) Render(name, text string) string {
	return t.Get(name).Render(text)
}
