package ui

import (
	"strings"

	"github.com/pterm/pterm"
)

// Prompter asks the user for a line of text
type Prompter func(label, fallback string) (string, error)

// PromptText reads a line from the terminal. An empty answer yields fallback.
func PromptText(label, fallback string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.WithDefaultText(label).Show()
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return fallback, nil
	}
	return answer, nil
}
