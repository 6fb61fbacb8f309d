package tui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrCanceled is returned when the user aborts a prompt (Ctrl+C / Esc).
var ErrCanceled = errors.New("prompt canceled")

// Confirm shows a yes/no confirmation prompt. The default answer is no.
func Confirm(title, description string) (bool, error) {
	var value bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if description != "" {
		field = field.Description(description)
	}
	if err := run(huh.NewGroup(field)); err != nil {
		return false, err
	}
	return value, nil
}

// Input asks for a line of text, pre-filled with initial.
func Input(title, description, initial string) (string, error) {
	value := initial
	field := huh.NewInput().
		Title(title).
		Value(&value)
	if description != "" {
		field = field.Description(description)
	}
	if err := run(huh.NewGroup(field)); err != nil {
		return "", err
	}
	return value, nil
}

// Select shows a single-select prompt.
func Select(title, description string, options []huh.Option[string]) (string, error) {
	var value string
	field := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&value)
	if description != "" {
		field = field.Description(description)
	}
	if err := run(huh.NewGroup(field)); err != nil {
		return "", err
	}
	return value, nil
}

func run(group *huh.Group) error {
	err := huh.NewForm(group).WithTheme(currentThemeOrDefault()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCanceled
	}
	return err
}
