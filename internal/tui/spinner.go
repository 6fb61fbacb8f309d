package tui

import (
	"context"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner runs fn under a spinner titled title. Outside an
// interactive terminal fn runs directly.
func RunWithSpinner(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	if !IsInteractive() {
		return fn(ctx)
	}

	var fnErr error
	err := spinner.New().
		Context(ctx).
		Title(" " + title).
		Action(func() { fnErr = fn(ctx) }).
		Run()
	if fnErr != nil {
		return fnErr
	}
	return err
}
