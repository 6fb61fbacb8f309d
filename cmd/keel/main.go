package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/indaco/keel/internal/cli"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
)

// suggester is implemented by errors that carry a follow-up hint.
type suggester interface {
	Suggestion() string
}

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		var s suggester
		if errors.As(err, &s) && s.Suggestion() != "" {
			printer.PrintFaint(s.Suggestion())
		}
		os.Exit(1)
	}
}

// runCLI builds a fresh session and runs the root command with args.
func runCLI(args []string) error {
	app := cli.New(&session.Session{})
	if err := app.Run(context.Background(), args); err != nil {
		return fmt.Errorf("keel: %w", err)
	}
	return nil
}
