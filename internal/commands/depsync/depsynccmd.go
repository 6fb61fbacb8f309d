// Package depsync implements "keel deps", which reconciles the declared
// dependencies of pyproject.toml with the packages the sources import.
package depsync

import (
	"context"
	"fmt"
	"slices"

	"github.com/indaco/keel/internal/deps"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "deps" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "deps",
		Usage: "Update project.dependencies from the dependency scanner",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "overwrite",
				Aliases: []string{"o"},
				Usage:   "Replace the declared list instead of appending to it",
			},
			&cli.BoolFlag{
				Name:    "include-versions",
				Aliases: []string{"iv"},
				Usage:   "Pin added dependencies with ~= and the detected version",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show the result without saving it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDepsCmd(ctx, cmd, s)
		},
	}
}

func runDepsCmd(ctx context.Context, cmd *cli.Command, s *session.Session) error {
	p, err := s.LoadProject(ctx)
	if err != nil {
		return err
	}
	before := slices.Clone(p.Manifest.Dependencies)

	if err := p.UpdateDependencies(ctx, cmd.Bool("overwrite"), cmd.Bool("include-versions")); err != nil {
		return err
	}
	printChanges(before, p.Manifest.Dependencies)

	if cmd.Bool("dry-run") {
		printer.PrintFaint("Dry run: pyproject.toml not modified.")
		return nil
	}
	return p.Save(ctx)
}

// printChanges lists the resulting dependencies, marking additions and
// removals by bare name.
func printChanges(before, after []string) {
	had := make(map[string]bool, len(before))
	for _, d := range before {
		had[deps.Normalize(deps.BareName(d))] = true
	}
	kept := make(map[string]bool, len(after))

	fmt.Println("Dependencies")
	for _, d := range after {
		name := deps.Normalize(deps.BareName(d))
		kept[name] = true
		if had[name] {
			fmt.Printf("  %s %s\n", printer.Faint("·"), d)
		} else {
			fmt.Printf("  %s %s %s\n", printer.SuccessBadge("+"), d, printer.Faint("(added)"))
		}
	}
	for _, d := range before {
		if !kept[deps.Normalize(deps.BareName(d))] {
			fmt.Printf("  %s %s %s\n", printer.Error("-"), d, printer.Faint("(removed)"))
		}
	}
}
