// Package build implements "keel build", "keel format" and "keel test".
package build

import (
	"context"
	"fmt"

	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/project"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Flags are the build options shared by "build" and "update".
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "skip-tests",
			Aliases: []string{"s"},
			Usage:   "Do not run tests before building",
		},
		&cli.BoolFlag{
			Name:    "overwrite-dependencies",
			Aliases: []string{"o"},
			Usage:   "Replace the declared dependencies with the scanned ones",
		},
		&cli.BoolFlag{
			Name:    "include-versions",
			Aliases: []string{"iv"},
			Usage:   "Pin added dependencies with ~= and the detected version",
		},
	}
}

// OptionsFromFlags reads the build flags of cmd.
func OptionsFromFlags(cmd *cli.Command) project.BuildOptions {
	return project.BuildOptions{
		SkipTests:             cmd.Bool("skip-tests"),
		OverwriteDependencies: cmd.Bool("overwrite-dependencies"),
		IncludeVersions:       cmd.Bool("include-versions"),
	}
}

// Run returns the "build" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Test, format, refresh metadata and docs, then build distributions",
		Description: `Runs, in order: tests, formatters, dependency scan, minimum Python
detection, docs generation, dist/ cleanup, pyproject.toml save and the build
frontend. The first failing step aborts the build.`,
		Flags: Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := p.Build(ctx, OptionsFromFlags(cmd)); err != nil {
				return err
			}
			printer.PrintSuccess(fmt.Sprintf("Built %s %s", p.Name(), p.Version()))
			return nil
		},
	}
}

// FormatCmd returns the "format" command.
func FormatCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "format",
		Usage: "Format all Python sources with the configured formatters",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := p.FormatSources(ctx); err != nil {
				return err
			}
			printer.PrintSuccess("Sources formatted")
			return nil
		},
	}
}

// TestCmd returns the "test" command.
func TestCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Run the test suite",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := session.SpinnerWrap(ctx, "Running tests", func() error { return p.RunTests(ctx) }); err != nil {
				return fmt.Errorf("%s failed testing: %w", p.Name(), err)
			}
			printer.PrintSuccess("All tests passed")
			return nil
		},
	}
}
