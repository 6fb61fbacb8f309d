// Package initialize implements "keel new".
package initialize

import (
	"context"
	"fmt"

	"github.com/indaco/keel/internal/config"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/project"
	"github.com/indaco/keel/internal/scaffold"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "new" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a new Python project",
		UsageText: "keel new <name> [--flags]",
		Description: `Creates <name>/ in the project directory with pyproject.toml, README.md,
LICENSE.txt, .gitignore, src/<name>/, tests/ and editor settings, then
initializes a git repository with an initial commit.

The package index is checked first; an existing name or target directory
requires confirmation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Project description"},
			&cli.StringSliceFlag{Name: "dependencies", Aliases: []string{"dp"}, Usage: "Initial dependencies"},
			&cli.StringSliceFlag{Name: "keywords", Aliases: []string{"k"}, Usage: "Project keywords"},
			&cli.StringFlag{Name: "os", Usage: `Operating system classifier, e.g. "POSIX :: Linux"`},
			&cli.StringSliceFlag{Name: "source-files", Aliases: []string{"sf"}, Usage: "Files to create in the package"},
			&cli.BoolFlag{Name: "add-script", Aliases: []string{"as"}, Usage: "Register a console script named after the project"},
			&cli.BoolFlag{Name: "no-license", Aliases: []string{"nl"}, Usage: "Skip LICENSE.txt and the license classifier"},
			&cli.BoolFlag{Name: "not-package", Aliases: []string{"np"}, Usage: "Put sources at the project root instead of src/"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runNewCmd(ctx, cmd, s)
		},
	}
}

func runNewCmd(ctx context.Context, cmd *cli.Command, s *session.Session) error {
	name := cmd.Args().First()
	if name == "" {
		return cli.Exit("missing project name", 1)
	}

	if !s.ConfigFound {
		s.WarnMissingConfig()
		ok, err := s.Decider.Confirm("Continue with a blank configuration?",
			"The project will have no authors or project URLs.")
		if err != nil {
			return err
		}
		if !ok {
			return session.Canceled(project.ErrDeclined)
		}
		if err := config.SaveConfigFn(&config.Config{}, s.ConfigPath); err != nil {
			return fmt.Errorf("failed to create blank configuration: %w", err)
		}
		s.ConfigFound = true
	}

	p, err := scaffold.Generate(ctx, scaffold.Options{
		Name:            name,
		Parent:          s.Dir,
		Description:     cmd.String("description"),
		Dependencies:    cmd.StringSlice("dependencies"),
		Keywords:        cmd.StringSlice("keywords"),
		OperatingSystem: cmd.String("os"),
		SourceFiles:     cmd.StringSlice("source-files"),
		AddScript:       cmd.Bool("add-script"),
		NoLicense:       cmd.Bool("no-license"),
		NotPackage:      cmd.Bool("not-package"),
	}, s.ProjectOptions())
	if err != nil {
		return session.Canceled(err)
	}

	printer.PrintSuccess(fmt.Sprintf("Created %s in %s", p.Name(), p.Dir))
	return nil
}
