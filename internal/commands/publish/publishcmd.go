// Package publish implements the package index commands: "publish",
// "install", "published" and "check-name".
package publish

import (
	"context"
	"fmt"

	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "publish" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Upload dist/ to the package index",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := p.Publish(ctx); err != nil {
				return session.Canceled(err)
			}
			printer.PrintSuccess(fmt.Sprintf("Published %s %s", p.Name(), p.Version()))
			return nil
		},
	}
}

// InstallCmd returns the "install" command.
func InstallCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the published package (no deps, upgrade, no cache)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := p.Install(ctx); err != nil {
				return err
			}
			printer.PrintSuccess("Installed " + p.Name())
			return nil
		},
	}
}

// PublishedCmd returns the "published" command.
func PublishedCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "published",
		Usage: "Check whether the current version is on the package index",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			published, err := p.IsPublished(ctx)
			if err != nil {
				return err
			}
			text := fmt.Sprintf("The most recent version of %q (%s)", p.Name(), p.Version())
			if published {
				printer.PrintSuccess(text + " has been published.")
			} else {
				printer.PrintWarning(text + " has not been published.")
			}
			return nil
		},
	}
}

// CheckNameCmd returns the "check-name" command.
func CheckNameCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "check-name",
		Usage:     "Check whether a name is taken on the package index",
		UsageText: "keel check-name <name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.Exit("missing package name", 1)
			}
			idx, err := s.PackageIndex()
			if err != nil {
				return err
			}
			taken, err := idx.Exists(ctx, name)
			if err != nil {
				return err
			}
			if taken {
				printer.PrintWarning(name + " is already taken.")
			} else {
				printer.PrintSuccess(name + " is available.")
			}
			return nil
		},
	}
}
