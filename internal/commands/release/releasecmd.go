// Package release implements "keel update" and "keel sync".
package release

import (
	"context"
	"fmt"
	"slices"

	"github.com/indaco/keel/internal/commands/build"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/project"
	"github.com/indaco/keel/internal/semver"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "update" command.
func Run(s *session.Session) *cli.Command {
	flags := slices.Concat(build.Flags(), []cli.Flag{
		&cli.BoolFlag{
			Name:    "publish",
			Aliases: []string{"p"},
			Usage:   "Publish to the package index after pushing",
		},
		&cli.BoolFlag{
			Name:    "install",
			Aliases: []string{"i"},
			Usage:   "Install the released package afterwards",
		},
		&cli.BoolFlag{
			Name:  "review",
			Usage: "Pause after regenerating the changelog so it can be edited",
		},
	})

	return &cli.Command{
		Name:      "update",
		Usage:     "Cut a release: bump, build, commit, tag, changelog and push",
		UsageText: "keel update <major|minor|patch> [--flags]",
		Description: `Bumps the version, runs the full build, commits it as "chore: build <tag>",
tags it, regenerates CHANGELOG.md, commits the changelog, moves the tag onto
that commit, then pulls and pushes the current branch with tags.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runUpdateCmd(ctx, cmd, s)
		},
	}
}

func runUpdateCmd(ctx context.Context, cmd *cli.Command, s *session.Session) error {
	kind, err := semver.ParseBumpKind(cmd.Args().First())
	if err != nil {
		return err
	}

	p, err := s.LoadProject(ctx)
	if err != nil {
		return err
	}
	previous := p.Version()

	err = p.Update(ctx, project.UpdateOptions{
		Kind:            kind,
		Build:           build.OptionsFromFlags(cmd),
		ReviewChangelog: cmd.Bool("review"),
		Publish:         cmd.Bool("publish"),
		Install:         cmd.Bool("install"),
	})
	if err != nil {
		return session.Canceled(err)
	}

	printer.PrintSuccess(fmt.Sprintf("Released %s %s → %s (%s)", p.Name(), previous, p.Version(), p.TagName()))
	return nil
}

// SyncCmd returns the "sync" command.
func SyncCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Pull then push the current branch, including tags",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := p.Sync(ctx); err != nil {
				return err
			}
			printer.PrintSuccess("Synced with " + p.Config.Git.Remote)
			return nil
		},
	}
}
