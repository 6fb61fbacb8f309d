// Package bump implements "keel bump".
package bump

import (
	"context"
	"fmt"

	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/semver"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "bump" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "bump",
		Usage:     "Bump the version in pyproject.toml (major, minor, patch)",
		UsageText: "keel bump <major|minor|patch>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runBumpCmd(ctx, cmd, s)
		},
	}
}

func runBumpCmd(ctx context.Context, cmd *cli.Command, s *session.Session) error {
	kind, err := semver.ParseBumpKind(cmd.Args().First())
	if err != nil {
		return err
	}

	p, err := s.LoadProject(ctx)
	if err != nil {
		return err
	}
	previous := p.Version()
	if err := p.BumpVersion(kind); err != nil {
		return err
	}
	if err := p.Save(ctx); err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}

	fmt.Printf("%s %s %s %s\n", printer.SuccessBadge("✓"), p.Name(),
		printer.Faint(previous.String()+" →"), printer.Bold(p.Version().String()))
	return nil
}
