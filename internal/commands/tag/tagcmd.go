// Package tag implements "keel tag".
package tag

import (
	"context"

	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "tag" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "Tag the current commit with the pyproject.toml version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			if err := p.Tag(ctx); err != nil {
				return err
			}
			printer.PrintSuccess("Created tag " + p.TagName())
			return nil
		},
	}
}
