// Package script implements "keel add-script".
package script

import (
	"context"
	"fmt"

	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "add-script" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "add-script",
		Usage:     "Add a console script entry point to pyproject.toml",
		UsageText: "keel add-script <name> [file] [function]",
		Description: `Registers [project.scripts] <name> = "<package>.<file>:<function>".
file defaults to the module named after the package, function to "main".`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			name := args.Get(0)
			if name == "" {
				return cli.Exit("missing script name", 1)
			}

			p, err := s.LoadProject(ctx)
			if err != nil {
				return err
			}
			p.AddScript(name, args.Get(1), args.Get(2))
			if err := p.Save(ctx); err != nil {
				return err
			}
			printer.PrintSuccess(fmt.Sprintf("Added script %s = %s", name, p.Manifest.Scripts[name]))
			return nil
		},
	}
}
