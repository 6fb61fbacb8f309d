// Package changelog implements "keel changelog".
package changelog

import (
	"context"
	"fmt"
	"path/filepath"

	cl "github.com/indaco/keel/internal/changelog"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
	"github.com/urfave/cli/v3"
)

// Run returns the "changelog" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "changelog",
		Usage: "Regenerate CHANGELOG.md from git history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show",
				Usage: "Print the newest section after regenerating",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runChangelogCmd(ctx, cmd, s)
		},
	}
}

func runChangelogCmd(ctx context.Context, cmd *cli.Command, s *session.Session) error {
	p, err := s.LoadProject(ctx)
	if err != nil {
		return err
	}
	if err := p.UpdateChangelog(ctx); err != nil {
		return err
	}
	printer.PrintSuccess("Updated " + cl.FileName)

	if !cmd.Bool("show") {
		return nil
	}
	data, err := p.FS.ReadFile(ctx, filepath.Join(p.Dir, cl.FileName))
	if err != nil {
		return fmt.Errorf("failed to read changelog: %w", err)
	}
	section, ok := cl.Parse(data).Latest()
	if !ok {
		printer.PrintFaint("No release sections found.")
		return nil
	}
	printSection(section)
	return nil
}

func printSection(s cl.Section) {
	title := s.Version
	if s.Date != "" {
		title += " " + printer.Faint("("+s.Date+")")
	}
	printer.PrintBold(title)
	if !s.HasEntries() {
		printer.PrintFaint("  no entries")
		return
	}
	for _, e := range s.Entries {
		fmt.Printf("  - %s\n", e)
	}
}
