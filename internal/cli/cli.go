package cli

import (
	"context"
	"fmt"

	"github.com/indaco/keel/internal/commands/build"
	"github.com/indaco/keel/internal/commands/bump"
	"github.com/indaco/keel/internal/commands/changelog"
	"github.com/indaco/keel/internal/commands/configure"
	"github.com/indaco/keel/internal/commands/depsync"
	"github.com/indaco/keel/internal/commands/initialize"
	"github.com/indaco/keel/internal/commands/publish"
	"github.com/indaco/keel/internal/commands/release"
	"github.com/indaco/keel/internal/commands/script"
	"github.com/indaco/keel/internal/commands/tag"
	"github.com/indaco/keel/internal/session"
	"github.com/indaco/keel/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the keel cli.
// Global flags are copied onto s before any subcommand runs.
func New(s *session.Session) *urfavecli.Command {
	commands := []*urfavecli.Command{
		initialize.Run(s),
		build.Run(s),
		bump.Run(s),
		release.Run(s),
		changelog.Run(s),
		tag.Run(s),
		publish.Run(s),
		publish.InstallCmd(s),
		build.TestCmd(s),
		build.FormatCmd(s),
		depsync.Run(s),
		script.Run(s),
		publish.CheckNameCmd(s),
		publish.PublishedCmd(s),
		configure.ShowCmd(s),
		configure.Run(s),
		release.SyncCmd(s),
	}
	for _, c := range commands {
		// config and configure must run on an invalid file to report or fix it.
		if c.Name == "config" || c.Name == "configure" {
			continue
		}
		c.Before = func(ctx context.Context, _ *urfavecli.Command) (context.Context, error) {
			return ctx, s.RequireValidConfig()
		}
	}

	return &urfavecli.Command{
		Name:                  "keel",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Project lifecycle manager for Python packages",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "dir",
				Usage:       "Project directory",
				DefaultText: "current directory",
			},
			&urfavecli.StringFlag{
				Name:    "config",
				Usage:   "Path to the keel configuration file",
				Sources: urfavecli.EnvVars("KEEL_CONFIG"),
			},
			&urfavecli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Answer yes to every confirmation",
			},
			&urfavecli.BoolFlag{
				Name:  "verbose",
				Usage: "Echo external commands and stream their output",
			},
			&urfavecli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			if cmd.IsSet("dir") {
				s.Dir = cmd.String("dir")
			}
			if cmd.IsSet("config") {
				s.ConfigPath = cmd.String("config")
			}
			if cmd.IsSet("yes") {
				s.AssumeYes = cmd.Bool("yes")
			}
			if cmd.IsSet("verbose") {
				s.Verbose = cmd.Bool("verbose")
			}
			if cmd.IsSet("no-color") {
				s.NoColor = cmd.Bool("no-color")
			}
			return ctx, s.Init()
		},
		Commands: commands,
	}
}
