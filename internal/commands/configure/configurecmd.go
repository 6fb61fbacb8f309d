// Package configure implements "keel config" and "keel configure".
package configure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/indaco/keel/internal/config"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/session"
	"github.com/indaco/keel/internal/tui"
	"github.com/urfave/cli/v3"
)

// ShowCmd returns the "config" command.
func ShowCmd(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Validate the configuration and report each check",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("check") {
				return runCheck(s)
			}
			return runShow(s)
		},
	}
}

func runShow(s *session.Session) error {
	s.WarnMissingConfig()
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	printer.PrintFaint("# " + s.ConfigPath)
	fmt.Print(string(data))
	return nil
}

func runCheck(s *session.Session) error {
	results := config.NewValidator(s.Config).Validate()
	for _, r := range results {
		var badge string
		switch {
		case r.Passed:
			badge = printer.SuccessBadge("✓")
		case r.Warning:
			badge = printer.Warning("!")
		default:
			badge = printer.Error("✗")
		}
		fmt.Printf("  %s %s %s\n", badge, printer.Bold(r.Category), printer.Faint(r.Message))
	}
	if config.HasErrors(results) {
		return fmt.Errorf("configuration has %d error(s)", config.ErrorCount(results))
	}
	return nil
}

// Run returns the "configure" command.
func Run(s *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "configure",
		Usage: "Edit or create the keel configuration",
		Description: `Values left empty keep their current setting. A name or email appends an
author. A GitHub username derives the homepage and source URLs of new
projects; "{name}" in URLs is replaced by the project name.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Author name"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Author email"},
			&cli.StringFlag{Name: "github-username", Aliases: []string{"gh"}, Usage: "GitHub username"},
			&cli.StringFlag{Name: "docs-url", Aliases: []string{"du"}, Usage: "Documentation URL template"},
			&cli.StringFlag{Name: "tag-prefix", Aliases: []string{"tp"}, Usage: "Prefix for release tags, e.g. v"},
			&cli.StringFlag{Name: "theme", Usage: "Prompt theme (" + strings.Join(tui.ValidThemes, ", ") + ")"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runConfigure(cmd, s)
		},
	}
}

func runConfigure(cmd *cli.Command, s *session.Session) error {
	// Edit the file contents, not the effective config, so defaults are
	// not written out.
	cfg, err := config.LoadConfigFn(s.ConfigPath)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	opts := config.ConfigureOptions{
		Name:           cmd.String("name"),
		Email:          cmd.String("email"),
		GitHubUsername: cmd.String("github-username"),
		DocsURL:        cmd.String("docs-url"),
		TagPrefix:      cmd.String("tag-prefix"),
		Theme:          cmd.String("theme"),
	}
	if !anySet(cmd) && !s.AssumeYes && tui.IsInteractive() {
		if err := prompt(&opts); err != nil {
			if errors.Is(err, tui.ErrCanceled) {
				printer.PrintInfo("Canceled.")
				return nil
			}
			return err
		}
	}

	config.Configure(cfg, opts)
	if err := config.WithDefaults(cfg).Validate(); err != nil {
		return err
	}
	if err := config.SaveConfigFn(cfg, s.ConfigPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	s.Config = config.WithDefaults(cfg)
	s.ConfigFound = true
	s.ConfigErr = nil
	printer.PrintSuccess("Configuration saved to " + s.ConfigPath)
	return nil
}

// prompt asks for every configure value. Empty answers keep the current
// setting.
func prompt(opts *config.ConfigureOptions) error {
	fields := []struct {
		title string
		help  string
		value *string
	}{
		{"Author name", "Appended to the authors of new projects", &opts.Name},
		{"Author email", "", &opts.Email},
		{"GitHub username", "Derives homepage and source URLs", &opts.GitHubUsername},
		{"Documentation URL", `"{name}" is replaced by the project name`, &opts.DocsURL},
		{"Tag prefix", "Prepended to release tags, e.g. v", &opts.TagPrefix},
	}
	for _, f := range fields {
		v, err := tui.Input(f.title, f.help, *f.value)
		if err != nil {
			return err
		}
		*f.value = v
	}

	options := make([]huh.Option[string], 0, len(tui.ValidThemes))
	for _, name := range tui.ValidThemes {
		options = append(options, huh.NewOption(name, name))
	}
	theme, err := tui.Select("Prompt theme", "", options)
	if err != nil {
		return err
	}
	opts.Theme = theme
	return nil
}

func anySet(cmd *cli.Command) bool {
	for _, name := range []string{"name", "email", "github-username", "docs-url", "tag-prefix", "theme"} {
		if cmd.IsSet(name) {
			return true
		}
	}
	return false
}
