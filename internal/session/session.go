// Package session holds the per-invocation state shared by every command:
// global flags, the loaded configuration and the collaborators projects
// are built from.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/indaco/keel/internal/config"
	"github.com/indaco/keel/internal/core"
	"github.com/indaco/keel/internal/operations"
	"github.com/indaco/keel/internal/printer"
	"github.com/indaco/keel/internal/project"
	"github.com/indaco/keel/internal/registry"
	"github.com/indaco/keel/internal/tui"
	"github.com/indaco/keel/internal/vcs"
)

// Session is built once per keel invocation. Fields that are already set
// when Init runs are kept, which is how tests inject mocks.
type Session struct {
	Dir        string
	ConfigPath string
	AssumeYes  bool
	Verbose    bool
	NoColor    bool

	// Config is the loaded configuration with defaults applied.
	Config *config.Config
	// ConfigFound reports whether a configuration file existed.
	ConfigFound bool
	// ConfigErr is why a found configuration file failed validation.
	// Commands that only inspect or repair the file run regardless.
	ConfigErr error

	FS      core.FileSystem
	Runner  core.CommandRunner
	Git     vcs.Git
	Index   registry.Index
	Decider tui.Decider

	// Stdout receives streamed tool output in verbose mode.
	Stdout io.Writer
}

// Init loads the configuration and fills every unset collaborator.
func (s *Session) Init() error {
	if s.Dir == "" {
		s.Dir = "."
	}
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}
	s.Dir = dir

	printer.SetNoColor(s.NoColor)

	if s.Config == nil {
		if err := s.loadConfig(); err != nil {
			return err
		}
	}
	tui.SetTheme(s.Config.Theme, s.NoColor)

	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.FS == nil {
		s.FS = core.NewOSFileSystem()
	}
	if s.Runner == nil {
		runner := core.NewOSCommandRunner()
		if s.Verbose {
			runner.Echo = func(line string) { printer.PrintFaint("$ " + line) }
			runner.Output = s.Stdout
		}
		s.Runner = runner
	}
	if s.Decider == nil {
		s.Decider = tui.NewDecider(s.AssumeYes)
	}
	return nil
}

func (s *Session) loadConfig() error {
	if s.ConfigPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		s.ConfigPath = path
	}

	cfg, err := config.LoadConfigFn(s.ConfigPath)
	if err != nil {
		return err
	}
	s.ConfigFound = cfg != nil
	s.Config = config.WithDefaults(cfg)
	if s.ConfigFound {
		s.ConfigErr = s.Config.Validate()
	}
	return nil
}

// RequireValidConfig fails when the configuration file did not validate.
func (s *Session) RequireValidConfig() error {
	if s.ConfigErr != nil {
		return fmt.Errorf("%w (run 'keel config --check' or 'keel configure')", s.ConfigErr)
	}
	return nil
}

// WarnMissingConfig prints a hint when no configuration file was found.
func (s *Session) WarnMissingConfig() {
	if s.ConfigFound {
		return
	}
	printer.PrintWarning(fmt.Sprintf("No keel configuration found at %s.", s.ConfigPath))
	printer.PrintFaint("Run 'keel configure' to set default authors and project URLs.")
}

// ProjectOptions returns the collaborators for a project.
func (s *Session) ProjectOptions() project.Options {
	return project.Options{
		Config:  s.Config,
		FS:      s.FS,
		Runner:  s.Runner,
		Git:     s.Git,
		Index:   s.Index,
		Decider: s.Decider,
		Wrap:    SpinnerWrap,
		Warnf: func(format string, args ...any) {
			printer.PrintWarning(fmt.Sprintf(format, args...))
		},
	}
}

// LoadProject loads the project in the session directory.
func (s *Session) LoadProject(ctx context.Context) (*project.Project, error) {
	return project.Load(ctx, s.Dir, s.ProjectOptions())
}

// PackageIndex returns the configured package index.
func (s *Session) PackageIndex() (registry.Index, error) {
	if s.Index != nil {
		return s.Index, nil
	}
	idx, err := registry.NewPyPI(s.Config.Registry.URL)
	if err != nil {
		return nil, err
	}
	s.Index = idx
	return idx, nil
}

// SpinnerWrap runs a build step under a spinner.
var SpinnerWrap operations.Wrapper = func(ctx context.Context, name string, run func() error) error {
	return tui.RunWithSpinner(ctx, name, func(context.Context) error { return run() })
}

// Canceled turns a declined confirmation into a notice. Other errors are
// returned unchanged.
func Canceled(err error) error {
	if errors.Is(err, project.ErrDeclined) {
		printer.PrintInfo("Canceled.")
		return nil
	}
	return err
}
