package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/indaco/keel/internal/config"
	"github.com/indaco/keel/internal/core"
)

// SourcePatterns select the files handed to the formatters.
var SourcePatterns = []string{"*.py", "src/**/*.py", "tests/**/*.py"}

// DistPattern selects the artifacts uploaded by Publish.
const DistPattern = "dist/*"

// ErrNoDistributions is returned by Publish when dist/ holds nothing to upload.
var ErrNoDistributions = errors.New("no distributions found in dist/, run 'keel build' first")

// ErrNoMinimumVersion is returned when the version finder output holds no
// Python 3 version.
var ErrNoMinimumVersion = errors.New("could not determine minimum Python version")

// Toolchain runs the configured tools inside a project directory.
type Toolchain struct {
	Runner core.CommandRunner
	FS     core.FileSystem
	Tools  config.ToolsConfig

	// DirFS opens a project directory for globbing. Defaults to os.DirFS.
	DirFS func(dir string) fs.FS
}

// New returns a Toolchain using tools, with unset entries filled from the
// defaults.
func New(runner core.CommandRunner, fsys core.FileSystem, tools config.ToolsConfig) *Toolchain {
	cfg := config.WithDefaults(&config.Config{Tools: tools})
	return &Toolchain{
		Runner: runner,
		FS:     fsys,
		Tools:  cfg.Tools,
		DirFS:  os.DirFS,
	}
}

// run executes argv in dir and converts a non-zero exit into *CommandError.
func (t *Toolchain) run(ctx context.Context, dir string, argv []string) (core.Result, error) {
	res, err := t.Runner.Run(ctx, dir, argv)
	if err != nil {
		return res, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	if !res.Success() {
		return res, &CommandError{
			Tool:     argv[0],
			Argv:     argv,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}
	return res, nil
}

func join(prefix []string, args ...string) []string {
	out := make([]string, 0, len(prefix)+len(args))
	out = append(out, prefix...)
	return append(out, args...)
}

// Glob returns the files under dir matching any of patterns, relative to
// dir, sorted and without duplicates.
func (t *Toolchain) Glob(dir string, patterns ...string) ([]string, error) {
	fsys := t.DirFS(dir)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Format runs every configured formatter over the project's Python sources.
// A project without sources is left alone.
func (t *Toolchain) Format(ctx context.Context, dir string) error {
	files, err := t.Glob(dir, SourcePatterns...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	for _, formatter := range t.Tools.Formatters {
		if len(formatter) == 0 {
			continue
		}
		if _, err := t.run(ctx, dir, join(formatter, files...)); err != nil {
			return err
		}
	}
	return nil
}

// Test runs the test suite.
func (t *Toolchain) Test(ctx context.Context, dir string) error {
	_, err := t.run(ctx, dir, t.Tools.Test)
	return err
}

// Docs regenerates docs/ from the module at target, relative to dir.
func (t *Toolchain) Docs(ctx context.Context, dir, target string) error {
	if err := t.FS.RemoveAll(ctx, filepath.Join(dir, "docs")); err != nil {
		return fmt.Errorf("failed to clear docs directory: %w", err)
	}
	_, err := t.run(ctx, dir, join(t.Tools.Docs, "-o", "docs", target))
	return err
}

// CleanDist removes previously built distributions.
func (t *Toolchain) CleanDist(ctx context.Context, dir string) error {
	if err := t.FS.RemoveAll(ctx, filepath.Join(dir, "dist")); err != nil {
		return fmt.Errorf("failed to clear dist directory: %w", err)
	}
	return nil
}

// Build produces the sdist and wheel in dist/.
func (t *Toolchain) Build(ctx context.Context, dir string) error {
	_, err := t.run(ctx, dir, join(t.Tools.Build, "."))
	return err
}

// Publish uploads every artifact in dist/.
func (t *Toolchain) Publish(ctx context.Context, dir string) error {
	files, err := t.Glob(dir, DistPattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoDistributions
	}
	_, err = t.run(ctx, dir, join(t.Tools.Publish, files...))
	return err
}

// Install installs the published package name without its dependencies.
func (t *Toolchain) Install(ctx context.Context, dir, name string) error {
	_, err := t.run(ctx, dir, join(t.Tools.Install, name, "--no-deps", "--upgrade", "--no-cache-dir"))
	return err
}

var minVersionRe = regexp.MustCompile(`Minimum required versions?:\s*(.+)`)
var py3Re = regexp.MustCompile(`\b3\.(\d+)\b`)

// MinimumPython runs the version finder over target, relative to dir, and
// returns a requires-python specifier such as ">=3.8".
func (t *Toolchain) MinimumPython(ctx context.Context, dir, target string) (string, error) {
	argv := join(t.Tools.MinPython,
		"--no-tips", "--eval-annotations",
		"--backport", "typing", "--backport", "typing_extensions",
		target)
	res, err := t.run(ctx, dir, argv)
	if err != nil {
		return "", err
	}
	return ParseMinimumPython(res.Stdout)
}

// ParseMinimumPython extracts the Python 3 minimum from version finder
// output.
func ParseMinimumPython(output string) (string, error) {
	m := minVersionRe.FindStringSubmatch(output)
	if m == nil {
		return "", ErrNoMinimumVersion
	}
	v := py3Re.FindStringSubmatch(strings.TrimSpace(m[1]))
	if v == nil {
		return "", fmt.Errorf("%w: %q", ErrNoMinimumVersion, strings.TrimSpace(m[1]))
	}
	return ">=3." + v[1], nil
}
