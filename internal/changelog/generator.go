package changelog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/indaco/keel/internal/core"
)

// FileName is the changelog written at the project root.
const FileName = "CHANGELOG.md"

// noiseMarker identifies the compare-link lines stripped after generation.
const noiseMarker = "Full set of changes:"

// DefaultCommand is the generator invocation used when none is configured.
var DefaultCommand = []string{"auto-changelog"}

// Generator rebuilds CHANGELOG.md.
type Generator struct {
	Runner  core.CommandRunner
	FS      core.FileSystem
	Command []string
}

// NewGenerator returns a Generator running command, or DefaultCommand when
// command is empty.
func NewGenerator(runner core.CommandRunner, fsys core.FileSystem, command []string) *Generator {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Generator{Runner: runner, FS: fsys, Command: command}
}

// Options control a single generation.
type Options struct {
	// TagPrefix is the prefix of release tags, e.g. "v".
	TagPrefix string
	// Version labels the not-yet-tagged commits.
	Version string
}

// Args returns the full generator command line for dir.
func (g *Generator) Args(dir string, opts Options) []string {
	argv := append([]string{}, g.Command...)
	argv = append(argv, "-p", dir)
	if opts.TagPrefix != "" {
		argv = append(argv, "--tag-prefix", opts.TagPrefix)
	}
	argv = append(argv, "--unreleased", "-v", opts.Version, "-o", FileName)
	return argv
}

// Generate regenerates dir/CHANGELOG.md and strips compare-link noise.
func (g *Generator) Generate(ctx context.Context, dir string, opts Options) error {
	argv := g.Args(dir, opts)
	res, err := g.Runner.Run(ctx, dir, argv)
	if err != nil {
		return fmt.Errorf("failed to run changelog generator: %w", err)
	}
	if !res.Success() {
		return fmt.Errorf("changelog generator %q exited with code %d: %s",
			argv[0], res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	path := filepath.Join(dir, FileName)
	data, err := g.FS.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read generated changelog: %w", err)
	}
	if err := g.FS.WriteFile(ctx, path, Clean(data), core.PermPublicR); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}

// Clean drops every line mentioning the full set of changes.
func Clean(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, noiseMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}
