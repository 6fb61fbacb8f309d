package deps

import (
	"context"
	"fmt"
	"strings"

	"github.com/indaco/keel/internal/core"
	"github.com/tidwall/gjson"
)

// Scanner reports the third-party packages a project imports.
type Scanner interface {
	Scan(ctx context.Context, dir string) ([]Detected, error)
}

// DefaultScanCommand is the scanner invocation used when none is configured.
// "{dir}" is replaced by the project directory.
var DefaultScanCommand = []string{"packagelister", "--json", "{dir}"}

// CommandScanner runs an external scanner and reads its JSON report.
//
// Two report shapes are understood, both read in document order:
//
//	{"requests": {"version": "2.31.0"}, "rich": {"version": null}}
//	[{"name": "requests", "version": "2.31.0"}, {"name": "rich"}]
type CommandScanner struct {
	Runner  core.CommandRunner
	Command []string
}

// NewCommandScanner returns a scanner running command, or the default
// command when command is empty.
func NewCommandScanner(runner core.CommandRunner, command []string) *CommandScanner {
	if len(command) == 0 {
		command = DefaultScanCommand
	}
	return &CommandScanner{Runner: runner, Command: command}
}

func (s *CommandScanner) Scan(ctx context.Context, dir string) ([]Detected, error) {
	argv := make([]string, len(s.Command))
	for i, arg := range s.Command {
		argv[i] = strings.ReplaceAll(arg, "{dir}", dir)
	}

	res, err := s.Runner.Run(ctx, dir, argv)
	if err != nil {
		return nil, fmt.Errorf("failed to run dependency scanner: %w", err)
	}
	if !res.Success() {
		return nil, fmt.Errorf("dependency scanner %q exited with code %d: %s",
			argv[0], res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return ParseReport(res.Stdout)
}

// ParseReport decodes a scanner JSON report.
func ParseReport(report string) ([]Detected, error) {
	if !gjson.Valid(report) {
		return nil, fmt.Errorf("dependency scanner returned invalid JSON")
	}

	root := gjson.Parse(report)
	var out []Detected

	switch {
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			out = append(out, Detected{Name: key.String(), Version: versionOf(value)})
			return true
		})
	case root.IsArray():
		var bad bool
		root.ForEach(func(_, value gjson.Result) bool {
			name := value.Get("name").String()
			if name == "" {
				bad = true
				return false
			}
			out = append(out, Detected{Name: name, Version: versionOf(value)})
			return true
		})
		if bad {
			return nil, fmt.Errorf("dependency scanner entry without a name")
		}
	default:
		return nil, fmt.Errorf("dependency scanner returned %s, want an object or array", root.Type)
	}

	return out, nil
}

func versionOf(entry gjson.Result) string {
	v := entry.Get("version")
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(v.String())
}
