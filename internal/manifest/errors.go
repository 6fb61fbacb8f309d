package manifest

import (
	"fmt"
	"strings"
)

// NotFoundError indicates that the pyproject.toml file is missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest not found: %s", e.Path)
}

// Suggestion returns a hint for creating a project.
func (e *NotFoundError) Suggestion() string {
	return "Run 'keel new <name>' to create a project, or pass --dir to point at an existing one."
}

// ParseError indicates that the manifest is not valid TOML or does not
// describe a usable [project] table.
type ParseError struct {
	Path          string
	Line          int // 1-based; 0 when unknown
	Column        int
	MissingFields []string
	Err           error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to parse manifest")
	if e.Path != "" {
		fmt.Fprintf(&sb, " at %s", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, " (line %d, column %d)", e.Line, e.Column)
	}
	if len(e.MissingFields) > 0 {
		fmt.Fprintf(&sb, ": missing required fields: %s", strings.Join(e.MissingFields, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Suggestion returns guidance on fixing the manifest.
func (e *ParseError) Suggestion() string {
	if len(e.MissingFields) == 0 {
		return "Check the TOML syntax of pyproject.toml."
	}
	var sb strings.Builder
	sb.WriteString("The [project] table must define:\n")
	for _, field := range e.MissingFields {
		fmt.Fprintf(&sb, "  - %s\n", field)
	}
	return sb.String()
}
