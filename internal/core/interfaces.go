package core

import (
	"context"
	"os"
)

// File permission presets shared across the codebase.
const (
	PermOwnerRW   os.FileMode = 0o600
	PermPublicR   os.FileMode = 0o644
	PermDirPublic os.FileMode = 0o755
)

// FileSystem abstracts the file operations keel performs on a project.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error
	Stat(ctx context.Context, path string) (os.FileInfo, error)
	MkdirAll(ctx context.Context, path string, perm os.FileMode) error
	Remove(ctx context.Context, path string) error
	RemoveAll(ctx context.Context, path string) error
	ReadDir(ctx context.Context, path string) ([]os.DirEntry, error)
}

// Result is the outcome of an external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes external tools.
//
// A non-zero exit status is reported through Result.ExitCode, not as an
// error. The error return is reserved for commands that could not be
// started at all (binary missing, context cancelled).
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string) (Result, error)
}

// Marshaler serializes a value for persistence.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
}
