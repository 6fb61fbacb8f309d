// Package project ties a pyproject.toml manifest to the tools that act on
// it: building, versioning, changelog, git and the package index.
//
// A Project is loaded once per command with all its collaborators
// injected through Options, so every workflow can be exercised in tests
// with in-memory filesystems, recorded command runners and a mock git.
package project
