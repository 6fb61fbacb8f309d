// Package scaffold creates new Python projects: pyproject.toml from the
// embedded template, README, LICENSE, .gitignore, sources, tests, editor
// settings and an initial git commit.
package scaffold
