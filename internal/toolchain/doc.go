// Package toolchain wraps the external tools of a Python project.
//
// Every tool is configured as a command prefix (config.ToolsConfig) to
// which the arguments keel needs are appended, so users can swap black for
// ruff, or pytest for tox, without code changes. All commands go through a
// core.CommandRunner; a non-zero exit status becomes a *CommandError.
package toolchain
