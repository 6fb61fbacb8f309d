// Package manifest reads and writes the [project] table of pyproject.toml.
//
// Saving is format preserving: only values that changed since the manifest
// was loaded are re-encoded, everything else in the file is written back
// byte for byte.
package manifest
