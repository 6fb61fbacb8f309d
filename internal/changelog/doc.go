// Package changelog regenerates CHANGELOG.md from git history with
// auto-changelog and reads the result back as per-release sections.
package changelog
