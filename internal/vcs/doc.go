// Package vcs wraps the git operations keel performs around a release:
// staging, committing, tagging and syncing with the remote.
package vcs
