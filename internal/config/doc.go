// Package config loads and saves the user-level keel configuration
// (default authors, project URL templates, git and registry settings, and
// the commands of the external tools keel drives).
package config
