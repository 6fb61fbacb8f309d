// Package cli assembles the keel root command from the command packages
// under internal/commands.
package cli
