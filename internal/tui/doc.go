// Package tui holds keel's interactive pieces: huh forms and themes, the
// spinner wrapper and the Decider used for confirmations.
package tui
