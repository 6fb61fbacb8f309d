package toolchain

import (
	"fmt"
	"strings"
)

// CommandError reports an external tool that exited with a non-zero status.
type CommandError struct {
	Tool     string
	Argv     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	detail := lastLine(e.Stderr)
	if detail == "" {
		detail = lastLine(e.Stdout)
	}
	if detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Command returns the failed command line.
func (e *CommandError) Command() string {
	return strings.Join(e.Argv, " ")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
