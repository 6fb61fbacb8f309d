package tui

import (
	"os"

	"golang.org/x/term"
)

// NonInteractiveEnv forces non-interactive mode when set to any value.
const NonInteractiveEnv = "KEEL_NONINTERACTIVE"

// ciEnvs are set by common CI providers.
var ciEnvs = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"CODEBUILD_BUILD_ID",
	"TF_BUILD",
}

// isTerminal is swapped out by tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd is a small value
}

// IsInteractive reports whether prompts and spinners can be shown: stdin
// and stdout are terminals, and neither a CI provider nor
// KEEL_NONINTERACTIVE is set. Confirmations fall back to a fixed answer
// otherwise.
func IsInteractive() bool {
	if os.Getenv(NonInteractiveEnv) != "" || inCI() {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func inCI() bool {
	for _, env := range ciEnvs {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}
