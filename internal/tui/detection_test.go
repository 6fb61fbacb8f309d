package tui

import (
	"os"
	"testing"
)

func TestIsInteractive(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	tests := []struct {
		name     string
		env      map[string]string
		stdinTTY bool
		want     bool
	}{
		{"terminal", nil, true, true},
		{"stdin redirected", nil, false, false},
		{"ci", map[string]string{"GITHUB_ACTIONS": "true"}, true, false},
		{"forced off", map[string]string{NonInteractiveEnv: "1"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, env := range append(ciEnvs, NonInteractiveEnv) {
				t.Setenv(env, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			isTerminal = func(f *os.File) bool {
				if f == os.Stdin {
					return tt.stdinTTY
				}
				return true
			}

			if got := IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}
