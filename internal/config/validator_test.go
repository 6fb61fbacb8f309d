package config

import (
	"strings"
	"testing"
)

func TestValidator(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantErrors int
		wantWarns  int
	}{
		{
			name: "valid config",
			cfg: Config{
				Authors:     []Author{{Name: "Jane"}},
				ProjectURLs: ProjectURLs{Homepage: "https://github.com/jane/{name}"},
				Theme:       "dracula",
				Registry:    RegistryConfig{URL: "https://pypi.org"},
			},
		},
		{
			name:      "no authors is a warning",
			cfg:       Config{},
			wantWarns: 1,
		},
		{
			name:       "unknown theme",
			cfg:        Config{Authors: []Author{{Name: "a"}}, Theme: "neon"},
			wantErrors: 1,
		},
		{
			name:       "empty author",
			cfg:        Config{Authors: []Author{{}}},
			wantErrors: 1,
		},
		{
			name:       "relative url",
			cfg:        Config{Authors: []Author{{Name: "a"}}, ProjectURLs: ProjectURLs{SourceCode: "src/{name}"}},
			wantErrors: 1,
		},
		{
			name:       "empty tool command",
			cfg:        Config{Authors: []Author{{Name: "a"}}, Tools: ToolsConfig{Build: []string{" "}}},
			wantErrors: 1,
		},
		{
			name:       "empty formatter",
			cfg:        Config{Authors: []Author{{Name: "a"}}, Tools: ToolsConfig{Formatters: [][]string{{}}}},
			wantErrors: 1,
		},
		{
			name:       "non http registry",
			cfg:        Config{Authors: []Author{{Name: "a"}}, Registry: RegistryConfig{URL: "ftp://pypi"}},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := NewValidator(&tt.cfg).Validate()
			if got := ErrorCount(results); got != tt.wantErrors {
				t.Errorf("ErrorCount() = %d, want %d (%+v)", got, tt.wantErrors, results)
			}
			if got := WarningCount(results); got != tt.wantWarns {
				t.Errorf("WarningCount() = %d, want %d", got, tt.wantWarns)
			}
			if HasErrors(results) != (tt.wantErrors > 0) {
				t.Errorf("HasErrors() disagrees with ErrorCount()")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Theme: "neon"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "Theme") {
		t.Errorf("Validate() = %v, want theme error", err)
	}

	if err := (&Config{}).Validate(); err != nil {
		t.Errorf("Validate() on empty config = %v, want nil (warnings only)", err)
	}
}
