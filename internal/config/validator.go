package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/indaco/keel/internal/tui"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Theme", "Tools").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator validates a loaded configuration.
type Validator struct {
	cfg         *Config
	validations []ValidationResult
}

// NewValidator creates a new configuration validator.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate() []ValidationResult {
	v.validations = make([]ValidationResult, 0)

	v.validateTheme()
	v.validateAuthors()
	v.validateURLs()
	v.validateTools()
	v.validateRegistry()

	return v.validations
}

// Validate reports the first validation error in cfg, if any.
func (c *Config) Validate() error {
	for _, r := range NewValidator(c).Validate() {
		if !r.Passed && !r.Warning {
			return fmt.Errorf("invalid config: %s: %s", r.Category, r.Message)
		}
	}
	return nil
}

func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

func (v *Validator) validateTheme() {
	if v.cfg.Theme == "" {
		v.addValidation("Theme", true, "Using default theme", false)
		return
	}
	if !tui.IsValidTheme(v.cfg.Theme) {
		v.addValidation("Theme", false,
			fmt.Sprintf("Unknown theme %q (available: %s)", v.cfg.Theme, strings.Join(tui.ValidThemes, ", ")), false)
		return
	}
	v.addValidation("Theme", true, fmt.Sprintf("Theme %q", v.cfg.Theme), false)
}

func (v *Validator) validateAuthors() {
	if len(v.cfg.Authors) == 0 {
		v.addValidation("Authors", false, "No authors configured; run 'keel configure --name ...'", true)
		return
	}
	for i, a := range v.cfg.Authors {
		if a.Name == "" && a.Email == "" {
			v.addValidation("Authors", false, fmt.Sprintf("Author #%d has neither name nor email", i+1), false)
			return
		}
	}
	v.addValidation("Authors", true, fmt.Sprintf("%d author(s) configured", len(v.cfg.Authors)), false)
}

func (v *Validator) validateURLs() {
	for label, tmpl := range map[string]string{
		"homepage":      v.cfg.ProjectURLs.Homepage,
		"documentation": v.cfg.ProjectURLs.Documentation,
		"source_code":   v.cfg.ProjectURLs.SourceCode,
	} {
		if tmpl == "" {
			continue
		}
		u, err := url.Parse(strings.ReplaceAll(tmpl, NamePlaceholder, "project"))
		if err != nil || u.Scheme == "" || u.Host == "" {
			v.addValidation("Project URLs", false, fmt.Sprintf("%s is not an absolute URL: %q", label, tmpl), false)
			return
		}
	}
	v.addValidation("Project URLs", true, "URL templates are well formed", false)
}

func (v *Validator) validateTools() {
	t := v.cfg.Tools
	for name, cmd := range map[string][]string{
		"python":     t.Python,
		"test":       t.Test,
		"docs":       t.Docs,
		"build":      t.Build,
		"publish":    t.Publish,
		"install":    t.Install,
		"changelog":  t.Changelog,
		"scanner":    t.Scanner,
		"min_python": t.MinPython,
	} {
		if len(cmd) > 0 && strings.TrimSpace(cmd[0]) == "" {
			v.addValidation("Tools", false, fmt.Sprintf("tools.%s has an empty command", name), false)
			return
		}
	}
	for i, cmd := range t.Formatters {
		if len(cmd) == 0 || strings.TrimSpace(cmd[0]) == "" {
			v.addValidation("Tools", false, fmt.Sprintf("tools.formatters[%d] has an empty command", i), false)
			return
		}
	}
	v.addValidation("Tools", true, "Tool commands are set", false)
}

func (v *Validator) validateRegistry() {
	if v.cfg.Registry.URL == "" {
		return
	}
	u, err := url.Parse(v.cfg.Registry.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		v.addValidation("Registry", false, fmt.Sprintf("registry.url must be an http(s) URL: %q", v.cfg.Registry.URL), false)
		return
	}
	v.addValidation("Registry", true, v.cfg.Registry.URL, false)
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}
