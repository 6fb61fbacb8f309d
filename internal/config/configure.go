package config

import "strings"

// NamePlaceholder is substituted with the project name in URL templates.
const NamePlaceholder = "{name}"

// ConfigureOptions are the edits accepted by `keel configure`.
// Empty fields leave the configuration unchanged.
type ConfigureOptions struct {
	Name           string
	Email          string
	GitHubUsername string
	DocsURL        string
	TagPrefix      string
	Theme          string
}

// Configure applies opts to cfg in place.
//
// A name or email appends an author. A GitHub username derives the
// homepage and source URLs. The documentation URL is only filled in when
// it is still unset, from DocsURL or else from the GitHub username.
func Configure(cfg *Config, opts ConfigureOptions) {
	if opts.Name != "" || opts.Email != "" {
		cfg.Authors = append(cfg.Authors, Author{Name: opts.Name, Email: opts.Email})
	}

	if opts.GitHubUsername != "" {
		homepage := "https://github.com/" + opts.GitHubUsername + "/" + NamePlaceholder
		cfg.ProjectURLs.Homepage = homepage
		cfg.ProjectURLs.SourceCode = homepage + "/tree/main/src/" + NamePlaceholder
	}

	if cfg.ProjectURLs.Documentation == "" {
		switch {
		case opts.DocsURL != "":
			cfg.ProjectURLs.Documentation = opts.DocsURL
		case opts.GitHubUsername != "":
			cfg.ProjectURLs.Documentation = "https://github.com/" + opts.GitHubUsername + "/" + NamePlaceholder + "/tree/main/docs"
		}
	}

	if opts.TagPrefix != "" {
		cfg.Git.TagPrefix = opts.TagPrefix
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
}

// Expand returns the URL templates with the project name substituted,
// keyed by their pyproject [project.urls] label. Empty templates are
// omitted.
func (u ProjectURLs) Expand(projectName string) map[string]string {
	out := make(map[string]string, 3)
	add := func(label, tmpl string) {
		if tmpl != "" {
			out[label] = strings.ReplaceAll(tmpl, NamePlaceholder, projectName)
		}
	}
	add("Homepage", u.Homepage)
	add("Documentation", u.Documentation)
	add("Source code", u.SourceCode)
	return out
}
