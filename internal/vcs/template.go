package vcs

import (
	"strconv"
	"strings"

	"github.com/indaco/keel/internal/semver"
)

// Default commit message templates.
const (
	BuildCommitTemplate     = "chore: build {tag}"
	ChangelogCommitTemplate = "chore: update changelog"
	InitialCommitTemplate   = "chore: initial commit"
)

// TemplateData holds the values available to message templates.
type TemplateData struct {
	Version string
	Tag     string
	Prefix  string
	Major   string
	Minor   string
	Patch   string
}

// NewTemplateData builds template values for version tagged with prefix.
func NewTemplateData(version semver.SemVersion, prefix string) TemplateData {
	return TemplateData{
		Version: version.String(),
		Tag:     TagName(prefix, version),
		Prefix:  prefix,
		Major:   strconv.Itoa(version.Major),
		Minor:   strconv.Itoa(version.Minor),
		Patch:   strconv.Itoa(version.Patch),
	}
}

// FormatMessage replaces {version}, {tag}, {prefix}, {major}, {minor} and
// {patch} in template. Unknown placeholders are left as is.
func FormatMessage(template string, data TemplateData) string {
	return strings.NewReplacer(
		"{version}", data.Version,
		"{tag}", data.Tag,
		"{prefix}", data.Prefix,
		"{major}", data.Major,
		"{minor}", data.Minor,
		"{patch}", data.Patch,
	).Replace(template)
}

// TagName is the tag for version: the prefix followed by major.minor.patch.
func TagName(prefix string, version semver.SemVersion) string {
	return prefix + version.String()
}
