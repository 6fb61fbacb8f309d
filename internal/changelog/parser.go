package changelog

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// Section is one release block of a generated changelog.
type Section struct {
	Version string
	Date    string
	Entries []string
}

// HasEntries reports whether the section lists any change.
func (s Section) HasEntries() bool {
	return len(s.Entries) > 0
}

// Changelog is a parsed CHANGELOG.md, newest release first.
type Changelog struct {
	Sections []Section
}

var (
	headingRe = regexp.MustCompile(`^#{2,4}\s+\[?([^\]\s(]+)\]?`)
	dateRe    = regexp.MustCompile(`^>\s*(.+)$`)
	releaseRe = regexp.MustCompile(`(\d+\.\d+\.\d+)`)
)

// Parse reads the release sections of a changelog. Headings that do not
// name a release, such as the document title, are skipped.
func Parse(data []byte) *Changelog {
	cl := &Changelog{}
	var current *Section

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := headingRe.FindStringSubmatch(line); m != nil {
			if version, ok := releaseName(m[1]); ok {
				cl.Sections = append(cl.Sections, Section{Version: version})
				current = &cl.Sections[len(cl.Sections)-1]
			} else {
				current = nil
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := dateRe.FindStringSubmatch(line); m != nil && current.Date == "" {
			current.Date = strings.TrimSpace(m[1])
			continue
		}
		if entry, ok := strings.CutPrefix(line, "- "); ok {
			current.Entries = append(current.Entries, strings.TrimSpace(entry))
		}
	}
	return cl
}

// releaseName strips any tag prefix from a heading and reports whether it
// names a release.
func releaseName(heading string) (string, bool) {
	if strings.EqualFold(heading, "unreleased") {
		return "Unreleased", true
	}
	m := releaseRe.FindStringSubmatch(heading)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Latest returns the newest section.
func (c *Changelog) Latest() (Section, bool) {
	if len(c.Sections) == 0 {
		return Section{}, false
	}
	return c.Sections[0], true
}

// Find returns the section for version ("1.2.0", without tag prefix).
func (c *Changelog) Find(version string) (Section, bool) {
	for _, s := range c.Sections {
		if s.Version == version {
			return s, true
		}
	}
	return Section{}, false
}
