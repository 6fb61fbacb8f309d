package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/indaco/keel/internal/semver"
	"github.com/pelletier/go-toml/v2"
)

const projectTable = "project"

//go:embed template.toml
var templateTOML []byte

// Author is one entry of project.authors.
type Author struct {
	Name  string `toml:"name,omitempty"`
	Email string `toml:"email,omitempty"`
}

// Manifest is the [project] table of a pyproject.toml file.
//
// The raw document it was loaded from is retained so that Marshal can
// rewrite only the fields that changed since the last load or save.
type Manifest struct {
	Name           string
	Version        semver.SemVersion
	Description    string
	RequiresPython string
	Authors        []Author
	Dependencies   []string
	Keywords       []string
	Classifiers    []string
	URLs           map[string]string
	Scripts        map[string]string

	raw  []byte
	base *Manifest
}

type pyproject struct {
	Project *projectFields `toml:"project"`
}

type projectFields struct {
	Name           string            `toml:"name"`
	Version        string            `toml:"version"`
	Description    string            `toml:"description"`
	RequiresPython string            `toml:"requires-python"`
	Authors        []Author          `toml:"authors"`
	Dependencies   []string          `toml:"dependencies"`
	Keywords       []string          `toml:"keywords"`
	Classifiers    []string          `toml:"classifiers"`
	URLs           map[string]string `toml:"urls"`
	Scripts        map[string]string `toml:"scripts"`
}

// New returns a manifest with no backing document. Marshal produces a
// minimal [project] table for it.
func New(name string, version semver.SemVersion) *Manifest {
	return &Manifest{Name: name, Version: version}
}

// Parse decodes a pyproject.toml document. The [project] table must carry
// a name and a major.minor.patch version.
func Parse(data []byte) (*Manifest, error) {
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}

	var missing []string
	if doc.Project == nil || doc.Project.Name == "" {
		missing = append(missing, "project.name")
	}
	if doc.Project == nil || doc.Project.Version == "" {
		missing = append(missing, "project.version")
	}
	if len(missing) > 0 {
		return nil, &ParseError{MissingFields: missing}
	}

	version, err := semver.ParseVersion(doc.Project.Version)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("project.version: %w", err)}
	}

	m := fromFields(doc.Project, version)
	m.commit(data)
	return m, nil
}

// FromTemplate returns a manifest backed by the new-project template.
// Its name is empty until the caller sets one.
func FromTemplate() *Manifest {
	var doc pyproject
	if err := toml.Unmarshal(templateTOML, &doc); err != nil || doc.Project == nil {
		panic(fmt.Sprintf("manifest: invalid embedded template: %v", err))
	}
	version, err := semver.ParseVersion(doc.Project.Version)
	if err != nil {
		panic(fmt.Sprintf("manifest: invalid embedded template version: %v", err))
	}

	m := fromFields(doc.Project, version)
	m.commit(bytes.Clone(templateTOML))
	return m
}

func fromFields(p *projectFields, version semver.SemVersion) *Manifest {
	return &Manifest{
		Name:           p.Name,
		Version:        version,
		Description:    p.Description,
		RequiresPython: p.RequiresPython,
		Authors:        p.Authors,
		Dependencies:   p.Dependencies,
		Keywords:       p.Keywords,
		Classifiers:    p.Classifiers,
		URLs:           p.URLs,
		Scripts:        p.Scripts,
	}
}

// SetURL sets an entry of [project.urls].
func (m *Manifest) SetURL(label, url string) {
	if m.URLs == nil {
		m.URLs = make(map[string]string)
	}
	m.URLs[label] = url
}

// ImportName returns the module name a project's sources live under:
// the project name with dashes and dots turned into underscores.
func (m *Manifest) ImportName() string {
	return ImportName(m.Name)
}

// ImportName converts a distribution name to a Python module name.
func ImportName(name string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(name)
}

// SetScript sets an entry of [project.scripts].
func (m *Manifest) SetScript(name, target string) {
	if m.Scripts == nil {
		m.Scripts = make(map[string]string)
	}
	m.Scripts[name] = target
}

// Marshal renders the manifest. Fields equal to their loaded value are
// left untouched in the backing document, so a manifest that was not
// modified marshals to exactly the bytes it was parsed from.
func (m *Manifest) Marshal() ([]byte, error) {
	fresh := m.base == nil
	base := m.base
	if fresh {
		base = &Manifest{}
	}

	raw := m.raw
	if raw == nil {
		raw = []byte("[project]\n")
	}
	doc, err := parseDocument(bytes.Clone(raw))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	w := &writer{doc: doc}

	if fresh || m.Name != base.Name {
		w.set("name", m.Name)
	}
	if fresh || m.Version != base.Version {
		w.set("version", m.Version.String())
	}
	w.setString("description", m.Description, base.Description)
	w.setString("requires-python", m.RequiresPython, base.RequiresPython)
	if !slices.Equal(m.Authors, base.Authors) {
		w.setAuthors(m.Authors)
	}
	w.setList("dependencies", m.Dependencies, base.Dependencies)
	w.setList("keywords", m.Keywords, base.Keywords)
	w.setList("classifiers", m.Classifiers, base.Classifiers)
	w.setTable("urls", m.URLs, base.URLs)
	w.setTable("scripts", m.Scripts, base.Scripts)

	if w.err != nil {
		return nil, w.err
	}

	out := doc.bytes()
	var check map[string]any
	if err := toml.Unmarshal(out, &check); err != nil {
		return nil, fmt.Errorf("re-encoded manifest is not valid TOML: %w", err)
	}
	return out, nil
}

// commit records data as the manifest's backing document and the current
// field values as its baseline.
func (m *Manifest) commit(data []byte) {
	m.raw = data
	snapshot := m.clone()
	m.base = &snapshot
}

func (m *Manifest) clone() Manifest {
	return Manifest{
		Name:           m.Name,
		Version:        m.Version,
		Description:    m.Description,
		RequiresPython: m.RequiresPython,
		Authors:        slices.Clone(m.Authors),
		Dependencies:   slices.Clone(m.Dependencies),
		Keywords:       slices.Clone(m.Keywords),
		Classifiers:    slices.Clone(m.Classifiers),
		URLs:           maps.Clone(m.URLs),
		Scripts:        maps.Clone(m.Scripts),
	}
}
