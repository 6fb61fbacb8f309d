package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/indaco/keel/internal/core"
	"github.com/indaco/keel/internal/manifest"
	"github.com/indaco/keel/internal/project"
	"github.com/indaco/keel/internal/vcs"
)

// Classifiers of the embedded template that options adjust.
const (
	LicenseClassifier    = "License :: OSI Approved :: MIT License"
	osClassifierPrefix   = "Operating System :: "
	defaultOSClassifier  = osClassifierPrefix + "OS Independent"
	licenseFileName      = "LICENSE.txt"
	editorSettingsPath   = ".vscode/settings.json"
	defaultLicenseHolder = "the authors"
)

// ErrEmptyName is returned when no project name is given.
var ErrEmptyName = errors.New("project name cannot be empty")

// Options describe the project to create.
type Options struct {
	// Name is the distribution name; the project is created in Parent/Name.
	Name   string
	Parent string

	Description  string
	Dependencies []string
	Keywords     []string
	// OperatingSystem replaces "OS Independent" in the classifiers, e.g.
	// "POSIX :: Linux".
	OperatingSystem string
	// SourceFiles are created in the package directory. Defaults to
	// __init__.py and <module>.py.
	SourceFiles []string

	AddScript  bool
	NoLicense  bool
	NotPackage bool

	// Now stamps the license year. Defaults to time.Now.
	Now func() time.Time
}

// Generate creates the project described by opts and returns it loaded.
// The package index is consulted for name clashes and an existing target
// directory is only replaced after confirmation.
func Generate(ctx context.Context, opts Options, popts project.Options) (*project.Project, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	target := filepath.Join(opts.Parent, name)

	popts, err := popts.Resolve(target)
	if err != nil {
		return nil, err
	}

	if err := checkName(ctx, name, opts, popts); err != nil {
		return nil, err
	}
	if err := prepareTarget(ctx, target, popts); err != nil {
		return nil, err
	}

	m := manifest.FromTemplate()
	p, err := project.New(target, m, popts)
	if err != nil {
		return nil, err
	}
	populate(p, opts)

	w := &writer{fs: p.FS, dir: target}
	if err := w.files(ctx, p, opts); err != nil {
		return nil, err
	}
	if err := p.Save(ctx); err != nil {
		return nil, err
	}
	if err := initRepository(ctx, p.Git); err != nil {
		return nil, err
	}
	return p, nil
}

func checkName(ctx context.Context, name string, opts Options, popts project.Options) error {
	if opts.NotPackage {
		return nil
	}
	taken, err := popts.Index.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !taken {
		return nil
	}
	ok, err := popts.Decider.Confirm(
		fmt.Sprintf("%q already exists on the package index", name),
		"Continue anyway?")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("new %s: %w", name, project.ErrDeclined)
	}
	return nil
}

func prepareTarget(ctx context.Context, target string, popts project.Options) error {
	_, err := popts.FS.Stat(ctx, target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", target, err)
	}

	ok, err := popts.Decider.Confirm(
		fmt.Sprintf("%q already exists", target),
		"Overwrite it? Its current contents will be deleted.")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("new %s: %w", filepath.Base(target), project.ErrDeclined)
	}
	if err := popts.FS.RemoveAll(ctx, target); err != nil {
		return fmt.Errorf("failed to remove %s: %w", target, err)
	}
	return nil
}

// populate fills the template manifest from the options and the user
// configuration.
func populate(p *project.Project, opts Options) {
	m := p.Manifest
	m.Name = strings.TrimSpace(opts.Name)
	m.Description = opts.Description
	m.Dependencies = slices.Clone(opts.Dependencies)
	m.Keywords = slices.Clone(opts.Keywords)

	for _, a := range p.Config.Authors {
		m.Authors = append(m.Authors, manifest.Author{Name: a.Name, Email: a.Email})
	}
	for label, url := range p.Config.ProjectURLs.Expand(m.Name) {
		m.SetURL(label, url)
	}

	classifiers := slices.Clone(m.Classifiers)
	if opts.OperatingSystem != "" {
		if i := slices.Index(classifiers, defaultOSClassifier); i >= 0 {
			classifiers[i] = osClassifierPrefix + opts.OperatingSystem
		}
	}
	if opts.NoLicense {
		classifiers = slices.DeleteFunc(classifiers, func(c string) bool {
			return c == LicenseClassifier
		})
	}
	m.Classifiers = classifiers

	if opts.AddScript {
		p.AddScript(m.Name, "", "main")
	}
}

type writer struct {
	fs  core.FileSystem
	dir string
}

func (w *writer) write(ctx context.Context, rel, content string) error {
	full := filepath.Join(w.dir, filepath.FromSlash(rel))
	if err := w.fs.MkdirAll(ctx, filepath.Dir(full), core.PermDirPublic); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := w.fs.WriteFile(ctx, full, []byte(content), core.PermPublicR); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

func (w *writer) files(ctx context.Context, p *project.Project, opts Options) error {
	m := p.Manifest
	module := m.ImportName()

	srcDir := path.Join("src", module)
	if opts.NotPackage {
		srcDir = ""
	}

	sources := opts.SourceFiles
	if len(sources) == 0 {
		sources = []string{"__init__.py", module + ".py"}
	}
	for _, file := range sources {
		content := ""
		if file == module+".py" {
			content = mainModule()
		}
		if err := w.write(ctx, path.Join(srcDir, file), content); err != nil {
			return err
		}
	}

	if err := w.write(ctx, "tests/__init__.py", ""); err != nil {
		return err
	}
	if err := w.write(ctx, "README.md", readme(m.Name, m.Description)); err != nil {
		return err
	}
	if err := w.write(ctx, ".gitignore", gitignore()); err != nil {
		return err
	}
	if !opts.NoLicense {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		if err := w.write(ctx, licenseFileName, license(now().Year(), licenseHolder(m))); err != nil {
			return err
		}
	}

	settings, err := vscodeSettings(nil)
	if err != nil {
		return err
	}
	return w.write(ctx, editorSettingsPath, string(settings))
}

func licenseHolder(m *manifest.Manifest) string {
	names := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return defaultLicenseHolder
	}
	return strings.Join(names, ", ")
}

func initRepository(ctx context.Context, git vcs.Git) error {
	if err := git.Init(ctx); err != nil {
		return err
	}
	if err := git.AddAll(ctx); err != nil {
		return err
	}
	return git.CommitAll(ctx, vcs.InitialCommitTemplate)
}
