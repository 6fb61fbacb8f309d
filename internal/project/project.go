package project

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/indaco/keel/internal/changelog"
	"github.com/indaco/keel/internal/config"
	"github.com/indaco/keel/internal/core"
	"github.com/indaco/keel/internal/deps"
	"github.com/indaco/keel/internal/manifest"
	"github.com/indaco/keel/internal/operations"
	"github.com/indaco/keel/internal/registry"
	"github.com/indaco/keel/internal/semver"
	"github.com/indaco/keel/internal/toolchain"
	"github.com/indaco/keel/internal/tui"
	"github.com/indaco/keel/internal/vcs"
)

// Project is a Python project on disk together with its collaborators.
type Project struct {
	Dir      string
	Manifest *manifest.Manifest
	Config   *config.Config

	FS        core.FileSystem
	Runner    core.CommandRunner
	Tools     *toolchain.Toolchain
	Changelog *changelog.Generator
	Scanner   deps.Scanner
	Git       vcs.Git
	Index     registry.Index
	Decider   tui.Decider

	// Wrap decorates long-running build steps.
	Wrap operations.Wrapper
	// Warnf reports non-fatal problems to the user.
	Warnf func(format string, args ...any)

	store *manifest.Store
}

// Options carries the collaborators of a Project. Nil fields get
// production defaults.
type Options struct {
	Config    *config.Config
	FS        core.FileSystem
	Runner    core.CommandRunner
	Tools     *toolchain.Toolchain
	Changelog *changelog.Generator
	Scanner   deps.Scanner
	Git       vcs.Git
	Index     registry.Index
	Decider   tui.Decider
	Wrap      operations.Wrapper
	Warnf     func(format string, args ...any)
}

// Resolve fills every unset collaborator for a project rooted at dir.
func (o Options) Resolve(dir string) (Options, error) {
	o.Config = config.WithDefaults(o.Config)
	if o.FS == nil {
		o.FS = core.NewOSFileSystem()
	}
	if o.Runner == nil {
		o.Runner = core.NewOSCommandRunner()
	}
	if o.Tools == nil {
		o.Tools = toolchain.New(o.Runner, o.FS, o.Config.Tools)
	}
	if o.Changelog == nil {
		o.Changelog = changelog.NewGenerator(o.Runner, o.FS, o.Config.Tools.Changelog)
	}
	if o.Scanner == nil {
		o.Scanner = deps.NewCommandScanner(o.Runner, o.Config.Tools.Scanner)
	}
	if o.Git == nil {
		o.Git = vcs.NewOSGit(dir, o.Runner)
	}
	if o.Index == nil {
		idx, err := registry.NewPyPI(o.Config.Registry.URL)
		if err != nil {
			return o, err
		}
		o.Index = idx
	}
	if o.Decider == nil {
		o.Decider = tui.NewDecider(false)
	}
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	return o, nil
}

// New returns a project rooted at dir for an already built manifest.
func New(dir string, m *manifest.Manifest, opts Options) (*Project, error) {
	opts, err := opts.Resolve(dir)
	if err != nil {
		return nil, err
	}
	return &Project{
		Dir:       dir,
		Manifest:  m,
		Config:    opts.Config,
		FS:        opts.FS,
		Runner:    opts.Runner,
		Tools:     opts.Tools,
		Changelog: opts.Changelog,
		Scanner:   opts.Scanner,
		Git:       opts.Git,
		Index:     opts.Index,
		Decider:   opts.Decider,
		Wrap:      opts.Wrap,
		Warnf:     opts.Warnf,
		store:     manifest.NewStore(opts.FS),
	}, nil
}

// Load reads dir/pyproject.toml and returns the project.
func Load(ctx context.Context, dir string, opts Options) (*Project, error) {
	if opts.FS == nil {
		opts.FS = core.NewOSFileSystem()
	}
	m, err := manifest.NewStore(opts.FS).Load(ctx, filepath.Join(dir, manifest.FileName))
	if err != nil {
		return nil, err
	}
	return New(dir, m, opts)
}

// ManifestPath is the location of the project's pyproject.toml.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.Dir, manifest.FileName)
}

// Save writes the manifest back, touching only fields that changed.
func (p *Project) Save(ctx context.Context) error {
	return p.store.Save(ctx, p.Manifest, p.ManifestPath())
}

// Name is the distribution name.
func (p *Project) Name() string {
	return p.Manifest.Name
}

// Version is the current manifest version.
func (p *Project) Version() semver.SemVersion {
	return p.Manifest.Version
}

// PackagePath returns the module directory, relative to Dir, for a src
// layout project, and false for a flat project.
func (p *Project) PackagePath(ctx context.Context) (string, bool) {
	rel := path.Join("src", p.Manifest.ImportName())
	if p.exists(ctx, rel) {
		return rel, true
	}
	return "", false
}

// SourceRoot is the directory holding the project's Python code.
func (p *Project) SourceRoot(ctx context.Context) string {
	if p.exists(ctx, "src") {
		return "src"
	}
	return "."
}

func (p *Project) exists(ctx context.Context, rel string) bool {
	_, err := p.FS.Stat(ctx, filepath.Join(p.Dir, rel))
	return err == nil
}

// BumpVersion increments the manifest version in memory.
func (p *Project) BumpVersion(kind semver.BumpKind) error {
	next, err := semver.Bump(p.Manifest.Version, kind)
	if err != nil {
		return err
	}
	p.Manifest.Version = next
	return nil
}

// UpdateDependencies reconciles the declared dependencies with the
// scanner's findings.
func (p *Project) UpdateDependencies(ctx context.Context, overwrite, includeVersions bool) error {
	detected, err := p.Scanner.Scan(ctx, p.Dir)
	if err != nil {
		return err
	}
	p.Manifest.Dependencies = deps.Reconcile(p.Manifest.Dependencies, detected, deps.Options{
		Overwrite:       overwrite,
		IncludeVersions: includeVersions,
		ProjectName:     p.Manifest.Name,
		Renames:         deps.DefaultRenames().Merge(p.Config.Renames),
	})
	return nil
}

// UpdateMinimumPython sets requires-python from the version finder.
func (p *Project) UpdateMinimumPython(ctx context.Context) error {
	constraint, err := p.Tools.MinimumPython(ctx, p.Dir, p.SourceRoot(ctx))
	if err != nil {
		return err
	}
	p.Manifest.RequiresPython = constraint
	return nil
}

// FormatSources runs the configured formatters.
func (p *Project) FormatSources(ctx context.Context) error {
	return p.Tools.Format(ctx, p.Dir)
}

// GenerateDocs rebuilds docs/. Flat projects have no package to document
// and are skipped.
func (p *Project) GenerateDocs(ctx context.Context) error {
	pkg, ok := p.PackagePath(ctx)
	if !ok {
		return nil
	}
	return p.Tools.Docs(ctx, p.Dir, pkg)
}

// RunTests runs the test suite.
func (p *Project) RunTests(ctx context.Context) error {
	return p.Tools.Test(ctx, p.Dir)
}

// AddScript registers a console script name pointing at function in the
// module file of the project's package. function defaults to "main".
func (p *Project) AddScript(name, file, function string) {
	if function == "" {
		function = "main"
	}
	p.Manifest.SetScript(name, ScriptTarget(p.Manifest.ImportName(), file, function))
}

// ScriptTarget builds an entry point reference such as "pkg.cli:main".
// An empty file refers to the module named after the package.
func ScriptTarget(pkg, file, function string) string {
	module := strings.TrimSuffix(filepath.ToSlash(file), ".py")
	if module == "" {
		module = pkg
	}
	module = strings.ReplaceAll(path.Clean(module), "/", ".")
	return pkg + "." + module + ":" + function
}
