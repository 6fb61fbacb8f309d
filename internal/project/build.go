package project

import (
	"context"

	"github.com/indaco/keel/internal/operations"
)

// BuildOptions control Build.
type BuildOptions struct {
	SkipTests             bool
	OverwriteDependencies bool
	IncludeVersions       bool
}

// BuildSteps returns the build pipeline: tests (unless skipped), format,
// dependencies, requires-python, docs, clean dist, save manifest, build.
// The manifest is saved before the build so the artifacts carry the
// updated metadata.
func (p *Project) BuildSteps(opts BuildOptions) *operations.Sequence {
	seq := operations.NewSequence()
	seq.Wrap = p.Wrap

	if !opts.SkipTests {
		seq.AddFunc("Running tests", p.RunTests)
	}
	seq.AddFunc("Formatting sources", p.FormatSources).
		AddFunc("Updating dependencies", func(ctx context.Context) error {
			return p.UpdateDependencies(ctx, opts.OverwriteDependencies, opts.IncludeVersions)
		}).
		AddFunc("Updating minimum Python version", p.UpdateMinimumPython).
		AddFunc("Generating docs", p.GenerateDocs).
		AddFunc("Cleaning dist", func(ctx context.Context) error {
			return p.Tools.CleanDist(ctx, p.Dir)
		}).
		AddFunc("Saving pyproject.toml", p.Save).
		AddFunc("Building distributions", func(ctx context.Context) error {
			return p.Tools.Build(ctx, p.Dir)
		})
	return seq
}

// Build runs the build pipeline.
func (p *Project) Build(ctx context.Context, opts BuildOptions) error {
	return p.BuildSteps(opts).Execute(ctx)
}
