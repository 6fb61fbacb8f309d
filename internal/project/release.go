package project

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/indaco/keel/internal/changelog"
	"github.com/indaco/keel/internal/semver"
	"github.com/indaco/keel/internal/vcs"
)

// TagName is the release tag for the current version.
func (p *Project) TagName() string {
	return vcs.TagName(p.Config.Git.TagPrefix, p.Manifest.Version)
}

// UpdateChangelog regenerates CHANGELOG.md, labelling untagged commits
// with the current version.
func (p *Project) UpdateChangelog(ctx context.Context) error {
	return p.Changelog.Generate(ctx, p.Dir, changelog.Options{
		TagPrefix: p.Config.Git.TagPrefix,
		Version:   p.Manifest.Version.String(),
	})
}

// Tag creates the release tag for the current version.
func (p *Project) Tag(ctx context.Context) error {
	tag := p.TagName()
	exists, err := p.Git.TagExists(ctx, tag)
	if err != nil {
		return err
	}
	if exists {
		return &TagExistsError{Tag: tag}
	}
	return p.Git.Tag(ctx, tag)
}

// UpdateOptions control Update.
type UpdateOptions struct {
	Kind  semver.BumpKind
	Build BuildOptions
	// ReviewChangelog pauses after the changelog is regenerated so it can
	// be edited before it is committed.
	ReviewChangelog bool
	Publish         bool
	Install         bool
}

// Update cuts a release: bump, build, commit, tag, changelog, retag, sync
// with the remote and optionally publish and install.
//
// The changelog generator only attributes commits to tagged releases, so
// the build commit is tagged first, the changelog generated, and the tag
// moved onto the changelog commit.
func (p *Project) Update(ctx context.Context, opts UpdateOptions) error {
	if err := p.BumpVersion(opts.Kind); err != nil {
		return err
	}
	if err := p.Build(ctx, opts.Build); err != nil {
		return err
	}

	data := vcs.NewTemplateData(p.Manifest.Version, p.Config.Git.TagPrefix)
	tag := data.Tag

	if err := p.Git.AddAll(ctx); err != nil {
		return err
	}
	if err := p.Git.CommitAll(ctx, vcs.FormatMessage(vcs.BuildCommitTemplate, data)); err != nil {
		return err
	}
	if err := p.Git.Tag(ctx, tag); err != nil {
		return err
	}
	if err := p.UpdateChangelog(ctx); err != nil {
		return err
	}
	if err := p.Git.DeleteTag(ctx, tag); err != nil {
		return err
	}

	if opts.ReviewChangelog {
		ok, err := p.Decider.Confirm("Continue with the release?",
			"CHANGELOG.md was regenerated. Edit it now if needed, then confirm.")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("release %s: %w", tag, ErrDeclined)
		}
	}

	if err := p.Git.AddFiles(ctx, changelog.FileName); err != nil {
		return err
	}
	if err := p.Git.Commit(ctx, vcs.FormatMessage(vcs.ChangelogCommitTemplate, data), changelog.FileName); err != nil {
		return err
	}
	if err := p.Git.Tag(ctx, tag); err != nil {
		return err
	}

	if err := p.Sync(ctx); err != nil {
		return err
	}

	if opts.Publish {
		if err := p.Publish(ctx); err != nil {
			return err
		}
	}
	if opts.Install {
		return p.Install(ctx)
	}
	return nil
}

// Sync pulls and then pushes the current branch with tags.
func (p *Project) Sync(ctx context.Context) error {
	branch, err := p.Git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	remote := p.Config.Git.Remote
	if err := p.Git.Pull(ctx, remote, branch); err != nil {
		return err
	}
	return p.Git.Push(ctx, remote, branch)
}

// OnPrimaryBranch reports the current branch and whether it is one of
// the configured primary branches. A detached HEAD is never primary.
func (p *Project) OnPrimaryBranch(ctx context.Context) (string, bool, error) {
	branch, err := p.Git.CurrentBranch(ctx)
	if errors.Is(err, vcs.ErrDetachedHead) {
		return "HEAD", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return branch, slices.Contains(p.Config.Git.PrimaryBranches, branch), nil
}

// Publish uploads dist/. Publishing from a branch other than a primary
// one requires confirmation.
func (p *Project) Publish(ctx context.Context) error {
	branch, primary, err := p.OnPrimaryBranch(ctx)
	if err != nil {
		return err
	}
	if !primary {
		p.Warnf("%s does not appear to be on its primary branch (on %q)", p.Name(), branch)
		ok, err := p.Decider.Confirm(
			fmt.Sprintf("Publish from branch %q?", branch),
			fmt.Sprintf("Releases are expected from %s.", strings.Join(p.Config.Git.PrimaryBranches, ", ")))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("publish: %w", ErrDeclined)
		}
	}
	return p.Tools.Publish(ctx, p.Dir)
}

// Install installs the published package.
func (p *Project) Install(ctx context.Context) error {
	return p.Tools.Install(ctx, p.Dir, p.Name())
}

// IsPublished reports whether the index already carries the current
// version (or a newer one).
func (p *Project) IsPublished(ctx context.Context) (bool, error) {
	latest, err := p.Index.LatestVersion(ctx, p.Name())
	if err != nil {
		return false, err
	}
	if latest == "" {
		return false, nil
	}
	v, err := semver.ParseVersion(latest)
	if err != nil {
		return latest == p.Manifest.Version.String(), nil
	}
	return v.Compare(p.Manifest.Version) >= 0, nil
}
