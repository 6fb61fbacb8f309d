package vcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/indaco/keel/internal/core"
)

// DefaultBranch is the initial branch of repositories created by Init.
const DefaultBranch = "main"

// Git is the set of repository operations keel needs.
type Git interface {
	AddAll(ctx context.Context) error
	AddFiles(ctx context.Context, files ...string) error
	Commit(ctx context.Context, message string, files ...string) error
	CommitAll(ctx context.Context, message string) error
	Tag(ctx context.Context, name string) error
	DeleteTag(ctx context.Context, name string) error
	Pull(ctx context.Context, remote, branch string) error
	Push(ctx context.Context, remote, branch string) error
	CurrentBranch(ctx context.Context) (string, error)
	TagExists(ctx context.Context, name string) (bool, error)
	Init(ctx context.Context) error
}

// OSGit runs write operations through the git CLI, so the user's hooks,
// signing and credential helpers apply, and reads repository state with
// go-git.
type OSGit struct {
	Dir    string
	Runner core.CommandRunner
}

// NewOSGit returns an OSGit operating on the repository at dir.
func NewOSGit(dir string, runner core.CommandRunner) *OSGit {
	return &OSGit{Dir: dir, Runner: runner}
}

var _ Git = (*OSGit)(nil)

// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

func (g *OSGit) git(ctx context.Context, what string, args ...string) error {
	res, err := g.Runner.Run(ctx, g.Dir, append([]string{"git"}, args...))
	if err != nil {
		return fmt.Errorf("git %s failed: %w", what, err)
	}
	if !res.Success() {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return fmt.Errorf("git %s failed: %s", what, msg)
		}
		return fmt.Errorf("git %s failed with exit code %d", what, res.ExitCode)
	}
	return nil
}

func (g *OSGit) AddAll(ctx context.Context) error {
	return g.git(ctx, "add", "add", ".")
}

func (g *OSGit) AddFiles(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	return g.git(ctx, "add", append([]string{"add", "--"}, files...)...)
}

// Commit commits the given files, or the index when no files are given.
func (g *OSGit) Commit(ctx context.Context, message string, files ...string) error {
	args := []string{"commit", "-m", message}
	if len(files) > 0 {
		args = append(args, "--")
		args = append(args, files...)
	}
	return g.git(ctx, "commit", args...)
}

// CommitAll commits every tracked modification.
func (g *OSGit) CommitAll(ctx context.Context, message string) error {
	return g.git(ctx, "commit", "commit", "-a", "-m", message)
}

func (g *OSGit) Tag(ctx context.Context, name string) error {
	return g.git(ctx, "tag", "tag", name)
}

func (g *OSGit) DeleteTag(ctx context.Context, name string) error {
	return g.git(ctx, "tag delete", "tag", "-d", name)
}

// Pull pulls branch from remote, fetching tags.
func (g *OSGit) Pull(ctx context.Context, remote, branch string) error {
	return g.git(ctx, "pull", "pull", remote, branch, "--tags")
}

// Push pushes branch to remote along with tags.
func (g *OSGit) Push(ctx context.Context, remote, branch string) error {
	return g.git(ctx, "push", "push", remote, branch, "--tags")
}

func (g *OSGit) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(g.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", g.Dir, err)
	}
	return repo, nil
}

// CurrentBranch returns the short name of the checked out branch.
func (g *OSGit) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	repo, err := g.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// TagExists reports whether a tag named name exists.
func (g *OSGit) TagExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	repo, err := g.open()
	if err != nil {
		return false, err
	}
	if _, err := repo.Tag(name); err != nil {
		if errors.Is(err, git.ErrTagNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up tag %q: %w", name, err)
	}
	return true, nil
}

// Init creates a repository in Dir with DefaultBranch checked out.
func (g *OSGit) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := git.PlainInitWithOptions(g.Dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize git repository at %q: %w", g.Dir, err)
	}
	return nil
}
