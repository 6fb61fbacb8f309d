package vcs

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/indaco/keel/internal/core"
)

/* ------------------------------------------------------------------------- */
/* CLI-BACKED OPERATIONS                                                     */
/* ------------------------------------------------------------------------- */

func TestOSGit_Commands(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		run  func(g *OSGit) error
		want string
	}{
		{"add all", func(g *OSGit) error { return g.AddAll(ctx) }, "git add ."},
		{"add files", func(g *OSGit) error { return g.AddFiles(ctx, "CHANGELOG.md") }, "git add -- CHANGELOG.md"},
		{"commit index", func(g *OSGit) error { return g.Commit(ctx, "msg") }, "git commit -m msg"},
		{"commit files", func(g *OSGit) error { return g.Commit(ctx, "msg", "CHANGELOG.md") }, "git commit -m msg -- CHANGELOG.md"},
		{"commit all", func(g *OSGit) error { return g.CommitAll(ctx, "chore: build v1.0.0") }, "git commit -a -m chore: build v1.0.0"},
		{"tag", func(g *OSGit) error { return g.Tag(ctx, "v1.0.0") }, "git tag v1.0.0"},
		{"delete tag", func(g *OSGit) error { return g.DeleteTag(ctx, "v1.0.0") }, "git tag -d v1.0.0"},
		{"pull", func(g *OSGit) error { return g.Pull(ctx, "origin", "main") }, "git pull origin main --tags"},
		{"push", func(g *OSGit) error { return g.Push(ctx, "origin", "main") }, "git push origin main --tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &core.MockCommandRunner{}
			g := NewOSGit("/repo", runner)

			if err := tt.run(g); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := runner.Commands(); !slices.Equal(got, []string{tt.want}) {
				t.Errorf("commands = %q, want %q", got, tt.want)
			}
			if runner.Calls[0].Dir != "/repo" {
				t.Errorf("Dir = %q, want /repo", runner.Calls[0].Dir)
			}
		})
	}
}

func TestOSGit_AddFilesNoop(t *testing.T) {
	runner := &core.MockCommandRunner{}
	if err := NewOSGit("/repo", runner).AddFiles(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("expected no git call, got %q", runner.Commands())
	}
}

func TestOSGit_Errors(t *testing.T) {
	t.Run("stderr is surfaced", func(t *testing.T) {
		runner := &core.MockCommandRunner{
			RunFn: func(string, []string) (core.Result, error) {
				return core.Result{ExitCode: 128, Stderr: "fatal: tag 'v1' already exists\n"}, nil
			},
		}
		err := NewOSGit("/repo", runner).Tag(context.Background(), "v1")
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected stderr in error, got %v", err)
		}
	})

	t.Run("exit code without stderr", func(t *testing.T) {
		runner := &core.MockCommandRunner{
			RunFn: func(string, []string) (core.Result, error) {
				return core.Result{ExitCode: 1}, nil
			},
		}
		err := NewOSGit("/repo", runner).Push(context.Background(), "origin", "main")
		if err == nil || !strings.Contains(err.Error(), "exit code 1") {
			t.Errorf("expected exit code in error, got %v", err)
		}
	})

	t.Run("runner failure is wrapped", func(t *testing.T) {
		boom := errors.New("git not found")
		runner := &core.MockCommandRunner{
			RunFn: func(string, []string) (core.Result, error) { return core.Result{}, boom },
		}
		err := NewOSGit("/repo", runner).AddAll(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped runner error, got %v", err)
		}
	})
}

/* ------------------------------------------------------------------------- */
/* GO-GIT BACKED OPERATIONS                                                  */
/* ------------------------------------------------------------------------- */

// commitFile creates an initial commit in the repository at dir.
func commitFile(t *testing.T, dir string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := core.NewOSFileSystem().WriteFile(context.Background(), filepath.Join(dir, "README.md"), []byte("# x\n"), core.PermPublicR); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}

func TestOSGit_InitAndCurrentBranch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	g := NewOSGit(dir, &core.MockCommandRunner{})

	if err := g.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	commitFile(t, dir)

	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != DefaultBranch {
		t.Errorf("CurrentBranch() = %q, want %q", branch, DefaultBranch)
	}

	if err := g.Init(ctx); err == nil {
		t.Error("expected error re-initializing an existing repository")
	}
}

func TestOSGit_CurrentBranchFromSubdirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := NewOSGit(dir, nil).Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	commitFile(t, dir)

	sub := filepath.Join(dir, "src")
	if err := core.NewOSFileSystem().MkdirAll(ctx, sub, core.PermDirPublic); err != nil {
		t.Fatal(err)
	}
	branch, err := NewOSGit(sub, nil).CurrentBranch(ctx)
	if err != nil || branch != DefaultBranch {
		t.Errorf("CurrentBranch() = %q, %v", branch, err)
	}
}

func TestOSGit_TagExists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	g := NewOSGit(dir, nil)
	if err := g.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	hash := commitFile(t, dir)

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateTag("v1.0.0", hash, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	for name, want := range map[string]bool{"v1.0.0": true, "v2.0.0": false} {
		got, err := g.TagExists(ctx, name)
		if err != nil {
			t.Fatalf("TagExists(%q) error = %v", name, err)
		}
		if got != want {
			t.Errorf("TagExists(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOSGit_NotARepository(t *testing.T) {
	g := NewOSGit(t.TempDir(), nil)
	if _, err := g.CurrentBranch(context.Background()); err == nil {
		t.Error("expected error outside a repository")
	}
}

/* ------------------------------------------------------------------------- */
/* TEMPLATES                                                                 */
/* ------------------------------------------------------------------------- */

func TestFormatMessage(t *testing.T) {
	data := NewTemplateData(semverOf(1, 2, 3), "v")
	tests := map[string]string{
		BuildCommitTemplate:                "chore: build v1.2.3",
		ChangelogCommitTemplate:            "chore: update changelog",
		"{prefix}|{major}.{minor}.{patch}": "v|1.2.3",
		"release {version} {unknown}":      "release 1.2.3 {unknown}",
	}
	for tmpl, want := range tests {
		if got := FormatMessage(tmpl, data); got != want {
			t.Errorf("FormatMessage(%q) = %q, want %q", tmpl, got, want)
		}
	}
}
