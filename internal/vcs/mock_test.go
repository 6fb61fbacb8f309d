package vcs

import (
	"context"
	"slices"
	"testing"

	"github.com/indaco/keel/internal/semver"
)

func semverOf(major, minor, patch int) semver.SemVersion {
	return semver.SemVersion{Major: major, Minor: minor, Patch: patch}
}

func TestMockGit_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	m := &MockGit{}

	_ = m.AddAll(ctx)
	_ = m.CommitAll(ctx, "msg")
	_ = m.Tag(ctx, "v1")
	_ = m.DeleteTag(ctx, "v1")

	want := []string{"add .", "commit -a -m msg", "tag v1", "tag -d v1"}
	if !slices.Equal(m.Calls, want) {
		t.Errorf("Calls = %q, want %q", m.Calls, want)
	}
	if ok, _ := m.TagExists(ctx, "v1"); ok {
		t.Error("deleted tag still reported")
	}
	if branch, _ := m.CurrentBranch(ctx); branch != DefaultBranch {
		t.Errorf("CurrentBranch() = %q", branch)
	}
}
