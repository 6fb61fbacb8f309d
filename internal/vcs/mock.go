package vcs

import (
	"context"
	"strings"
	"sync"
)

// MockGit is a Git for tests. Every call is appended to Calls as a
// git-like command line; the Fn fields override individual operations.
type MockGit struct {
	mu    sync.Mutex
	Calls []string

	Branch string
	Tags   map[string]bool

	AddAllFn        func() error
	CommitFn        func(message string, files ...string) error
	CommitAllFn     func(message string) error
	TagFn           func(name string) error
	PullFn          func(remote, branch string) error
	PushFn          func(remote, branch string) error
	CurrentBranchFn func() (string, error)
	InitFn          func() error
}

var _ Git = (*MockGit)(nil)

func (m *MockGit) record(args ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, strings.Join(args, " "))
}

// AddAll implements Git.
func (m *MockGit) AddAll(context.Context) error {
	m.record("add", ".")
	if m.AddAllFn != nil {
		return m.AddAllFn()
	}
	return nil
}

// AddFiles implements Git.
func (m *MockGit) AddFiles(_ context.Context, files ...string) error {
	m.record(append([]string{"add"}, files...)...)
	return nil
}

// Commit implements Git.
func (m *MockGit) Commit(_ context.Context, message string, files ...string) error {
	m.record(append([]string{"commit", "-m", message}, files...)...)
	if m.CommitFn != nil {
		return m.CommitFn(message, files...)
	}
	return nil
}

// CommitAll implements Git.
func (m *MockGit) CommitAll(_ context.Context, message string) error {
	m.record("commit", "-a", "-m", message)
	if m.CommitAllFn != nil {
		return m.CommitAllFn(message)
	}
	return nil
}

// Tag implements Git.
func (m *MockGit) Tag(_ context.Context, name string) error {
	m.record("tag", name)
	if m.TagFn != nil {
		return m.TagFn(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Tags == nil {
		m.Tags = make(map[string]bool)
	}
	m.Tags[name] = true
	return nil
}

// DeleteTag implements Git.
func (m *MockGit) DeleteTag(_ context.Context, name string) error {
	m.record("tag", "-d", name)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tags, name)
	return nil
}

// Pull implements Git.
func (m *MockGit) Pull(_ context.Context, remote, branch string) error {
	m.record("pull", remote, branch, "--tags")
	if m.PullFn != nil {
		return m.PullFn(remote, branch)
	}
	return nil
}

// Push implements Git.
func (m *MockGit) Push(_ context.Context, remote, branch string) error {
	m.record("push", remote, branch, "--tags")
	if m.PushFn != nil {
		return m.PushFn(remote, branch)
	}
	return nil
}

// CurrentBranch implements Git.
func (m *MockGit) CurrentBranch(context.Context) (string, error) {
	if m.CurrentBranchFn != nil {
		return m.CurrentBranchFn()
	}
	if m.Branch == "" {
		return DefaultBranch, nil
	}
	return m.Branch, nil
}

// TagExists implements Git.
func (m *MockGit) TagExists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tags[name], nil
}

// Init implements Git.
func (m *MockGit) Init(context.Context) error {
	m.record("init")
	if m.InitFn != nil {
		return m.InitFn()
	}
	return nil
}
