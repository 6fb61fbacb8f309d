package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// Injected failures.
	ReadErr  error
	WriteErr error
}

// NewMockFileSystem returns an empty in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

var _ FileSystem = (*MockFileSystem)(nil)

// SetFile stores data at p, creating parent directories.
func (m *MockFileSystem) SetFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.files[p] = slices.Clone(data)
	m.addParents(p)
}

// GetFile returns the content stored at p.
func (m *MockFileSystem) GetFile(p string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path.Clean(p)]
	return data, ok
}

// Paths returns every stored file path, sorted.
func (m *MockFileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (m *MockFileSystem) addParents(p string) {
	for dir := path.Dir(p); dir != "." && dir != "/" && !m.dirs[dir]; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
}

func (m *MockFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

func (m *MockFileSystem) WriteFile(ctx context.Context, p string, data []byte, _ os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.SetFile(p, data)
	return nil
}

func (m *MockFileSystem) Stat(ctx context.Context, p string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p = path.Clean(p)
	if data, ok := m.files[p]; ok {
		return mockFileInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	if m.dirs[p] {
		return mockFileInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) MkdirAll(ctx context.Context, p string, _ os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.dirs[p] = true
	m.addParents(p)
	return nil
}

func (m *MockFileSystem) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		return nil
	}
	if m.dirs[p] {
		delete(m.dirs, p)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) RemoveAll(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	prefix := p + "/"
	for f := range m.files {
		if f == p || strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if d == p || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

func (m *MockFileSystem) ReadDir(ctx context.Context, p string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p = path.Clean(p)
	if !m.dirs[p] {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []os.DirEntry
	for f, data := range m.files {
		if path.Dir(f) == p && !seen[f] {
			seen[f] = true
			entries = append(entries, fs.FileInfoToDirEntry(mockFileInfo{name: path.Base(f), size: int64(len(data))}))
		}
	}
	for d := range m.dirs {
		if path.Dir(d) == p && d != p && !seen[d] {
			seen[d] = true
			entries = append(entries, fs.FileInfoToDirEntry(mockFileInfo{name: path.Base(d), dir: true}))
		}
	}
	slices.SortFunc(entries, func(a, b os.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return entries, nil
}

type mockFileInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockFileInfo) Name() string       { return i.name }
func (i mockFileInfo) Size() int64        { return i.size }
func (i mockFileInfo) ModTime() time.Time { return time.Time{} }
func (i mockFileInfo) IsDir() bool        { return i.dir }
func (i mockFileInfo) Sys() any           { return nil }
func (i mockFileInfo) Mode() os.FileMode {
	if i.dir {
		return fs.ModeDir | PermDirPublic
	}
	return PermPublicR
}

// Call records a single MockCommandRunner invocation.
type Call struct {
	Dir  string
	Argv []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.Join(c.Argv, " ")
}

// MockCommandRunner records invocations and returns canned results.
type MockCommandRunner struct {
	mu    sync.Mutex
	Calls []Call

	// RunFn, when set, decides the result of each call.
	RunFn func(dir string, argv []string) (Result, error)
}

var _ CommandRunner = (*MockCommandRunner)(nil)

// Run implements CommandRunner.
func (m *MockCommandRunner) Run(ctx context.Context, dir string, argv []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(argv) == 0 {
		return Result{}, fmt.Errorf("empty command")
	}
	m.mu.Lock()
	m.Calls = append(m.Calls, Call{Dir: dir, Argv: slices.Clone(argv)})
	m.mu.Unlock()

	if m.RunFn != nil {
		return m.RunFn(dir, argv)
	}
	return Result{}, nil
}

// Commands returns every recorded call rendered as a command line.
func (m *MockCommandRunner) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.String()
	}
	return out
}
