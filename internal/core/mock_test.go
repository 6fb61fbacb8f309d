package core

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestMockFileSystem_ReadWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMockFileSystem()

	if _, err := m.ReadFile(ctx, "/proj/pyproject.toml"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	if err := m.WriteFile(ctx, "/proj/pyproject.toml", []byte("x"), PermPublicR); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := m.ReadFile(ctx, "/proj/pyproject.toml")
	if err != nil || string(data) != "x" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}

	info, err := m.Stat(ctx, "/proj")
	if err != nil || !info.IsDir() {
		t.Fatalf("expected /proj to be a directory, got %v, %v", info, err)
	}
}

func TestMockFileSystem_RemoveAllAndReadDir(t *testing.T) {
	ctx := context.Background()
	m := NewMockFileSystem()
	m.SetFile("/p/dist/a.whl", []byte("a"))
	m.SetFile("/p/dist/b.tar.gz", []byte("b"))
	m.SetFile("/p/README.md", []byte("r"))

	entries, err := m.ReadDir(ctx, "/p")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "README.md" || entries[1].Name() != "dist" {
		t.Fatalf("unexpected entries: %v", entries)
	}

	if err := m.RemoveAll(ctx, "/p/dist"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, ok := m.GetFile("/p/dist/a.whl"); ok {
		t.Error("expected dist contents to be removed")
	}
	if _, ok := m.GetFile("/p/README.md"); !ok {
		t.Error("expected README.md to survive")
	}
}

func TestMockFileSystem_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMockFileSystem()
	m.SetFile("/a", []byte("a"))
	m.ReadErr = errors.New("boom")
	m.WriteErr = errors.New("bang")

	if _, err := m.ReadFile(ctx, "/a"); err == nil {
		t.Error("expected read error")
	}
	if err := m.WriteFile(ctx, "/a", nil, PermOwnerRW); err == nil {
		t.Error("expected write error")
	}
}

func TestMockCommandRunner(t *testing.T) {
	r := &MockCommandRunner{
		RunFn: func(dir string, argv []string) (Result, error) {
			if argv[0] == "pytest" {
				return Result{ExitCode: 1, Stderr: "1 failed"}, nil
			}
			return Result{Stdout: "ok"}, nil
		},
	}

	res, err := r.Run(context.Background(), "/p", []string{"black", "src"})
	if err != nil || !res.Success() || res.Stdout != "ok" {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
	res, _ = r.Run(context.Background(), "/p", []string{"pytest"})
	if res.Success() {
		t.Error("expected pytest to fail")
	}

	got := r.Commands()
	if len(got) != 2 || got[0] != "black src" || got[1] != "pytest" {
		t.Errorf("Commands() = %v", got)
	}
	if r.Calls[0].Dir != "/p" {
		t.Errorf("Dir = %q, want /p", r.Calls[0].Dir)
	}
}

func TestMockCommandRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &MockCommandRunner{}
	if _, err := r.Run(ctx, "", []string{"git", "status"}); err == nil {
		t.Error("expected context error")
	}
	if len(r.Calls) != 0 {
		t.Error("cancelled call should not be recorded")
	}
}
