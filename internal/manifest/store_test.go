package manifest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/indaco/keel/internal/core"
	"github.com/indaco/keel/internal/semver"
)

func TestStoreLoad_NotFound(t *testing.T) {
	store := NewStore(core.NewMockFileSystem())

	_, err := store.Load(context.Background(), "/proj/pyproject.toml")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
	if nf.Path != "/proj/pyproject.toml" {
		t.Errorf("Path = %q", nf.Path)
	}
	if !strings.Contains(err.Error(), "manifest not found") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestStoreLoad_ParseErrorCarriesPath(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/proj/pyproject.toml", []byte("[project]\nname = \"x\"\n"))

	_, err := NewStore(fs).Load(context.Background(), "/proj/pyproject.toml")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.Path != "/proj/pyproject.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if !strings.Contains(err.Error(), "project.version") {
		t.Errorf("error should name the missing field: %v", err)
	}
}

func TestStoreLoad_ReadError(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.ReadErr = errors.New("disk on fire")

	_, err := NewStore(fs).Load(context.Background(), "/proj/pyproject.toml")
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		t.Error("read failure must not be reported as not found")
	}
}

func TestStoreSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := core.NewMockFileSystem()
	fs.SetFile("/proj/pyproject.toml", []byte(sampleTOML))
	store := NewStore(fs)

	m, err := store.Load(ctx, "/proj/pyproject.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := store.Save(ctx, m, "/proj/pyproject.toml"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := fs.GetFile("/proj/pyproject.toml")
	if string(data) != sampleTOML {
		t.Errorf("unmodified save changed the file:\n%s", data)
	}

	m.Version, _ = semver.Bump(m.Version, semver.BumpMinor)
	if err := store.Save(ctx, m, "/proj/pyproject.toml"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	saved, _ := fs.GetFile("/proj/pyproject.toml")

	// The saved bytes are the new baseline.
	again, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(again) != string(saved) {
		t.Errorf("second marshal differs from saved file")
	}

	reloaded, err := store.Load(ctx, "/proj/pyproject.toml")
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if reloaded.Version.String() != "1.3.0" {
		t.Errorf("Version = %s, want 1.3.0", reloaded.Version)
	}
}

func TestStoreSave_WriteError(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.WriteErr = errors.New("read-only")

	m := New("x", semver.SemVersion{Patch: 1})
	err := NewStore(fs).Save(context.Background(), m, "/proj/pyproject.toml")
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Fatalf("expected write error, got %v", err)
	}
}
