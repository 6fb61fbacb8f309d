package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/indaco/keel/internal/core"
)

// FileName is the manifest file name inside a project directory.
const FileName = "pyproject.toml"

// Store loads and saves manifests through a FileSystem.
type Store struct {
	fs core.FileSystem
}

// NewStore returns a Store backed by fs.
func NewStore(fs core.FileSystem) *Store {
	return &Store{fs: fs}
}

// Load reads and parses the manifest at path.
func (s *Store) Load(ctx context.Context, path string) (*Manifest, error) {
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read manifest at %q: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Save writes m to path. On success the written bytes become the
// manifest's new baseline.
func (s *Store) Save(ctx context.Context, m *Manifest, path string) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode manifest for %q: %w", path, err)
	}
	if err := s.fs.WriteFile(ctx, path, data, core.PermPublicR); err != nil {
		return fmt.Errorf("failed to write manifest at %q: %w", path, err)
	}
	m.commit(data)
	return nil
}
