// Package registry answers questions about the package index: whether a
// name is taken and which version was published last.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/git-pkgs/registries"
	_ "github.com/git-pkgs/registries/all"
)

// Index is the package index keel publishes to.
type Index interface {
	// Exists reports whether a project called name is registered.
	Exists(ctx context.Context, name string) (bool, error)
	// LatestVersion returns the newest published release of name, or ""
	// when the project does not exist or has no usable release.
	LatestVersion(ctx context.Context, name string) (string, error)
}

// PyPI is an Index backed by the PyPI JSON API.
type PyPI struct {
	reg registries.Registry
}

var _ Index = (*PyPI)(nil)

// NewPyPI returns a PyPI index rooted at baseURL ("" for pypi.org).
func NewPyPI(baseURL string) (*PyPI, error) {
	reg, err := registries.New("pypi", baseURL, registries.DefaultClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create package index client: %w", err)
	}
	return &PyPI{reg: reg}, nil
}

func (p *PyPI) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := p.reg.FetchPackage(ctx, name); err != nil {
		if errors.Is(err, registries.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query package index for %q: %w", name, err)
	}
	return true, nil
}

func (p *PyPI) LatestVersion(ctx context.Context, name string) (string, error) {
	v, err := registries.FetchLatestVersion(ctx, p.reg, name)
	if err != nil {
		if errors.Is(err, registries.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to fetch latest version of %q: %w", name, err)
	}
	if v == nil {
		return "", nil
	}
	return v.Number, nil
}

// Fake is an in-memory Index for tests. Packages maps a project name to
// its latest version ("" for a project with no releases).
type Fake struct {
	mu       sync.Mutex
	Packages map[string]string
	Err      error
	Queries  []string
}

var _ Index = (*Fake)(nil)

// Exists implements Index.
func (f *Fake) Exists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, name)
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.Packages[name]
	return ok, nil
}

// LatestVersion implements Index.
func (f *Fake) LatestVersion(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, name)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Packages[name], nil
}
