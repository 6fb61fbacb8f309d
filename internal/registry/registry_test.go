package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const demoJSON = `{
  "info": {"name": "demo", "version": "1.2.0", "summary": "demo package"},
  "releases": {
    "1.0.0": [{"upload_time": "2024-01-01T00:00:00", "yanked": false}],
    "1.2.0": [{"upload_time": "2024-06-01T00:00:00", "yanked": false}],
    "1.3.0": [{"upload_time": "2024-07-01T00:00:00", "yanked": true}]
  }
}`

func newTestIndex(t *testing.T) *PyPI {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pypi/demo/json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(demoJSON))
	}))
	t.Cleanup(server.Close)

	idx, err := NewPyPI(server.URL)
	if err != nil {
		t.Fatalf("NewPyPI() error = %v", err)
	}
	return idx
}

func TestPyPI_Exists(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	tests := map[string]bool{"demo": true, "missing": false}
	for name, want := range tests {
		got, err := idx.Exists(ctx, name)
		if err != nil {
			t.Fatalf("Exists(%q) error = %v", name, err)
		}
		if got != want {
			t.Errorf("Exists(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPyPI_LatestVersion(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	got, err := idx.LatestVersion(ctx, "demo")
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if got != "1.2.0" {
		t.Errorf("LatestVersion() = %q, want 1.2.0 (yanked releases are skipped)", got)
	}

	got, err = idx.LatestVersion(ctx, "missing")
	if err != nil || got != "" {
		t.Errorf("LatestVersion(missing) = %q, %v; want empty, nil", got, err)
	}
}

func TestFake(t *testing.T) {
	f := &Fake{Packages: map[string]string{"taken": "0.4.1"}}
	ctx := context.Background()

	if ok, _ := f.Exists(ctx, "taken"); !ok {
		t.Error("Exists(taken) = false")
	}
	if ok, _ := f.Exists(ctx, "free"); ok {
		t.Error("Exists(free) = true")
	}
	if v, _ := f.LatestVersion(ctx, "taken"); v != "0.4.1" {
		t.Errorf("LatestVersion(taken) = %q", v)
	}
	if len(f.Queries) != 3 {
		t.Errorf("Queries = %v", f.Queries)
	}
}
