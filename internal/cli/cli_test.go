package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/indaco/keel/internal/config"
	"github.com/indaco/keel/internal/core"
	"github.com/indaco/keel/internal/manifest"
	"github.com/indaco/keel/internal/registry"
	"github.com/indaco/keel/internal/semver"
	"github.com/indaco/keel/internal/session"
	"github.com/indaco/keel/internal/tui"
	"github.com/indaco/keel/internal/vcs"
	urfavecli "github.com/urfave/cli/v3"
)

const demoPyproject = `[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"

[project]
name = "demo"
version = "0.3.1"
dependencies = []
`

type testEnv struct {
	s      *session.Session
	dir    string
	runner *core.MockCommandRunner
	git    *vcs.MockGit
	index  *registry.Fake
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), demoPyproject)
	writeFile(t, filepath.Join(dir, "src", "demo", "__init__.py"), "")
	writeFile(t, filepath.Join(dir, "tests", "test_demo.py"), "")

	e := &testEnv{
		dir:   dir,
		git:   &vcs.MockGit{Branch: "main"},
		index: &registry.Fake{Packages: map[string]string{"requests": "2.31.0"}},
	}
	e.runner = &core.MockCommandRunner{RunFn: func(dir string, argv []string) (core.Result, error) {
		switch argv[0] {
		case "packagelister":
			return core.Result{Stdout: `{"requests": {"version": "2.31.0"}}`}, nil
		case "vermin":
			return core.Result{Stdout: "Minimum required versions: 3.10\n"}, nil
		case "auto-changelog":
			err := os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte("### v0.4.0\n- feat: thing\n"), 0o644)
			return core.Result{}, err
		}
		return core.Result{}, nil
	}}
	e.s = &session.Session{
		Dir:         dir,
		Config:      config.WithDefaults(&config.Config{Git: config.GitConfig{TagPrefix: "v"}}),
		ConfigFound: true,
		FS:          core.NewOSFileSystem(),
		Runner:      e.runner,
		Git:         e.git,
		Index:       e.index,
		Decider:     tui.FixedDecider{Answer: true},
		Stdout:      io.Discard,
	}
	return e
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	app := New(e.s)
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(context.Context, *urfavecli.Command, error) {}
	return app.Run(context.Background(), append([]string{"keel"}, args...))
}

func (e *testEnv) manifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, "pyproject.toml"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		t.Fatalf("pyproject.toml does not parse: %v", err)
	}
	return m
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

/* ------------------------------------------------------------------------- */
/* ROOT COMMAND                                                              */
/* ------------------------------------------------------------------------- */

func TestNew_RegistersCommands(t *testing.T) {
	app := New(&session.Session{})

	want := []string{
		"new", "build", "bump", "update", "changelog", "tag", "publish",
		"install", "test", "format", "deps", "add-script", "check-name",
		"published", "config", "configure", "sync",
	}
	var got []string
	for _, c := range app.Commands {
		got = append(got, c.Name)
	}
	for _, name := range want {
		if !slices.Contains(got, name) {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestNew_GlobalFlags(t *testing.T) {
	e := newTestEnv(t)
	other := t.TempDir()
	writeFile(t, filepath.Join(other, "pyproject.toml"), demoPyproject)

	if err := e.run(t, "--dir", other, "--yes", "--no-color", "bump", "patch"); err != nil {
		t.Fatalf("bump error = %v", err)
	}
	if e.s.Dir != other || !e.s.AssumeYes || !e.s.NoColor {
		t.Errorf("flags not applied: dir=%q yes=%v no-color=%v", e.s.Dir, e.s.AssumeYes, e.s.NoColor)
	}

	data, _ := os.ReadFile(filepath.Join(other, "pyproject.toml"))
	if !strings.Contains(string(data), `version = "0.3.2"`) {
		t.Errorf("--dir project not bumped:\n%s", data)
	}
	if got := e.manifest(t).Version.String(); got != "0.3.1" {
		t.Errorf("default project touched: %s", got)
	}
}

/* ------------------------------------------------------------------------- */
/* VERSION COMMANDS                                                          */
/* ------------------------------------------------------------------------- */

func TestBump(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"major", "1.0.0"},
		{"minor", "0.4.0"},
		{"patch", "0.3.2"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			e := newTestEnv(t)
			if err := e.run(t, "bump", tt.kind); err != nil {
				t.Fatalf("bump error = %v", err)
			}
			if got := e.manifest(t).Version.String(); got != tt.want {
				t.Errorf("version = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBump_InvalidKindDoesNoWork(t *testing.T) {
	for _, args := range [][]string{{"bump", "huge"}, {"bump"}, {"update", "pre"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			e := newTestEnv(t)
			err := e.run(t, args...)

			var invalid *semver.InvalidArgumentError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want InvalidArgumentError", err)
			}
			if len(e.runner.Calls) != 0 || len(e.git.Calls) != 0 {
				t.Errorf("work done before validation: %v %v", e.runner.Commands(), e.git.Calls)
			}
			if got := e.manifest(t).Version.String(); got != "0.3.1" {
				t.Errorf("version changed to %s", got)
			}
		})
	}
}

func TestTag(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "tag"); err != nil {
		t.Fatalf("tag error = %v", err)
	}
	if !slices.Equal(e.git.Calls, []string{"tag v0.3.1"}) {
		t.Errorf("git calls = %v", e.git.Calls)
	}

	if err := e.run(t, "tag"); err == nil {
		t.Error("second tag should fail because the tag exists")
	}
}

/* ------------------------------------------------------------------------- */
/* PROJECT COMMANDS                                                          */
/* ------------------------------------------------------------------------- */

func TestDeps(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "deps", "--include-versions"); err != nil {
		t.Fatalf("deps error = %v", err)
	}
	want := []string{"requests~=2.31.0"}
	if got := e.manifest(t).Dependencies; !slices.Equal(got, want) {
		t.Errorf("dependencies = %v, want %v", got, want)
	}
}

func TestDeps_DryRun(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "deps", "--dry-run"); err != nil {
		t.Fatalf("deps error = %v", err)
	}
	if got := e.manifest(t).Dependencies; len(got) != 0 {
		t.Errorf("dry run saved dependencies %v", got)
	}
}

func TestAddScript(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"add-script", "demo"}, "demo.demo:main"},
		{[]string{"add-script", "serve", "cli/server.py", "run"}, "demo.cli.server:run"},
	}

	for _, tt := range tests {
		t.Run(tt.args[1], func(t *testing.T) {
			e := newTestEnv(t)
			if err := e.run(t, tt.args...); err != nil {
				t.Fatalf("add-script error = %v", err)
			}
			if got := e.manifest(t).Scripts[tt.args[1]]; got != tt.want {
				t.Errorf("script = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddScript_MissingName(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "add-script"); err == nil {
		t.Error("expected error without a script name")
	}
}

func TestBuild(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "build", "--skip-tests"); err != nil {
		t.Fatalf("build error = %v", err)
	}

	var tools []string
	for _, c := range e.runner.Calls {
		tools = append(tools, c.Argv[0])
	}
	if slices.Contains(tools, "pytest") {
		t.Errorf("tests ran with --skip-tests: %v", tools)
	}
	if tools[len(tools)-1] != "python" {
		t.Errorf("last command = %v, want python -m build", e.runner.Commands())
	}

	m := e.manifest(t)
	if m.RequiresPython != ">=3.10" {
		t.Errorf("requires-python = %q", m.RequiresPython)
	}
	if !slices.Equal(m.Dependencies, []string{"requests"}) {
		t.Errorf("dependencies = %v", m.Dependencies)
	}
}

func TestUpdate(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "update", "minor", "--skip-tests"); err != nil {
		t.Fatalf("update error = %v", err)
	}

	if got := e.manifest(t).Version.String(); got != "0.4.0" {
		t.Errorf("version = %s", got)
	}
	want := []string{
		"add .",
		"commit -a -m chore: build v0.4.0",
		"tag v0.4.0",
		"tag -d v0.4.0",
		"add CHANGELOG.md",
		"commit -m chore: update changelog CHANGELOG.md",
		"tag v0.4.0",
		"pull origin main --tags",
		"push origin main --tags",
	}
	if !slices.Equal(e.git.Calls, want) {
		t.Errorf("git calls:\n got %v\nwant %v", e.git.Calls, want)
	}
}

func TestUpdate_ReviewDeclined(t *testing.T) {
	e := newTestEnv(t)
	e.s.Decider = tui.FixedDecider{Answer: false}

	if err := e.run(t, "update", "patch", "--skip-tests", "--review"); err != nil {
		t.Fatalf("declined review should not be an error: %v", err)
	}
	if slices.Contains(e.git.Calls, "push origin main --tags") {
		t.Errorf("pushed after decline: %v", e.git.Calls)
	}
}

/* ------------------------------------------------------------------------- */
/* INDEX COMMANDS                                                            */
/* ------------------------------------------------------------------------- */

func TestCheckName(t *testing.T) {
	e := newTestEnv(t)
	for _, name := range []string{"requests", "surely-unused"} {
		if err := e.run(t, "check-name", name); err != nil {
			t.Errorf("check-name %s error = %v", name, err)
		}
	}
	if !slices.Equal(e.index.Queries, []string{"requests", "surely-unused"}) {
		t.Errorf("queries = %v", e.index.Queries)
	}
	if err := e.run(t, "check-name"); err == nil {
		t.Error("expected error without a name")
	}
}

func TestPublished(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "published"); err != nil {
		t.Fatalf("published error = %v", err)
	}
	if !slices.Contains(e.index.Queries, "demo") {
		t.Errorf("index not queried for demo: %v", e.index.Queries)
	}
}

func TestPublish_NoDistributions(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "publish"); err == nil {
		t.Error("expected error without dist/ files")
	}
}

func TestPublish_OffPrimaryBranchDeclined(t *testing.T) {
	e := newTestEnv(t)
	e.git.Branch = "feature"
	e.s.Decider = tui.FixedDecider{Answer: false}
	writeFile(t, filepath.Join(e.dir, "dist", "demo-0.3.1.tar.gz"), "x")

	if err := e.run(t, "publish"); err != nil {
		t.Fatalf("decline should cancel quietly: %v", err)
	}
	for _, c := range e.runner.Calls {
		if c.Argv[0] == "twine" {
			t.Errorf("uploaded after decline: %v", c)
		}
	}
}

/* ------------------------------------------------------------------------- */
/* NEW PROJECT                                                               */
/* ------------------------------------------------------------------------- */

func TestNewProject(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "new", "widget-kit", "--description", "Widgets", "--keywords", "ui"); err != nil {
		t.Fatalf("new error = %v", err)
	}

	root := filepath.Join(e.dir, "widget-kit")
	for _, rel := range []string{
		"pyproject.toml", "README.md", "LICENSE.txt", ".gitignore",
		"src/widget_kit/__init__.py", "tests/__init__.py", ".vscode/settings.json",
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if !slices.Contains(e.git.Calls, "init") {
		t.Errorf("repository not initialized: %v", e.git.Calls)
	}
	if !slices.Contains(e.index.Queries, "widget-kit") {
		t.Errorf("name not checked on the index: %v", e.index.Queries)
	}
}

func TestNewProject_BlankConfig(t *testing.T) {
	e := newTestEnv(t)
	e.s.ConfigFound = false
	e.s.ConfigPath = filepath.Join(e.dir, "keel.yaml")

	var saved string
	orig := config.SaveConfigFn
	config.SaveConfigFn = func(_ *config.Config, path string) error {
		saved = path
		return nil
	}
	t.Cleanup(func() { config.SaveConfigFn = orig })

	if err := e.run(t, "new", "gadget"); err != nil {
		t.Fatalf("new error = %v", err)
	}
	if saved != e.s.ConfigPath {
		t.Errorf("blank config saved to %q, want %q", saved, e.s.ConfigPath)
	}
}

func TestNewProject_BlankConfigDeclined(t *testing.T) {
	e := newTestEnv(t)
	e.s.ConfigFound = false
	e.s.Decider = tui.FixedDecider{Answer: false}

	if err := e.run(t, "new", "gadget"); err != nil {
		t.Fatalf("decline should cancel quietly: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.dir, "gadget")); !os.IsNotExist(err) {
		t.Error("project created after decline")
	}
}

/* ------------------------------------------------------------------------- */
/* CONFIGURATION                                                             */
/* ------------------------------------------------------------------------- */

func TestConfigure(t *testing.T) {
	e := newTestEnv(t)
	e.s.ConfigPath = filepath.Join(e.dir, "keel.yaml")

	if err := e.run(t, "configure", "--name", "Ada", "--email", "ada@example.com", "--tag-prefix", "rel-"); err != nil {
		t.Fatalf("configure error = %v", err)
	}

	cfg, err := config.LoadConfigFn(e.s.ConfigPath)
	if err != nil || cfg == nil {
		t.Fatalf("saved config not loadable: %v", err)
	}
	if len(cfg.Authors) != 1 || cfg.Authors[0].Name != "Ada" {
		t.Errorf("authors = %+v", cfg.Authors)
	}
	if cfg.Git.TagPrefix != "rel-" {
		t.Errorf("tag prefix = %q", cfg.Git.TagPrefix)
	}
	if cfg.Git.Remote != "" {
		t.Errorf("defaults written to file: remote = %q", cfg.Git.Remote)
	}
	if e.s.Config.Git.TagPrefix != "rel-" {
		t.Error("session config not refreshed")
	}
}

func TestConfigShow(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run(t, "config"); err != nil {
		t.Errorf("config error = %v", err)
	}
	if err := e.run(t, "config", "--check"); err != nil {
		t.Errorf("config --check error = %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	newEnv := func(t *testing.T) *testEnv {
		e := newTestEnv(t)
		e.s.Config = nil
		e.s.ConfigFound = false
		e.s.NoColor = true
		e.s.ConfigPath = filepath.Join(e.dir, "keel.yaml")
		writeFile(t, e.s.ConfigPath, "theme: bogus\n")
		return e
	}

	t.Run("config --check prints the report", func(t *testing.T) {
		e := newEnv(t)
		var err error
		out := captureStdout(t, func() { err = e.run(t, "config", "--check") })

		if err == nil || !strings.Contains(err.Error(), "1 error") {
			t.Errorf("config --check error = %v", err)
		}
		if !strings.Contains(out, `Unknown theme "bogus"`) {
			t.Errorf("report missing the theme failure:\n%s", out)
		}
	})

	t.Run("other commands refuse to run", func(t *testing.T) {
		e := newEnv(t)
		err := e.run(t, "bump", "patch")
		if err == nil || !strings.Contains(err.Error(), "bogus") {
			t.Fatalf("bump error = %v", err)
		}
		if got := e.manifest(t).Version.String(); got != "0.3.1" {
			t.Errorf("version changed to %s", got)
		}
	})

	t.Run("configure repairs the file", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run(t, "configure", "--theme", "keel"); err != nil {
			t.Fatalf("configure error = %v", err)
		}
		if err := e.run(t, "bump", "patch"); err != nil {
			t.Fatalf("bump after repair error = %v", err)
		}
		if got := e.manifest(t).Version.String(); got != "0.3.2" {
			t.Errorf("version = %s, want 0.3.2", got)
		}
	})
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
