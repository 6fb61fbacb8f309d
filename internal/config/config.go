package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/keel/internal/core"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "KEEL_CONFIG"

// Author is a default author added to new projects.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// ProjectURLs are URL templates for new projects. "{name}" is replaced
// by the project name.
type ProjectURLs struct {
	Homepage      string `yaml:"homepage,omitempty"`
	Documentation string `yaml:"documentation,omitempty"`
	SourceCode    string `yaml:"source_code,omitempty"`
}

// GitConfig holds tagging and remote settings.
type GitConfig struct {
	TagPrefix       string   `yaml:"tag_prefix,omitempty"`
	Remote          string   `yaml:"remote,omitempty"`
	PrimaryBranches []string `yaml:"primary_branches,omitempty"`
}

// RegistryConfig selects the package index.
type RegistryConfig struct {
	URL string `yaml:"url,omitempty"`
}

// ToolsConfig holds the command prefix of every external tool keel drives.
// Arguments keel needs are appended to these.
type ToolsConfig struct {
	Python     []string   `yaml:"python,omitempty"`
	Formatters [][]string `yaml:"formatters,omitempty"`
	Test       []string   `yaml:"test,omitempty"`
	Docs       []string   `yaml:"docs,omitempty"`
	Build      []string   `yaml:"build,omitempty"`
	Publish    []string   `yaml:"publish,omitempty"`
	Install    []string   `yaml:"install,omitempty"`
	Changelog  []string   `yaml:"changelog,omitempty"`
	Scanner    []string   `yaml:"scanner,omitempty"`
	MinPython  []string   `yaml:"min_python,omitempty"`
}

// Config is the user-level keel configuration.
type Config struct {
	Authors     []Author          `yaml:"authors,omitempty"`
	ProjectURLs ProjectURLs       `yaml:"project_urls,omitempty"`
	Git         GitConfig         `yaml:"git,omitempty"`
	Registry    RegistryConfig    `yaml:"registry,omitempty"`
	Tools       ToolsConfig       `yaml:"tools,omitempty"`
	Renames     map[string]string `yaml:"renames,omitempty"`
	Theme       string            `yaml:"theme,omitempty"`
}

// Default values applied by WithDefaults.
const (
	DefaultRemote      = "origin"
	DefaultRegistryURL = "https://pypi.org"
)

// DefaultPrimaryBranches are the branches publishing is expected from.
var DefaultPrimaryBranches = []string{"main", "master"}

// DefaultTools returns the stock tool commands.
func DefaultTools() ToolsConfig {
	return ToolsConfig{
		Python:     []string{"python"},
		Formatters: [][]string{{"black"}, {"isort"}},
		Test:       []string{"pytest", "-s"},
		Docs:       []string{"pdoc"},
		Build:      []string{"python", "-m", "build"},
		Publish:    []string{"twine", "upload"},
		Install:    []string{"pip", "install"},
		Changelog:  []string{"auto-changelog"},
		Scanner:    []string{"packagelister", "--json", "{dir}"},
		MinPython:  []string{"vermin"},
	}
}

// WithDefaults returns a copy of cfg with every unset field filled in.
// A nil cfg yields the full default configuration.
func WithDefaults(cfg *Config) *Config {
	out := &Config{}
	if cfg != nil {
		*out = *cfg
	}
	if out.Git.Remote == "" {
		out.Git.Remote = DefaultRemote
	}
	if len(out.Git.PrimaryBranches) == 0 {
		out.Git.PrimaryBranches = DefaultPrimaryBranches
	}
	if out.Registry.URL == "" {
		out.Registry.URL = DefaultRegistryURL
	}

	defaults := DefaultTools()
	t := &out.Tools
	fill := func(dst *[]string, def []string) {
		if len(*dst) == 0 {
			*dst = def
		}
	}
	fill(&t.Python, defaults.Python)
	fill(&t.Test, defaults.Test)
	fill(&t.Docs, defaults.Docs)
	fill(&t.Build, defaults.Build)
	fill(&t.Publish, defaults.Publish)
	fill(&t.Install, defaults.Install)
	fill(&t.Changelog, defaults.Changelog)
	fill(&t.Scanner, defaults.Scanner)
	fill(&t.MinPython, defaults.MinPython)
	if len(t.Formatters) == 0 {
		t.Formatters = defaults.Formatters
	}
	return out
}

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// ConfigSaver handles configuration saving with injected dependencies.
type ConfigSaver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

// osFileOpener is the production implementation of FileOpener. It creates
// the parent directory, since the config lives under the user config dir.
type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(name), core.PermDirPublic); err != nil {
		return nil, err
	}
	return os.OpenFile(name, flag, perm)
}

// osFileWriter is the production implementation of FileWriter.
type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

// yamlMarshaler is the production implementation of core.Marshaler using YAML.
type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewConfigSaver creates a ConfigSaver with the given dependencies.
// If any dependency is nil, the production default is used.
func NewConfigSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &ConfigSaver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// SaveTo saves the configuration to the specified file path.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	file, err := s.fileOpener.OpenFile(configFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", configFile, err)
	}
	defer file.Close()

	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}

	return nil
}

var defaultConfigSaver = NewConfigSaver(nil, nil, nil)

// LoadConfigFn and SaveConfigFn are swapped out by command tests.
var (
	LoadConfigFn = Load
	SaveConfigFn = func(cfg *Config, path string) error {
		return defaultConfigSaver.SaveTo(cfg, path)
	}
)

// DefaultPath returns the config file location: $KEEL_CONFIG when set,
// otherwise keel/config.yaml under the user config directory.
func DefaultPath() (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		if !filepath.IsAbs(cleanPath) && strings.HasPrefix(cleanPath, "..") {
			return "", fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", EnvConfigPath)
		}
		return cleanPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "keel", "config.yaml"), nil
}

// Load reads the config file at path. A missing file is not an error:
// Load returns nil, nil and the caller decides how to proceed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config at %q: %w", path, err)
	}

	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config at %q: %w", path, err)
	}
	return &cfg, nil
}

// ConfigFilePerm defines secure file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW
