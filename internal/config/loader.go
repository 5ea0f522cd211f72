package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".manbook"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file shape.
//
// All fields are optional; zero values leave the built-in defaults (or CLI
// flags) in effect. CLI flags always win over file values.
type File struct {
	// Defaults overrides built-in default settings.
	Defaults Defaults `yaml:"defaults"`

	// Skip lists package-name globs excluded from harvesting
	// (path.Match syntax, e.g. "lib*").
	Skip []string `yaml:"skip"`
}

// Defaults holds the overridable settings of the config file.
type Defaults struct {
	// BatchSize is the concurrent batch size.
	BatchSize int `yaml:"batch_size"`

	// QueueTimeout is the aggregator queue pop timeout.
	QueueTimeout time.Duration `yaml:"queue_timeout"`

	// Output is the generated document path.
	Output string `yaml:"output"`

	// Format is the document format: "pdf" or "markdown".
	Format string `yaml:"format"`

	// Title is the document title.
	Title string `yaml:"title"`

	// ManWidth is the renderer column width.
	ManWidth int `yaml:"man_width"`

	// ListCommand overrides the OS package query.
	ListCommand string `yaml:"list_command"`

	// ManifestCommand overrides the per-package manifest query.
	ManifestCommand string `yaml:"manifest_command"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this based on whether the path was explicitly specified by the
// user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .manbook in the current directory
// 3. Look for .manbook in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file's non-zero settings onto the config.
// Flag handling in the command layer calls this before applying explicitly
// changed flags, so the precedence is built-in < file < flag.
func (f *File) Apply(cfg *Config) {
	if f.Defaults.BatchSize > 0 {
		cfg.BatchSize = f.Defaults.BatchSize
	}
	if f.Defaults.QueueTimeout > 0 {
		cfg.QueueTimeout = f.Defaults.QueueTimeout
	}
	if f.Defaults.Output != "" {
		cfg.OutputFile = f.Defaults.Output
	}
	if f.Defaults.Format != "" {
		cfg.Format = f.Defaults.Format
	}
	if f.Defaults.Title != "" {
		cfg.Title = f.Defaults.Title
	}
	if f.Defaults.ManWidth > 0 {
		cfg.ManWidth = f.Defaults.ManWidth
	}
	if f.Defaults.ListCommand != "" {
		cfg.ListCommand = f.Defaults.ListCommand
	}
	if f.Defaults.ManifestCommand != "" {
		cfg.ManifestCommand = f.Defaults.ManifestCommand
	}
	if len(f.Skip) > 0 {
		cfg.Skip = append(cfg.Skip, f.Skip...)
	}
}
