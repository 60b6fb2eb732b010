// Package config reads .lintgate.yaml.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultStorePath is where the build store lives unless overridden.
const DefaultStorePath = ".lintgate/builds.db"

type Config struct {
	// Window is how many build slots the baseline locator walks
	// backward. 0 means the default (10).
	Window int     `json:"window,omitempty" jsonschema:"description=How many builds the baseline lookup walks backward. 0 means the default of 10"`
	Store  string  `json:"store,omitempty" jsonschema:"description=Path of the build store database"`
	Tools  []*Tool `json:"tools,omitempty" jsonschema:"description=Per-tool settings"`
}

type Tool struct {
	Name         string `json:"name" jsonschema:"enum=pydoctor,enum=twistedchecker,enum=pyflakes"`
	ModulePrefix string `json:"module_prefix,omitempty" yaml:"module_prefix" jsonschema:"description=Group delimiter prefix for module-scoped tools"`
}

func (t *Tool) Init() error {
	if t.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// Tool returns the settings for a tool name, or nil.
func (c *Config) Tool(name string) *Tool {
	for _, t := range c.Tools {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// StorePath returns the configured store path or the default.
func (c *Config) StorePath() string {
	if c.Store != "" {
		return c.Store
	}
	return DefaultStorePath
}

// Load finds and reads the configuration. A missing file yields the
// zero configuration, not an error.
func Load(fs afero.Fs, configFilePath string) (*Config, error) {
	p, err := NewFinder(fs).Find(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("find a configuration file: %w", err)
	}
	cfg := &Config{}
	if err := NewReader(fs).Read(cfg, p); err != nil {
		return nil, fmt.Errorf("read a configuration file: %w", err)
	}
	return cfg, nil
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".lintgate.yaml", ".lintgate.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	for _, tool := range cfg.Tools {
		if err := tool.Init(); err != nil {
			return fmt.Errorf("initialize tool settings: %w", err)
		}
	}
	return nil
}
