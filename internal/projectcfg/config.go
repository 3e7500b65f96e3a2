// Package projectcfg loads a project's zaco.yaml manifest: its entry
// module, source roots, and compiler options.
package projectcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the decoded contents of zaco.yaml.
type Config struct {
	Entry      string   `yaml:"entry"`
	SourceDirs []string `yaml:"sourceDirs"`
	MaxErrors  int      `yaml:"maxErrors"`
	Backend    string   `yaml:"backend"`
}

// Default returns the configuration used when no zaco.yaml is present:
// a single entry file discovered by convention and an unbounded error
// cutoff.
func Default() *Config {
	return &Config{
		Entry:      "main.zaco",
		SourceDirs: []string{"."},
		MaxErrors:  0,
		Backend:    "noop",
	}
}

// Load reads and decodes zaco.yaml from dir, falling back to Default
// when the file does not exist.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "zaco.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.SourceDirs) == 0 {
		cfg.SourceDirs = []string{"."}
	}
	return cfg, nil
}
