// Package config loads and validates the docforge.toml project configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the Doc Forge project configuration.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Docs    DocsConfig    `toml:"docs"`
	Serve   ServeConfig   `toml:"serve"`
	Test    TestConfig    `toml:"test"`
}

// ProjectConfig describes the documented project.
type ProjectConfig struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Author      string `toml:"author"`
	URL         string `toml:"url"`
}

// DocsConfig controls documentation layout and output.
type DocsConfig struct {
	Dir       string   `toml:"dir"`        // documentation root, relative to repo root
	SourceDir string   `toml:"source_dir"` // source tree scanned for API coverage
	BuildDir  string   `toml:"build_dir"`  // build output, relative to docs dir
	Formats   []string `toml:"formats"`
	Theme     string   `toml:"theme"`
}

// ServeConfig controls the live-reload documentation server.
type ServeConfig struct {
	Port int `toml:"port"`
}

// TestConfig carries defaults for the test subcommands.
type TestConfig struct {
	Pattern string `toml:"pattern"` // glob for test files, doublestar syntax
	Verbose bool   `toml:"verbose"`
}

// Default returns the configuration used when no docforge.toml exists.
func Default() *Config {
	return &Config{
		Docs: DocsConfig{
			Dir:       "docs",
			SourceDir: ".",
			BuildDir:  "_build",
			Formats:   []string{"html"},
			Theme:     "default",
		},
		Serve: ServeConfig{
			Port: 8000,
		},
		Test: TestConfig{
			Pattern: "**/*_test.go",
		},
	}
}

// LoadFromFile loads configuration from a TOML file, filling unset fields with
// defaults. Unknown keys are rejected so that typos surface immediately.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}

	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config at path if it exists, otherwise returns defaults.
// Missing configuration is not an error: most commands work on convention
// alone, and init creates the file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFromFile(path)
}
