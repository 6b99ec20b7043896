package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docforge.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile_Full(t *testing.T) {
	path := writeConfig(t, `
[project]
name = "Doc Forge"
description = "Documentation management system"
author = "Neuroforge"
url = "https://doc-forge.readthedocs.io/"

[docs]
dir = "docs"
source_dir = "internal"
build_dir = "_build"
formats = ["html"]
theme = "default"

[serve]
port = 9000

[test]
pattern = "internal/**/*_test.go"
verbose = true
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Project.Name != "Doc Forge" {
		t.Errorf("Project.Name = %q", cfg.Project.Name)
	}
	if cfg.Docs.SourceDir != "internal" {
		t.Errorf("Docs.SourceDir = %q", cfg.Docs.SourceDir)
	}
	if cfg.Serve.Port != 9000 {
		t.Errorf("Serve.Port = %d", cfg.Serve.Port)
	}
	if !cfg.Test.Verbose {
		t.Error("Test.Verbose should be true")
	}
	if cfg.Test.Pattern != "internal/**/*_test.go" {
		t.Errorf("Test.Pattern = %q", cfg.Test.Pattern)
	}
}

func TestLoadFromFile_DefaultsFillUnsetFields(t *testing.T) {
	path := writeConfig(t, `
[project]
name = "Minimal"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Docs.Dir != "docs" {
		t.Errorf("Docs.Dir = %q, want default docs", cfg.Docs.Dir)
	}
	if cfg.Serve.Port != 8000 {
		t.Errorf("Serve.Port = %d, want default 8000", cfg.Serve.Port)
	}
	if len(cfg.Docs.Formats) != 1 || cfg.Docs.Formats[0] != "html" {
		t.Errorf("Docs.Formats = %v, want [html]", cfg.Docs.Formats)
	}
}

func TestLoadFromFile_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, `
[docs]
dir = "docs"
sphinx_theme = "rtd"
`)

	_, err := LoadFromFile(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "sphinx_theme") {
		t.Errorf("error should name the offending key, got: %v", err)
	}
}

func TestLoadFromFile_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `[docs`)

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "docforge.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Docs.Dir != "docs" {
		t.Errorf("expected defaults, got Docs.Dir = %q", cfg.Docs.Dir)
	}
}
