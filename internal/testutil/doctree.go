// Package testutil provides fixture helpers for Doc Forge tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DocsTree builds a throwaway repository layout for tests. Paths are given
// relative to the repository root with forward slashes.
type DocsTree struct {
	t    *testing.T
	root string
}

// NewDocsTree creates an empty repository under t.TempDir with a docs/
// directory already present.
func NewDocsTree(t *testing.T) *DocsTree {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0755); err != nil {
		t.Fatalf("failed to create docs dir: %v", err)
	}
	return &DocsTree{t: t, root: root}
}

// Root returns the repository root.
func (d *DocsTree) Root() string {
	return d.root
}

// DocsDir returns the documentation root.
func (d *DocsTree) DocsDir() string {
	return filepath.Join(d.root, "docs")
}

// File writes a file under the repository root, creating parent directories.
func (d *DocsTree) File(rel, content string) *DocsTree {
	d.t.Helper()
	path := filepath.Join(d.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		d.t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		d.t.Fatalf("failed to write %s: %v", rel, err)
	}
	return d
}

// Doc writes a file under the docs directory.
func (d *DocsTree) Doc(rel, content string) *DocsTree {
	return d.File("docs/"+rel, content)
}

// Dir creates an empty directory under the repository root.
func (d *DocsTree) Dir(rel string) *DocsTree {
	d.t.Helper()
	if err := os.MkdirAll(filepath.Join(d.root, filepath.FromSlash(rel)), 0755); err != nil {
		d.t.Fatalf("failed to create dir %s: %v", rel, err)
	}
	return d
}

// ReadDoc returns the content of a file under the docs directory.
func (d *DocsTree) ReadDoc(rel string) string {
	d.t.Helper()
	data, err := os.ReadFile(filepath.Join(d.DocsDir(), filepath.FromSlash(rel)))
	if err != nil {
		d.t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// DocExists reports whether a file exists under the docs directory.
func (d *DocsTree) DocExists(rel string) bool {
	_, err := os.Stat(filepath.Join(d.DocsDir(), filepath.FromSlash(rel)))
	return err == nil
}
