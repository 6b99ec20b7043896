package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neuroforge/doc-forge/internal/config"
	"github.com/neuroforge/doc-forge/internal/testutil"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

func newBuilder(t *testing.T, tree *testutil.DocsTree) *Builder {
	t.Helper()
	cfg := config.Default()
	cfg.Project.Name = "Demo"
	return New(workspace.New(tree.Root()), cfg)
}

func readOutput(t *testing.T, b *Builder, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(b.OutputDir(), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("failed to read output %s: %v", rel, err)
	}
	return string(data)
}

func TestBuild_Markdown(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Welcome\n\nSome **bold** text.\n")

	b := newBuilder(t, tree)
	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if result.Pages != 1 {
		t.Errorf("Pages = %d, want 1", result.Pages)
	}

	out := readOutput(t, b, "index.html")
	for _, want := range []string{
		"<title>Welcome - Demo</title>",
		"<strong>bold</strong>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "livereload") {
		t.Error("livereload client must be absent in a plain build")
	}
}

func TestBuild_RSTPassthrough(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("auto_docs/api/client.rst", "Client API\n==========\n\nUse <Client> wisely.\n")

	b := newBuilder(t, tree)
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out := readOutput(t, b, "auto_docs/api/client.html")
	if !strings.Contains(out, "<pre>") || !strings.Contains(out, "&lt;Client&gt;") {
		t.Errorf("rst should be escaped preformatted text:\n%s", out)
	}
	if !strings.Contains(out, "<title>Client API - Demo</title>") {
		t.Errorf("rst title not extracted:\n%s", out)
	}
}

func TestBuild_AssetsAndSkips(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Home\n")
	tree.Doc("assets/logo.svg", "<svg></svg>")
	tree.Doc("docs_manifest.json", "{}")
	tree.Doc("_drafts/wip.md", "# WIP\n")

	b := newBuilder(t, tree)
	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if result.Pages != 1 {
		t.Errorf("Pages = %d, want 1", result.Pages)
	}
	if result.Assets != 1 {
		t.Errorf("Assets = %d, want 1", result.Assets)
	}

	if got := readOutput(t, b, "assets/logo.svg"); got != "<svg></svg>" {
		t.Errorf("asset content = %q", got)
	}
	if _, err := os.Stat(filepath.Join(b.OutputDir(), "docs_manifest.json")); err == nil {
		t.Error("manifest must not be published")
	}
	if _, err := os.Stat(filepath.Join(b.OutputDir(), "_drafts")); err == nil {
		t.Error("underscore directories must not be built")
	}
}

func TestBuild_LiveReload(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Home\n")

	b := newBuilder(t, tree)
	b.LiveReload = true
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if out := readOutput(t, b, "index.html"); !strings.Contains(out, "/livereload") {
		t.Errorf("livereload client missing:\n%s", out)
	}
}

func TestResult_Summary(t *testing.T) {
	r := &Result{Pages: 3, Assets: 2, Bytes: 2048}
	s := r.Summary()
	for _, want := range []string{"3 pages", "2 assets", "2.0 kB"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q: %s", want, s)
		}
	}
}

func TestClean(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Home\n")

	b := newBuilder(t, tree)
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := b.Clean(); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := os.Stat(b.OutputDir()); !os.IsNotExist(err) {
		t.Error("build directory should be gone")
	}

	// Cleaning an already clean tree is fine.
	if err := b.Clean(); err != nil {
		t.Errorf("second Clean failed: %v", err)
	}
}
