package discovery

import (
	"strings"
	"testing"

	"github.com/neuroforge/doc-forge/internal/testutil"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

func fixtureTree(t *testing.T) *testutil.DocsTree {
	t.Helper()
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Project Documentation\n")
	tree.Doc("user_docs/getting_started/installation.md", "# Installation\n")
	tree.Doc("user_docs/getting_started/index.md", "# Getting Started\n")
	tree.Doc("user_docs/guides/usage.md", "# Usage Guide\n\n[install](../getting_started/installation.md)\n")
	tree.Doc("auto_docs/api/client.rst", "Client API\n==========\n")
	tree.Doc("ai_docs/generated/overview.md", "# Generated Overview\n")
	tree.Doc("notes.md", "# Loose Notes\n")
	tree.Doc("_build/html/stale.md", "# Stale Build Output\n")
	tree.Doc("user_docs/guides/_drafts/wip.md", "# Draft\n")
	tree.Doc("user_docs/guides/diagram.png", "not a doc")
	return tree
}

func TestDiscoverAll(t *testing.T) {
	tree := fixtureTree(t)
	d := New(workspace.New(tree.Root()))

	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}

	if got := len(d.Documents[CategoryUser]); got != 3 {
		t.Errorf("user docs = %d, want 3", got)
	}
	if got := len(d.Documents[CategoryAuto]); got != 1 {
		t.Errorf("auto docs = %d, want 1", got)
	}
	if got := len(d.Documents[CategoryAI]); got != 1 {
		t.Errorf("ai docs = %d, want 1", got)
	}
	if d.Total() != 5 {
		t.Errorf("Total = %d, want 5", d.Total())
	}

	for _, doc := range d.Documents[CategoryUser] {
		if strings.Contains(doc.RelPath, "_drafts") {
			t.Errorf("underscore directory leaked into discovery: %s", doc.RelPath)
		}
	}
}

func TestDiscoverAll_Priorities(t *testing.T) {
	tree := fixtureTree(t)
	d := New(workspace.New(tree.Root()))
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}

	byRel := make(map[string]*Document)
	for _, docs := range d.Documents {
		for _, doc := range docs {
			byRel[doc.RelPath] = doc
		}
	}

	tests := []struct {
		rel  string
		want int
	}{
		{"user_docs/getting_started/index.md", PriorityIndex},
		{"user_docs/getting_started/installation.md", PriorityUser},
		{"ai_docs/generated/overview.md", PriorityAI},
		{"auto_docs/api/client.rst", PriorityAuto},
	}
	for _, tt := range tests {
		doc, ok := byRel[tt.rel]
		if !ok {
			t.Errorf("%s not discovered", tt.rel)
			continue
		}
		if doc.Priority != tt.want {
			t.Errorf("%s priority = %d, want %d", tt.rel, doc.Priority, tt.want)
		}
	}
}

func TestDiscoverAll_Orphans(t *testing.T) {
	tree := fixtureTree(t)
	tree.Doc("random/deep/notes.md", "# Deep Notes\n")

	d := New(workspace.New(tree.Root()))
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}

	want := []string{"notes.md", "random/deep/notes.md"}
	if len(d.Orphans) != len(want) {
		t.Fatalf("Orphans = %v, want %v", d.Orphans, want)
	}
	for i, rel := range want {
		if d.Orphans[i] != rel {
			t.Errorf("Orphans[%d] = %q, want %q", i, d.Orphans[i], rel)
		}
	}
}

func TestDiscoverAll_MissingDocsDir(t *testing.T) {
	d := New(workspace.New(t.TempDir()))
	if err := d.DiscoverAll(); err == nil {
		t.Fatal("expected an error for a missing docs directory")
	}
}

func TestDiscoverAll_MissingCategoryDirs(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Home\n")

	d := New(workspace.New(tree.Root()))
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}
	if d.Total() != 0 {
		t.Errorf("Total = %d, want 0", d.Total())
	}
	if len(d.Orphans) != 0 {
		t.Errorf("index.md must not count as an orphan, got %v", d.Orphans)
	}
}

func TestReferenceMap(t *testing.T) {
	tree := fixtureTree(t)
	d := New(workspace.New(tree.Root()))
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}

	refs := d.ReferenceMap()
	got, ok := refs["user_docs/guides/usage.md"]
	if !ok {
		t.Fatal("usage.md missing from reference map")
	}
	if len(got) != 1 || got[0] != "../getting_started/installation.md" {
		t.Errorf("references = %v", got)
	}
	if _, ok := refs["user_docs/getting_started/installation.md"]; ok {
		t.Error("document without references should not appear in the map")
	}
}
