package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/testutil"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

func discoverFixture(t *testing.T) (*testutil.DocsTree, *discovery.Discovery) {
	t.Helper()
	tree := testutil.NewDocsTree(t)
	tree.Doc("user_docs/guides/usage.md", "# Usage Guide\n")
	tree.Doc("user_docs/guides/advanced.md", "# Advanced Usage\n")
	tree.Doc("auto_docs/api/client.rst", "Client API\n==========\n")
	tree.Doc("stray.md", "# Stray Page\n")

	d := discovery.New(workspace.New(tree.Root()))
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}
	return tree, d
}

func TestLoad_MissingFile(t *testing.T) {
	m := Load(filepath.Join(t.TempDir(), "docs_manifest.json"), "demo")

	if m.Version != Version {
		t.Errorf("Version = %q", m.Version)
	}
	if m.Project != "demo" {
		t.Errorf("Project = %q", m.Project)
	}
	if m.Metadata.Build.BuildStatus != BuildStatusNone {
		t.Errorf("BuildStatus = %q", m.Metadata.Build.BuildStatus)
	}
	if m.Total() != 0 {
		t.Errorf("Total = %d, want 0", m.Total())
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs_manifest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	m := Load(path, "demo")
	if m.Total() != 0 || m.Project != "demo" {
		t.Errorf("corrupt manifest should fall back to default, got %+v", m)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tree, d := discoverFixture(t)
	path := filepath.Join(tree.Root(), "docs", "docs_manifest.json")

	m := Default("demo")
	m.Sync(d)
	m.UpdateBuildInfo(BuildStatusSuccess)
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(path, "demo")
	if loaded.Total() != 4 {
		t.Errorf("Total = %d, want 4", loaded.Total())
	}
	if loaded.Metadata.Build.BuildStatus != BuildStatusSuccess || loaded.Metadata.Build.ID == "" {
		t.Errorf("BuildInfo = %+v", loaded.Metadata.Build)
	}
	if _, err := time.Parse(time.RFC3339, loaded.Metadata.LastUpdated); err != nil {
		t.Errorf("LastUpdated is not RFC3339: %q", loaded.Metadata.LastUpdated)
	}

	// The file is indented JSON, diffable in review.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) || !strings.Contains(string(data), "    \"version\"") {
		t.Error("manifest should be written as indented JSON")
	}
}

func TestSave_SchemaShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs_manifest.json")

	m := Default("demo")
	m.UpdateBuildInfo(BuildStatusSuccess)
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}

	// validation_status and build_info live under metadata, not at the top
	// level.
	for _, key := range []string{"validation_status", "build_info"} {
		if _, ok := raw[key]; ok {
			t.Errorf("%s must not be a top-level key", key)
		}
	}
	var meta map[string]json.RawMessage
	if err := json.Unmarshal(raw["metadata"], &meta); err != nil {
		t.Fatalf("metadata is not an object: %v", err)
	}
	for _, key := range []string{"last_updated", "validation_status", "build_info"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("metadata is missing %s", key)
		}
	}
}

func TestSync(t *testing.T) {
	_, d := discoverFixture(t)

	m := Default("demo")
	m.Sync(d)

	guides := m.Categories["user"].Sections["guides"]
	if len(guides) != 2 {
		t.Fatalf("guides = %+v, want 2 entries", guides)
	}
	if guides[0].Path != "user_docs/guides/advanced.md" {
		t.Errorf("entries should sort by path, got %+v", guides)
	}
	if len(m.Categories["auto"].Sections["api"]) != 1 {
		t.Errorf("api section = %+v", m.Categories["auto"].Sections["api"])
	}
	if len(m.Metadata.Validation.Orphaned) != 1 || m.Metadata.Validation.Orphaned[0] != "stray.md" {
		t.Errorf("Orphaned = %v", m.Metadata.Validation.Orphaned)
	}
}

func TestValidate(t *testing.T) {
	tree, d := discoverFixture(t)
	path := filepath.Join(tree.Root(), "docs", "docs_manifest.json")

	m := Default("demo")
	m.Sync(d)
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Delete one tracked file and touch another into the future.
	if err := os.Remove(filepath.Join(tree.DocsDir(), "user_docs", "guides", "advanced.md")); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	usage := filepath.Join(tree.DocsDir(), "user_docs", "guides", "usage.md")
	if err := os.Chtimes(usage, future, future); err != nil {
		t.Fatal(err)
	}

	status := m.Validate(tree.DocsDir())
	if len(status.Missing) != 1 || status.Missing[0] != "user_docs/guides/advanced.md" {
		t.Errorf("Missing = %v", status.Missing)
	}
	if len(status.Outdated) != 1 || status.Outdated[0] != "user_docs/guides/usage.md" {
		t.Errorf("Outdated = %v", status.Outdated)
	}
	if len(status.Orphaned) != 1 {
		t.Errorf("Orphaned = %v", status.Orphaned)
	}
}

func TestWriteIndex(t *testing.T) {
	_, d := discoverFixture(t)

	m := Default("Demo Project")
	m.Sync(d)

	var buf bytes.Buffer
	if err := m.WriteIndex(&buf); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Demo Project Index",
		"## User",
		"### Guides",
		"- [Usage Guide](user_docs/guides/usage.md)",
		"## Auto",
		"- [Client API](auto_docs/api/client.rst)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("index missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Machine-assisted") {
		t.Error("empty categories must be omitted from the index")
	}

	// User docs render before auto docs.
	if strings.Index(out, "## User") > strings.Index(out, "## Auto") {
		t.Error("category order is wrong")
	}
}

func TestIndexSummary(t *testing.T) {
	_, d := discoverFixture(t)

	m := Default("demo")
	if m.IndexSummary() != "no tracked documents" {
		t.Errorf("empty summary = %q", m.IndexSummary())
	}

	m.Sync(d)
	if got := m.IndexSummary(); got != "user=2 auto=1" {
		t.Errorf("IndexSummary = %q", got)
	}
}
