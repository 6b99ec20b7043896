package discovery

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/neuroforge/doc-forge/internal/testutil"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

func TestParseReportFormat(t *testing.T) {
	for _, valid := range []string{"text", "json", "yaml"} {
		if _, err := ParseReportFormat(valid); err != nil {
			t.Errorf("ParseReportFormat(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseReportFormat("xml"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func reportFixture(t *testing.T) *Discovery {
	t.Helper()
	tree := testutil.NewDocsTree(t)
	tree.Doc("user_docs/guides/usage.md", "# Usage Guide\n")
	tree.Doc("auto_docs/api/client.rst", "Client API\n==========\n")
	tree.Doc("stray.md", "# Stray Page\n")

	d := New(workspace.New(tree.Root()))
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}
	return d
}

func TestWriteReport_Text(t *testing.T) {
	d := reportFixture(t)

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, FormatText); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== User ===",
		"Usage Guide (user_docs/guides/usage.md)",
		"=== Auto ===",
		"Client API (auto_docs/api/client.rst)",
		"=== Orphaned ===",
		"stray.md",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReport_JSON(t *testing.T) {
	d := reportFixture(t)

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, FormatJSON); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	var out map[string][]reportEntry
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(out["user"]) != 1 || out["user"][0].Title != "Usage Guide" {
		t.Errorf("user entries = %+v", out["user"])
	}
	if len(out["auto"]) != 1 || out["auto"][0].Path != "auto_docs/api/client.rst" {
		t.Errorf("auto entries = %+v", out["auto"])
	}
}

func TestWriteReport_YAML(t *testing.T) {
	d := reportFixture(t)

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, FormatYAML); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	var out map[string][]reportEntry
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if len(out["user"]) != 1 || out["user"][0].Title != "Usage Guide" {
		t.Errorf("user entries = %+v", out["user"])
	}
}
