package toc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neuroforge/doc-forge/internal/testutil"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

func TestAnalyze_Markdown(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", `# Docs

`+"```{toctree}"+`
:maxdepth: 2
:caption: Guides

user_docs/guides/usage
user_docs/guides/missing
`+"```"+`
`)
	tree.Doc("user_docs/guides/usage.md", "# Usage\n")
	tree.Doc("user_docs/guides/unlisted.md", "# Unlisted\n")

	analysis, err := NewAnalyzer(workspace.New(tree.Root())).Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	entries := analysis.Toctrees["index.md"]
	want := []string{"user_docs/guides/usage", "user_docs/guides/missing"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i], want[i])
		}
	}

	assertIssue(t, analysis, IssueMissingTarget, "user_docs/guides/missing")
	assertIssue(t, analysis, IssueOrphanedDocument, "user_docs/guides/unlisted.md")
}

func TestAnalyze_RST(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("auto_docs/api/index.rst", `API
===

.. toctree::
   :maxdepth: 1

   client
   Server Docs <server>

Trailing text.
`)
	tree.Doc("auto_docs/api/client.rst", "Client\n======\n")
	tree.Doc("auto_docs/api/server.rst", "Server\n======\n")

	analysis, err := NewAnalyzer(workspace.New(tree.Root())).Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	entries := analysis.Toctrees["auto_docs/api/index.rst"]
	want := []string{"auto_docs/api/client", "auto_docs/api/server"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i], want[i])
		}
	}

	// Relative entries in the same directory resolve cleanly, so none of the
	// referenced documents is an orphan.
	for _, issue := range analysis.Issues {
		if issue.Type == IssueMissingTarget {
			t.Errorf("unexpected missing target: %+v", issue)
		}
	}
}

func TestAnalyze_RelativeAndAbsoluteEntries(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("user_docs/guides/index.md", "# Guides\n\n```{toctree}\nusage\n/user_docs/faq/common\n```\n")
	tree.Doc("user_docs/guides/usage.md", "# Usage\n")
	tree.Doc("user_docs/faq/common.md", "# Common\n")

	analysis, err := NewAnalyzer(workspace.New(tree.Root())).Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	entries := analysis.Toctrees["user_docs/guides/index.md"]
	want := []string{"user_docs/guides/usage", "user_docs/faq/common"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i], want[i])
		}
	}
}

func TestAnalyze_RootIndexNotOrphaned(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Docs\n")

	analysis, err := NewAnalyzer(workspace.New(tree.Root())).Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Issues) != 0 {
		t.Errorf("root index must not be reported, got %+v", analysis.Issues)
	}
}

func TestParseEntryLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{":maxdepth: 2", ""},
		{":caption: Guides", ""},
		{".. a comment", ""},
		{"usage", "usage"},
		{"Server Docs <server>", "server"},
		{"path/to/page.md", "path/to/page.md"},
	}
	for _, tt := range tests {
		if got := parseEntryLine(tt.line); got != tt.want {
			t.Errorf("parseEntryLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	analysis := &Analysis{
		Documents: map[string]string{"index": "index.md"},
		Issues: []Issue{
			{Type: IssueMissingTarget, Source: "index.md", Target: "ghost"},
			{Type: IssueOrphanedDocument, Target: "loose.md"},
		},
	}

	var buf bytes.Buffer
	if err := analysis.WriteReport(&buf); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Issues: 2",
		"missing target: ghost (referenced from index.md)",
		"orphaned document: loose.md",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func assertIssue(t *testing.T, analysis *Analysis, issueType, target string) {
	t.Helper()
	for _, issue := range analysis.Issues {
		if issue.Type == issueType && issue.Target == target {
			return
		}
	}
	t.Errorf("no %s issue for %s in %+v", issueType, target, analysis.Issues)
}
