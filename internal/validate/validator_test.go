package validate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/testutil"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

// longBody pads a doc past the stub threshold.
const longBody = "\n\nThis page carries enough prose to stay clear of the stub detector, " +
	"which flags documents under one hundred characters of content.\n"

func runValidator(t *testing.T, tree *testutil.DocsTree, entities map[string]bool) *Report {
	t.Helper()
	ws := workspace.New(tree.Root())
	d := discovery.New(ws)
	if err := d.DiscoverAll(); err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}
	report, err := New(ws, d).Run(entities)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return report
}

func assertDiscrepancy(t *testing.T, report *Report, dtype, path string) {
	t.Helper()
	for _, d := range report.Discrepancies {
		if d.Type == dtype && d.Path == path {
			return
		}
	}
	t.Errorf("no %s discrepancy for %s in %+v", dtype, path, report.Discrepancies)
}

func TestRun_CleanTree(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Project Docs"+longBody)
	tree.Doc("user_docs/guides/usage.md", "# Usage Guide"+longBody)

	report := runValidator(t, tree, nil)
	if !report.OK() {
		t.Errorf("expected a clean report, got %+v", report.Discrepancies)
	}
}

func TestRun_MissingRootIndex(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("user_docs/guides/usage.md", "# Usage Guide"+longBody)

	report := runValidator(t, tree, nil)
	assertDiscrepancy(t, report, TypeMissing, "index.md")
}

func TestRun_Structural(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Project Docs"+longBody)
	tree.Doc("user_docs/guides/alpha.md", "# Alpha Guide"+longBody)
	tree.Doc("user_docs/guides/beta.md", "# Beta Guide"+longBody)
	tree.Doc("user_docs/faq/one.md", "# Same Title"+longBody)
	tree.Doc("user_docs/faq/two.md", "# Same Title"+longBody)
	tree.Doc("user_docs/faq/index.md", "# FAQ"+longBody)
	tree.Dir("docs/scratch")

	report := runValidator(t, tree, nil)

	// guides has two documents and no index; faq has an index and is fine.
	assertDiscrepancy(t, report, TypeStructural, "user_docs/guides")
	assertDiscrepancy(t, report, TypeStructural, "scratch")
	assertDiscrepancy(t, report, TypeStructural, "user_docs/faq/one.md")

	for _, d := range report.Discrepancies {
		if d.Type == TypeStructural && d.Path == "user_docs/faq" {
			t.Errorf("faq should not be flagged: %+v", d)
		}
	}
}

func TestRun_BrokenReferences(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Project Docs"+longBody)
	tree.Doc("user_docs/guides/usage.md", "# Usage Guide"+longBody+
		"\n[good](../faq/common.md) [bad](missing.md) [anchored](../faq/common.md#top)\n")
	tree.Doc("user_docs/faq/common.md", "# Common Questions"+longBody)
	tree.Doc("auto_docs/api/client.rst", "Client API\n==========\n"+longBody+
		"\nSee :doc:`types` for details.\n")

	report := runValidator(t, tree, nil)

	assertDiscrepancy(t, report, TypeInconsistent, "user_docs/guides/usage.md")
	assertDiscrepancy(t, report, TypeInconsistent, "auto_docs/api/client.rst")

	inconsistent := 0
	for _, d := range report.Discrepancies {
		if d.Type == TypeInconsistent {
			inconsistent++
		}
	}
	if inconsistent != 2 {
		t.Errorf("inconsistent = %d, want 2: %+v", inconsistent, report.Discrepancies)
	}
}

func TestRun_Quality(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Project Docs"+longBody)
	tree.Doc("user_docs/guides/stub.md", "# Stub\n")
	tree.Doc("user_docs/guides/headless.md", "No heading at all, but plenty of words to comfortably clear the "+
		"one hundred character minimum content threshold for this check.\n")

	report := runValidator(t, tree, nil)

	assertDiscrepancy(t, report, TypeQuality, "user_docs/guides/stub.md")
	assertDiscrepancy(t, report, TypeQuality, "user_docs/guides/headless.md")
}

func TestRun_Entities(t *testing.T) {
	tree := testutil.NewDocsTree(t)
	tree.Doc("index.md", "# Project Docs"+longBody)
	tree.Doc("auto_docs/api/client.rst", "Client API\n==========\n"+longBody+
		"\nThe NewClient constructor returns a Client.\n")

	entities := map[string]bool{"NewClient": true, "Forgotten": true}
	report := runValidator(t, tree, entities)

	assertDiscrepancy(t, report, TypeMissing, "Forgotten")
	for _, d := range report.Discrepancies {
		if d.Path == "NewClient" {
			t.Errorf("documented entity flagged: %+v", d)
		}
	}
}

func TestReport_WriteText(t *testing.T) {
	report := &Report{
		Discrepancies: []Discrepancy{
			{Type: TypeQuality, Path: "a.md", Detail: "no heading"},
			{Type: TypeMissing, Path: "index.md", Detail: "documentation root has no index"},
		},
		Counts: map[string]int{TypeQuality: 1, TypeMissing: 1},
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"2 discrepancies (missing=1 quality=1)",
		"[quality] a.md: no heading",
		"[missing] index.md",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	var empty Report
	buf.Reset()
	if err := empty.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No discrepancies") {
		t.Errorf("empty report output = %q", buf.String())
	}
}
