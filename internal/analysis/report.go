package analysis

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Report is the outcome of comparing the source inventory with the tests.
type Report struct {
	GeneratedAt  time.Time `json:"generated_at"`
	Total        int       `json:"total"`
	Tested       int       `json:"tested"`
	Documented   int       `json:"documented"`
	TestFuncs    int       `json:"test_funcs"`
	Untested     []Entity  `json:"untested"`
	Undocumented []Entity  `json:"undocumented"`
}

// Analyze cross-references the exported entities with the test inventory.
func Analyze(inv *Inventory, tests *TestInventory) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Total:       len(inv.Entities),
		TestFuncs:   tests.Total(),
	}
	for _, e := range inv.Entities {
		if tests.Covered(e) {
			r.Tested++
		} else {
			r.Untested = append(r.Untested, e)
		}
		if e.HasDoc {
			r.Documented++
		} else {
			r.Undocumented = append(r.Undocumented, e)
		}
	}
	return r
}

// TestedPercent returns test coverage of the exported API in percent.
func (r *Report) TestedPercent() float64 {
	if r.Total == 0 {
		return 100
	}
	return float64(r.Tested) / float64(r.Total) * 100
}

// DocumentedPercent returns doc coverage of the exported API in percent.
func (r *Report) DocumentedPercent() float64 {
	if r.Total == 0 {
		return 100
	}
	return float64(r.Documented) / float64(r.Total) * 100
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteMarkdown writes the report as a Markdown document.
func (r *Report) WriteMarkdown(w io.Writer) error {
	_, err := fmt.Fprintf(w, `# Test Coverage Analysis

Generated %s.

| Metric | Value |
| --- | --- |
| Exported entities | %d |
| Exercised by tests | %d (%s%%) |
| Documented | %d (%s%%) |
| Test functions | %d |
`,
		humanize.Time(r.GeneratedAt),
		r.Total,
		r.Tested, humanize.FtoaWithDigits(r.TestedPercent(), 1),
		r.Documented, humanize.FtoaWithDigits(r.DocumentedPercent(), 1),
		r.TestFuncs)
	if err != nil {
		return err
	}

	if len(r.Untested) > 0 {
		if _, err := fmt.Fprintf(w, "\n## Untested\n\n"); err != nil {
			return err
		}
		for _, e := range r.Untested {
			if _, err := fmt.Fprintf(w, "- `%s` (%s, %s:%d)\n", e.Name, e.Kind, e.File, e.Line); err != nil {
				return err
			}
		}
	}
	if len(r.Undocumented) > 0 {
		if _, err := fmt.Fprintf(w, "\n## Undocumented\n\n"); err != nil {
			return err
		}
		for _, e := range r.Undocumented {
			if _, err := fmt.Fprintf(w, "- `%s` (%s, %s:%d)\n", e.Name, e.Kind, e.File, e.Line); err != nil {
				return err
			}
		}
	}
	return nil
}

var htmlReportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test Coverage Analysis</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; }
table { border-collapse: collapse; }
td, th { border: 1px solid #d0d7de; padding: 0.3rem 0.8rem; text-align: left; }
code { background: #f6f8fa; padding: 0.1rem 0.3rem; }
</style>
</head>
<body>
<h1>Test Coverage Analysis</h1>
<p>Generated {{.Generated}}.</p>
<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Exported entities</td><td>{{.Total}}</td></tr>
<tr><td>Exercised by tests</td><td>{{.Tested}} ({{.TestedPct}}%)</td></tr>
<tr><td>Documented</td><td>{{.Documented}} ({{.DocumentedPct}}%)</td></tr>
<tr><td>Test functions</td><td>{{.TestFuncs}}</td></tr>
</table>
{{if .Untested}}<h2>Untested</h2><ul>
{{range .Untested}}<li><code>{{.Name}}</code> ({{.Kind}}, {{.File}}:{{.Line}})</li>
{{end}}</ul>{{end}}
{{if .Undocumented}}<h2>Undocumented</h2><ul>
{{range .Undocumented}}<li><code>{{.Name}}</code> ({{.Kind}}, {{.File}}:{{.Line}})</li>
{{end}}</ul>{{end}}
</body>
</html>
`))

// WriteHTML writes the report as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	return htmlReportTmpl.Execute(w, map[string]interface{}{
		"Generated":     humanize.Time(r.GeneratedAt),
		"Total":         r.Total,
		"Tested":        r.Tested,
		"TestedPct":     humanize.FtoaWithDigits(r.TestedPercent(), 1),
		"Documented":    r.Documented,
		"DocumentedPct": humanize.FtoaWithDigits(r.DocumentedPercent(), 1),
		"TestFuncs":     r.TestFuncs,
		"Untested":      r.Untested,
		"Undocumented":  r.Undocumented,
	})
}

// WriteTodo writes a Markdown work list of untested and undocumented
// entities, one checkbox per item.
func (r *Report) WriteTodo(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Test and Documentation TODO\n\nGenerated %s.\n",
		humanize.Time(r.GeneratedAt)); err != nil {
		return err
	}

	if len(r.Untested) == 0 && len(r.Undocumented) == 0 {
		_, err := fmt.Fprintf(w, "\nNothing to do: every exported entity is tested and documented.\n")
		return err
	}

	if len(r.Untested) > 0 {
		if _, err := fmt.Fprintf(w, "\n## Write tests\n\n"); err != nil {
			return err
		}
		for _, e := range r.Untested {
			if _, err := fmt.Fprintf(w, "- [ ] `%s` in %s\n", e.Name, e.Package); err != nil {
				return err
			}
		}
	}
	if len(r.Undocumented) > 0 {
		if _, err := fmt.Fprintf(w, "\n## Write doc comments\n\n"); err != nil {
			return err
		}
		for _, e := range r.Undocumented {
			if _, err := fmt.Fprintf(w, "- [ ] `%s` at %s:%d\n", e.Name, e.File, e.Line); err != nil {
				return err
			}
		}
	}
	return nil
}
