// Package validate checks the documentation tree for discrepancies: missing
// required documents, structural problems, broken references and low-quality
// pages. The checks run on discovery results so validation sees exactly the
// documents a build would.
package validate

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logValidate = logger.New("validate")

// Discrepancy types.
const (
	TypeMissing      = "missing"
	TypeStructural   = "structural"
	TypeQuality      = "quality"
	TypeInconsistent = "inconsistent"
)

// minContentLength is the threshold below which a document counts as a stub.
const minContentLength = 100

// Discrepancy is one validation finding.
type Discrepancy struct {
	Type   string `json:"type"`
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

// Report aggregates every finding of a validation run.
type Report struct {
	Discrepancies []Discrepancy  `json:"discrepancies"`
	Counts        map[string]int `json:"counts"`
}

// OK reports whether the run found nothing.
func (r *Report) OK() bool {
	return len(r.Discrepancies) == 0
}

// Validator runs the checks against a discovered docs tree.
type Validator struct {
	ws *workspace.Workspace
	d  *discovery.Discovery
}

func New(ws *workspace.Workspace, d *discovery.Discovery) *Validator {
	return &Validator{ws: ws, d: d}
}

// standardTopLevel are the docs-root entries that belong to the canonical
// layout. Anything else outside underscore directories is flagged.
var standardTopLevel = map[string]bool{
	discovery.UserDocsDir: true,
	discovery.AutoDocsDir: true,
	discovery.AIDocsDir:   true,
	discovery.AutoAPIDir:  true,
	"assets":              true,
}

// Run executes every check. entities, when non-nil, is the set of exported
// code identifiers; exported entities never mentioned by any generated API
// document are reported as missing documentation.
func (v *Validator) Run(entities map[string]bool) (*Report, error) {
	report := &Report{Counts: make(map[string]int)}

	v.checkRequired(report)
	if err := v.checkStructure(report); err != nil {
		return nil, err
	}
	v.checkReferences(report)
	v.checkQuality(report)
	v.checkEntities(report, entities)

	sort.SliceStable(report.Discrepancies, func(i, j int) bool {
		a, b := report.Discrepancies[i], report.Discrepancies[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Path < b.Path
	})
	for _, d := range report.Discrepancies {
		report.Counts[d.Type]++
	}

	logValidate.Printf("Validation found %d discrepancies", len(report.Discrepancies))
	return report, nil
}

// checkRequired verifies the root index exists.
func (v *Validator) checkRequired(report *Report) {
	for _, name := range []string{"index.md", "index.rst"} {
		if _, err := os.Stat(filepath.Join(v.ws.DocsDir, name)); err == nil {
			return
		}
	}
	report.Discrepancies = append(report.Discrepancies, Discrepancy{
		Type:   TypeMissing,
		Path:   "index.md",
		Detail: "documentation root has no index",
	})
}

// checkStructure flags non-standard top-level directories, multi-document
// directories without an index, and duplicate titles.
func (v *Validator) checkStructure(report *Report) error {
	entries, err := os.ReadDir(v.ws.DocsDir)
	if err != nil {
		return fmt.Errorf("failed to read docs directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, "_") || standardTopLevel[name] {
			continue
		}
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			Type:   TypeStructural,
			Path:   name,
			Detail: "non-standard top-level directory",
		})
	}

	type dirState struct {
		count    int
		hasIndex bool
	}
	dirs := make(map[string]*dirState)
	titles := make(map[string][]string)

	for _, docs := range v.d.Documents {
		for _, doc := range docs {
			dir := path.Dir(doc.RelPath)
			s, ok := dirs[dir]
			if !ok {
				s = &dirState{}
				dirs[dir] = s
			}
			s.count++
			if doc.IsIndex {
				s.hasIndex = true
			}
			titles[doc.Title] = append(titles[doc.Title], doc.RelPath)
		}
	}

	dirNames := make([]string, 0, len(dirs))
	for dir := range dirs {
		dirNames = append(dirNames, dir)
	}
	sort.Strings(dirNames)
	for _, dir := range dirNames {
		s := dirs[dir]
		if s.count > 1 && !s.hasIndex {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Type:   TypeStructural,
				Path:   dir,
				Detail: fmt.Sprintf("%d documents but no index", s.count),
			})
		}
	}

	titleNames := make([]string, 0, len(titles))
	for title := range titles {
		titleNames = append(titleNames, title)
	}
	sort.Strings(titleNames)
	for _, title := range titleNames {
		paths := titles[title]
		if len(paths) > 1 {
			sort.Strings(paths)
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Type:   TypeStructural,
				Path:   paths[0],
				Detail: fmt.Sprintf("title %q duplicated in %s", title, strings.Join(paths[1:], ", ")),
			})
		}
	}
	return nil
}

// checkReferences resolves every outgoing document reference and flags the
// ones pointing at files that do not exist.
func (v *Validator) checkReferences(report *Report) {
	for source, refs := range v.d.ReferenceMap() {
		base := path.Dir(source)
		for _, ref := range refs {
			target := ref
			if i := strings.IndexByte(target, '#'); i >= 0 {
				target = target[:i]
			}
			if target == "" {
				continue
			}
			if !strings.HasPrefix(target, "/") {
				target = path.Join(base, target)
			} else {
				target = strings.TrimPrefix(target, "/")
			}
			target = path.Clean(target)

			if v.targetExists(target) {
				continue
			}
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Type:   TypeInconsistent,
				Path:   source,
				Detail: fmt.Sprintf("broken reference %q", ref),
			})
		}
	}
}

// targetExists checks a docs-root relative reference target, with or without
// its extension (:doc: roles omit it).
func (v *Validator) targetExists(target string) bool {
	full := filepath.Join(v.ws.DocsDir, filepath.FromSlash(target))
	if _, err := os.Stat(full); err == nil {
		return true
	}
	if path.Ext(target) == "" {
		for _, ext := range []string{".md", ".rst"} {
			if _, err := os.Stat(full + ext); err == nil {
				return true
			}
		}
	}
	return false
}

// checkQuality flags stub documents and documents without a heading.
func (v *Validator) checkQuality(report *Report) {
	for _, docs := range v.d.Documents {
		for _, doc := range docs {
			data, err := os.ReadFile(doc.Path)
			if err != nil {
				continue
			}
			content := strings.TrimSpace(string(data))

			if len(content) < minContentLength {
				report.Discrepancies = append(report.Discrepancies, Discrepancy{
					Type:   TypeQuality,
					Path:   doc.RelPath,
					Detail: fmt.Sprintf("only %d characters of content", len(content)),
				})
			}
			if !hasHeading(content, path.Ext(doc.RelPath)) {
				report.Discrepancies = append(report.Discrepancies, Discrepancy{
					Type:   TypeQuality,
					Path:   doc.RelPath,
					Detail: "no heading",
				})
			}
		}
	}
}

func hasHeading(content, ext string) bool {
	for _, line := range strings.Split(content, "\n") {
		if ext == ".md" && strings.HasPrefix(line, "#") {
			return true
		}
		if ext == ".rst" && strings.HasPrefix(line, "=") && strings.TrimRight(line, "=") == "" && line != "" {
			return true
		}
	}
	return false
}

// checkEntities reports exported code identifiers that no generated API
// document mentions.
func (v *Validator) checkEntities(report *Report, entities map[string]bool) {
	if len(entities) == 0 {
		return
	}

	mentioned := make(map[string]bool)
	for _, doc := range v.d.Documents[discovery.CategoryAuto] {
		data, err := os.ReadFile(doc.Path)
		if err != nil {
			continue
		}
		content := string(data)
		for entity := range entities {
			if strings.Contains(content, entity) {
				mentioned[entity] = true
			}
		}
	}

	names := make([]string, 0, len(entities))
	for entity := range entities {
		if !mentioned[entity] {
			names = append(names, entity)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			Type:   TypeMissing,
			Path:   name,
			Detail: "exported identifier has no API documentation",
		})
	}
}

// WriteText writes the report in a human-readable form.
func (r *Report) WriteText(w io.Writer) error {
	if r.OK() {
		_, err := fmt.Fprintln(w, "No discrepancies found")
		return err
	}

	types := make([]string, 0, len(r.Counts))
	for t := range r.Counts {
		types = append(types, t)
	}
	sort.Strings(types)

	summary := make([]string, 0, len(types))
	for _, t := range types {
		summary = append(summary, fmt.Sprintf("%s=%d", t, r.Counts[t]))
	}
	if _, err := fmt.Fprintf(w, "%d discrepancies (%s)\n", len(r.Discrepancies), strings.Join(summary, " ")); err != nil {
		return err
	}

	for _, d := range r.Discrepancies {
		if _, err := fmt.Fprintf(w, "  [%s] %s: %s\n", d.Type, d.Path, d.Detail); err != nil {
			return err
		}
	}
	return nil
}
