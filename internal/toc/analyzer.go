// Package toc analyzes and maintains tables of contents. Toctree blocks in
// Markdown ({toctree} fences) and reStructuredText (.. toctree:: directives)
// are parsed into a navigation graph, checked for broken entries and orphaned
// documents, and regenerated from discovery results.
package toc

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logTOC = logger.New("toc")

// Issue types reported by the analyzer.
const (
	IssueMissingTarget    = "missing_target"
	IssueOrphanedDocument = "orphaned_document"
)

// Issue is a single navigation problem.
type Issue struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"` // file containing the toctree
	Target string `json:"target"`           // the entry or document at fault
}

// Analysis is the parsed navigation graph of the docs tree.
type Analysis struct {
	// Documents maps extension-less rel paths to their on-disk rel paths.
	Documents map[string]string `json:"documents"`
	// Toctrees maps each file containing toctree blocks to its resolved
	// entries (extension-less, relative to the docs root).
	Toctrees map[string][]string `json:"toctrees"`
	Issues   []Issue             `json:"issues"`
}

// Analyzer builds an Analysis from the workspace docs tree.
type Analyzer struct {
	ws *workspace.Workspace
}

func NewAnalyzer(ws *workspace.Workspace) *Analyzer {
	return &Analyzer{ws: ws}
}

// Analyze walks the docs tree, parses every toctree and cross-checks entries
// against the files actually present.
func (a *Analyzer) Analyze() (*Analysis, error) {
	analysis := &Analysis{
		Documents: make(map[string]string),
		Toctrees:  make(map[string][]string),
	}

	err := filepath.WalkDir(a.ws.DocsDir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".md" && ext != ".rst" {
			return nil
		}

		rel, err := filepath.Rel(a.ws.DocsDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		analysis.Documents[strings.TrimSuffix(rel, ext)] = rel

		data, err := os.ReadFile(p)
		if err != nil {
			logTOC.Printf("Skipping unreadable file %s: %v", rel, err)
			return nil
		}

		var entries []string
		if ext == ".md" {
			entries = parseMarkdownToctrees(string(data))
		} else {
			entries = parseRSTToctrees(string(data))
		}
		if len(entries) == 0 {
			return nil
		}

		base := path.Dir(rel)
		resolved := make([]string, 0, len(entries))
		for _, e := range entries {
			resolved = append(resolved, resolveEntry(base, e))
		}
		analysis.Toctrees[rel] = resolved
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toc analysis failed: %w", err)
	}

	a.findIssues(analysis)
	logTOC.Printf("TOC analysis: %d documents, %d toctrees, %d issues",
		len(analysis.Documents), len(analysis.Toctrees), len(analysis.Issues))
	return analysis, nil
}

// findIssues records broken toctree entries and unreferenced documents.
func (a *Analyzer) findIssues(analysis *Analysis) {
	referenced := make(map[string]bool)

	sources := make([]string, 0, len(analysis.Toctrees))
	for source := range analysis.Toctrees {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		for _, target := range analysis.Toctrees[source] {
			referenced[target] = true
			if _, ok := analysis.Documents[target]; !ok {
				analysis.Issues = append(analysis.Issues, Issue{
					Type:   IssueMissingTarget,
					Source: source,
					Target: target,
				})
			}
		}
	}

	stems := make([]string, 0, len(analysis.Documents))
	for stem := range analysis.Documents {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	for _, stem := range stems {
		if referenced[stem] || stem == "index" || stem == "README" {
			continue
		}
		analysis.Issues = append(analysis.Issues, Issue{
			Type:   IssueOrphanedDocument,
			Target: analysis.Documents[stem],
		})
	}
}

// parseMarkdownToctrees extracts entries from {toctree} fenced blocks.
func parseMarkdownToctrees(content string) []string {
	var entries []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inBlock && strings.HasPrefix(trimmed, "```{toctree}"):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, "```"):
			inBlock = false
		case inBlock:
			if e := parseEntryLine(trimmed); e != "" {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// parseRSTToctrees extracts entries from .. toctree:: directives. The
// directive body is every following line indented deeper than the directive
// itself.
func parseRSTToctrees(content string) []string {
	var entries []string
	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != ".. toctree::" {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			line := lines[j]
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
				i = j - 1
				break
			}
			if e := parseEntryLine(trimmed); e != "" {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// parseEntryLine returns the toctree target on a body line, or "" for option
// lines (:maxdepth: and friends), comments and blanks. The "Title <target>"
// form resolves to the bracketed target.
func parseEntryLine(trimmed string) string {
	if trimmed == "" || strings.HasPrefix(trimmed, ":") || strings.HasPrefix(trimmed, "..") {
		return ""
	}
	if open := strings.LastIndexByte(trimmed, '<'); open >= 0 && strings.HasSuffix(trimmed, ">") {
		return strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	}
	return trimmed
}

// resolveEntry normalizes a toctree entry to an extension-less path relative
// to the docs root. Entries starting with "/" are already docs-root relative.
func resolveEntry(base, entry string) string {
	entry = strings.TrimSuffix(strings.TrimSuffix(entry, ".md"), ".rst")
	if strings.HasPrefix(entry, "/") {
		return path.Clean(strings.TrimPrefix(entry, "/"))
	}
	if base == "." {
		return path.Clean(entry)
	}
	return path.Clean(path.Join(base, entry))
}

// WriteReport writes a human-readable summary of the analysis.
func (an *Analysis) WriteReport(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Documents: %d\nToctrees: %d\nIssues: %d\n",
		len(an.Documents), len(an.Toctrees), len(an.Issues)); err != nil {
		return err
	}
	for _, issue := range an.Issues {
		var err error
		switch issue.Type {
		case IssueMissingTarget:
			_, err = fmt.Fprintf(w, "  missing target: %s (referenced from %s)\n", issue.Target, issue.Source)
		case IssueOrphanedDocument:
			_, err = fmt.Fprintf(w, "  orphaned document: %s\n", issue.Target)
		default:
			_, err = fmt.Fprintf(w, "  %s: %s\n", issue.Type, issue.Target)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
