// Package discovery finds and catalogs documentation sources across the
// docs tree. Every Markdown and reStructuredText file is mapped to a
// Document carrying its extracted title, category, section and outgoing
// references, which the toc, manifest and validate packages build on.
package discovery

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Category classifies where a document came from.
type Category string

const (
	// CategoryUser is hand-written documentation under user_docs/.
	CategoryUser Category = "user"
	// CategoryAuto is generated documentation under auto_docs/ or autoapi/.
	CategoryAuto Category = "auto"
	// CategoryAI is machine-assisted documentation under ai_docs/.
	CategoryAI Category = "ai"
)

// Priority bands controlling ordering inside TOC sections. Lower sorts first.
const (
	PriorityIndex  = 30
	PriorityUser   = 50
	PriorityAI     = 60
	PriorityAuto   = 70
	PriorityOrphan = 90
)

// Document is a discovered documentation source file.
type Document struct {
	Path       string   // absolute path
	RelPath    string   // relative to docs dir, forward slashes
	Title      string
	Category   Category
	Section    string
	Priority   int
	References []string // outgoing doc references, as written
	IsIndex    bool
}

// URL returns the output location of the document relative to the build root.
func (d *Document) URL() string {
	ext := filepath.Ext(d.RelPath)
	return strings.TrimSuffix(d.RelPath, ext) + ".html"
}

var (
	mdTitleRe  = regexp.MustCompile(`(?m)^#\s+(.+?)\s*$`)
	rstTitleRe = regexp.MustCompile(`(?m)^(.+?)\n=+\s*$`)
	mdLinkRe   = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)
	rstDocRe   = regexp.MustCompile(":doc:`([^`]+)`")
)

// ReadDocument builds a Document for the file at path. Title and references
// are extracted from the content; extraction failures fall back to
// filename-derived metadata rather than erroring, because a half-readable
// document is still worth tracking.
func ReadDocument(docsDir, path string, category Category, section string, priority int) (*Document, error) {
	rel, err := filepath.Rel(docsDir, path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := &Document{
		Path:     path,
		RelPath:  rel,
		Title:    TitleFromStem(stem),
		Category: category,
		Section:  section,
		Priority: priority,
		IsIndex:  strings.EqualFold(stem, "index"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Unreadable files keep their filename-derived title.
		return doc, nil
	}
	content := string(data)

	switch filepath.Ext(path) {
	case ".md":
		if m := mdTitleRe.FindStringSubmatch(content); m != nil {
			doc.Title = strings.TrimSpace(m[1])
		}
		for _, m := range mdLinkRe.FindAllStringSubmatch(content, -1) {
			link := strings.TrimSpace(m[1])
			if link == "" || strings.HasPrefix(link, "http:") || strings.HasPrefix(link, "https:") || strings.HasPrefix(link, "#") {
				continue
			}
			doc.References = append(doc.References, link)
		}
	case ".rst":
		if m := rstTitleRe.FindStringSubmatch(content); m != nil {
			doc.Title = strings.TrimSpace(m[1])
		}
		for _, m := range rstDocRe.FindAllStringSubmatch(content, -1) {
			doc.References = append(doc.References, strings.TrimSpace(m[1]))
		}
	}

	return doc, nil
}

// TitleFromStem turns a file stem like "getting_started" into "Getting Started".
func TitleFromStem(stem string) string {
	words := strings.Split(strings.ReplaceAll(stem, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// hasUnderscoreSegment reports whether any path segment starts with "_"
// (_build, _static, _templates and friends are never documentation sources).
func hasUnderscoreSegment(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, "_") {
			return true
		}
	}
	return false
}
