package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TOCItem is a single entry inside a TOC section.
type TOCItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Priority int    `json:"priority"`
}

// TOCSection is an ordered group of TOC entries.
type TOCSection struct {
	Title string    `json:"title"`
	Items []TOCItem `json:"items"`
}

// SectionOrder is the canonical ordering of TOC sections in generated indices.
var SectionOrder = []string{
	"getting_started",
	"user_guide",
	"concepts",
	"reference",
	"examples",
	"advanced",
}

var sectionTitles = map[string]string{
	"getting_started": "Getting Started",
	"user_guide":      "User Guide",
	"concepts":        "Concepts",
	"reference":       "API Reference",
	"examples":        "Examples",
	"advanced":        "Advanced Topics",
}

// sectionMapping routes discovered document sections into TOC sections.
// Unmapped sections land in reference.
var sectionMapping = map[string]string{
	"getting_started": "getting_started",
	"guides":          "user_guide",
	"faq":             "user_guide",
	"concepts":        "concepts",
	"reference":       "reference",
	"api":             "reference",
	"examples":        "examples",
	"advanced":        "advanced",
}

// sectionKeywords score orphaned documents into sections by filename and
// content matches.
var sectionKeywords = map[string][]string{
	"getting_started": {"installation", "quickstart", "setup", "introduction"},
	"user_guide":      {"guide", "how to", "usage", "tutorial"},
	"concepts":        {"concept", "architecture", "design", "principles"},
	"reference":       {"api", "reference", "class", "function"},
	"examples":        {"example", "sample", "demo"},
	"advanced":        {"advanced", "expert", "internals", "deep dive"},
}

// TOCStructure builds the table-of-contents structure for the discovered
// documents. Orphaned documents are placed into the best-matching section by
// keyword scoring and receive the lowest priority. Items within each section
// are sorted by priority, ties broken by title.
func (d *Discovery) TOCStructure() map[string]*TOCSection {
	toc := make(map[string]*TOCSection, len(SectionOrder))
	for _, name := range SectionOrder {
		toc[name] = &TOCSection{Title: sectionTitles[name]}
	}

	placed := make(map[string]bool)
	for _, docs := range d.Documents {
		for _, doc := range docs {
			target, ok := sectionMapping[doc.Section]
			if !ok {
				target = "reference"
			}
			toc[target].Items = append(toc[target].Items, TOCItem{
				Title:    doc.Title,
				URL:      doc.URL(),
				Priority: doc.Priority,
			})
			placed[strings.TrimSuffix(doc.URL(), ".html")] = true
		}
	}

	for _, rel := range d.Orphans {
		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		if placed[stem] {
			continue
		}
		section := d.classifyOrphan(rel)
		toc[section].Items = append(toc[section].Items, TOCItem{
			Title:    orphanTitle(d.ws.DocsDir, rel),
			URL:      stem + ".html",
			Priority: PriorityOrphan,
		})
	}

	for _, section := range toc {
		items := section.Items
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Priority != items[j].Priority {
				return items[i].Priority < items[j].Priority
			}
			return items[i].Title < items[j].Title
		})
	}

	return toc
}

// classifyOrphan picks the TOC section for an orphaned document. The filename
// is checked first; on a weak match the content is scored by keyword counts.
func (d *Discovery) classifyOrphan(rel string) string {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)))

	best := ""
	bestScore := 0
	for _, section := range SectionOrder {
		for _, kw := range sectionKeywords[section] {
			if strings.Contains(stem, kw) {
				if best == "" || bestScore < 2 {
					best = section
					bestScore = 2
				}
			}
		}
	}

	if bestScore < 2 {
		if data, err := os.ReadFile(filepath.Join(d.ws.DocsDir, filepath.FromSlash(rel))); err == nil {
			content := strings.ToLower(string(data))
			for _, section := range SectionOrder {
				score := 0
				for _, kw := range sectionKeywords[section] {
					score += strings.Count(content, kw)
				}
				if score > bestScore {
					best = section
					bestScore = score
				}
			}
		}
	}

	if best == "" {
		return "reference"
	}
	return best
}

// orphanTitle extracts a display title for an orphaned document, preferring
// the in-document heading over the filename.
func orphanTitle(docsDir, rel string) string {
	path := filepath.Join(docsDir, filepath.FromSlash(rel))
	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

	data, err := os.ReadFile(path)
	if err != nil {
		return TitleFromStem(stem)
	}
	content := string(data)

	switch filepath.Ext(rel) {
	case ".md":
		if m := mdTitleRe.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
	case ".rst":
		if m := rstTitleRe.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return TitleFromStem(stem)
}
