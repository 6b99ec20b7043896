package manifest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/neuroforge/doc-forge/internal/discovery"
)

// categoryOrder fixes the rendering order of the generated index; categories
// outside the known set follow alphabetically.
var categoryOrder = []string{
	string(discovery.CategoryUser),
	string(discovery.CategoryAI),
	string(discovery.CategoryAuto),
}

// WriteIndex renders a Markdown index of every tracked document, grouped by
// category and section. Empty categories are omitted.
func (m *Manifest) WriteIndex(w io.Writer) error {
	title := m.Project
	if title == "" {
		title = "Documentation"
	}
	if _, err := fmt.Fprintf(w, "# %s Index\n", title); err != nil {
		return err
	}

	for _, name := range orderedCategories(m.Categories) {
		category := m.Categories[name]
		if sectionCount(category) == 0 {
			continue
		}

		if _, err := fmt.Fprintf(w, "\n## %s\n\n%s\n", discovery.TitleFromStem(name), category.Description); err != nil {
			return err
		}

		sections := make([]string, 0, len(category.Sections))
		for section := range category.Sections {
			sections = append(sections, section)
		}
		sort.Strings(sections)

		for _, section := range sections {
			entries := category.Sections[section]
			if len(entries) == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "\n### %s\n\n", discovery.TitleFromStem(section)); err != nil {
				return err
			}
			for _, entry := range entries {
				if _, err := fmt.Fprintf(w, "- [%s](%s)\n", entry.Title, entry.Path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func orderedCategories(categories map[string]*Category) []string {
	known := make(map[string]bool, len(categoryOrder))
	ordered := make([]string, 0, len(categories))
	for _, name := range categoryOrder {
		known[name] = true
		if _, ok := categories[name]; ok {
			ordered = append(ordered, name)
		}
	}

	var rest []string
	for name := range categories {
		if !known[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func sectionCount(category *Category) int {
	n := 0
	for _, entries := range category.Sections {
		n += len(entries)
	}
	return n
}

// IndexSummary returns a one-line description of the manifest contents for
// command output.
func (m *Manifest) IndexSummary() string {
	parts := make([]string, 0, len(m.Categories))
	for _, name := range orderedCategories(m.Categories) {
		if n := sectionCount(m.Categories[name]); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, n))
		}
	}
	if len(parts) == 0 {
		return "no tracked documents"
	}
	return strings.Join(parts, " ")
}
