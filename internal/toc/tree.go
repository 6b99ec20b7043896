package toc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

// TreeManager regenerates toctree blocks from discovery results.
type TreeManager struct {
	ws *workspace.Workspace
	d  *discovery.Discovery
}

func NewTreeManager(ws *workspace.Workspace, d *discovery.Discovery) *TreeManager {
	return &TreeManager{ws: ws, d: d}
}

// mdToctreeBlockRe matches a whole {toctree} fenced block including its
// closing fence and at most one trailing blank line, so that replacing a
// block with a regenerated one does not accumulate blank lines.
var mdToctreeBlockRe = regexp.MustCompile("(?ms)^```\\{toctree\\}\n.*?^```\n\n?")

// UpdateAll regenerates the main index toctrees and creates missing section
// indices. It returns the rel paths of every file written.
func (m *TreeManager) UpdateAll() ([]string, error) {
	var written []string

	changed, err := m.UpdateMainIndex()
	if err != nil {
		return nil, err
	}
	if changed {
		written = append(written, "index.md")
	}

	created, err := m.EnsureSectionIndices()
	if err != nil {
		return written, err
	}
	return append(written, created...), nil
}

// UpdateMainIndex rewrites the toctree blocks of docs/index.md from the
// discovered TOC structure. Existing blocks are replaced in place; a file
// without blocks gets them inserted after the first heading; a missing index
// is created from scratch. Returns whether the file changed.
func (m *TreeManager) UpdateMainIndex() (bool, error) {
	indexPath := filepath.Join(m.ws.DocsDir, "index.md")
	blocks := m.renderBlocks()

	data, err := os.ReadFile(indexPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to read %s: %w", indexPath, err)
		}
		content := "# Documentation\n\n" + blocks
		logTOC.Printf("Creating main index %s", indexPath)
		return true, os.WriteFile(indexPath, []byte(content), 0644)
	}

	original := string(data)
	updated := replaceToctreeBlocks(original, blocks)
	if updated == original {
		return false, nil
	}
	return true, os.WriteFile(indexPath, []byte(updated), 0644)
}

// replaceToctreeBlocks swaps the first existing toctree block for the
// generated ones, drops any further blocks, or inserts after the first
// heading when the file has none.
func replaceToctreeBlocks(content, blocks string) string {
	locs := mdToctreeBlockRe.FindAllStringIndex(content, -1)
	if len(locs) > 0 {
		var b strings.Builder
		b.WriteString(content[:locs[0][0]])
		b.WriteString(blocks)
		prev := locs[0][1]
		for _, loc := range locs[1:] {
			b.WriteString(content[prev:loc[0]])
			prev = loc[1]
		}
		b.WriteString(content[prev:])
		return b.String()
	}

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			head := strings.Join(lines[:i+1], "")
			tail := strings.Join(lines[i+1:], "")
			return head + "\n" + blocks + tail
		}
	}

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + blocks
}

// renderBlocks produces one {toctree} block per non-empty TOC section, in
// canonical section order.
func (m *TreeManager) renderBlocks() string {
	toc := m.d.TOCStructure()

	var b strings.Builder
	for _, name := range discovery.SectionOrder {
		section := toc[name]
		if section == nil || len(section.Items) == 0 {
			continue
		}
		b.WriteString("```{toctree}\n:maxdepth: 2\n:caption: " + section.Title + "\n\n")
		for _, item := range section.Items {
			b.WriteString(strings.TrimSuffix(item.URL, ".html") + "\n")
		}
		b.WriteString("```\n\n")
	}
	return b.String()
}

// EnsureSectionIndices creates an index.md in every section directory that
// holds documents but no index of its own. Returns the rel paths created.
func (m *TreeManager) EnsureSectionIndices() ([]string, error) {
	type sectionDocs struct {
		hasIndex bool
		docs     []*discovery.Document
	}
	sections := make(map[string]*sectionDocs)

	for _, docs := range m.d.Documents {
		for _, doc := range docs {
			dir := filepath.ToSlash(filepath.Dir(doc.RelPath))
			s, ok := sections[dir]
			if !ok {
				s = &sectionDocs{}
				sections[dir] = s
			}
			if doc.IsIndex {
				s.hasIndex = true
				continue
			}
			s.docs = append(s.docs, doc)
		}
	}

	dirs := make([]string, 0, len(sections))
	for dir := range sections {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var created []string
	for _, dir := range dirs {
		s := sections[dir]
		if s.hasIndex || len(s.docs) == 0 || dir == "." {
			continue
		}
		indexPath := filepath.Join(m.ws.DocsDir, filepath.FromSlash(dir), "index.md")
		if _, err := os.Stat(indexPath); err == nil {
			continue
		}

		sort.Slice(s.docs, func(i, j int) bool { return s.docs[i].Title < s.docs[j].Title })

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n```{toctree}\n:maxdepth: 1\n\n", discovery.TitleFromStem(filepath.Base(dir)))
		for _, doc := range s.docs {
			name := filepath.Base(doc.RelPath)
			b.WriteString(strings.TrimSuffix(name, filepath.Ext(name)) + "\n")
		}
		b.WriteString("```\n")

		if err := os.WriteFile(indexPath, []byte(b.String()), 0644); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", indexPath, err)
		}
		logTOC.Printf("Created section index %s", indexPath)
		created = append(created, dir+"/index.md")
	}
	return created, nil
}
