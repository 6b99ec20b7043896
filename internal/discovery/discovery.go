package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logDiscovery = logger.New("discovery")

// docPattern selects documentation source files, doublestar syntax.
const docPattern = "**/*.{md,rst}"

// Category directory layout under the docs root.
const (
	UserDocsDir = "user_docs"
	AutoDocsDir = "auto_docs"
	AIDocsDir   = "ai_docs"
	AutoAPIDir  = "autoapi" // common generator output location
)

// autoSections are the recognized subdirectories of auto_docs.
var autoSections = []string{"api", "introspected", "extracted"}

// Discovery walks the docs tree and catalogs every documentation source.
type Discovery struct {
	ws *workspace.Workspace

	Documents map[Category][]*Document
	Orphans   []string // rel paths of docs outside the category structure
}

// New creates a Discovery for the workspace.
func New(ws *workspace.Workspace) *Discovery {
	return &Discovery{
		ws:        ws,
		Documents: make(map[Category][]*Document),
	}
}

// DiscoverAll scans user, auto and AI documentation and identifies orphans.
// Results replace any previous scan.
func (d *Discovery) DiscoverAll() error {
	d.Documents = make(map[Category][]*Document)
	d.Orphans = nil

	if _, err := os.Stat(d.ws.DocsDir); err != nil {
		return fmt.Errorf("docs directory not found at %s: %w", d.ws.DocsDir, err)
	}

	if err := d.discoverSectioned(UserDocsDir, CategoryUser); err != nil {
		return err
	}
	if err := d.discoverAuto(); err != nil {
		return err
	}
	if err := d.discoverSectioned(AIDocsDir, CategoryAI); err != nil {
		return err
	}
	if err := d.identifyOrphans(); err != nil {
		return err
	}

	logDiscovery.Printf("Discovery complete: user=%d auto=%d ai=%d orphans=%d",
		len(d.Documents[CategoryUser]), len(d.Documents[CategoryAuto]),
		len(d.Documents[CategoryAI]), len(d.Orphans))
	return nil
}

// Total returns the number of discovered documents across all categories.
func (d *Discovery) Total() int {
	n := 0
	for _, docs := range d.Documents {
		n += len(docs)
	}
	return n
}

// discoverSectioned scans a category directory whose immediate subdirectories
// are sections (user_docs/getting_started, ai_docs/generated, ...).
func (d *Discovery) discoverSectioned(dirName string, category Category) error {
	dir := filepath.Join(d.ws.DocsDir, dirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logDiscovery.Printf("Category directory not found: %s", dir)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		section := entry.Name()
		err := d.collect(filepath.Join(dir, section), category, section, func(doc *Document) int {
			if doc.IsIndex {
				return PriorityIndex
			}
			if category == CategoryAI {
				return PriorityAI
			}
			return PriorityUser
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// discoverAuto scans the known auto-generated output directories.
func (d *Discovery) discoverAuto() error {
	dirs := make([]string, 0, len(autoSections)+1)
	for _, section := range autoSections {
		dirs = append(dirs, filepath.Join(d.ws.DocsDir, AutoDocsDir, section))
	}
	dirs = append(dirs, filepath.Join(d.ws.DocsDir, AutoAPIDir))

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		section := filepath.Base(dir)
		err := d.collect(dir, CategoryAuto, section, func(*Document) int { return PriorityAuto })
		if err != nil {
			return err
		}
	}
	return nil
}

// collect walks dir and appends every matching document to the category.
func (d *Discovery) collect(dir string, category Category, section string, priority func(*Document) int) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if hasUnderscoreSegment(rel) {
			return nil
		}
		if ok, _ := doublestar.Match(docPattern, filepath.ToSlash(rel)); !ok {
			return nil
		}

		doc, err := ReadDocument(d.ws.DocsDir, path, category, section, 0)
		if err != nil {
			return err
		}
		doc.Priority = priority(doc)
		d.Documents[category] = append(d.Documents[category], doc)
		return nil
	})
}

// identifyOrphans finds docs in the tree that sit outside the category
// structure entirely.
func (d *Discovery) identifyOrphans() error {
	structured := []string{UserDocsDir, AutoDocsDir, AIDocsDir, AutoAPIDir, "assets"}

	err := filepath.WalkDir(d.ws.DocsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(d.ws.DocsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if hasUnderscoreSegment(rel) {
			return nil
		}
		if ok, _ := doublestar.Match(docPattern, rel); !ok {
			return nil
		}

		top := rel
		if i := strings.IndexByte(rel, '/'); i >= 0 {
			top = rel[:i]
		}
		for _, dir := range structured {
			if top == dir {
				return nil
			}
		}
		// Top-level index files anchor the tree; they are not orphans.
		if rel == "index.md" || rel == "index.rst" || rel == "README.md" {
			return nil
		}
		d.Orphans = append(d.Orphans, rel)
		return nil
	})
	if err != nil {
		return err
	}

	sort.Strings(d.Orphans)
	return nil
}

// ReferenceMap returns, for each document with outgoing references, the set
// of referenced targets keyed by the document's rel path.
func (d *Discovery) ReferenceMap() map[string][]string {
	refs := make(map[string][]string)
	for _, docs := range d.Documents {
		for _, doc := range docs {
			if len(doc.References) > 0 {
				refs[doc.RelPath] = doc.References
			}
		}
	}
	return refs
}
