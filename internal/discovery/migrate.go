package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logMigrate = logger.New("discovery:migrate")

// wellKnownTargets routes common loose documents to their user_docs section
// by filename. Anything else is placed by keyword classification.
var wellKnownTargets = map[string]string{
	"installation.md":   "getting_started",
	"quickstart.md":     "getting_started",
	"examples.md":       "examples",
	"advanced_usage.md": "advanced",
	"conventions.md":    "concepts",
	"contributing.md":   "guides",
	"api_reference.md":  "reference",
}

// tocSectionDirs maps the classifier's TOC sections onto user_docs section
// directories. Sections missing here use their own name.
var tocSectionDirs = map[string]string{
	"user_guide": "guides",
}

// Migrator relocates loose markdown documents into the category layout.
// Sources stay in place; documents are copied so a bad migration never
// destroys content.
type Migrator struct {
	ws *workspace.Workspace

	// SkipExisting leaves a document alone whenever the target already
	// exists, even when the source is newer.
	SkipExisting bool
	// IncludeAuto also migrates documents whose name marks them as
	// generated output.
	IncludeAuto bool
}

func NewMigrator(ws *workspace.Workspace) *Migrator {
	return &Migrator{ws: ws}
}

// Migration reports what a migration run did, in rel paths under the docs
// root.
type Migration struct {
	Migrated []string // copied into the category layout
	Skipped  []string // left alone (up to date, existing target, generated)
	Created  []string // placeholder pages created for well-known documents
}

// Run migrates every orphaned markdown document into user_docs, ensuring the
// section and auto_docs directories exist first. Well-known filenames go to
// their fixed section; the rest are classified by filename and content
// keywords, defaulting to reference.
func (m *Migrator) Run() (*Migration, error) {
	if _, err := os.Stat(m.ws.DocsDir); err != nil {
		return nil, fmt.Errorf("docs directory not found at %s: %w", m.ws.DocsDir, err)
	}

	if err := m.ensureLayout(); err != nil {
		return nil, err
	}

	migration := &Migration{}
	if err := m.ensurePlaceholders(migration); err != nil {
		return nil, err
	}

	d := New(m.ws)
	if err := d.DiscoverAll(); err != nil {
		return nil, err
	}

	for _, rel := range d.Orphans {
		if filepath.Ext(rel) != ".md" {
			continue
		}
		base := filepath.Base(rel)
		if !m.IncludeAuto && strings.Contains(strings.ToLower(base), "auto") {
			logMigrate.Printf("Skipping generated document: %s", rel)
			migration.Skipped = append(migration.Skipped, rel)
			continue
		}

		section, ok := wellKnownTargets[base]
		if !ok {
			section = d.classifyOrphan(rel)
			if dir, ok := tocSectionDirs[section]; ok {
				section = dir
			}
		}

		copied, err := m.copyDocument(rel, filepath.Join(UserDocsDir, section, base))
		if err != nil {
			return nil, err
		}
		if copied {
			migration.Migrated = append(migration.Migrated, rel)
		} else {
			migration.Skipped = append(migration.Skipped, rel)
		}
	}

	sort.Strings(migration.Migrated)
	sort.Strings(migration.Skipped)
	sort.Strings(migration.Created)
	logMigrate.Printf("Migration complete: %d migrated, %d skipped, %d created",
		len(migration.Migrated), len(migration.Skipped), len(migration.Created))
	return migration, nil
}

// ensureLayout creates the section directories documents migrate into, plus
// the auto_docs output directories.
func (m *Migrator) ensureLayout() error {
	var dirs []string
	for _, section := range SectionOrder {
		dir := section
		if mapped, ok := tocSectionDirs[section]; ok {
			dir = mapped
		}
		dirs = append(dirs, filepath.Join(UserDocsDir, dir))
	}
	for _, section := range autoSections {
		dirs = append(dirs, filepath.Join(AutoDocsDir, section))
	}

	for _, dir := range dirs {
		if err := workspace.EnsureDir(filepath.Join(m.ws.DocsDir, dir)); err != nil {
			return err
		}
	}
	return nil
}

// ensurePlaceholders creates a stub page for every well-known document that
// exists neither loose at the docs root nor at its target.
func (m *Migrator) ensurePlaceholders(migration *Migration) error {
	names := make([]string, 0, len(wellKnownTargets))
	for name := range wellKnownTargets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		source := filepath.Join(m.ws.DocsDir, name)
		rel := filepath.Join(UserDocsDir, wellKnownTargets[name], name)
		target := filepath.Join(m.ws.DocsDir, rel)

		if _, err := os.Stat(source); err == nil {
			continue
		}
		if _, err := os.Stat(target); err == nil {
			continue
		}

		stem := strings.TrimSuffix(name, ".md")
		content := fmt.Sprintf("# %s\n\nThis page has not been written yet.\n", TitleFromStem(stem))
		if err := os.WriteFile(target, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create placeholder %s: %w", target, err)
		}
		migration.Created = append(migration.Created, filepath.ToSlash(rel))
		logMigrate.Printf("Created placeholder: %s", rel)
	}
	return nil
}

// copyDocument copies the document at rel to targetRel, preserving the source
// modification time so repeated runs can tell the copy is current. An
// existing target that is at least as new as the source is left alone.
func (m *Migrator) copyDocument(rel, targetRel string) (bool, error) {
	source := filepath.Join(m.ws.DocsDir, filepath.FromSlash(rel))
	target := filepath.Join(m.ws.DocsDir, targetRel)

	srcInfo, err := os.Stat(source)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if dstInfo, err := os.Stat(target); err == nil {
		if m.SkipExisting || !srcInfo.ModTime().After(dstInfo.ModTime()) {
			logMigrate.Printf("Skipping %s: target is current", rel)
			return false, nil
		}
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if err := workspace.EnsureDir(filepath.Dir(target)); err != nil {
		return false, err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := os.Chtimes(target, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return false, fmt.Errorf("failed to stamp %s: %w", target, err)
	}

	logMigrate.Printf("Migrated %s -> %s", rel, targetRel)
	return true, nil
}
