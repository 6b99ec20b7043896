// Package manifest maintains the documentation manifest, a JSON registry of
// every tracked document stored at docs/docs_manifest.json. The manifest is
// the durable record other commands reconcile against: sync rebuilds it from
// discovery, validate diffs it against the tree, and build stamps it with
// build metadata.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/logger"
)

var logManifest = logger.New("manifest")

// Version is the manifest schema version written by this build.
const Version = "1.0"

// Build statuses recorded in BuildInfo.
const (
	BuildStatusSuccess = "success"
	BuildStatusFailed  = "failed"
	BuildStatusNone    = "never_built"
)

// Manifest is the on-disk documentation registry.
type Manifest struct {
	Version    string               `json:"version"`
	Project    string               `json:"project"`
	Categories map[string]*Category `json:"categories"`
	Metadata   Metadata             `json:"metadata"`
}

// Category groups manifest entries by origin, mirroring the discovery
// categories.
type Category struct {
	Description string             `json:"description"`
	Sections    map[string][]Entry `json:"sections"`
}

// Entry is one tracked document.
type Entry struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Metadata carries bookkeeping state: the update stamp, the outcome of the
// last reconciliation and the last build record.
type Metadata struct {
	LastUpdated string           `json:"last_updated"`
	Validation  ValidationStatus `json:"validation_status"`
	Build       BuildInfo        `json:"build_info"`
}

// ValidationStatus records the outcome of the last reconciliation.
type ValidationStatus struct {
	Missing  []string `json:"missing"`
	Outdated []string `json:"outdated"`
	Orphaned []string `json:"orphaned"`
}

// BuildInfo records the last documentation build.
type BuildInfo struct {
	ID          string `json:"id"`
	LastBuild   string `json:"last_build"`
	BuildStatus string `json:"build_status"`
}

var categoryDescriptions = map[string]string{
	string(discovery.CategoryUser): "Hand-written user documentation",
	string(discovery.CategoryAuto): "Generated API documentation",
	string(discovery.CategoryAI):   "Machine-assisted documentation",
}

// Default returns an empty manifest for the project.
func Default(project string) *Manifest {
	m := &Manifest{
		Version:    Version,
		Project:    project,
		Categories: make(map[string]*Category, len(categoryDescriptions)),
		Metadata:   Metadata{Build: BuildInfo{BuildStatus: BuildStatusNone}},
	}
	for name, desc := range categoryDescriptions {
		m.Categories[name] = &Category{
			Description: desc,
			Sections:    make(map[string][]Entry),
		}
	}
	return m
}

// Load reads the manifest at path. A missing or corrupt file yields a fresh
// default manifest rather than an error, so that a damaged manifest never
// blocks a rebuild.
func Load(path, project string) *Manifest {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logManifest.Printf("Failed to read manifest %s: %v", path, err)
		}
		return Default(project)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		logManifest.Printf("Manifest %s is corrupt, starting fresh: %v", path, err)
		return Default(project)
	}
	if m.Categories == nil {
		m.Categories = Default(project).Categories
	}
	if m.Project == "" {
		m.Project = project
	}
	return &m
}

// Save writes the manifest to path, stamping the update time.
func (m *Manifest) Save(path string) error {
	m.Metadata.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Sync rebuilds the manifest entries from a completed discovery scan.
// Orphaned documents found by discovery are recorded in the validation
// status; build info and project name survive the rebuild.
func (m *Manifest) Sync(d *discovery.Discovery) {
	m.Version = Version
	fresh := Default(m.Project)
	m.Categories = fresh.Categories

	for category, docs := range d.Documents {
		target := m.Categories[string(category)]
		for _, doc := range docs {
			target.Sections[doc.Section] = append(target.Sections[doc.Section], Entry{
				Path:  doc.RelPath,
				Title: doc.Title,
			})
		}
		for _, entries := range target.Sections {
			sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
		}
	}

	m.Metadata.Validation = ValidationStatus{Orphaned: append([]string(nil), d.Orphans...)}
	logManifest.Printf("Manifest synced: %d documents, %d orphans", d.Total(), len(d.Orphans))
}

// Entries returns every tracked entry across all categories, sorted by path.
func (m *Manifest) Entries() []Entry {
	var all []Entry
	for _, category := range m.Categories {
		for _, entries := range category.Sections {
			all = append(all, entries...)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all
}

// Validate reconciles the manifest against the docs tree rooted at docsDir.
// Missing entries point at files that no longer exist; outdated entries were
// modified after the manifest was last saved. The result is stored on the
// manifest and returned.
func (m *Manifest) Validate(docsDir string) ValidationStatus {
	status := ValidationStatus{Orphaned: m.Metadata.Validation.Orphaned}

	var lastUpdated time.Time
	if m.Metadata.LastUpdated != "" {
		lastUpdated, _ = time.Parse(time.RFC3339, m.Metadata.LastUpdated)
	}

	for _, entry := range m.Entries() {
		info, err := os.Stat(filepath.Join(docsDir, filepath.FromSlash(entry.Path)))
		if err != nil {
			status.Missing = append(status.Missing, entry.Path)
			continue
		}
		// The stamp has second resolution; compare at the same granularity.
		if !lastUpdated.IsZero() && info.ModTime().Truncate(time.Second).After(lastUpdated) {
			status.Outdated = append(status.Outdated, entry.Path)
		}
	}

	m.Metadata.Validation = status
	return status
}

// UpdateBuildInfo stamps the manifest with a fresh build record.
func (m *Manifest) UpdateBuildInfo(status string) {
	m.Metadata.Build = BuildInfo{
		ID:          uuid.NewString(),
		LastBuild:   time.Now().UTC().Format(time.RFC3339),
		BuildStatus: status,
	}
}

// Total returns the number of tracked entries.
func (m *Manifest) Total() int {
	n := 0
	for _, category := range m.Categories {
		for _, entries := range category.Sections {
			n += len(entries)
		}
	}
	return n
}
