// Package workspace resolves repository and documentation paths.
//
// All other packages receive paths through a Workspace so that path resolution
// rules live in exactly one place.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neuroforge/doc-forge/internal/logger"
)

var logWorkspace = logger.New("workspace")

// ConfigFileName is the Doc Forge project configuration file looked for at the
// repository root.
const ConfigFileName = "docforge.toml"

// Workspace holds the resolved repository layout.
type Workspace struct {
	Root    string // repository root, absolute
	DocsDir string // documentation root, absolute
}

// Detect walks up from start looking for a repository root. The markers, in
// order of preference: a docforge.toml file, a .git directory, a docs
// directory. The search covers start and all of its ancestors.
func Detect(start string) (*Workspace, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start path: %w", err)
	}

	for _, marker := range []func(string) bool{hasConfigFile, hasGitDir, hasDocsDir} {
		for dir := abs; ; dir = filepath.Dir(dir) {
			if marker(dir) {
				logWorkspace.Printf("Detected repository root: %s", dir)
				return New(dir), nil
			}
			if filepath.Dir(dir) == dir {
				break
			}
		}
	}

	return nil, fmt.Errorf("no repository root found from %s (looked for %s, .git, docs)", abs, ConfigFileName)
}

// New creates a Workspace for an explicitly chosen root.
func New(root string) *Workspace {
	return &Workspace{
		Root:    root,
		DocsDir: findDocsDir(root),
	}
}

func hasConfigFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil && !info.IsDir()
}

func hasGitDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func hasDocsDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "docs"))
	return err == nil && info.IsDir()
}

// findDocsDir returns the documentation directory for root. The canonical
// location is docs/; documentation/ and doc/ are accepted as fallbacks for
// repositories that predate the standard layout. The path is returned even if
// none of them exists yet - init and build create it on demand.
func findDocsDir(root string) string {
	canonical := filepath.Join(root, "docs")
	if info, err := os.Stat(canonical); err == nil && info.IsDir() {
		return canonical
	}

	for _, name := range []string{"documentation", "doc"} {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			logWorkspace.Printf("Using non-standard docs directory: %s", candidate)
			return candidate
		}
	}

	return canonical
}

// ConfigPath returns the path of the project configuration file.
func (ws *Workspace) ConfigPath() string {
	return filepath.Join(ws.Root, ConfigFileName)
}

// BuildDir returns the build output directory under the docs tree.
func (ws *Workspace) BuildDir() string {
	return filepath.Join(ws.DocsDir, "_build")
}

// ManifestPath returns the path of the documentation manifest.
func (ws *Workspace) ManifestPath() string {
	return filepath.Join(ws.DocsDir, "docs_manifest.json")
}

// Resolve turns a possibly relative path into an absolute one anchored at the
// repository root.
func (ws *Workspace) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ws.Root, path)
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
