package analysis

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/neuroforge/doc-forge/internal/workspace"
)

// Runner executes the project's Go tests for the packages whose test files
// match a glob pattern.
type Runner struct {
	ws      *workspace.Workspace
	Pattern string // doublestar glob over repo-relative paths
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewRunner(ws *workspace.Workspace, pattern string, verbose bool) *Runner {
	return &Runner{ws: ws, Pattern: pattern, Verbose: verbose}
}

// MatchingPackages returns the package directories (repo-relative, "." for
// the root) containing test files that match the pattern.
func (r *Runner) MatchingPackages() ([]string, error) {
	set := make(map[string]bool)

	err := filepath.WalkDir(r.ws.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != r.ws.Root && skipDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(r.ws.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(r.Pattern, rel); !ok {
			return nil
		}
		set[filepath.ToSlash(filepath.Dir(rel))] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find test files: %w", err)
	}

	pkgs := make([]string, 0, len(set))
	for pkg := range set {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs, nil
}

// Run executes go test for every matching package, streaming output to the
// configured writers. The returned exit code mirrors go test's own, so the
// caller can propagate failures to the shell.
func (r *Runner) Run(ctx context.Context) (int, error) {
	pkgs, err := r.MatchingPackages()
	if err != nil {
		return 1, err
	}
	if len(pkgs) == 0 {
		logAnalysis.Printf("No test files match pattern %q", r.Pattern)
		if r.Stdout != nil {
			fmt.Fprintf(r.Stdout, "no test files match %q\n", r.Pattern)
		}
		return 0, nil
	}

	args := []string{"test"}
	if r.Verbose {
		args = append(args, "-v")
	}
	for _, pkg := range pkgs {
		args = append(args, "./"+pkg)
	}

	logAnalysis.Printf("Running: go %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = r.ws.Root
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to run go test: %w", err)
	}
	return 0, nil
}
