// Package fixer repairs common defects in generated reStructuredText API
// documentation: unbalanced inline literals, unqualified exception
// references, missing blank lines around indented blocks and duplicate
// object descriptions. Every fix is idempotent, so running the fixer twice
// never changes a file twice.
package fixer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logFixer = logger.New("fixer")

// Fix names reported in results.
const (
	FixCrossReference = "cross_reference"
	FixInlineRef      = "inline_ref"
	FixInlineLiteral  = "inline_literal"
	FixIndentation    = "indentation"
	FixBlockQuote     = "block_quote"
	FixNoindex        = "noindex"
)

// Result summarizes a fixer run.
type Result struct {
	FilesScanned int
	FilesChanged int
	Fixes        map[string]int

	changed map[string]bool
}

// markChanged records a changed file, counting each path once even when
// several passes touch it.
func (r *Result) markChanged(path string) {
	if r.changed == nil {
		r.changed = make(map[string]bool)
	}
	if !r.changed[path] {
		r.changed[path] = true
		r.FilesChanged++
	}
}

// Total returns the number of individual fixes applied.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Fixes {
		n += c
	}
	return n
}

// Fixer applies fixes to generated documentation under a workspace.
type Fixer struct {
	ws *workspace.Workspace
}

func New(ws *workspace.Workspace) *Fixer {
	return &Fixer{ws: ws}
}

// FixAll fixes every .rst file under dir (resolved against the docs root when
// relative) and harmonizes duplicate object descriptions across the set.
func (f *Fixer) FixAll(dir string) (*Result, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(f.ws.DocsDir, dir)
	}
	result := &Result{Fixes: make(map[string]int)}

	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(path) != ".rst" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			logFixer.Printf("Fix target does not exist: %s", dir)
			return result, nil
		}
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		changed, err := f.FixFile(path, result)
		if err != nil {
			return nil, err
		}
		result.FilesScanned++
		if changed {
			result.markChanged(path)
		}
	}

	if err := f.harmonizeNoindex(files, result); err != nil {
		return nil, err
	}

	logFixer.Printf("Fixer pass: %d files scanned, %d changed, %d fixes",
		result.FilesScanned, result.FilesChanged, result.Total())
	return result, nil
}

// FixFile applies every file-local fix to path, recording counts in result.
func (f *Fixer) FixFile(path string, result *Result) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	original := string(data)

	content := original
	for _, fix := range []struct {
		name  string
		apply func(string) (string, int)
	}{
		{FixCrossReference, fixCrossReferences},
		{FixInlineRef, fixInlineRefs},
		{FixInlineLiteral, fixInlineLiterals},
		{FixIndentation, fixUnexpectedIndentation},
		{FixBlockQuote, fixBlockQuotes},
	} {
		var n int
		content, n = fix.apply(content)
		result.Fixes[fix.name] += n
	}

	if content == original {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// classRefRe matches :class:-family roles with an unqualified target.
var classRefRe = regexp.MustCompile("(:(?:py:)?class:`~?)([A-Za-z_][A-Za-z0-9_]*)(`)")

// fixCrossReferences rewrites :class: references to error types as :exc:
// references. Generators routinely emit error types under the wrong role,
// which breaks the link at render time.
func fixCrossReferences(content string) (string, int) {
	n := 0
	out := classRefRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := classRefRe.FindStringSubmatch(m)
		name := sub[2]
		if !strings.HasSuffix(name, "Error") && !strings.HasSuffix(name, "Exception") {
			return m
		}
		n++
		role := ":exc:`"
		if strings.Contains(sub[1], "py:") {
			role = ":py:exc:`"
		}
		if strings.Contains(sub[1], "~") {
			role += "~"
		}
		return role + name + sub[3]
	})
	return out, n
}

// fixInlineLiterals closes unbalanced double-backtick literals at end of line.
func fixInlineLiterals(content string) (string, int) {
	n := 0
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.Count(line, "``")%2 == 1 {
			lines[i] = line + "``"
			n++
		}
	}
	return strings.Join(lines, "\n"), n
}

// fixUnexpectedIndentation inserts the blank line required between a literal
// block marker (a line ending in ::) and its indented body.
func fixUnexpectedIndentation(content string) (string, int) {
	n := 0
	lines := strings.Split(content, "\n")
	var out []string
	for i, line := range lines {
		out = append(out, line)
		if !strings.HasSuffix(strings.TrimRight(line, " "), "::") || strings.TrimSpace(line) == "" {
			continue
		}
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" && indentOf(lines[i+1]) > indentOf(line) {
			out = append(out, "")
			n++
		}
	}
	return strings.Join(out, "\n"), n
}

// fixBlockQuotes inserts the blank line required between an indented block
// and the dedented line that follows it.
func fixBlockQuotes(content string) (string, int) {
	n := 0
	lines := strings.Split(content, "\n")
	var out []string
	for i, line := range lines {
		out = append(out, line)
		if strings.TrimSpace(line) == "" || indentOf(line) == 0 {
			continue
		}
		if i+1 < len(lines) {
			next := lines[i+1]
			if strings.TrimSpace(next) != "" && indentOf(next) < indentOf(line) && !strings.HasPrefix(strings.TrimSpace(next), "..") {
				out = append(out, "")
				n++
			}
		}
	}
	return strings.Join(out, "\n"), n
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
