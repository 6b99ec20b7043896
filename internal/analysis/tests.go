package analysis

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// TestInventory is the result of scanning the _test.go files of a tree.
type TestInventory struct {
	// Funcs maps package directories to their Test function names.
	Funcs map[string][]string
	// Referenced is the set of exported identifiers mentioned anywhere in
	// test code, the signal used to decide whether an entity is exercised.
	Referenced map[string]bool
}

// ScanTests parses every _test.go file under the scanner's root.
func (s *Scanner) ScanTests() (*TestInventory, error) {
	inv := &TestInventory{
		Funcs:      make(map[string][]string),
		Referenced: make(map[string]bool),
	}
	fset := token.NewFileSet()

	err := filepath.WalkDir(s.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != s.dir && skipDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, "_test.go") {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			logAnalysis.Printf("Skipping unparsable test file %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		pkg := filepath.ToSlash(filepath.Dir(filepath.ToSlash(rel)))

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if strings.HasPrefix(fn.Name.Name, "Test") && fn.Recv == nil {
				inv.Funcs[pkg] = append(inv.Funcs[pkg], fn.Name.Name)
			}
			collectReferences(fn, inv.Referenced)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("test scan failed: %w", err)
	}

	for pkg := range inv.Funcs {
		sort.Strings(inv.Funcs[pkg])
	}
	logAnalysis.Printf("Scanned tests: %d packages, %d referenced identifiers",
		len(inv.Funcs), len(inv.Referenced))
	return inv, nil
}

// Total returns the number of test functions found.
func (inv *TestInventory) Total() int {
	n := 0
	for _, funcs := range inv.Funcs {
		n += len(funcs)
	}
	return n
}

// collectReferences records every exported identifier used in a declaration.
// Selector expressions contribute both sides, so pkg.Thing and value.Method
// calls count for Thing and Method.
func collectReferences(decl ast.Decl, out map[string]bool) {
	ast.Inspect(decl, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.Ident:
			if v.IsExported() {
				out[v.Name] = true
			}
		case *ast.SelectorExpr:
			if v.Sel.IsExported() {
				out[v.Sel.Name] = true
			}
		}
		return true
	})
}

// Covered reports whether the entity's base name appears in test code.
func (inv *TestInventory) Covered(e Entity) bool {
	return inv.Referenced[e.BaseName()]
}
