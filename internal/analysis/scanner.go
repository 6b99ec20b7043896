// Package analysis inspects the project's Go source to measure how well the
// exported API is tested and documented. It backs the test subcommands:
// run executes the test suite, analyze reports coverage of exported
// identifiers, todo emits a work list and stubs generates skeleton tests.
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

	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

var logAnalysis = logger.New("analysis")

// EntityKind classifies an exported identifier.
type EntityKind string

const (
	KindFunc   EntityKind = "func"
	KindType   EntityKind = "type"
	KindMethod EntityKind = "method"
)

// Entity is one exported identifier found in the source tree.
type Entity struct {
	Name    string     `json:"name"` // Connect, Client, Client.Close
	Kind    EntityKind `json:"kind"`
	Package string     `json:"package"` // directory relative to the scan root
	File    string     `json:"file"`
	Line    int        `json:"line"`
	HasDoc  bool       `json:"has_doc"`
}

// BaseName returns the identifier a test would reference: the method name for
// methods, the entity name otherwise.
func (e Entity) BaseName() string {
	if i := strings.LastIndexByte(e.Name, '.'); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}

// Inventory is the result of scanning a source tree.
type Inventory struct {
	Root     string
	Entities []Entity
}

// Names returns the set of exported entity base names, used by doc validation
// to find undocumented API surface.
func (inv *Inventory) Names() map[string]bool {
	names := make(map[string]bool, len(inv.Entities))
	for _, e := range inv.Entities {
		names[e.BaseName()] = true
	}
	return names
}

// ByPackage groups entities by their package directory.
func (inv *Inventory) ByPackage() map[string][]Entity {
	pkgs := make(map[string][]Entity)
	for _, e := range inv.Entities {
		pkgs[e.Package] = append(pkgs[e.Package], e)
	}
	return pkgs
}

// Scanner walks a source tree collecting exported identifiers.
type Scanner struct {
	ws  *workspace.Workspace
	dir string // scan root, absolute
}

// NewScanner creates a scanner rooted at sourceDir, resolved against the
// repository root when relative.
func NewScanner(ws *workspace.Workspace, sourceDir string) *Scanner {
	return &Scanner{ws: ws, dir: ws.Resolve(sourceDir)}
}

// skipDir reports whether a directory never holds project source.
func skipDir(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") ||
		name == "vendor" || name == "testdata" || name == "node_modules"
}

// Scan parses every non-test Go file under the scan root. Files that fail to
// parse are skipped with a log entry; a half-broken tree still yields a
// useful report.
func (s *Scanner) Scan() (*Inventory, error) {
	inv := &Inventory{Root: s.dir}
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
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			logAnalysis.Printf("Skipping unparsable file %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		pkg := filepath.ToSlash(filepath.Dir(rel))

		inv.Entities = append(inv.Entities, fileEntities(fset, file, pkg, rel)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source scan failed: %w", err)
	}

	sort.Slice(inv.Entities, func(i, j int) bool {
		a, b := inv.Entities[i], inv.Entities[j]
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Name < b.Name
	})
	logAnalysis.Printf("Scanned %s: %d exported entities", s.dir, len(inv.Entities))
	return inv, nil
}

// fileEntities collects the exported declarations of one parsed file.
func fileEntities(fset *token.FileSet, file *ast.File, pkg, rel string) []Entity {
	var entities []Entity

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if !d.Name.IsExported() {
				continue
			}
			e := Entity{
				Name:    d.Name.Name,
				Kind:    KindFunc,
				Package: pkg,
				File:    rel,
				Line:    fset.Position(d.Pos()).Line,
				HasDoc:  d.Doc != nil,
			}
			if d.Recv != nil && len(d.Recv.List) > 0 {
				recv := receiverName(d.Recv.List[0].Type)
				if recv == "" || !ast.IsExported(recv) {
					continue
				}
				e.Name = recv + "." + d.Name.Name
				e.Kind = KindMethod
			}
			entities = append(entities, e)

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || !ts.Name.IsExported() {
					continue
				}
				entities = append(entities, Entity{
					Name:    ts.Name.Name,
					Kind:    KindType,
					Package: pkg,
					File:    rel,
					Line:    fset.Position(ts.Pos()).Line,
					HasDoc:  ts.Doc != nil || d.Doc != nil,
				})
			}
		}
	}
	return entities
}

// receiverName extracts the type name from a method receiver expression.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr: // generic receiver
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}
