package analysis

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Stubs generates a _test.go skeleton for the untested entities of one
// package directory (as listed in the report). Each stub compiles and skips
// itself, so the generated file drops straight into the tree.
func (r *Report) Stubs(pkg string) (string, error) {
	var entities []Entity
	for _, e := range r.Untested {
		if e.Package == pkg {
			entities = append(entities, e)
		}
	}
	if len(entities) == 0 {
		return "", fmt.Errorf("no untested entities in package %q", pkg)
	}

	pkgName := packageName(pkg)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\nimport \"testing\"\n", pkgName)

	seen := make(map[string]bool)
	for _, e := range entities {
		name := "Test" + strings.ReplaceAll(e.Name, ".", "_")
		if seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(&b, "\nfunc %s(t *testing.T) {\n\tt.Skip(\"covers %s (%s:%d)\")\n}\n",
			name, e.Name, e.File, e.Line)
	}
	return b.String(), nil
}

// StubPackages lists the package directories that have untested entities.
func (r *Report) StubPackages() []string {
	set := make(map[string]bool)
	for _, e := range r.Untested {
		set[e.Package] = true
	}
	pkgs := make([]string, 0, len(set))
	for pkg := range set {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// packageName derives a plausible Go package name from a directory path.
func packageName(pkg string) string {
	base := filepath.Base(pkg)
	if base == "." || base == "/" || base == "" {
		return "main"
	}
	var b strings.Builder
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := strings.ToLower(b.String())
	if name == "" || name[0] >= '0' && name[0] <= '9' {
		return "pkg" + name
	}
	return name
}
