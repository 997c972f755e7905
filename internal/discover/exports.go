package discover

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"
)

// exportedNames lists the exported top-level identifiers declared by any
// non-test Go file of pkg, including files excluded by build constraints.
func exportedNames(pkg *packages.Package) ([]string, error) {
	fset := token.NewFileSet()
	pkgName := pkg.Name
	seen := make(map[string]struct{})
	var names []string
	add := func(ident *ast.Ident) {
		if ident == nil || !ident.IsExported() {
			return
		}
		if _, ok := seen[ident.Name]; ok {
			return
		}
		seen[ident.Name] = struct{}{}
		names = append(names, ident.Name)
	}
	files := append(slices.Clone(pkg.GoFiles), pkg.IgnoredFiles...)
	for _, path := range files {
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
		if pkgName == "" {
			pkgName = file.Name.Name
		}
		if file.Name.Name != pkgName {
			// e.g. a "//go:build ignore" program living next to the package.
			continue
		}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					add(d.Name)
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						add(s.Name)
					case *ast.ValueSpec:
						for _, n := range s.Names {
							add(n)
						}
					}
				}
			}
		}
	}
	slices.Sort(names)
	return names, nil
}
