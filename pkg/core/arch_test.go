package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"strings"
	"testing"
)

// coreImports returns the import paths of every non-test file in pkg/core.
func coreImports(t *testing.T) map[string][]string {
	t.Helper()
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read core directory: %v", err)
	}

	fset := token.NewFileSet()
	imports := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			imports[name] = append(imports[name], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// pkg/core is the shared vocabulary of dialects, schema hooks and adapters.
// It must stay on the standard library and never reach into drivers.
func TestCoreImportRules(t *testing.T) {
	rules := []struct {
		name      string
		forbidden func(path string) bool
	}{
		{"third-party", func(p string) bool { return strings.Contains(p, ".") }},
		{"internal", func(p string) bool { return strings.Contains(p, "/internal/") }},
		{"driver", func(p string) bool {
			return strings.HasPrefix(p, "database/sql/driver") || strings.Contains(p, "leapgeo/pkg/adapters")
		}},
	}

	imports := coreImports(t)
	for _, rule := range rules {
		t.Run(rule.name, func(t *testing.T) {
			for file, paths := range imports {
				for _, p := range paths {
					if rule.forbidden(p) {
						t.Errorf("%s imports %s package %s", file, rule.name, p)
					}
				}
			}
		})
	}
}
