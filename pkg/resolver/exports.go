package resolver

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
)

// ExportPolicy controls how declared names enter the export set.
type ExportPolicy int

const (
	// ExportsConservative treats every top-level declaration as exported as
	// soon as the file has at least one named export statement.
	ExportsConservative ExportPolicy = iota
	// ExportsStrict only counts names that are actually exported.
	ExportsStrict
)

func (p ExportPolicy) String() string {
	switch p {
	case ExportsConservative:
		return "conservative"
	case ExportsStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseExportPolicy parses "conservative" or "strict". Empty selects the default.
func ParseExportPolicy(s string) (ExportPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "conservative":
		return ExportsConservative, nil
	case "strict":
		return ExportsStrict, nil
	default:
		return 0, errors.Newf("unknown export policy %q (want conservative or strict)", s)
	}
}

// ExportSet is the set of names a file makes visible to importers.
type ExportSet struct {
	names map[string]struct{}

	// Default is the identifier exported with export default, if any.
	Default string

	// Wildcards lists the specifiers re-exported with export * from.
	Wildcards []string
}

// Has reports whether name is exported.
func (e ExportSet) Has(name string) bool {
	_, ok := e.names[name]
	return ok
}

// HasWildcard reports whether spec is re-exported with export * from.
func (e ExportSet) HasWildcard(spec string) bool {
	for _, w := range e.Wildcards {
		if w == spec {
			return true
		}
	}
	return false
}

// Names returns the exported names, sorted.
func (e ExportSet) Names() []string {
	out := make([]string, 0, len(e.names))
	for n := range e.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of exported names.
func (e ExportSet) Len() int {
	return len(e.names)
}

func (e *ExportSet) add(name string) {
	if name != "" {
		e.names[name] = struct{}{}
	}
}

// BuildExports collects the export set of file.
//
// Export clauses contribute the local name of each specifier (export { a,
// b as c } contributes a and b). Exported declarations contribute their
// declared names. A default export contributes its name only when the
// exported value is a bare identifier. Under ExportsConservative, every name
// in decls is added when the file has at least one named export statement.
func BuildExports(file *ast.File, decls *SymbolTable, policy ExportPolicy) ExportSet {
	set := ExportSet{names: make(map[string]struct{})}
	hasNamed := false

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.ExportNamed:
			hasNamed = true
			for _, spec := range s.Specifiers {
				set.add(spec.Local)
			}

		case *ast.ExportAll:
			if s.Namespace == "" {
				set.Wildcards = append(set.Wildcards, s.Source)
			}

		case *ast.ExportDefault:
			if id, ok := s.Value.(*ast.Identifier); ok {
				set.add(id.Name)
				set.Default = id.Name
			}

		case *ast.VariableDecl:
			if s.Exported {
				hasNamed = true
				for _, d := range s.Declarators {
					set.add(d.Name)
				}
			}

		case *ast.TypeAliasDecl:
			if s.Exported {
				hasNamed = true
				set.add(s.Name)
			}

		case *ast.OpaqueDecl:
			if s.Exported {
				hasNamed = true
				set.add(s.Name)
			}

		case *ast.ImportDecl:

		default:
			panic(errors.AssertionFailedf("unhandled statement kind %s", stmt.Kind()))
		}
	}

	if hasNamed && policy == ExportsConservative && decls != nil {
		for _, name := range decls.Names() {
			set.add(name)
		}
	}
	return set
}
