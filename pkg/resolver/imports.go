package resolver

import (
	"github.com/gnana997/propdoc/pkg/ast"
)

// Binding is one name a file binds from a specifier.
type Binding struct {
	Kind     ast.BindingKind
	Imported string
	Local    string
}

// ImportMap maps specifiers to the names bound from them, both in source order.
type ImportMap struct {
	order    []string
	bindings map[string][]Binding
}

// BuildImports collects every import statement of file. A specifier
// imported more than once accumulates its bindings. Re-exports with a from
// clause count as imports of their source.
func BuildImports(file *ast.File) ImportMap {
	m := ImportMap{bindings: make(map[string][]Binding)}

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.ImportDecl:
			m.touch(s.Source)
			for _, b := range s.Bindings {
				m.bindings[s.Source] = append(m.bindings[s.Source], Binding(b))
			}
		case *ast.ExportNamed:
			if s.Source == "" {
				continue
			}
			m.touch(s.Source)
			for _, spec := range s.Specifiers {
				m.bindings[s.Source] = append(m.bindings[s.Source], Binding{
					Kind:     ast.BindingNamed,
					Imported: spec.Local,
					Local:    spec.Local,
				})
			}
		case *ast.ExportAll:
			m.touch(s.Source)
		}
	}
	return m
}

func (m *ImportMap) touch(spec string) {
	if _, ok := m.bindings[spec]; !ok {
		m.order = append(m.order, spec)
		m.bindings[spec] = nil
	}
}

// Specifiers returns the imported specifiers in first-seen order.
func (m ImportMap) Specifiers() []string {
	return append([]string(nil), m.order...)
}

// Bindings returns the bindings made from spec.
func (m ImportMap) Bindings(spec string) []Binding {
	return m.bindings[spec]
}

// Locals returns the local names bound from spec, without distinguishing
// default, named and namespace imports.
func (m ImportMap) Locals(spec string) []string {
	var out []string
	for _, b := range m.bindings[spec] {
		out = append(out, b.Local)
	}
	return out
}

// Len returns the number of specifiers.
func (m ImportMap) Len() int {
	return len(m.order)
}
