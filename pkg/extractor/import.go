// Import and export statement lowering.
package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
)

// importStatement lowers every ES import form:
//
//	import './side-effect'
//	import Button from './Button'
//	import * as icons from './icons'
//	import { Props, Size as ButtonSize } from './types'
//	import type { Props } from './types'
func (l *lowerer) importStatement(n *ts.Node) *ast.ImportDecl {
	source := n.ChildByFieldName("source")
	if source == nil {
		// import x = require('y') and other forms with no from clause.
		return nil
	}

	decl := &ast.ImportDecl{
		Node:     l.node(n),
		Source:   unquote(l.text(source)),
		TypeOnly: childOfKind(n, "type", "typeof") != nil,
	}

	clause := childOfKind(n, "import_clause")
	if clause == nil {
		return decl
	}

	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			decl.Bindings = append(decl.Bindings, ast.ImportBinding{
				Kind:     ast.BindingDefault,
				Imported: "default",
				Local:    l.text(c),
			})
		case "namespace_import":
			if id := lastNamedChild(c); id != nil {
				decl.Bindings = append(decl.Bindings, ast.ImportBinding{
					Kind:     ast.BindingNamespace,
					Imported: "*",
					Local:    l.text(id),
				})
			}
		case "named_imports":
			for _, spec := range namedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				imported := unquote(l.text(name))
				local := imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = l.text(alias)
				}
				decl.Bindings = append(decl.Bindings, ast.ImportBinding{
					Kind:     ast.BindingNamed,
					Imported: imported,
					Local:    local,
				})
			}
		}
	}
	return decl
}

// exportStatement lowers an export statement to one or more statements.
// Exported declarations come back as their declaration with Exported set.
func (l *lowerer) exportStatement(n *ts.Node) []ast.Statement {
	decl := n.ChildByFieldName("declaration")
	source := n.ChildByFieldName("source")

	if childOfKind(n, "default") != nil {
		out := []ast.Statement{}
		if decl != nil {
			// export default function Button() {}: the declaration is local,
			// the default export is not a bare identifier.
			out = append(out, l.declaration(decl, false)...)
			out = append(out, &ast.ExportDefault{Node: l.node(n), Value: &ast.OtherValue{Node: l.node(decl)}})
			return out
		}
		value := n.ChildByFieldName("value")
		if value == nil {
			value = lastNamedChild(n)
		}
		if value == nil {
			return nil
		}
		return append(out, &ast.ExportDefault{Node: l.node(n), Value: l.value(value)})
	}

	if decl != nil {
		return l.declaration(decl, true)
	}

	if clause := childOfKind(n, "export_clause"); clause != nil {
		stmt := &ast.ExportNamed{Node: l.node(n)}
		if source != nil {
			stmt.Source = unquote(l.text(source))
		}
		for _, spec := range namedChildren(clause) {
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			local := unquote(l.text(name))
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = unquote(l.text(alias))
			}
			stmt.Specifiers = append(stmt.Specifiers, ast.ExportSpecifier{Local: local, Exported: exported})
		}
		return []ast.Statement{stmt}
	}

	if source != nil && childOfKind(n, "*", "namespace_export") != nil {
		stmt := &ast.ExportAll{Node: l.node(n), Source: unquote(l.text(source))}
		if ns := childOfKind(n, "namespace_export"); ns != nil {
			if id := lastNamedChild(ns); id != nil {
				stmt.Namespace = unquote(l.text(id))
			}
		}
		return []ast.Statement{stmt}
	}

	return nil
}

func lastNamedChild(n *ts.Node) *ts.Node {
	kids := namedChildren(n)
	if len(kids) == 0 {
		return nil
	}
	return kids[len(kids)-1]
}
