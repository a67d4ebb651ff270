package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
)

// statement lowers one top-level node. Nodes the model has no variant for
// (expression statements, comments, ...) lower to nothing.
func (l *lowerer) statement(n *ts.Node) []ast.Statement {
	switch n.Kind() {
	case "import_statement":
		if imp := l.importStatement(n); imp != nil {
			return []ast.Statement{imp}
		}
		return nil
	case "export_statement":
		return l.exportStatement(n)
	default:
		return l.declaration(n, false)
	}
}

// declaration lowers a declaration node, which may stand alone or sit under
// an export statement.
func (l *lowerer) declaration(n *ts.Node, exported bool) []ast.Statement {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		return []ast.Statement{l.variables(n, exported)}

	case "type_alias_declaration":
		name := n.ChildByFieldName("name")
		value := n.ChildByFieldName("value")
		if name == nil || value == nil {
			return nil
		}
		desc, _ := l.leadingDoc(n)
		return []ast.Statement{&ast.TypeAliasDecl{
			Node:        l.node(n),
			Name:        l.text(name),
			Exported:    exported,
			Type:        l.typeExpr(value),
			Description: desc,
		}}

	case "interface_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		desc, _ := l.leadingDoc(n)
		return []ast.Statement{&ast.TypeAliasDecl{
			Node:        l.node(n),
			Name:        l.text(name),
			Exported:    exported,
			Interface:   true,
			Type:        l.interfaceType(n),
			Description: desc,
		}}

	case "function_declaration", "generator_function_declaration":
		return l.opaque(n, exported, "function")
	case "class_declaration", "abstract_class_declaration":
		return l.opaque(n, exported, "class")
	case "enum_declaration":
		return l.opaque(n, exported, "enum")

	case "ambient_declaration":
		// declare const x: T; declare type T = ...
		var out []ast.Statement
		for _, c := range namedChildren(n) {
			out = append(out, l.declaration(c, exported)...)
		}
		return out

	default:
		return nil
	}
}

func (l *lowerer) opaque(n *ts.Node, exported bool, what string) []ast.Statement {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	return []ast.Statement{&ast.OpaqueDecl{
		Node:     l.node(n),
		Name:     l.text(name),
		Exported: exported,
		What:     what,
	}}
}

// variables lowers const/let/var. Destructuring patterns bind no single
// name and are skipped.
func (l *lowerer) variables(n *ts.Node, exported bool) *ast.VariableDecl {
	decl := &ast.VariableDecl{Node: l.node(n), Exported: exported}
	for _, c := range namedChildren(n) {
		if c.Kind() != "variable_declarator" {
			continue
		}
		name := c.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			continue
		}
		d := ast.Declarator{Node: l.node(c), Name: l.text(name)}
		if value := c.ChildByFieldName("value"); value != nil {
			d.Init = l.value(value)
		}
		decl.Declarators = append(decl.Declarators, d)
	}
	return decl
}

// interfaceType lowers an interface body to an object type. Each type in
// the extends clause becomes a leading spread member, so
//
//	interface Props extends Base, Pick<Other, 'a'> { b: string }
//
// is modelled as { ...Base, ...Pick<Other, 'a'>, b: string }.
func (l *lowerer) interfaceType(n *ts.Node) ast.TypeExpr {
	obj := &ast.ObjectType{Node: l.node(n)}

	if ext := childOfKind(n, "extends_type_clause"); ext != nil {
		for _, t := range namedChildren(ext) {
			obj.Members = append(obj.Members, &ast.SpreadMember{
				Node: l.node(t),
				Type: l.typeExpr(t),
			})
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		body = childOfKind(n, "interface_body", "object_type")
	}
	if body != nil {
		obj.Members = append(obj.Members, l.members(body)...)
	}
	return obj
}
