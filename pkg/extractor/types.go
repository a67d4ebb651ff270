package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
)

// typeExpr lowers a type node.
func (l *lowerer) typeExpr(n *ts.Node) ast.TypeExpr {
	if n == nil {
		return &ast.OtherType{}
	}

	switch n.Kind() {
	case "type_annotation", "parenthesized_type", "readonly_type",
		"opting_type_annotation", "omitting_type_annotation":
		inner := firstNamedChild(n)
		if inner == nil {
			return &ast.OtherType{Node: l.node(n)}
		}
		return l.typeExpr(inner)

	case "predefined_type":
		return &ast.PredefinedType{Node: l.node(n), Name: l.text(n)}

	case "type_identifier", "nested_type_identifier", "identifier":
		return &ast.TypeReference{Node: l.node(n), Name: l.text(n)}

	case "generic_type":
		return l.genericType(n)

	case "literal_type":
		inner := firstNamedChild(n)
		if inner == nil {
			return &ast.OtherType{Node: l.node(n)}
		}
		if lit, ok := l.value(inner).(*ast.Literal); ok {
			return &ast.LiteralType{Node: l.node(n), Value: lit.Value}
		}
		return &ast.OtherType{Node: l.node(n)}

	case "string", "number", "true", "false", "null", "undefined":
		if lit, ok := l.value(n).(*ast.Literal); ok {
			return &ast.LiteralType{Node: l.node(n), Value: lit.Value}
		}
		return &ast.OtherType{Node: l.node(n)}

	case "union_type":
		u := &ast.UnionType{Node: l.node(n)}
		for _, m := range flatten(n, "union_type") {
			u.Elements = append(u.Elements, l.typeExpr(m))
		}
		return u

	case "intersection_type":
		obj := &ast.ObjectType{Node: l.node(n), Intersection: true}
		for _, m := range flatten(n, "intersection_type") {
			obj.Members = append(obj.Members, &ast.SpreadMember{Node: l.node(m), Type: l.typeExpr(m)})
		}
		return obj

	case "array_type":
		return &ast.ArrayType{Node: l.node(n), Element: l.typeExpr(firstNamedChild(n))}

	case "tuple_type":
		t := &ast.TupleType{Node: l.node(n)}
		for _, c := range namedChildren(n) {
			t.Elements = append(t.Elements, l.typeExpr(c))
		}
		return t

	case "function_type", "constructor_type":
		return &ast.FunctionType{Node: l.node(n)}

	case "object_type":
		return &ast.ObjectType{Node: l.node(n), Members: l.members(n)}

	default:
		return &ast.OtherType{Node: l.node(n)}
	}
}

// genericType splits Name<Args> into a utility wrapper, an array or a plain
// reference.
func (l *lowerer) genericType(n *ts.Node) ast.TypeExpr {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = firstNamedChild(n)
	}
	name := l.text(nameNode)

	var args []ast.TypeExpr
	typeArgs := n.ChildByFieldName("type_arguments")
	if typeArgs == nil {
		typeArgs = childOfKind(n, "type_arguments")
	}
	if typeArgs != nil {
		for _, a := range namedChildren(typeArgs) {
			args = append(args, l.typeExpr(a))
		}
	}

	switch {
	case ast.UtilityNames[name]:
		return &ast.UtilityType{Node: l.node(n), Name: name, Args: args}
	case (name == "Array" || name == "ReadonlyArray" || name == "$ReadOnlyArray") && len(args) == 1:
		return &ast.ArrayType{Node: l.node(n), Element: args[0]}
	default:
		return &ast.TypeReference{Node: l.node(n), Name: name, Args: args}
	}
}

// flatten collects the leaves of a left-recursive binary type (A | B | C
// parses as ((A | B) | C)).
func flatten(n *ts.Node, kind string) []*ts.Node {
	if n.Kind() != kind {
		return []*ts.Node{n}
	}
	var out []*ts.Node
	for _, c := range namedChildren(n) {
		out = append(out, flatten(c, kind)...)
	}
	return out
}

// members lowers the body of an object type or interface.
func (l *lowerer) members(body *ts.Node) []ast.Member {
	var (
		out         []ast.Member
		lastComment *ts.Node
	)

	for _, c := range children(body) {
		switch c.Kind() {
		case "comment":
			lastComment = c

		case "property_signature", "method_signature":
			if l.isSpread(c) {
				out = append(out, &ast.SpreadMember{
					Node: l.node(c),
					Type: l.typeExpr(c.ChildByFieldName("type")),
				})
				lastComment = nil
				continue
			}
			if prop := l.property(c, lastComment); prop != nil {
				out = append(out, prop)
			}
			lastComment = nil
		}
	}
	return out
}

// property lowers a property or method signature. comment is the comment
// node immediately before it, if any.
func (l *lowerer) property(n *ts.Node, comment *ts.Node) *ast.PropertySignature {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	prop := &ast.PropertySignature{
		Node:     l.node(n),
		Name:     unquote(l.text(name)),
		Optional: childOfKind(n, "?") != nil,
		Readonly: childOfKind(n, "readonly") != nil,
	}

	if n.Kind() == "method_signature" {
		prop.Type = &ast.FunctionType{Node: l.node(n)}
	} else if t := n.ChildByFieldName("type"); t != nil {
		prop.Type = l.typeExpr(t)
	} else {
		prop.Type = &ast.PredefinedType{Node: l.node(name), Name: "any"}
	}

	if comment != nil {
		prop.Description, prop.Deprecated = parseJSDoc(l.text(comment))
	}
	return prop
}
