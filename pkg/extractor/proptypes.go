package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
)

// Validators that take no argument.
var plainValidators = map[string]bool{
	"any":         true,
	"array":       true,
	"bool":        true,
	"func":        true,
	"number":      true,
	"object":      true,
	"string":      true,
	"symbol":      true,
	"node":        true,
	"element":     true,
	"elementType": true,
}

// propTypesAssignments collects top-level X.propTypes = { ... } statements,
// keyed by X.
func (l *lowerer) propTypesAssignments(root *ts.Node) map[string][]*ast.PropTypeDef {
	out := make(map[string][]*ast.PropTypeDef)
	for _, stmt := range children(root) {
		if stmt.Kind() != "expression_statement" {
			continue
		}
		assign := firstNamedChild(stmt)
		if assign == nil || assign.Kind() != "assignment_expression" {
			continue
		}
		left := assign.ChildByFieldName("left")
		right := assign.ChildByFieldName("right")
		if left == nil || right == nil || left.Kind() != "member_expression" || right.Kind() != "object" {
			continue
		}
		target := left.ChildByFieldName("object")
		prop := left.ChildByFieldName("property")
		if target == nil || prop == nil || target.Kind() != "identifier" || l.text(prop) != "propTypes" {
			continue
		}
		name := l.text(target)
		out[name] = append(out[name], l.propTypeDefs(right)...)
	}
	return out
}

// staticPropTypes returns the keys of static propTypes = { ... } in a class.
func (l *lowerer) staticPropTypes(class *ts.Node) []*ast.PropTypeDef {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for _, c := range namedChildren(body) {
		if c.Kind() != "public_field_definition" || childOfKind(c, "static") == nil {
			continue
		}
		name := c.ChildByFieldName("name")
		value := c.ChildByFieldName("value")
		if name != nil && value != nil && l.text(name) == "propTypes" && value.Kind() == "object" {
			return l.propTypeDefs(value)
		}
	}
	return nil
}

// propTypeDefs lowers the keys of a propTypes object. A comment right before
// a key documents it.
func (l *lowerer) propTypeDefs(obj *ts.Node) []*ast.PropTypeDef {
	var (
		out         []*ast.PropTypeDef
		lastComment *ts.Node
	)
	for _, c := range children(obj) {
		switch c.Kind() {
		case "comment":
			lastComment = c
		case "pair":
			key := c.ChildByFieldName("key")
			val := c.ChildByFieldName("value")
			if key == nil || val == nil {
				continue
			}
			def := &ast.PropTypeDef{
				Node:      l.node(c),
				Name:      unquote(l.text(key)),
				Validator: l.validator(val),
			}
			if lastComment != nil {
				def.Description, def.Deprecated = parseJSDoc(l.text(lastComment))
			}
			out = append(out, def)
			lastComment = nil
		}
	}
	return out
}

// validator lowers a validator expression, peeling off .isRequired.
func (l *lowerer) validator(n *ts.Node) *ast.Validator {
	v := &ast.Validator{Node: l.node(n)}
	for n.Kind() == "member_expression" && l.text(n.ChildByFieldName("property")) == "isRequired" {
		v.Required = true
		if n = n.ChildByFieldName("object"); n == nil {
			v.Name = "custom"
			return v
		}
		v.Node = l.node(n)
	}

	switch n.Kind() {
	case "member_expression", "identifier":
		if name := l.validatorName(n); plainValidators[name] {
			v.Name = name
			return v
		}

	case "call_expression":
		var first *ts.Node
		if args := n.ChildByFieldName("arguments"); args != nil {
			first = firstNamedChild(args)
		}
		if first == nil {
			break
		}
		switch name := l.validatorName(n.ChildByFieldName("function")); name {
		case "oneOf", "instanceOf":
			v.Name = name
			v.Arg = l.value(first)
			return v
		case "arrayOf", "objectOf":
			v.Name = name
			v.Of = []*ast.Validator{l.validator(first)}
			return v
		case "oneOfType":
			if first.Kind() != "array" {
				break
			}
			v.Name = name
			for _, el := range namedChildren(first) {
				v.Of = append(v.Of, l.validator(el))
			}
			return v
		case "shape", "exact":
			if first.Kind() != "object" {
				break
			}
			v.Name = name
			v.Shape = l.propTypeDefs(first)
			return v
		}
	}

	v.Name = "custom"
	return v
}

// validatorName returns X for PropTypes.X and for a bare X.
func (l *lowerer) validatorName(n *ts.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "identifier":
		return l.text(n)
	case "member_expression":
		return l.text(n.ChildByFieldName("property"))
	}
	return ""
}
