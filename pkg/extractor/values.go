package extractor

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
)

// value lowers an initializer expression.
func (l *lowerer) value(n *ts.Node) ast.Value {
	switch n.Kind() {
	case "identifier":
		return &ast.Identifier{Node: l.node(n), Name: l.text(n)}

	case "string":
		return &ast.Literal{Node: l.node(n), Value: unquote(l.text(n))}

	case "template_string":
		if childOfKind(n, "template_substitution") != nil {
			return &ast.OtherValue{Node: l.node(n)}
		}
		return &ast.Literal{Node: l.node(n), Value: strings.Trim(l.text(n), "`")}

	case "number":
		if f, ok := parseNumber(l.text(n)); ok {
			return &ast.Literal{Node: l.node(n), Value: f}
		}
		return &ast.OtherValue{Node: l.node(n)}

	case "true":
		return &ast.Literal{Node: l.node(n), Value: true}
	case "false":
		return &ast.Literal{Node: l.node(n), Value: false}
	case "null", "undefined":
		return &ast.Literal{Node: l.node(n), Value: nil}

	case "unary_expression":
		// -1 is a unary minus applied to a number literal.
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op != nil && arg != nil && l.text(op) == "-" && arg.Kind() == "number" {
			if f, ok := parseNumber(l.text(arg)); ok {
				return &ast.Literal{Node: l.node(n), Value: -f}
			}
		}
		return &ast.OtherValue{Node: l.node(n)}

	case "array":
		list := &ast.List{Node: l.node(n)}
		for _, c := range namedChildren(n) {
			list.Elements = append(list.Elements, l.value(c))
		}
		return list

	case "object":
		return l.object(n)

	case "parenthesized_expression", "as_expression", "satisfies_expression",
		"non_null_expression", "type_assertion":
		// (x), x as const, x satisfies T, x!
		if inner := firstNamedChild(n); inner != nil {
			return l.value(inner)
		}
		return &ast.OtherValue{Node: l.node(n)}

	default:
		return &ast.OtherValue{Node: l.node(n)}
	}
}

func (l *lowerer) object(n *ts.Node) *ast.Object {
	obj := &ast.Object{Node: l.node(n)}
	for _, c := range namedChildren(n) {
		switch c.Kind() {
		case "pair":
			key := c.ChildByFieldName("key")
			val := c.ChildByFieldName("value")
			if key == nil || val == nil {
				continue
			}
			obj.Properties = append(obj.Properties, ast.Property{
				Key:   unquote(l.text(key)),
				Value: l.value(val),
			})
		case "shorthand_property_identifier":
			name := l.text(c)
			obj.Properties = append(obj.Properties, ast.Property{
				Key:   name,
				Value: &ast.Identifier{Node: l.node(c), Name: name},
			})
		case "spread_element":
			if arg := firstNamedChild(c); arg != nil {
				obj.Properties = append(obj.Properties, ast.Property{
					Value:  l.value(arg),
					Spread: true,
				})
			}
		case "method_definition":
			if name := c.ChildByFieldName("name"); name != nil {
				obj.Properties = append(obj.Properties, ast.Property{
					Key:   unquote(l.text(name)),
					Value: &ast.OtherValue{Node: l.node(c)},
				})
			}
		}
	}
	return obj
}

func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	text = strings.TrimSuffix(text, "n")
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, true
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	return 0, false
}

// unquote strips the quotes from a string literal token. Escape sequences
// are decoded when the literal is valid Go syntax too, and kept otherwise.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'' && first != '`') {
		return s
	}
	inner := s[1 : len(s)-1]
	if first == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	if first == '\'' {
		if u, err := strconv.Unquote(`"` + strings.ReplaceAll(strings.ReplaceAll(inner, `\'`, `'`), `"`, `\"`) + `"`); err == nil {
			return u
		}
	}
	return inner
}
