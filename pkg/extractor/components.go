package extractor

import (
	"unicode"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
)

// Wrapper types whose first type argument is the props type.
var componentTypes = map[string]bool{
	"FC":                      true,
	"React.FC":                true,
	"VFC":                     true,
	"React.VFC":               true,
	"FunctionComponent":       true,
	"React.FunctionComponent": true,
	"ComponentType":           true,
	"React.ComponentType":     true,
	"AbstractComponent":       true,
	"React.AbstractComponent": true,
}

// Base classes whose first type argument is the props type.
var componentClasses = map[string]bool{
	"Component":           true,
	"React.Component":     true,
	"PureComponent":       true,
	"React.PureComponent": true,
}

// locateComponents runs the components query and keeps the matches that
// look like components: declared at the top level, capitalised, and with a
// props type recoverable from the first parameter, the variable annotation
// or the base class, or with propTypes assigned.
func (e *Extractor) locateComponents(tree *ts.Tree, grammar parser.Grammar, l *lowerer) ([]ast.Component, error) {
	query, err := e.queryManager.GetQuery(grammar, queries.QueryTypeComponents)
	if err != nil {
		return nil, err
	}
	matches, err := e.queryManager.ExecuteQuery(tree, query, l.src)
	if err != nil {
		return nil, err
	}

	var (
		out      []ast.Component
		seen     = map[string]bool{}
		assigned = l.propTypesAssignments(tree.RootNode())
	)
	for _, m := range matches {
		name := m.Capture("name")
		def := m.Capture("definition")
		if name == nil || def == nil || seen[name.Text] || !capitalised(name.Text) {
			continue
		}
		stmt, ok := topLevelStatement(def.Node)
		if !ok {
			continue
		}

		comp := ast.Component{
			Node:     l.node(def.Node),
			Name:     name.Text,
			Exported: stmt.Kind() == "export_statement",
		}

		switch {
		case m.Capture("params") != nil:
			comp.Kind = ast.ComponentFunction
			comp.Props = l.firstParamType(m.Capture("params").Node)
		case m.Capture("function") != nil:
			comp.Kind = ast.ComponentArrow
			fn := m.Capture("function").Node
			comp.Props = l.firstParamType(fn.ChildByFieldName("parameters"))
		case m.Capture("annotation") != nil:
			comp.Kind = ast.ComponentAnnotated
			comp.Props = l.wrapperTypeArg(m.Capture("annotation").Node, componentTypes)
		case m.Capture("heritage") != nil:
			var base bool
			comp.Kind = ast.ComponentClass
			comp.Props, base = l.baseClassTypeArg(m.Capture("heritage").Node)
			if !base {
				continue
			}
			comp.PropTypes = l.staticPropTypes(def.Node)
		}
		comp.PropTypes = append(comp.PropTypes, assigned[comp.Name]...)
		if comp.Props == nil && len(comp.PropTypes) == 0 {
			continue
		}

		if prev := stmt.PrevSibling(); prev != nil && prev.Kind() == "comment" {
			comp.Description, _ = parseJSDoc(l.text(prev))
		}

		seen[comp.Name] = true
		out = append(out, comp)
	}
	return out, nil
}

// topLevelStatement returns the program-level statement containing def,
// and false when def is nested inside a function or block.
func topLevelStatement(def *ts.Node) (*ts.Node, bool) {
	stmt := def
	if def.Kind() == "variable_declarator" {
		stmt = def.Parent()
		if stmt == nil {
			return nil, false
		}
	}
	parent := stmt.Parent()
	if parent == nil {
		return nil, false
	}
	if parent.Kind() == "export_statement" {
		stmt = parent
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "program" {
		return nil, false
	}
	return stmt, true
}

// firstParamType returns the annotated type of the first parameter.
func (l *lowerer) firstParamType(params *ts.Node) ast.TypeExpr {
	if params == nil {
		return nil
	}
	for _, p := range namedChildren(params) {
		if p.Kind() != "required_parameter" && p.Kind() != "optional_parameter" {
			continue
		}
		t := p.ChildByFieldName("type")
		if t == nil {
			return nil
		}
		return l.typeExpr(t)
	}
	return nil
}

// wrapperTypeArg returns P from a type annotation of the form Wrapper<P>.
func (l *lowerer) wrapperTypeArg(annotation *ts.Node, wrappers map[string]bool) ast.TypeExpr {
	ref, ok := l.typeExpr(annotation).(*ast.TypeReference)
	if !ok || !wrappers[ref.Name] || len(ref.Args) == 0 {
		return nil
	}
	return ref.Args[0]
}

// baseClassTypeArg returns P from extends Component<P> or PureComponent<P>.
// The flag reports whether the base is a component class at all, with or
// without a type argument.
func (l *lowerer) baseClassTypeArg(heritage *ts.Node) (ast.TypeExpr, bool) {
	clause := childOfKind(heritage, "extends_clause")
	if clause == nil {
		return nil, false
	}
	value := clause.ChildByFieldName("value")
	if value == nil {
		return nil, false
	}
	args := clause.ChildByFieldName("type_arguments")
	if args == nil {
		args = childOfKind(clause, "type_arguments")
	}
	// Some grammar versions parse Component<P> as an instantiation expression.
	if value.Kind() == "instantiation_expression" {
		args = childOfKind(value, "type_arguments")
		value = firstNamedChild(value)
	}
	if value == nil || !componentClasses[l.text(value)] {
		return nil, false
	}
	if args == nil {
		return nil, true
	}
	first := firstNamedChild(args)
	if first == nil {
		return nil, true
	}
	return l.typeExpr(first), true
}

func capitalised(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
