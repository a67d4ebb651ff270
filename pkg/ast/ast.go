// Package ast is the closed syntax model the resolver and walker consume.
//
// The extractor lowers tree-sitter parse trees into these types. Only the
// node kinds the resolver actually reads are modelled: variable declarations,
// type aliases, imports, exports, object types with spread members and
// utility-type wrappers. Everything else is dropped at lowering time, or
// kept as raw source text (OtherType, OtherValue).
//
// Each family (Statement, Value, TypeExpr, Member) is an interface with an
// unexported marker method, so the set of variants is fixed by this package.
// Consumers switch on the Kind() of a node and report unknown kinds in the
// default branch.
package ast

// Location is a span in a source file. Lines and columns are 1-based, bytes
// are 0-based offsets.
type Location struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	StartByte   uint32 `json:"startByte"`
	EndByte     uint32 `json:"endByte"`
}

// Node carries the location and source text shared by every variant.
type Node struct {
	Loc Location
	Raw string
}

// Location returns the node's span.
func (n Node) Location() Location { return n.Loc }

// Text returns the node's source text.
func (n Node) Text() string { return n.Raw }

// File is one lowered source file.
type File struct {
	// Path is the absolute path the file was read from.
	Path string

	// Statements holds the file's top-level statements in source order.
	Statements []Statement

	// Components are the component declarations found in the file.
	Components []Component

	// HasErrors is set when the parser had to recover from syntax errors.
	HasErrors bool
}

// Imports returns the file's import declarations in source order.
func (f *File) Imports() []*ImportDecl {
	var out []*ImportDecl
	for _, s := range f.Statements {
		if imp, ok := s.(*ImportDecl); ok {
			out = append(out, imp)
		}
	}
	return out
}

// TypeAlias returns the last top-level type alias or interface named name.
func (f *File) TypeAlias(name string) *TypeAliasDecl {
	var found *TypeAliasDecl
	for _, s := range f.Statements {
		if ta, ok := s.(*TypeAliasDecl); ok && ta.Name == name {
			found = ta
		}
	}
	return found
}

// ComponentKind says how a component was declared.
type ComponentKind int

const (
	// ComponentFunction is a function declaration: function Button(props: P).
	ComponentFunction ComponentKind = iota
	// ComponentArrow is a function or arrow expression assigned to a variable.
	ComponentArrow
	// ComponentAnnotated is a variable annotated with React.FC<P> or similar.
	ComponentAnnotated
	// ComponentClass is a class extending Component<P> or PureComponent<P>.
	ComponentClass
)

func (k ComponentKind) String() string {
	switch k {
	case ComponentFunction:
		return "function"
	case ComponentArrow:
		return "arrow"
	case ComponentAnnotated:
		return "annotated"
	case ComponentClass:
		return "class"
	default:
		return "unknown"
	}
}

// Component is a component declaration and its props annotation.
//
// Props is nil when the component declares its props only at runtime,
// through PropTypes.
type Component struct {
	Node
	Name        string
	Kind        ComponentKind
	Props       TypeExpr
	PropTypes   []*PropTypeDef
	Description string
	Exported    bool
}

// PropTypeDef is one key of a propTypes object: X.propTypes = { name: ... }
// or static propTypes = { ... } in the class body.
type PropTypeDef struct {
	Node
	Name        string
	Validator   *Validator
	Description string
	Deprecated  bool
}

// Validator is a lowered PropTypes validator expression.
//
//	PropTypes.string              -> {Name: "string"}
//	PropTypes.oneOf(iconNames)    -> {Name: "oneOf", Arg: Identifier}
//	PropTypes.arrayOf(X)          -> {Name: "arrayOf", Of: [X]}
//	PropTypes.oneOfType([X, Y])   -> {Name: "oneOfType", Of: [X, Y]}
//	PropTypes.shape({ a: X })     -> {Name: "shape", Shape: [a]}
//	anything else                 -> {Name: "custom"}
type Validator struct {
	Node
	Name     string
	Required bool
	Arg      Value
	Of       []*Validator
	Shape    []*PropTypeDef
}
