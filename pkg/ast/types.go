package ast

import "strings"

// TypeKind enumerates type expression variants.
type TypeKind int

const (
	TypeObject TypeKind = iota
	TypeRef
	TypeUtility
	TypePredefined
	TypeLiteral
	TypeUnion
	TypeArray
	TypeFunction
	TypeTuple
	TypeOther
)

func (k TypeKind) String() string {
	switch k {
	case TypeObject:
		return "object"
	case TypeRef:
		return "reference"
	case TypeUtility:
		return "utility"
	case TypePredefined:
		return "predefined"
	case TypeLiteral:
		return "literal"
	case TypeUnion:
		return "union"
	case TypeArray:
		return "array"
	case TypeFunction:
		return "function"
	case TypeTuple:
		return "tuple"
	case TypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// TypeExpr is a type annotation.
type TypeExpr interface {
	Kind() TypeKind
	Location() Location
	Text() string
	typeExpr()
}

// ObjectType is a structural type: { a: T, ...B }. Intersections A & B & {..}
// are lowered to an ObjectType whose members are spreads of each part, with
// Intersection set so the original syntax can be described faithfully.
type ObjectType struct {
	Node
	Members      []Member
	Intersection bool
}

// Properties returns the non-spread members.
func (o *ObjectType) Properties() []*PropertySignature {
	var out []*PropertySignature
	for _, m := range o.Members {
		if p, ok := m.(*PropertySignature); ok {
			out = append(out, p)
		}
	}
	return out
}

// TypeReference is a named type, possibly qualified (React.HTMLProps) and
// possibly generic.
type TypeReference struct {
	Node
	Name string
	Args []TypeExpr
}

// Qualified reports whether the name has a namespace prefix.
func (r *TypeReference) Qualified() bool {
	return strings.Contains(r.Name, ".")
}

// UtilityType is a generic wrapper the walker knows how to see through.
// See UtilityNames.
type UtilityType struct {
	Node
	Name string
	Args []TypeExpr
}

// UtilityNames lists the wrappers lowered to UtilityType. The Flow names
// appear in annotated JavaScript parsed with the TypeScript grammar.
var UtilityNames = map[string]bool{
	"$Exact":      true,
	"$ReadOnly":   true,
	"$Shape":      true,
	"Readonly":    true,
	"Partial":     true,
	"Required":    true,
	"NonNullable": true,
	"Pick":        true,
	"Omit":        true,
}

// PredefinedType is a keyword type: string, number, boolean, any, ...
type PredefinedType struct {
	Node
	Name string
}

// LiteralType is a literal used as a type: 'small', 42, true.
type LiteralType struct {
	Node
	Value any
}

// UnionType is A | B | C, flattened.
type UnionType struct {
	Node
	Elements []TypeExpr
}

// ArrayType is T[] or Array<T>.
type ArrayType struct {
	Node
	Element TypeExpr
}

// FunctionType is a function signature type. Only its text is kept.
type FunctionType struct {
	Node
}

// TupleType is [A, B].
type TupleType struct {
	Node
	Elements []TypeExpr
}

// OtherType is any type syntax not modelled above (typeof, keyof, indexed
// access, conditional types).
type OtherType struct {
	Node
}

func (*ObjectType) Kind() TypeKind     { return TypeObject }
func (*TypeReference) Kind() TypeKind  { return TypeRef }
func (*UtilityType) Kind() TypeKind    { return TypeUtility }
func (*PredefinedType) Kind() TypeKind { return TypePredefined }
func (*LiteralType) Kind() TypeKind    { return TypeLiteral }
func (*UnionType) Kind() TypeKind      { return TypeUnion }
func (*ArrayType) Kind() TypeKind      { return TypeArray }
func (*FunctionType) Kind() TypeKind   { return TypeFunction }
func (*TupleType) Kind() TypeKind      { return TypeTuple }
func (*OtherType) Kind() TypeKind      { return TypeOther }

func (*ObjectType) typeExpr()     {}
func (*TypeReference) typeExpr()  {}
func (*UtilityType) typeExpr()    {}
func (*PredefinedType) typeExpr() {}
func (*LiteralType) typeExpr()    {}
func (*UnionType) typeExpr()      {}
func (*ArrayType) typeExpr()      {}
func (*FunctionType) typeExpr()   {}
func (*TupleType) typeExpr()      {}
func (*OtherType) typeExpr()      {}

// MemberKind enumerates object type members.
type MemberKind int

const (
	MemberProperty MemberKind = iota
	MemberSpread
)

// Member is one entry of an ObjectType.
type Member interface {
	Kind() MemberKind
	Location() Location
	member()
}

// PropertySignature is name?: Type, with the doc comment that precedes it.
type PropertySignature struct {
	Node
	Name        string
	Optional    bool
	Readonly    bool
	Type        TypeExpr
	Description string
	Deprecated  bool
}

// SpreadMember is ...Type inside an object type.
type SpreadMember struct {
	Node
	Type TypeExpr
}

func (*PropertySignature) Kind() MemberKind { return MemberProperty }
func (*SpreadMember) Kind() MemberKind      { return MemberSpread }

func (*PropertySignature) member() {}
func (*SpreadMember) member()      {}
