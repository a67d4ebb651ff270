package ast

// ValueKind enumerates initializer shapes.
type ValueKind int

const (
	ValueIdentifier ValueKind = iota
	ValueLiteral
	ValueList
	ValueObject
	ValueOther
)

func (k ValueKind) String() string {
	switch k {
	case ValueIdentifier:
		return "identifier"
	case ValueLiteral:
		return "literal"
	case ValueList:
		return "list"
	case ValueObject:
		return "object"
	case ValueOther:
		return "other"
	default:
		return "unknown"
	}
}

// Value is an expression on the right of a declarator or in a list/object.
type Value interface {
	Kind() ValueKind
	Location() Location
	Text() string
	value()
}

// Identifier is a bare name reference.
type Identifier struct {
	Node
	Name string
}

// Literal is a string, number, boolean, null or template literal without
// substitutions. Value holds the decoded Go value: string, float64, bool or nil.
type Literal struct {
	Node
	Value any
}

// List is an array literal.
type List struct {
	Node
	Elements []Value
}

// Property is one key of an object literal. Spread is set for ...expr
// entries, in which case Key is empty.
type Property struct {
	Key    string
	Value  Value
	Spread bool
}

// Object is an object literal.
type Object struct {
	Node
	Properties []Property
}

// OtherValue is any expression the resolver does not interpret.
type OtherValue struct {
	Node
}

func (*Identifier) Kind() ValueKind { return ValueIdentifier }
func (*Literal) Kind() ValueKind    { return ValueLiteral }
func (*List) Kind() ValueKind       { return ValueList }
func (*Object) Kind() ValueKind     { return ValueObject }
func (*OtherValue) Kind() ValueKind { return ValueOther }

func (*Identifier) value() {}
func (*Literal) value()    {}
func (*List) value()       {}
func (*Object) value()     {}
func (*OtherValue) value() {}
