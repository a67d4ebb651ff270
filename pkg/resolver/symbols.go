package resolver

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
)

// ValueKind is the shape of a declared value.
type ValueKind int

const (
	// ValueAlias is a bare identifier initializer: const A = B.
	ValueAlias ValueKind = iota
	// ValueLiteral is a literal initializer: const A = 'x'.
	ValueLiteral
	// ValueList is an array literal initializer.
	ValueList
	// ValueObject is an object literal initializer.
	ValueObject
	// ValueTypeAlias is a type alias or interface declaration.
	ValueTypeAlias
)

func (k ValueKind) String() string {
	switch k {
	case ValueAlias:
		return "alias"
	case ValueLiteral:
		return "literal"
	case ValueList:
		return "list"
	case ValueObject:
		return "object"
	case ValueTypeAlias:
		return "type-alias"
	default:
		return "unknown"
	}
}

// Value is one declaration recorded under a name.
type Value struct {
	Kind ValueKind

	// Name is the alias target (ValueAlias) or the declared type name
	// (ValueTypeAlias).
	Name string

	// Literal holds the decoded literal for ValueLiteral.
	Literal any

	// Elements holds the list elements for ValueList.
	Elements []ast.Value

	// Object holds the object literal for ValueObject.
	Object *ast.Object

	// Type holds the right-hand side for ValueTypeAlias.
	Type ast.TypeExpr

	// Origin is the file that declared the value.
	Origin string

	// Location is the declaration's span in Origin.
	Location ast.Location
}

// MergePolicy decides which slot survives when a name is both declared
// locally and imported.
type MergePolicy int

const (
	// MergeLocalWins keeps the local slot.
	MergeLocalWins MergePolicy = iota
	// MergeImportedWins replaces the local slot with the imported one.
	MergeImportedWins
)

func (p MergePolicy) String() string {
	switch p {
	case MergeImportedWins:
		return "imported-wins"
	case MergeLocalWins:
		return "local-wins"
	default:
		return "unknown"
	}
}

// ParseMergePolicy parses "local-wins" or "imported-wins". Empty selects the default.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local-wins":
		return MergeLocalWins, nil
	case "imported-wins":
		return MergeImportedWins, nil
	default:
		return 0, errors.Newf("unknown merge policy %q (want local-wins or imported-wins)", s)
	}
}

// SymbolTable maps names to ordered multi-value slots. Names keep the order
// in which they were first added.
type SymbolTable struct {
	order []string
	slots map[string][]Value
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{slots: make(map[string][]Value)}
}

// Add appends v to name's slot.
func (t *SymbolTable) Add(name string, v Value) {
	if _, ok := t.slots[name]; !ok {
		t.order = append(t.order, name)
	}
	t.slots[name] = append(t.slots[name], v)
}

// Set replaces name's slot.
func (t *SymbolTable) Set(name string, values []Value) {
	if _, ok := t.slots[name]; !ok {
		t.order = append(t.order, name)
	}
	t.slots[name] = append([]Value(nil), values...)
}

// Get returns name's slot.
func (t *SymbolTable) Get(name string) ([]Value, bool) {
	vs, ok := t.slots[name]
	return vs, ok
}

// Last returns the most recent value declared under name.
func (t *SymbolTable) Last(name string) (Value, bool) {
	vs := t.slots[name]
	if len(vs) == 0 {
		return Value{}, false
	}
	return vs[len(vs)-1], true
}

// Has reports whether name has a slot.
func (t *SymbolTable) Has(name string) bool {
	_, ok := t.slots[name]
	return ok
}

// Names returns the names in insertion order.
func (t *SymbolTable) Names() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of names.
func (t *SymbolTable) Len() int {
	return len(t.order)
}

// Clone returns a copy that can be modified independently.
func (t *SymbolTable) Clone() *SymbolTable {
	out := NewSymbolTable()
	for _, name := range t.order {
		out.Set(name, t.slots[name])
	}
	return out
}

// Merge copies every slot of other into t, in other's order. Names already
// present are resolved by policy.
func (t *SymbolTable) Merge(other *SymbolTable, policy MergePolicy) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		t.Bind(name, other.slots[name], policy)
	}
}

// Bind enters values under name, resolving a collision by policy.
func (t *SymbolTable) Bind(name string, values []Value, policy MergePolicy) {
	if t.Has(name) && policy == MergeLocalWins {
		return
	}
	t.Set(name, values)
}

// Filter returns the slots whose names satisfy keep, in order.
func (t *SymbolTable) Filter(keep func(name string) bool) *SymbolTable {
	out := NewSymbolTable()
	for _, name := range t.order {
		if keep(name) {
			out.Set(name, t.slots[name])
		}
	}
	return out
}
