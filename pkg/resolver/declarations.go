package resolver

import (
	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
)

// BuildDeclarations records every top-level variable declarator and type
// alias of file under its declared name. Initializers that are not an
// identifier, literal, array or object are not recorded. A name declared
// twice keeps both values, in source order.
func BuildDeclarations(file *ast.File) *SymbolTable {
	table := NewSymbolTable()

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.VariableDecl:
			for _, d := range s.Declarators {
				if d.Init == nil {
					continue
				}
				if v, ok := declaredValue(d.Init); ok {
					v.Origin = file.Path
					v.Location = d.Location()
					table.Add(d.Name, v)
				}
			}

		case *ast.TypeAliasDecl:
			table.Add(s.Name, Value{
				Kind:     ValueTypeAlias,
				Name:     s.Name,
				Type:     s.Type,
				Origin:   file.Path,
				Location: s.Location(),
			})

		case *ast.OpaqueDecl, *ast.ImportDecl, *ast.ExportNamed, *ast.ExportAll, *ast.ExportDefault:
			// Declare nothing resolvable.

		default:
			panic(errors.AssertionFailedf("unhandled statement kind %s", stmt.Kind()))
		}
	}
	return table
}

// declaredValue classifies an initializer.
func declaredValue(init ast.Value) (Value, bool) {
	switch init.Kind() {
	case ast.ValueIdentifier:
		return Value{Kind: ValueAlias, Name: init.(*ast.Identifier).Name}, true
	case ast.ValueLiteral:
		return Value{Kind: ValueLiteral, Literal: init.(*ast.Literal).Value}, true
	case ast.ValueList:
		return Value{Kind: ValueList, Elements: init.(*ast.List).Elements}, true
	case ast.ValueObject:
		return Value{Kind: ValueObject, Object: init.(*ast.Object)}, true
	case ast.ValueOther:
		return Value{}, false
	default:
		panic(errors.AssertionFailedf("unhandled value kind %s", init.Kind()))
	}
}
