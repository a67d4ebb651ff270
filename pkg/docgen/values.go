package docgen

import (
	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/resolver"
)

// valueResolver follows identifier aliases (const a = b) through a
// session to the values they finally name.
type valueResolver struct {
	session *resolver.Session
	active  map[string]bool
}

func newValueResolver(session *resolver.Session) *valueResolver {
	return &valueResolver{session: session, active: make(map[string]bool)}
}

func (r *valueResolver) resolve(origin, name string) ([]resolver.Value, error) {
	key := origin + ":" + name
	if r.active[key] {
		return nil, errors.Wrapf(resolver.ErrCyclicReference, "value %s in %s", name, origin)
	}
	r.active[key] = true
	defer delete(r.active, key)

	scope, err := r.session.Scope(origin)
	if err != nil {
		return nil, err
	}
	values, ok := scope.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrSymbolNotFound, "%s in %s", name, origin)
	}

	var out []resolver.Value
	for _, v := range values {
		if v.Kind != resolver.ValueAlias {
			out = append(out, v)
			continue
		}
		target, err := r.resolve(v.Origin, v.Name)
		if errors.Is(err, ErrSymbolNotFound) {
			// Unresolvable aliases are returned as they are.
			out = append(out, v)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, target...)
	}
	return out, nil
}

// Plain converts a resolved value into data that encodes cleanly as JSON.
// Identifiers that could not be followed are rendered as {"ref": name}.
func Plain(v resolver.Value) any {
	switch v.Kind {
	case resolver.ValueLiteral:
		return v.Literal
	case resolver.ValueAlias:
		return map[string]any{"ref": v.Name}
	case resolver.ValueList:
		return plainList(v.Elements)
	case resolver.ValueObject:
		return plainObject(v.Object)
	case resolver.ValueTypeAlias:
		return map[string]any{"type": Describe(v.Type)}
	default:
		panic(errors.AssertionFailedf("unhandled value kind %s", v.Kind))
	}
}

func plainValue(v ast.Value) any {
	switch v.Kind() {
	case ast.ValueIdentifier:
		return map[string]any{"ref": v.(*ast.Identifier).Name}
	case ast.ValueLiteral:
		return v.(*ast.Literal).Value
	case ast.ValueList:
		return plainList(v.(*ast.List).Elements)
	case ast.ValueObject:
		return plainObject(v.(*ast.Object))
	case ast.ValueOther:
		return map[string]any{"expr": v.Text()}
	default:
		panic(errors.AssertionFailedf("unhandled value kind %s", v.Kind()))
	}
}

func plainList(elements []ast.Value) []any {
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		out = append(out, plainValue(el))
	}
	return out
}

func plainObject(obj *ast.Object) map[string]any {
	out := make(map[string]any)
	if obj == nil {
		return out
	}
	for _, p := range obj.Properties {
		if p.Spread {
			out["..."+p.Value.Text()] = true
			continue
		}
		out[p.Key] = plainValue(p.Value)
	}
	return out
}
