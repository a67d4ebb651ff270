package docgen

import (
	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/docs"
	"github.com/gnana997/propdoc/pkg/resolver"
)

// WalkPropTypes records the runtime prop declarations of a component
// declared in path. A prop already known from the props annotation keeps
// its requiredness; its propTypes only add the Type descriptor and a
// missing description.
func (w *Walker) WalkPropTypes(doc *docs.Documentation, path string, defs []*ast.PropTypeDef) error {
	for _, def := range defs {
		t, err := w.propType(def.Validator, path)
		if err != nil {
			return errors.Wrapf(err, "propTypes key %s", def.Name)
		}

		prop := doc.GetPropDescriptor(def.Name)
		prop.Type = t
		if prop.FlowType == nil {
			prop.Required = def.Validator.Required
		}
		if def.Description != "" {
			prop.Description = def.Description
		}
		prop.Deprecated = prop.Deprecated || def.Deprecated
	}
	return nil
}

func (w *Walker) propType(v *ast.Validator, origin string) (*docs.TypeDescriptor, error) {
	switch v.Name {
	case "oneOf":
		return w.enum(v, origin)

	case "instanceOf":
		d := &docs.TypeDescriptor{Name: v.Name}
		if v.Arg != nil {
			d.Value = v.Arg.Text()
		}
		return d, nil

	case "arrayOf", "objectOf", "oneOfType":
		name := v.Name
		if name == "oneOfType" {
			name = "union"
		}
		d := &docs.TypeDescriptor{Name: name}
		for _, of := range v.Of {
			el, err := w.propType(of, origin)
			if err != nil {
				return nil, err
			}
			d.Elements = append(d.Elements, el)
		}
		return d, nil

	case "shape", "exact":
		d := &docs.TypeDescriptor{Name: v.Name, Signature: &docs.Signature{}}
		for _, f := range v.Shape {
			el, err := w.propType(f.Validator, origin)
			if err != nil {
				return nil, err
			}
			d.Signature.Properties = append(d.Signature.Properties, docs.SignatureProperty{
				Key:      f.Name,
				Value:    el,
				Required: f.Validator.Required,
			})
		}
		return d, nil

	case "custom":
		return &docs.TypeDescriptor{Name: "custom", Raw: v.Text()}, nil

	default:
		return &docs.TypeDescriptor{Name: v.Name}, nil
	}
}

// enum describes oneOf. A named list is looked up through the session, so
// a list imported from another file expands to its elements; every list
// declared under the name contributes. A name that resolves to no list is
// kept as the descriptor's value.
func (w *Walker) enum(v *ast.Validator, origin string) (*docs.TypeDescriptor, error) {
	d := &docs.TypeDescriptor{Name: "enum", Raw: v.Text()}

	switch arg := v.Arg.(type) {
	case *ast.List:
		d.Elements = enumElements(arg.Elements)

	case *ast.Identifier:
		values, err := w.values.resolve(origin, arg.Name)
		if err != nil && !errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		for _, val := range values {
			if val.Kind == resolver.ValueList {
				d.Elements = append(d.Elements, enumElements(val.Elements)...)
			}
		}
		if len(d.Elements) == 0 {
			w.logger.Debug("oneOf list not resolved", "name", arg.Name, "file", origin)
			d.Value = arg.Name
		}
	}
	return d, nil
}

func enumElements(elements []ast.Value) []*docs.TypeDescriptor {
	out := make([]*docs.TypeDescriptor, 0, len(elements))
	for _, el := range elements {
		out = append(out, &docs.TypeDescriptor{Name: "literal", Value: el.Text()})
	}
	return out
}
