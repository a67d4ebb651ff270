package docgen

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/docs"
)

// Describe converts a type annotation into a TypeDescriptor.
func Describe(t ast.TypeExpr) *docs.TypeDescriptor {
	if t == nil {
		return &docs.TypeDescriptor{Name: "any"}
	}

	switch t.Kind() {
	case ast.TypePredefined:
		return &docs.TypeDescriptor{Name: t.(*ast.PredefinedType).Name}

	case ast.TypeLiteral:
		return &docs.TypeDescriptor{Name: "literal", Value: t.Text()}

	case ast.TypeRef:
		ref := t.(*ast.TypeReference)
		d := &docs.TypeDescriptor{Name: simplifyName(ref.Name)}
		if d.Name != t.Text() {
			d.Raw = t.Text()
		}
		for _, arg := range ref.Args {
			d.Elements = append(d.Elements, Describe(arg))
		}
		return d

	case ast.TypeUtility:
		u := t.(*ast.UtilityType)
		d := &docs.TypeDescriptor{Name: u.Name, Raw: t.Text()}
		for _, arg := range u.Args {
			d.Elements = append(d.Elements, Describe(arg))
		}
		return d

	case ast.TypeUnion:
		u := t.(*ast.UnionType)
		d := &docs.TypeDescriptor{Name: "union", Raw: t.Text()}
		for _, el := range u.Elements {
			d.Elements = append(d.Elements, Describe(el))
		}
		return d

	case ast.TypeArray:
		return &docs.TypeDescriptor{
			Name:     "Array",
			Raw:      t.Text(),
			Elements: []*docs.TypeDescriptor{Describe(t.(*ast.ArrayType).Element)},
		}

	case ast.TypeTuple:
		d := &docs.TypeDescriptor{Name: "tuple", Raw: t.Text()}
		for _, el := range t.(*ast.TupleType).Elements {
			d.Elements = append(d.Elements, Describe(el))
		}
		return d

	case ast.TypeFunction:
		return &docs.TypeDescriptor{Name: "signature", Type: "function", Raw: t.Text()}

	case ast.TypeObject:
		return describeObject(t.(*ast.ObjectType))

	case ast.TypeOther:
		return &docs.TypeDescriptor{Name: t.Text()}

	default:
		panic(errors.AssertionFailedf("unhandled type kind %s", t.Kind()))
	}
}

// describeObject lists the direct fields of an inline object type. Spread
// members are not expanded here; they appear in Raw.
func describeObject(obj *ast.ObjectType) *docs.TypeDescriptor {
	d := &docs.TypeDescriptor{
		Name:      "signature",
		Type:      "object",
		Raw:       obj.Text(),
		Signature: &docs.Signature{Properties: []docs.SignatureProperty{}},
	}
	for _, p := range obj.Properties() {
		d.Signature.Properties = append(d.Signature.Properties, docs.SignatureProperty{
			Key:      p.Name,
			Value:    Describe(p.Type),
			Required: !p.Optional,
		})
	}
	return d
}

// simplifyName drops the React namespace from well-known type names, so
// React.ReactNode and ReactNode describe the same way.
func simplifyName(name string) string {
	return strings.TrimPrefix(name, "React.")
}
