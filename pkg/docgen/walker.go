package docgen

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/docs"
	"github.com/gnana997/propdoc/pkg/resolver"
)

// DescriptionFunc attaches the documentation of a field to its descriptor.
type DescriptionFunc func(prop *docs.PropDescriptor, field *ast.PropertySignature)

// SetPropDescription copies the field's doc comment onto prop.
func SetPropDescription(prop *docs.PropDescriptor, field *ast.PropertySignature) {
	prop.Description = field.Description
	prop.Deprecated = field.Deprecated
}

// Walker enumerates the fields of a props type into a Documentation,
// following spreads through the session's resolved symbols.
//
// A Walker belongs to one session and is not safe for concurrent use.
type Walker struct {
	session  *resolver.Session
	values   *valueResolver
	describe DescriptionFunc
	logger   *slog.Logger

	active map[string]bool
	chain  []string
}

// NewWalker creates a walker over session. describe may be nil, which
// selects SetPropDescription.
func NewWalker(session *resolver.Session, describe DescriptionFunc, logger *slog.Logger) *Walker {
	if describe == nil {
		describe = SetPropDescription
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{
		session:  session,
		values:   newValueResolver(session),
		describe: describe,
		logger:   logger,
		active:   make(map[string]bool),
	}
}

// frame is the context a field is recorded under: the file whose scope
// resolves names, plus the filters of the utility wrappers unwrapped so far.
type frame struct {
	origin   string
	pick     map[string]bool
	omit     map[string]bool
	required *bool
}

func (f frame) allows(name string) bool {
	if f.pick != nil && !f.pick[name] {
		return false
	}
	return !f.omit[name]
}

// wrap applies utility u to the frame. Outer wrappers win over inner ones,
// so Partial<Required<T>> leaves every field optional.
func (f frame) wrap(u *ast.UtilityType) frame {
	switch u.Name {
	case "Pick":
		keys := utilityKeys(u)
		if f.pick == nil {
			f.pick = keys
			break
		}
		both := make(map[string]bool)
		for k := range f.pick {
			if keys[k] {
				both[k] = true
			}
		}
		f.pick = both
	case "Omit":
		merged := make(map[string]bool, len(f.omit))
		for k := range f.omit {
			merged[k] = true
		}
		for k := range utilityKeys(u) {
			merged[k] = true
		}
		f.omit = merged
	case "Partial", "$Shape":
		if f.required == nil {
			no := false
			f.required = &no
		}
	case "Required":
		if f.required == nil {
			yes := true
			f.required = &yes
		}
	}
	return f
}

// utilityKeys reads the key list of Pick<T, 'a' | 'b'>.
func utilityKeys(u *ast.UtilityType) map[string]bool {
	keys := make(map[string]bool)
	if len(u.Args) < 2 {
		return keys
	}
	var collect func(t ast.TypeExpr)
	collect = func(t ast.TypeExpr) {
		switch t := t.(type) {
		case *ast.LiteralType:
			if s, ok := t.Value.(string); ok {
				keys[s] = true
			}
		case *ast.UnionType:
			for _, el := range t.Elements {
				collect(el)
			}
		}
	}
	collect(u.Args[1])
	return keys
}

// WalkProps records the props described by t, the annotation of a component
// declared in path. t is handled like a spread of itself, so a bare
// reference (props: Props) resolves the same way as { ...Props }.
func (w *Walker) WalkProps(doc *docs.Documentation, path string, t ast.TypeExpr) error {
	if t == nil {
		return nil
	}
	return w.spread(doc, t, frame{origin: path}, "")
}

// Walk records the fields of obj, a structural type written in path.
func (w *Walker) Walk(doc *docs.Documentation, path string, obj *ast.ObjectType) error {
	return w.object(doc, obj, frame{origin: path})
}

func (w *Walker) object(doc *docs.Documentation, obj *ast.ObjectType, f frame) error {
	for _, m := range obj.Members {
		switch m.Kind() {
		case ast.MemberProperty:
			field := m.(*ast.PropertySignature)
			if !f.allows(field.Name) {
				continue
			}
			w.field(doc, field, f)

		case ast.MemberSpread:
			if err := w.spread(doc, m.(*ast.SpreadMember).Type, f, ""); err != nil {
				return err
			}

		default:
			panic(errors.AssertionFailedf("unhandled member kind %d", m.Kind()))
		}
	}
	return nil
}

func (w *Walker) field(doc *docs.Documentation, field *ast.PropertySignature, f frame) {
	prop := doc.GetPropDescriptor(field.Name)
	prop.FlowType = Describe(field.Type)
	prop.Required = !field.Optional
	if f.required != nil {
		prop.Required = *f.required
	}
	w.describe(prop, field)
}

// spread expands ...t. label names t in composes when t cannot be expanded;
// empty means the source text of t.
func (w *Walker) spread(doc *docs.Documentation, t ast.TypeExpr, f frame, label string) error {
	for {
		switch t.Kind() {
		case ast.TypeUtility:
			u := t.(*ast.UtilityType)
			if len(u.Args) == 0 {
				w.compose(doc, t, label)
				return nil
			}
			f = f.wrap(u)
			t = u.Args[0]

		case ast.TypeObject:
			return w.object(doc, t.(*ast.ObjectType), f)

		case ast.TypeRef:
			return w.reference(doc, t.(*ast.TypeReference), f, label)

		case ast.TypePredefined, ast.TypeLiteral, ast.TypeUnion, ast.TypeArray,
			ast.TypeFunction, ast.TypeTuple, ast.TypeOther:
			w.compose(doc, t, label)
			return nil

		default:
			panic(errors.AssertionFailedf("unhandled type kind %s", t.Kind()))
		}
	}
}

func (w *Walker) compose(doc *docs.Documentation, t ast.TypeExpr, label string) {
	if label == "" {
		label = t.Text()
	}
	doc.AddComposes(label)
}

// reference expands a spread of a named type. Only type aliases with a
// structural right side are flattened; everything else, including names
// that do not resolve, is recorded in composes under label, or under the
// reference's own name when label is empty.
func (w *Walker) reference(doc *docs.Documentation, ref *ast.TypeReference, f frame, label string) error {
	if ref.Qualified() {
		doc.AddComposes(ref.Name)
		return nil
	}

	scope, err := w.session.Scope(f.origin)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", ref.Name)
	}
	v, ok := scope.Last(ref.Name)
	if !ok {
		w.logger.Debug("spread type not resolved", "name", ref.Name, "file", f.origin)
		doc.AddComposes(orName(label, ref.Name))
		return nil
	}

	switch v.Kind {
	case resolver.ValueTypeAlias:
		return w.enter(ref.Name, v, func() error {
			inner := f
			inner.origin = v.Origin
			return w.spread(doc, v.Type, inner, orName(label, ref.Name))
		})

	case resolver.ValueAlias:
		return w.enter(ref.Name, v, func() error {
			inner := f
			inner.origin = v.Origin
			target := &ast.TypeReference{Node: ast.Node{Loc: v.Location, Raw: v.Name}, Name: v.Name}
			return w.reference(doc, target, inner, orName(label, ref.Name))
		})

	case resolver.ValueLiteral, resolver.ValueList, resolver.ValueObject:
		doc.AddComposes(orName(label, ref.Name))
		return nil

	default:
		panic(errors.AssertionFailedf("unhandled value kind %s", v.Kind))
	}
}

func orName(label, name string) string {
	if label != "" {
		return label
	}
	return name
}

// enter runs fn with the declaration v marked as being expanded, failing
// when v is already being expanded further up.
func (w *Walker) enter(name string, v resolver.Value, fn func() error) error {
	key := fmt.Sprintf("%s:%d", v.Origin, v.Location.StartByte)
	w.chain = append(w.chain, name)
	defer func() { w.chain = w.chain[:len(w.chain)-1] }()

	if w.active[key] {
		err := errors.Wrapf(resolver.ErrCyclicReference, "type %s", strings.Join(w.chain, " -> "))
		return errors.WithHint(err, "a type cannot spread itself, directly or through other types")
	}
	w.active[key] = true
	defer delete(w.active, key)

	return fn()
}
