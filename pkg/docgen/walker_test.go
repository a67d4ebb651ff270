package docgen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/docs"
)

func predefined(name string) *ast.PredefinedType {
	return &ast.PredefinedType{Node: ast.Node{Raw: name}, Name: name}
}

func field(name string, t ast.TypeExpr, optional bool) *ast.PropertySignature {
	return &ast.PropertySignature{Node: ast.Node{Raw: name}, Name: name, Type: t, Optional: optional}
}

func ref(name string) *ast.TypeReference {
	return &ast.TypeReference{Node: ast.Node{Raw: name}, Name: name}
}

func spreadOf(t ast.TypeExpr) *ast.SpreadMember {
	return &ast.SpreadMember{Node: ast.Node{Raw: "..." + t.Text()}, Type: t}
}

func object(members ...ast.Member) *ast.ObjectType {
	return &ast.ObjectType{Node: ast.Node{Raw: "{...}"}, Members: members}
}

func utility(name string, args ...ast.TypeExpr) *ast.UtilityType {
	return &ast.UtilityType{Node: ast.Node{Raw: name + "<...>"}, Name: name, Args: args}
}

func newWalker(t *testing.T, files map[string]string, root string) (*Walker, string) {
	t.Helper()
	dir := writeTree(t, files)
	session := newResolver(t).NewSession()
	return NewWalker(session, nil, nil), filepath.Join(dir, root)
}

func TestWalk_StructuralSpreadFlattens(t *testing.T) {
	w, path := newWalker(t, map[string]string{
		"a.ts": `type A = { a: number };`,
	}, "a.ts")
	doc := docs.New()

	// { ...A, ...{ b: string } }
	err := w.Walk(doc, path, object(
		spreadOf(ref("A")),
		spreadOf(object(field("b", predefined("string"), false))),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, doc.PropNames())
	a, _ := doc.Prop("a")
	assert.Equal(t, "number", a.FlowType.Name)
	assert.True(t, a.Required)
	b, _ := doc.Prop("b")
	assert.Equal(t, "string", b.FlowType.Name)
	assert.Empty(t, doc.Composes())
}

func TestWalk_UnresolvedSpreadComposes(t *testing.T) {
	w, path := newWalker(t, map[string]string{
		"a.ts": `const value = 1;`,
	}, "a.ts")
	doc := docs.New()

	err := w.Walk(doc, path, object(spreadOf(ref("Unknown"))))
	require.NoError(t, err)

	assert.Equal(t, []string{"Unknown"}, doc.Composes())
	assert.Empty(t, doc.PropNames())
}

func TestWalk_AliasOfUnresolvedComposesAlias(t *testing.T) {
	w, path := newWalker(t, map[string]string{
		"a.ts": `
type P = Q;
type Wrapped = Partial<Missing>;
const Renamed = Undeclared;
`,
	}, "a.ts")
	doc := docs.New()

	err := w.Walk(doc, path, object(
		spreadOf(ref("P")),
		spreadOf(ref("Wrapped")),
		spreadOf(ref("Renamed")),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"P", "Wrapped", "Renamed"}, doc.Composes())
	assert.Empty(t, doc.PropNames())
}

func TestWalk_NonTypeValuesCompose(t *testing.T) {
	w, path := newWalker(t, map[string]string{
		"a.ts": `
const literal = 'x';
const list = [1, 2];
type Names = 'a' | 'b';
`,
	}, "a.ts")
	doc := docs.New()

	err := w.Walk(doc, path, object(
		spreadOf(ref("literal")),
		spreadOf(ref("list")),
		spreadOf(ref("Names")),
		spreadOf(ref("React.HTMLProps")),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"literal", "list", "Names", "React.HTMLProps"}, doc.Composes())
	assert.Empty(t, doc.PropNames())
}

func TestWalk_UtilityWrappers(t *testing.T) {
	w, path := newWalker(t, map[string]string{
		"a.ts": `type Base = { id: string; name: string; hidden?: boolean };`,
	}, "a.ts")

	keys := &ast.UnionType{Elements: []ast.TypeExpr{
		&ast.LiteralType{Node: ast.Node{Raw: "'id'"}, Value: "id"},
		&ast.LiteralType{Node: ast.Node{Raw: "'hidden'"}, Value: "hidden"},
	}}

	tests := []struct {
		name     string
		spread   ast.TypeExpr
		props    []string
		required map[string]bool
	}{
		{
			name:     "exact",
			spread:   utility("$Exact", ref("Base")),
			props:    []string{"id", "name", "hidden"},
			required: map[string]bool{"id": true, "name": true, "hidden": false},
		},
		{
			name:     "pick",
			spread:   utility("Pick", ref("Base"), keys),
			props:    []string{"id", "hidden"},
			required: map[string]bool{"id": true, "hidden": false},
		},
		{
			name:     "omit",
			spread:   utility("Omit", ref("Base"), keys),
			props:    []string{"name"},
			required: map[string]bool{"name": true},
		},
		{
			name:     "partial wins over inner required",
			spread:   utility("Partial", utility("Required", ref("Base"))),
			props:    []string{"id", "name", "hidden"},
			required: map[string]bool{"id": false, "name": false, "hidden": false},
		},
		{
			name:     "required readonly",
			spread:   utility("Required", utility("$ReadOnly", ref("Base"))),
			props:    []string{"id", "name", "hidden"},
			required: map[string]bool{"id": true, "name": true, "hidden": true},
		},
		{
			name:     "empty wrapper",
			spread:   utility("Partial"),
			props:    nil,
			required: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docs.New()
			require.NoError(t, w.Walk(doc, path, object(spreadOf(tt.spread))))

			if tt.props == nil {
				assert.Empty(t, doc.PropNames())
				assert.Equal(t, []string{"Partial<...>"}, doc.Composes())
				return
			}
			assert.Equal(t, tt.props, doc.PropNames())
			for name, want := range tt.required {
				p, ok := doc.Prop(name)
				require.True(t, ok, name)
				assert.Equal(t, want, p.Required, name)
			}
		})
	}
}

func TestWalk_LaterFieldOverrides(t *testing.T) {
	w, path := newWalker(t, map[string]string{
		"a.ts": `type Base = { size: string };`,
	}, "a.ts")
	doc := docs.New()

	err := w.Walk(doc, path, object(
		spreadOf(ref("Base")),
		field("size", predefined("number"), true),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"size"}, doc.PropNames())
	size, _ := doc.Prop("size")
	assert.Equal(t, "number", size.FlowType.Name)
	assert.False(t, size.Required)
}

func TestWalkProps_NilAnnotation(t *testing.T) {
	w, path := newWalker(t, map[string]string{"a.ts": ``}, "a.ts")
	doc := docs.New()

	require.NoError(t, w.WalkProps(doc, path, nil))
	assert.Empty(t, doc.PropNames())
}
