package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func testQueryService() *QueryService {
	cat := &Catalog{
		Name:    "test",
		Version: "1.0",
		Categories: []Category{
			{Name: "actions", Components: []string{"Button", "IconButton"}},
			{Name: "overlay", Components: []string{"Dialog"}},
		},
		Components: []Component{
			{
				Name:        "Button",
				Description: "A clickable button",
				Category:    "actions",
				FilePath:    "actions/Button.tsx",
				Props: []Prop{
					{Name: "variant", Type: "string"},
					{Name: "size", Type: "string"},
				},
				Composes: []string{"HTMLButtonProps"},
			},
			{
				Name:        "IconButton",
				Description: "Button showing an icon",
				Category:    "actions",
				FilePath:    "actions/IconButton.tsx",
				Props: []Prop{
					{Name: "icon", Type: "IconName", Required: true},
				},
				Composes: []string{"HTMLButtonProps", "Tooltip"},
			},
			{
				Name:        "Dialog",
				Description: "A modal overlay",
				Category:    "overlay",
				FilePath:    "overlay/Dialog.tsx",
				Props: []Prop{
					{Name: "open", Type: "boolean", Required: true},
				},
			},
			{
				Name:     "Button",
				Category: "actions",
				FilePath: "legacy/Button.tsx",
				Props:    []Prop{},
			},
		},
	}

	idx := cat.BuildIndex()
	return NewQueryService(cat, idx)
}

func names(comps []*Component) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.FilePath
	}
	return out
}

// --- ListCategories ---

func TestListCategories(t *testing.T) {
	qs := testQueryService()
	cats := qs.ListCategories()
	require.Len(t, cats, 2)
	assert.Equal(t, "actions", cats[0].Name)
	assert.Equal(t, "overlay", cats[1].Name)
}

// --- ListComponents ---

func TestListComponents(t *testing.T) {
	qs := testQueryService()

	tests := []struct {
		name     string
		category string
		keyword  string
		want     []string
	}{
		{"no filter", "", "", []string{"actions/Button.tsx", "actions/IconButton.tsx", "overlay/Dialog.tsx", "legacy/Button.tsx"}},
		{"category", "overlay", "", []string{"overlay/Dialog.tsx"}},
		{"keyword in name", "", "icon", []string{"actions/IconButton.tsx"}},
		{"keyword in description", "", "MODAL", []string{"overlay/Dialog.tsx"}},
		{"category and keyword", "actions", "clickable", []string{"actions/Button.tsx"}},
		{"unknown category", "nope", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := qs.ListComponents(tt.category, tt.keyword)
			paths := make([]string, len(got))
			for i, c := range got {
				paths[i] = c.FilePath
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

// --- GetComponent ---

func TestGetComponent(t *testing.T) {
	qs := testQueryService()

	comp, ok := qs.GetComponent("Button")
	require.True(t, ok)
	assert.Equal(t, "actions/Button.tsx", comp.FilePath)

	comp, ok = qs.GetComponent("legacy/Button.tsx#Button")
	require.True(t, ok)
	assert.Equal(t, "legacy/Button.tsx", comp.FilePath)

	_, ok = qs.GetComponent("legacy/Button.tsx#Dialog")
	assert.False(t, ok)

	_, ok = qs.GetComponent("Missing")
	assert.False(t, ok)
}

func TestGetFileComponents(t *testing.T) {
	qs := testQueryService()

	assert.Equal(t, []string{"overlay/Dialog.tsx"}, names(qs.GetFileComponents("overlay/Dialog.tsx")))
	assert.Empty(t, qs.GetFileComponents("missing.tsx"))
}

// --- ComposedBy ---

func TestComposedBy(t *testing.T) {
	qs := testQueryService()

	assert.Equal(t, []string{"actions/Button.tsx", "actions/IconButton.tsx"}, names(qs.ComposedBy("HTMLButtonProps")))
	assert.Equal(t, []string{"actions/IconButton.tsx"}, names(qs.ComposedBy("Tooltip")))
	assert.Empty(t, qs.ComposedBy("Unknown"))
}

// --- SearchComponents ---

func TestSearchComponents(t *testing.T) {
	qs := testQueryService()

	tests := []struct {
		query   string
		reasons map[string]string
	}{
		{"dialog", map[string]string{"overlay/Dialog.tsx": "name"}},
		{"clickable", map[string]string{"actions/Button.tsx": "description"}},
		{"OPEN", map[string]string{"overlay/Dialog.tsx": "prop:open"}},
		{"tooltip", map[string]string{"actions/IconButton.tsx": "composes:Tooltip"}},
		{"button", map[string]string{
			"actions/Button.tsx":     "name",
			"actions/IconButton.tsx": "name",
			"legacy/Button.tsx":      "name",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := qs.SearchComponents(tt.query)
			got := make(map[string]string, len(results))
			for _, r := range results {
				got[r.Component.FilePath] = r.MatchReason
			}
			assert.Equal(t, tt.reasons, got)
		})
	}
}

func TestSearchComponents_EmptyQuery(t *testing.T) {
	assert.Nil(t, testQueryService().SearchComponents(""))
}

func TestLoadAndQueryBytes(t *testing.T) {
	data := []byte(`{
  "name": "ui",
  "version": "1.0",
  "components": [
    {"name": "Badge", "category": "display", "file_path": "display/Badge.tsx", "props": [{"name": "tone", "type": "string"}]}
  ],
  "categories": [{"name": "display", "components": ["Badge"]}]
}`)

	qs, err := LoadAndQueryBytes(data)
	require.NoError(t, err)

	comp, ok := qs.GetComponent("Badge")
	require.True(t, ok)
	assert.Equal(t, "tone", comp.Props[0].Name)
}

func TestLoadAndQuery_MissingFile(t *testing.T) {
	_, err := LoadAndQuery("/nonexistent/catalog.json")
	require.Error(t, err)
}
