package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/docs"
)

// --- Helpers ---

func minimalValidCatalog() *Catalog {
	return &Catalog{
		Name:    "test",
		Version: "1.0",
		Categories: []Category{
			{Name: "actions", Components: []string{"Button"}},
		},
		Components: []Component{
			{
				Name:        "Button",
				Description: "A button",
				Category:    "actions",
				FilePath:    "actions/Button.tsx",
				Props: []Prop{
					{Name: "variant", Type: "'primary' | 'ghost'"},
				},
			},
		},
	}
}

func writeTempCatalog(t *testing.T, catalog *Catalog) string {
	t.Helper()
	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func documentation(name, path string, props map[string]bool, composes ...string) *docs.Documentation {
	d := docs.New()
	d.DisplayName = name
	d.Description = name + " component"
	d.FilePath = path
	for _, p := range []string{"id", "label", "size"} {
		required, ok := props[p]
		if !ok {
			continue
		}
		pd := d.GetPropDescriptor(p)
		pd.FlowType = &docs.TypeDescriptor{Name: "string"}
		pd.Required = required
	}
	for _, c := range composes {
		d.AddComposes(c)
	}
	return d
}

// --- FromDocs ---

func TestFromDocs(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	cat := FromDocs("ui", "1.0", root, []*docs.Documentation{
		documentation("Button", filepath.Join(root, "actions", "Button.tsx"), map[string]bool{"id": true, "label": false}, "HTMLAttributes"),
		documentation("Card", filepath.Join(root, "layout", "Card.tsx"), map[string]bool{"size": false}),
		documentation("App", filepath.Join(root, "App.tsx"), nil),
	})

	require.Empty(t, cat.Validate())
	assert.Equal(t, "ui", cat.Name)
	assert.Equal(t, root, cat.Source)
	assert.False(t, cat.GeneratedAt.IsZero())

	require.Len(t, cat.Components, 3)
	button := cat.Components[0]
	assert.Equal(t, "actions/Button.tsx", button.FilePath)
	assert.Equal(t, "actions", button.Category)
	assert.Equal(t, []string{"HTMLAttributes"}, button.Composes)
	require.Len(t, button.Props, 2)
	assert.Equal(t, Prop{Name: "id", Type: "string", Required: true, FlowType: &docs.TypeDescriptor{Name: "string"}}, button.Props[0])
	assert.Equal(t, "label", button.Props[1].Name)
	assert.False(t, button.Props[1].Required)

	assert.Equal(t, "root", cat.Components[2].Category)
	assert.NotNil(t, cat.Components[2].Props)

	assert.Equal(t, []Category{
		{Name: "actions", Components: []string{"Button"}},
		{Name: "layout", Components: []string{"Card"}},
		{Name: "root", Components: []string{"App"}},
	}, cat.Categories)
}

func TestFromDocs_PathOutsideRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	outside := filepath.Join(string(filepath.Separator), "elsewhere", "X.tsx")

	cat := FromDocs("ui", "1.0", root, []*docs.Documentation{
		documentation("X", outside, nil),
	})

	assert.Equal(t, outside, cat.Components[0].FilePath)
}

// --- Validate ---

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, minimalValidCatalog().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
		want   string
	}{
		{"missing name", func(c *Catalog) { c.Name = "" }, "catalog name is required"},
		{"missing version", func(c *Catalog) { c.Version = "" }, "catalog version is required"},
		{"component without name", func(c *Catalog) { c.Components[0].Name = "" }, "components[0]: name is required"},
		{"component without path", func(c *Catalog) { c.Components[0].FilePath = "" }, "file_path is required"},
		{"unknown category", func(c *Catalog) { c.Components[0].Category = "nope" }, `unknown category "nope"`},
		{"prop without type", func(c *Catalog) { c.Components[0].Props[0].Type = "" }, "type is required"},
		{"prop without name", func(c *Catalog) { c.Components[0].Props[0].Name = "" }, "name is required"},
		{"duplicate prop", func(c *Catalog) {
			c.Components[0].Props = append(c.Components[0].Props, c.Components[0].Props[0])
		}, `duplicate prop "variant"`},
		{"duplicate component", func(c *Catalog) {
			c.Components = append(c.Components, c.Components[0])
		}, "declared twice"},
		{"duplicate category", func(c *Catalog) {
			c.Categories = append(c.Categories, Category{Name: "actions"})
		}, "duplicate category name"},
		{"dangling category member", func(c *Catalog) {
			c.Categories[0].Components = append(c.Categories[0].Components, "Ghost")
		}, `non-existent component "Ghost"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := minimalValidCatalog()
			tt.mutate(c)
			errs := c.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errors.Join(errs...).Error(), tt.want)
		})
	}
}

func TestValidate_SameNameInTwoFiles(t *testing.T) {
	c := minimalValidCatalog()
	other := c.Components[0]
	other.FilePath = "legacy/Button.tsx"
	other.Category = ""
	c.Components = append(c.Components, other)

	assert.Empty(t, c.Validate())
}

// --- BuildIndex ---

func TestBuildIndex(t *testing.T) {
	c := minimalValidCatalog()
	other := c.Components[0]
	other.FilePath = "legacy/Button.tsx"
	c.Components = append(c.Components, other)

	idx := c.BuildIndex()

	assert.Len(t, idx.ComponentsByName["Button"], 2)
	assert.Equal(t, "actions/Button.tsx", idx.ComponentsByName["Button"][0].FilePath)
	assert.Len(t, idx.ComponentsByFile["legacy/Button.tsx"], 1)
	assert.Len(t, idx.ComponentsByCategory["actions"], 2)
	assert.Same(t, &c.Categories[0], idx.CategoryByName["actions"])
}

// --- Save / Load ---

func TestSaveAndLoad(t *testing.T) {
	c := minimalValidCatalog()
	path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.json")

	require.NoError(t, c.SaveToFile(path))

	loaded, idx, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Components, loaded.Components)
	assert.Equal(t, c.Categories, loaded.Categories)
	assert.Contains(t, idx.ComponentsByName, "Button")
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
	assert.Contains(t, errors.GetAllHints(err), "run 'propdoc scan' to generate the catalog")
}

func TestLoadFromBytes_InvalidJSON(t *testing.T) {
	_, _, err := LoadFromBytes([]byte(`{"name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalog JSON")
}

func TestLoadFromBytes_ValidationFailure(t *testing.T) {
	c := minimalValidCatalog()
	c.Version = ""
	path := writeTempCatalog(t, c)

	_, _, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog validation failed")
	assert.Contains(t, err.Error(), "catalog version is required")
}
