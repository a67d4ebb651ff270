// Package catalog stores the documented components of a workspace as one
// JSON file and answers lookups over it.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/docs"
)

// Catalog holds every component documented by a workspace scan.
type Catalog struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Source      string      `json:"source"`
	GeneratedAt time.Time   `json:"generated_at"`
	Components  []Component `json:"components"`
	Categories  []Category  `json:"categories"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromFile after validation passes.
type CatalogIndex struct {
	// ComponentsByName maps display name -> components, in catalog order.
	// Two files may declare components with the same name.
	ComponentsByName map[string][]*Component

	// ComponentsByFile maps file path -> components declared there.
	ComponentsByFile map[string][]*Component

	// CategoryByName maps category name -> *Category.
	CategoryByName map[string]*Category

	// ComponentsByCategory maps category name -> []*Component.
	ComponentsByCategory map[string][]*Component
}

// FromDocs builds a catalog from generated documentation. File paths are
// stored relative to root, and each component's category is the name of
// its directory.
func FromDocs(name, version, root string, documented []*docs.Documentation) *Catalog {
	cat := &Catalog{
		Name:        name,
		Version:     version,
		Source:      root,
		GeneratedAt: time.Now().UTC(),
		Components:  make([]Component, 0, len(documented)),
	}

	byCategory := make(map[string][]string)
	for _, d := range documented {
		comp := componentFromDoc(root, d)
		cat.Components = append(cat.Components, comp)
		byCategory[comp.Category] = append(byCategory[comp.Category], comp.Name)
	}

	names := make([]string, 0, len(byCategory))
	for n := range byCategory {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		cat.Categories = append(cat.Categories, Category{Name: n, Components: byCategory[n]})
	}

	return cat
}

func componentFromDoc(root string, d *docs.Documentation) Component {
	path := d.FilePath
	if rel, err := filepath.Rel(root, d.FilePath); err == nil && !strings.HasPrefix(rel, "..") {
		path = filepath.ToSlash(rel)
	}

	comp := Component{
		Name:        d.DisplayName,
		Description: d.Description,
		Category:    categoryOf(path),
		FilePath:    path,
		Props:       make([]Prop, 0),
		Composes:    d.Composes(),
	}

	for _, name := range d.PropNames() {
		p, _ := d.Prop(name)
		typ := p.FlowType.String()
		if typ == "" {
			typ = p.Type.String()
		}
		if typ == "" {
			typ = "any"
		}
		comp.Props = append(comp.Props, Prop{
			Name:        name,
			Type:        typ,
			Required:    p.Required,
			Description: p.Description,
			Deprecated:  p.Deprecated,
			FlowType:    p.FlowType,
			PropType:    p.Type,
		})
	}
	return comp
}

// categoryOf names the directory holding path; files at the root fall
// under "root".
func categoryOf(path string) string {
	dir := filepath.Base(filepath.Dir(filepath.FromSlash(path)))
	if dir == "." || dir == string(filepath.Separator) || dir == "" {
		return "root"
	}
	return dir
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, errors.New("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, errors.New("catalog version is required"))
	}

	categoryNames := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			errs = append(errs, errors.Newf("categories[%d]: name is required", i))
			continue
		}
		if categoryNames[cat.Name] {
			errs = append(errs, errors.Newf("categories[%d]: duplicate category name %q", i, cat.Name))
			continue
		}
		categoryNames[cat.Name] = true
	}

	componentNames := make(map[string]bool, len(c.Components))
	seen := make(map[string]bool, len(c.Components))
	for i, comp := range c.Components {
		if comp.Name == "" {
			errs = append(errs, errors.Newf("components[%d]: name is required", i))
			continue
		}
		componentNames[comp.Name] = true

		if comp.FilePath == "" {
			errs = append(errs, errors.Newf("component %q: file_path is required", comp.Name))
		}
		key := comp.FilePath + "#" + comp.Name
		if seen[key] {
			errs = append(errs, errors.Newf("component %q: declared twice in %s", comp.Name, comp.FilePath))
		}
		seen[key] = true

		if comp.Category != "" && !categoryNames[comp.Category] {
			errs = append(errs, errors.Newf("component %q: references unknown category %q", comp.Name, comp.Category))
		}

		propNames := make(map[string]bool, len(comp.Props))
		for j, prop := range comp.Props {
			if prop.Name == "" {
				errs = append(errs, errors.Newf("component %q props[%d]: name is required", comp.Name, j))
				continue
			}
			if prop.Type == "" {
				errs = append(errs, errors.Newf("component %q props[%d]: type is required", comp.Name, j))
			}
			if propNames[prop.Name] {
				errs = append(errs, errors.Newf("component %q: duplicate prop %q", comp.Name, prop.Name))
			}
			propNames[prop.Name] = true
		}
	}

	for _, cat := range c.Categories {
		for _, compName := range cat.Components {
			if !componentNames[compName] {
				errs = append(errs, errors.Newf("category %q: references non-existent component %q", cat.Name, compName))
			}
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentsByName:     make(map[string][]*Component, len(c.Components)),
		ComponentsByFile:     make(map[string][]*Component),
		CategoryByName:       make(map[string]*Category, len(c.Categories)),
		ComponentsByCategory: make(map[string][]*Component),
	}

	for i := range c.Categories {
		idx.CategoryByName[c.Categories[i].Name] = &c.Categories[i]
	}

	for i := range c.Components {
		comp := &c.Components[i]
		idx.ComponentsByName[comp.Name] = append(idx.ComponentsByName[comp.Name], comp)
		idx.ComponentsByFile[comp.FilePath] = append(idx.ComponentsByFile[comp.FilePath], comp)
		idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
	}

	return idx
}

// SaveToFile writes the catalog as indented JSON, creating parent
// directories as needed.
func (c *Catalog) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode catalog")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "failed to write catalog file")
	}
	return nil
}

// LoadFromFile loads a catalog from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.WithHint(
			errors.Wrap(err, "failed to read catalog file"),
			"run 'propdoc scan' to generate the catalog",
		)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse catalog JSON")
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, errors.Wrap(errors.Join(errs...), "catalog validation failed")
	}

	index := catalog.BuildIndex()
	return &catalog, index, nil
}
