package catalog

import "strings"

// ComponentSearchResult holds a component match with the reason it matched.
type ComponentSearchResult struct {
	Component   *Component
	MatchReason string
}

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// LoadAndQueryBytes loads a catalog from raw JSON bytes and returns a ready-to-use QueryService.
func LoadAndQueryBytes(data []byte) (*QueryService, error) {
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListCategories returns all categories in the catalog.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListComponents returns the components of category whose name or
// description contains keyword, case-insensitively. Empty arguments do not
// filter. Catalog order is kept.
func (q *QueryService) ListComponents(category, keyword string) []Component {
	keyword = strings.ToLower(keyword)
	out := make([]Component, 0)
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if category != "" && comp.Category != category {
			continue
		}
		if keyword != "" && !containsFold(comp.Name, keyword) && !containsFold(comp.Description, keyword) {
			continue
		}
		out = append(out, *comp)
	}
	return out
}

// GetComponent looks up a component by name. When several files declare
// the name, the first in catalog order wins; "path#Name" selects one
// explicitly. The bool indicates whether the component was found.
func (q *QueryService) GetComponent(name string) (*Component, bool) {
	if file, comp, ok := strings.Cut(name, "#"); ok {
		for _, c := range q.Index.ComponentsByFile[file] {
			if c.Name == comp {
				return c, true
			}
		}
		return nil, false
	}
	if comps := q.Index.ComponentsByName[name]; len(comps) > 0 {
		return comps[0], true
	}
	return nil, false
}

// GetFileComponents returns the components declared in a file, by catalog
// path.
func (q *QueryService) GetFileComponents(path string) []*Component {
	return q.Index.ComponentsByFile[path]
}

// ComposedBy returns the components whose props include the unexpanded
// type name.
func (q *QueryService) ComposedBy(typeName string) []*Component {
	result := make([]*Component, 0)
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		for _, c := range comp.Composes {
			if c == typeName {
				result = append(result, comp)
				break
			}
		}
	}
	return result
}

// SearchComponents performs a case-insensitive search across component names,
// descriptions, prop names, and composed type names.
// Returns matching components with the reason for the match.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult

	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]

		if reason := matchReason(comp, query); reason != "" {
			results = append(results, ComponentSearchResult{Component: comp, MatchReason: reason})
		}
	}

	return results
}

// matchReason reports the first field of comp containing query, which is
// already lower case.
func matchReason(comp *Component, query string) string {
	switch {
	case containsFold(comp.Name, query):
		return "name"
	case containsFold(comp.Description, query):
		return "description"
	}
	for _, prop := range comp.Props {
		if containsFold(prop.Name, query) {
			return "prop:" + prop.Name
		}
	}
	for _, c := range comp.Composes {
		if containsFold(c, query) {
			return "composes:" + c
		}
	}
	return ""
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}
