package catalog

import "github.com/gnana997/propdoc/pkg/docs"

// Component is one documented component in the catalog.
type Component struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	FilePath    string   `json:"file_path"`
	Props       []Prop   `json:"props"`
	Composes    []string `json:"composes,omitempty"`
}

// Prop represents a component property.
type Prop struct {
	Name        string               `json:"name"`
	Type        string               `json:"type"`
	Required    bool                 `json:"required"`
	Description string               `json:"description,omitempty"`
	Deprecated  bool                 `json:"deprecated,omitempty"`
	FlowType    *docs.TypeDescriptor `json:"flow_type,omitempty"`
	PropType    *docs.TypeDescriptor `json:"prop_type,omitempty"`
}

// Category groups components by the directory they live in.
type Category struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}
