// Package docs holds the per-component documentation accumulator the type
// walker writes into, and its react-docgen shaped JSON form.
package docs

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
)

// TypeDescriptor describes a prop's declared type.
//
//	string          -> {"name":"string"}
//	'sm' | 'lg'     -> {"name":"union","raw":"'sm' | 'lg'","elements":[{"name":"literal","value":"'sm'"}, ...]}
//	Array<Item>     -> {"name":"Array","raw":"Array<Item>","elements":[{"name":"Item"}]}
//	{ id: string }  -> {"name":"signature","type":"object","raw":"{ id: string }","signature":{...}}
type TypeDescriptor struct {
	Name      string            `json:"name"`
	Raw       string            `json:"raw,omitempty"`
	Type      string            `json:"type,omitempty"`
	Value     string            `json:"value,omitempty"`
	Elements  []*TypeDescriptor `json:"elements,omitempty"`
	Signature *Signature        `json:"signature,omitempty"`
}

// Signature lists the fields of an object type.
type Signature struct {
	Properties []SignatureProperty `json:"properties"`
}

// SignatureProperty is one field of a Signature.
type SignatureProperty struct {
	Key      string          `json:"key"`
	Value    *TypeDescriptor `json:"value"`
	Required bool            `json:"required"`
}

// String renders the descriptor for display: the raw source when known,
// otherwise the name.
func (t *TypeDescriptor) String() string {
	if t == nil {
		return ""
	}
	if t.Raw != "" {
		return t.Raw
	}
	if t.Value != "" {
		return t.Value
	}
	return t.Name
}

// PropDescriptor is what is known about one prop. FlowType comes from the
// props annotation, Type from the component's propTypes.
type PropDescriptor struct {
	Type        *TypeDescriptor `json:"type,omitempty"`
	FlowType    *TypeDescriptor `json:"flowType,omitempty"`
	Required    bool            `json:"required"`
	Description string          `json:"description"`
	Deprecated  bool            `json:"deprecated,omitempty"`
}

// Documentation accumulates the props of one component. Props and composes
// keep the order in which they were first recorded.
type Documentation struct {
	DisplayName string
	Description string
	FilePath    string

	propOrder []string
	props     map[string]*PropDescriptor

	composes    []string
	composesSet map[string]struct{}
}

// New creates an empty Documentation.
func New() *Documentation {
	return &Documentation{
		props:       make(map[string]*PropDescriptor),
		composesSet: make(map[string]struct{}),
	}
}

// GetPropDescriptor returns the descriptor for name, creating it on first
// use. A prop recorded twice (a spread followed by an override) keeps its
// first position and the last writer's values.
func (d *Documentation) GetPropDescriptor(name string) *PropDescriptor {
	if p, ok := d.props[name]; ok {
		return p
	}
	p := &PropDescriptor{}
	d.props[name] = p
	d.propOrder = append(d.propOrder, name)
	return p
}

// Prop returns the descriptor for name without creating it.
func (d *Documentation) Prop(name string) (*PropDescriptor, bool) {
	p, ok := d.props[name]
	return p, ok
}

// PropNames returns the prop names in record order.
func (d *Documentation) PropNames() []string {
	return append([]string(nil), d.propOrder...)
}

// AddComposes records that props also come from the named type, which was
// not expanded.
func (d *Documentation) AddComposes(name string) {
	if _, ok := d.composesSet[name]; ok {
		return
	}
	d.composesSet[name] = struct{}{}
	d.composes = append(d.composes, name)
}

// Composes returns the composed type names in record order.
func (d *Documentation) Composes() []string {
	return append([]string(nil), d.composes...)
}

// SortedComposes returns the composed type names sorted.
func (d *Documentation) SortedComposes() []string {
	out := d.Composes()
	sort.Strings(out)
	return out
}

// MarshalJSON emits the react-docgen layout. Props are written as an object
// whose keys keep record order.
func (d *Documentation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, v any, first bool) error {
		if !first {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return errors.Wrapf(err, "encode key %q", key)
		}
		buf.Write(k)
		buf.WriteByte(':')
		b, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encode %s", key)
		}
		buf.Write(b)
		return nil
	}

	if err := writeField("displayName", d.DisplayName, true); err != nil {
		return nil, err
	}
	if err := writeField("description", d.Description, false); err != nil {
		return nil, err
	}
	if d.FilePath != "" {
		if err := writeField("filePath", d.FilePath, false); err != nil {
			return nil, err
		}
	}

	buf.WriteString(`,"props":{`)
	for i, name := range d.propOrder {
		if err := writeField(name, d.props[name], i == 0); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	if len(d.composes) > 0 {
		if err := writeField("composes", d.composes, false); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
