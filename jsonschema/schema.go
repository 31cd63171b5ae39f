package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Draft is the dialect every exported document declares.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Identity
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Core
	Type            string `json:"type,omitempty"`
	Format          string `json:"format,omitempty"`
	ContentEncoding string `json:"contentEncoding,omitempty"`
	Const           any    `json:"const,omitempty"`

	// Object
	Properties           *Ordered `json:"properties,omitempty"`
	Required             []string `json:"required,omitempty"`
	AdditionalProperties any      `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int64  `json:"minItems,omitempty"`
	MaxItems *int64  `json:"maxItems,omitempty"`

	// String
	MaxLength *int64 `json:"maxLength,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// Definitions
	Defs *Ordered `json:"$defs,omitempty"`
}

// Ordered is a name to schema mapping that marshals in insertion order.
type Ordered struct {
	keys []string
	m    map[string]*Schema
}

// NewOrdered returns an empty mapping.
func NewOrdered() *Ordered { return &Ordered{m: map[string]*Schema{}} }

// Set adds or replaces name. Replacing keeps the original position.
func (o *Ordered) Set(name string, s *Schema) {
	if o.m == nil {
		o.m = map[string]*Schema{}
	}
	if _, ok := o.m[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.m[name] = s
}

// Get returns the schema stored under name.
func (o *Ordered) Get(name string) (*Schema, bool) {
	if o == nil {
		return nil, false
	}
	s, ok := o.m[name]
	return s, ok
}

// Keys returns names in insertion order.
func (o *Ordered) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of entries.
func (o *Ordered) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (o *Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if o != nil {
		for i, k := range o.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(o.m[k])
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes s with two-space indentation and a trailing newline.
func Marshal(s *Schema) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
