package gen

import (
	"fmt"
	"strings"

	"github.com/reoring/lexgen/internal/ir"
	"github.com/reoring/lexgen/jsonschema"
	"github.com/reoring/lexgen/lexicon"
)

func init() {
	Register(&JSONSchema{})
}

// JSONSchema renders one 2020-12 JSON Schema document per lexicon, with
// every class under $defs.
type JSONSchema struct{}

// Name returns the target identifier.
func (j *JSONSchema) Name() string { return "jsonschema" }

// Path maps com.example.foo to com.example.foo.json.
func (j *JSONSchema) Path(nsid string) string { return nsid + ".json" }

// Render builds the schema document.
func (j *JSONSchema) Render(f *File, opts RenderOptions) ([]byte, error) {
	doc := &jsonschema.Schema{
		Schema:      jsonschema.Draft,
		ID:          j.id(f.NSID, opts.Prefix),
		Title:       f.NSID,
		Description: f.Description,
		Defs:        jsonschema.NewOrdered(),
	}
	for _, c := range f.Classes {
		s, err := j.class(f.NSID, c)
		if err != nil {
			return nil, err
		}
		doc.Defs.Set(c.Name, s)
		if c.Ref.Def == lexicon.MainDef {
			doc.Ref = "#/$defs/" + c.Name
		}
	}
	return jsonschema.Marshal(doc)
}

func (j *JSONSchema) id(nsid, prefix string) string {
	if prefix == "" {
		return j.Path(nsid)
	}
	return strings.TrimRight(prefix, "/") + "/" + j.Path(nsid)
}

func (j *JSONSchema) class(nsid string, c Class) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:        "object",
		Description: c.Description,
		Properties:  jsonschema.NewOrdered(),
	}
	for _, fd := range c.Fields {
		p, err := j.typeOf(nsid, fd.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", c.Name, fd.Name, err)
		}
		constrain(p, fd.Source)
		if fd.Nullable {
			p = &jsonschema.Schema{AnyOf: []*jsonschema.Schema{p, {Type: "null"}}}
		}
		s.Properties.Set(fd.Name, p)
		if fd.Required {
			s.Required = append(s.Required, fd.Name)
		}
	}
	return s, nil
}

func (j *JSONSchema) typeOf(nsid string, t ir.Type) (*jsonschema.Schema, error) {
	switch x := t.(type) {
	case *ir.Primitive:
		switch x.Name {
		case ir.Bool:
			return &jsonschema.Schema{Type: "boolean"}, nil
		case ir.Int:
			return &jsonschema.Schema{Type: "integer"}, nil
		case ir.Text:
			return &jsonschema.Schema{Type: "string"}, nil
		case ir.Bytes:
			return &jsonschema.Schema{Type: "string", ContentEncoding: "base64"}, nil
		case ir.Link:
			return &jsonschema.Schema{Type: "string", Format: "cid"}, nil
		}
		return nil, fmt.Errorf("unknown primitive %q", x.Name)
	case *ir.Any:
		return &jsonschema.Schema{}, nil
	case *ir.Map:
		return &jsonschema.Schema{Type: "object"}, nil
	case *ir.Named:
		return &jsonschema.Schema{Ref: j.ref(nsid, x)}, nil
	case *ir.Sequence:
		item, err := j.typeOf(nsid, x.Item)
		if err != nil {
			return nil, err
		}
		return &jsonschema.Schema{Type: "array", Items: item}, nil
	case *ir.Sum:
		members := make([]*jsonschema.Schema, 0, len(x.Members)+1)
		for _, m := range x.Members {
			members = append(members, &jsonschema.Schema{Ref: j.ref(nsid, m)})
		}
		if x.Closed {
			return &jsonschema.Schema{OneOf: members}, nil
		}
		open := jsonschema.NewOrdered()
		open.Set("$type", &jsonschema.Schema{Type: "string"})
		members = append(members, &jsonschema.Schema{Type: "object", Properties: open, Required: []string{"$type"}})
		return &jsonschema.Schema{AnyOf: members}, nil
	}
	return nil, fmt.Errorf("unsupported type %s", ir.String(t))
}

func (j *JSONSchema) ref(nsid string, n *ir.Named) string {
	if n.Ref.NSID == nsid {
		return "#/$defs/" + n.Class
	}
	return j.Path(n.Ref.NSID) + "#/$defs/" + n.Class
}

// constrain copies the lexicon constraints JSON Schema can express.
func constrain(s *jsonschema.Schema, p lexicon.Property) {
	switch v := p.(type) {
	case *lexicon.String:
		if f, ok := stringFormats[v.Format]; ok {
			s.Format = f
		}
	case *lexicon.Array:
		s.MinItems = v.MinLength
		s.MaxItems = v.MaxLength
	}
}

var stringFormats = map[string]string{
	"datetime": "date-time",
	"uri":      "uri",
}
