package lexicon

// Document is one parsed lexicon file. It is immutable after Parse returns.
type Document struct {
	Lexicon     int
	ID          string
	Revision    int64
	Description string
	Defs        []NamedDef
}

// NamedDef pairs a definition with its local name.
type NamedDef struct {
	Name string
	Def  Def
}

// Def returns the definition stored under the given local name.
func (d *Document) Def(name string) (Def, bool) {
	for _, nd := range d.Defs {
		if nd.Name == name {
			return nd.Def, true
		}
	}
	return nil, false
}

// Shape returns the object shape of a record or object definition.
func (d *Document) Shape(name string) (*ObjectShape, bool) {
	def, ok := d.Def(name)
	if !ok {
		return nil, false
	}
	return ShapeOf(def)
}

// ShapeOf returns the object shape carried by def, if any.
func ShapeOf(def Def) (*ObjectShape, bool) {
	switch v := def.(type) {
	case *Record:
		return &v.Shape, true
	case *Object:
		return &v.Shape, true
	default:
		return nil, false
	}
}

// DefKind classifies definitions.
type DefKind int

const (
	DefRecord DefKind = iota
	DefObject
	DefOther
)

func (k DefKind) String() string {
	switch k {
	case DefRecord:
		return "record"
	case DefObject:
		return "object"
	default:
		return "other"
	}
}

// Def is a tagged definition variant: *Record, *Object or *Other.
type Def interface {
	DefKind() DefKind
	isDef()
}

// Record is a repository record type; its body is an object shape.
type Record struct {
	Key         string
	Description string
	Shape       ObjectShape
}

// Object is a named object type.
type Object struct {
	Description string
	Shape       ObjectShape
}

// Other covers every definition type that carries no object shape
// (query, procedure, subscription, token, string, ...).
type Other struct {
	Type        string
	Description string
}

func (*Record) DefKind() DefKind { return DefRecord }
func (*Object) DefKind() DefKind { return DefObject }
func (*Other) DefKind() DefKind  { return DefOther }

func (*Record) isDef() {}
func (*Object) isDef() {}
func (*Other) isDef()  {}

// ObjectShape is the ordered property list of an object.
type ObjectShape struct {
	Properties []Field
	Required   []string
	Nullable   []string
}

// Field is a named property in source order.
type Field struct {
	Name string
	Type Property
}

// IsRequired reports whether name is listed as required.
func (s *ObjectShape) IsRequired(name string) bool { return contains(s.Required, name) }

// IsNullable reports whether name is listed as nullable.
func (s *ObjectShape) IsNullable(name string) bool { return contains(s.Nullable, name) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
