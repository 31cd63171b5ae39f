package lexicon

// PropertyKind enumerates the closed set of property shapes an object can
// declare.
type PropertyKind int

const (
	KindBoolean PropertyKind = iota
	KindInteger
	KindString
	KindBytes
	KindCIDLink
	KindBlob
	KindUnknown
	KindRef
	KindUnion
	KindArray

	numPropertyKinds
)

var propertyKindNames = [numPropertyKinds]string{
	KindBoolean: "boolean",
	KindInteger: "integer",
	KindString:  "string",
	KindBytes:   "bytes",
	KindCIDLink: "cid-link",
	KindBlob:    "blob",
	KindUnknown: "unknown",
	KindRef:     "ref",
	KindUnion:   "union",
	KindArray:   "array",
}

// String returns the lexicon "type" value of the kind.
func (k PropertyKind) String() string {
	if k < 0 || k >= numPropertyKinds {
		return "invalid"
	}
	return propertyKindNames[k]
}

// PropertyKinds lists every property kind in declaration order.
func PropertyKinds() []PropertyKind {
	out := make([]PropertyKind, 0, numPropertyKinds)
	for k := PropertyKind(0); k < numPropertyKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Property is a property shape. Implementations are the pointer types in this
// file; the set is closed.
type Property interface {
	Kind() PropertyKind
	isProperty()
}

type Boolean struct{}

type Integer struct{}

type String struct {
	Format string
}

type Bytes struct{}

type CIDLink struct{}

type Blob struct {
	Accept  []string
	MaxSize int64
}

type Unknown struct{}

// Ref points at another definition. The reference string is kept verbatim
// and resolved lazily.
type Ref struct {
	Ref string
}

// Union is a list of references in declaration order. An open union
// (Closed == false) may carry members not listed here.
type Union struct {
	Refs   []string
	Closed bool
}

// Array holds items of any non-array kind.
type Array struct {
	Items     Property
	MinLength *int64
	MaxLength *int64
}

func (*Boolean) Kind() PropertyKind { return KindBoolean }
func (*Integer) Kind() PropertyKind { return KindInteger }
func (*String) Kind() PropertyKind  { return KindString }
func (*Bytes) Kind() PropertyKind   { return KindBytes }
func (*CIDLink) Kind() PropertyKind { return KindCIDLink }
func (*Blob) Kind() PropertyKind    { return KindBlob }
func (*Unknown) Kind() PropertyKind { return KindUnknown }
func (*Ref) Kind() PropertyKind     { return KindRef }
func (*Union) Kind() PropertyKind   { return KindUnion }
func (*Array) Kind() PropertyKind   { return KindArray }

func (*Boolean) isProperty() {}
func (*Integer) isProperty() {}
func (*String) isProperty()  {}
func (*Bytes) isProperty()   {}
func (*CIDLink) isProperty() {}
func (*Blob) isProperty()    {}
func (*Unknown) isProperty() {}
func (*Ref) isProperty()     {}
func (*Union) isProperty()   {}
func (*Array) isProperty()   {}

// NewProperty returns a zero-valued property of the given kind. Array items
// default to Unknown and Ref/Union carry no references.
func NewProperty(k PropertyKind) (Property, bool) {
	switch k {
	case KindBoolean:
		return &Boolean{}, true
	case KindInteger:
		return &Integer{}, true
	case KindString:
		return &String{}, true
	case KindBytes:
		return &Bytes{}, true
	case KindCIDLink:
		return &CIDLink{}, true
	case KindBlob:
		return &Blob{}, true
	case KindUnknown:
		return &Unknown{}, true
	case KindRef:
		return &Ref{}, true
	case KindUnion:
		return &Union{}, true
	case KindArray:
		return &Array{Items: &Unknown{}}, true
	default:
		return nil, false
	}
}

func kindFromType(t string) (PropertyKind, bool) {
	for k := PropertyKind(0); k < numPropertyKinds; k++ {
		if propertyKindNames[k] == t {
			return k, true
		}
	}
	return 0, false
}
