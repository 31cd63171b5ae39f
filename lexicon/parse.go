package lexicon

import (
	"errors"
	"fmt"

	"github.com/reoring/lexgen/internal/engine"
)

// SyntaxError reports JSON that is not a well-formed lexicon document.
type SyntaxError struct {
	Path string // JSON Pointer inside the document
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return "lexicon: " + e.Msg
	}
	return "lexicon: " + e.Path + ": " + e.Msg
}

func syntaxErrorf(n *engine.Node, format string, a ...any) error {
	path := ""
	if n != nil {
		path = n.Path
	}
	return &SyntaxError{Path: path, Msg: fmt.Sprintf(format, a...)}
}

// Parse decodes one lexicon document.
func Parse(data []byte) (*Document, error) {
	root, err := engine.DecodeBytes(data)
	if err != nil {
		var ie engine.IssueError
		if errors.As(err, &ie) {
			return nil, &SyntaxError{Path: ie.Path, Msg: ie.Message}
		}
		return nil, &SyntaxError{Msg: err.Error()}
	}
	return parseDocument(root)
}

func parseDocument(root *engine.Node) (*Document, error) {
	if root.Kind != engine.NodeObject {
		return nil, syntaxErrorf(root, "document must be an object, got %s", root.Kind)
	}
	doc := &Document{}

	ver, ok := root.Get("lexicon")
	if !ok {
		return nil, syntaxErrorf(root, "missing \"lexicon\" version")
	}
	v, ok := ver.Int()
	if !ok || v != 1 {
		return nil, syntaxErrorf(ver, "unsupported lexicon version %q", ver.Number)
	}
	doc.Lexicon = int(v)

	id, err := requiredString(root, "id")
	if err != nil {
		return nil, err
	}
	if !ValidNSID(id) {
		return nil, syntaxErrorf(root, "invalid NSID %q", id)
	}
	doc.ID = id

	if rev, ok := root.Get("revision"); ok {
		n, ok := rev.Int()
		if !ok {
			return nil, syntaxErrorf(rev, "revision must be an integer")
		}
		doc.Revision = n
	}
	if doc.Description, err = optionalString(root, "description"); err != nil {
		return nil, err
	}

	defs, ok := root.Get("defs")
	if !ok {
		return nil, syntaxErrorf(root, "missing \"defs\"")
	}
	if defs.Kind != engine.NodeObject {
		return nil, syntaxErrorf(defs, "defs must be an object")
	}
	doc.Defs = make([]NamedDef, 0, len(defs.Members))
	for _, m := range defs.Members {
		if !ValidDefName(m.Key) {
			return nil, syntaxErrorf(m.Value, "invalid definition name %q", m.Key)
		}
		def, err := parseDef(m.Value)
		if err != nil {
			return nil, err
		}
		doc.Defs = append(doc.Defs, NamedDef{Name: m.Key, Def: def})
	}
	return doc, nil
}

func parseDef(n *engine.Node) (Def, error) {
	if n.Kind != engine.NodeObject {
		return nil, syntaxErrorf(n, "definition must be an object")
	}
	typ, err := requiredString(n, "type")
	if err != nil {
		return nil, err
	}
	desc, err := optionalString(n, "description")
	if err != nil {
		return nil, err
	}
	switch typ {
	case "record":
		key, err := optionalString(n, "key")
		if err != nil {
			return nil, err
		}
		body, ok := n.Get("record")
		if !ok {
			return nil, syntaxErrorf(n, "record definition without \"record\" body")
		}
		if body.Kind != engine.NodeObject {
			return nil, syntaxErrorf(body, "record body must be an object")
		}
		if t, _ := optionalString(body, "type"); t != "object" {
			return nil, syntaxErrorf(body, "record body must have type \"object\", got %q", t)
		}
		shape, err := parseShape(body)
		if err != nil {
			return nil, err
		}
		return &Record{Key: key, Description: desc, Shape: shape}, nil
	case "object":
		shape, err := parseShape(n)
		if err != nil {
			return nil, err
		}
		return &Object{Description: desc, Shape: shape}, nil
	default:
		return &Other{Type: typ, Description: desc}, nil
	}
}

func parseShape(n *engine.Node) (ObjectShape, error) {
	var shape ObjectShape
	var err error
	if shape.Required, err = stringList(n, "required"); err != nil {
		return shape, err
	}
	if shape.Nullable, err = stringList(n, "nullable"); err != nil {
		return shape, err
	}
	props, ok := n.Get("properties")
	if !ok {
		return shape, nil
	}
	if props.Kind != engine.NodeObject {
		return shape, syntaxErrorf(props, "properties must be an object")
	}
	shape.Properties = make([]Field, 0, len(props.Members))
	for _, m := range props.Members {
		p, err := parseProperty(m.Value, false)
		if err != nil {
			return shape, err
		}
		shape.Properties = append(shape.Properties, Field{Name: m.Key, Type: p})
	}
	return shape, nil
}

func parseProperty(n *engine.Node, item bool) (Property, error) {
	if n.Kind != engine.NodeObject {
		return nil, syntaxErrorf(n, "property must be an object")
	}
	typ, err := requiredString(n, "type")
	if err != nil {
		return nil, err
	}
	kind, ok := kindFromType(typ)
	if !ok {
		return nil, syntaxErrorf(n, "unsupported property type %q", typ)
	}
	switch kind {
	case KindBoolean:
		return &Boolean{}, nil
	case KindInteger:
		return &Integer{}, nil
	case KindString:
		format, err := optionalString(n, "format")
		if err != nil {
			return nil, err
		}
		return &String{Format: format}, nil
	case KindBytes:
		return &Bytes{}, nil
	case KindCIDLink:
		return &CIDLink{}, nil
	case KindBlob:
		accept, err := stringList(n, "accept")
		if err != nil {
			return nil, err
		}
		b := &Blob{Accept: accept}
		if ms, ok := n.Get("maxSize"); ok {
			if b.MaxSize, ok = ms.Int(); !ok {
				return nil, syntaxErrorf(ms, "maxSize must be an integer")
			}
		}
		return b, nil
	case KindUnknown:
		return &Unknown{}, nil
	case KindRef:
		ref, err := requiredString(n, "ref")
		if err != nil {
			return nil, err
		}
		return &Ref{Ref: ref}, nil
	case KindUnion:
		refsNode, ok := n.Get("refs")
		if !ok {
			return nil, syntaxErrorf(n, "union without \"refs\"")
		}
		refs, err := stringItems(refsNode)
		if err != nil {
			return nil, err
		}
		u := &Union{Refs: refs}
		if c, ok := n.Get("closed"); ok {
			if c.Kind != engine.NodeBool {
				return nil, syntaxErrorf(c, "closed must be a boolean")
			}
			u.Closed = c.Bool
		}
		return u, nil
	case KindArray:
		if item {
			return nil, syntaxErrorf(n, "nested arrays are not supported")
		}
		itemsNode, ok := n.Get("items")
		if !ok {
			return nil, syntaxErrorf(n, "array without \"items\"")
		}
		items, err := parseProperty(itemsNode, true)
		if err != nil {
			return nil, err
		}
		a := &Array{Items: items}
		if a.MinLength, err = optionalInt(n, "minLength"); err != nil {
			return nil, err
		}
		if a.MaxLength, err = optionalInt(n, "maxLength"); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, syntaxErrorf(n, "unhandled property kind %s", kind)
	}
}

func requiredString(n *engine.Node, key string) (string, error) {
	v, ok := n.Get(key)
	if !ok {
		return "", syntaxErrorf(n, "missing %q", key)
	}
	if v.Kind != engine.NodeString {
		return "", syntaxErrorf(v, "%s must be a string", key)
	}
	return v.String, nil
}

func optionalString(n *engine.Node, key string) (string, error) {
	v, ok := n.Get(key)
	if !ok {
		return "", nil
	}
	if v.Kind != engine.NodeString {
		return "", syntaxErrorf(v, "%s must be a string", key)
	}
	return v.String, nil
}

func optionalInt(n *engine.Node, key string) (*int64, error) {
	v, ok := n.Get(key)
	if !ok {
		return nil, nil
	}
	i, ok := v.Int()
	if !ok {
		return nil, syntaxErrorf(v, "%s must be an integer", key)
	}
	return &i, nil
}

func stringList(n *engine.Node, key string) ([]string, error) {
	v, ok := n.Get(key)
	if !ok {
		return nil, nil
	}
	return stringItems(v)
}

func stringItems(n *engine.Node) ([]string, error) {
	if n.Kind != engine.NodeArray {
		return nil, syntaxErrorf(n, "expected an array of strings")
	}
	out := make([]string, 0, len(n.Items))
	for _, it := range n.Items {
		if it.Kind != engine.NodeString {
			return nil, syntaxErrorf(it, "expected a string")
		}
		out = append(out, it.String)
	}
	return out, nil
}
