// Package typemap maps lexicon property shapes to IR type expressions.
package typemap

import (
	"fmt"

	"github.com/reoring/lexgen/internal/ir"
	"github.com/reoring/lexgen/internal/resolve"
	"github.com/reoring/lexgen/lexicon"
)

// Context carries what the mapper needs to resolve references: the NSID of
// the document that owns the property.
type Context struct {
	NSID string
}

// Resolve resolves ref relative to the owning document.
func (c Context) Resolve(ref string) (resolve.QualifiedName, error) {
	return resolve.Resolve(ref, c.NSID)
}

// MapProperty returns the type expression for p. Errors come from malformed
// references or from a property kind without a mapping.
func MapProperty(p lexicon.Property, ctx Context) (ir.Type, error) {
	if arr, ok := p.(*lexicon.Array); ok {
		item, err := mapItem(arr.Items, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.Sequence{Item: item}, nil
	}
	return mapItem(p, ctx)
}

// mapItem covers every kind that may appear as an array item.
func mapItem(p lexicon.Property, ctx Context) (ir.Type, error) {
	if p == nil {
		return nil, fmt.Errorf("typemap: nil property")
	}
	switch p.Kind() {
	case lexicon.KindBoolean:
		return ir.NewPrimitive(ir.Bool), nil
	case lexicon.KindInteger:
		return ir.NewPrimitive(ir.Int), nil
	case lexicon.KindString:
		return ir.NewPrimitive(ir.Text), nil
	case lexicon.KindBytes:
		return ir.NewPrimitive(ir.Bytes), nil
	case lexicon.KindCIDLink:
		return ir.NewPrimitive(ir.Link), nil
	case lexicon.KindBlob:
		return &ir.Map{}, nil
	case lexicon.KindUnknown:
		return &ir.Any{}, nil
	case lexicon.KindRef:
		q, err := ctx.Resolve(p.(*lexicon.Ref).Ref)
		if err != nil {
			return nil, err
		}
		return ir.NewNamed(q), nil
	case lexicon.KindUnion:
		return mapUnion(p.(*lexicon.Union), ctx)
	case lexicon.KindArray:
		return nil, fmt.Errorf("typemap: nested array")
	default:
		return nil, fmt.Errorf("typemap: unhandled property kind %d", int(p.Kind()))
	}
}

func mapUnion(u *lexicon.Union, ctx Context) (ir.Type, error) {
	members := make([]*ir.Named, 0, len(u.Refs))
	for _, ref := range u.Refs {
		q, err := ctx.Resolve(ref)
		if err != nil {
			return nil, err
		}
		members = append(members, ir.NewNamed(q))
	}
	switch len(members) {
	case 0:
		return &ir.Any{}, nil
	case 1:
		return members[0], nil
	}
	return &ir.Sum{Members: members, Closed: u.Closed}, nil
}
