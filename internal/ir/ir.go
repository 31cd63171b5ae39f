package ir

// Package ir defines the language-neutral type expressions produced by the
// type mapper and consumed by the emitters. This package is internal and not
// part of the public API.

import (
	"strings"

	"github.com/reoring/lexgen/internal/resolve"
)

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodePrimitive NodeKind = iota
	NodeAny
	NodeMap
	NodeNamed
	NodeSequence
	NodeSum
)

// Type is the root IR node interface.
type Type interface {
	Kind() NodeKind
}

// PrimitiveName enumerates the scalar types every target knows about.
type PrimitiveName string

const (
	Bool  PrimitiveName = "bool"
	Int   PrimitiveName = "int"
	Text  PrimitiveName = "text"
	Bytes PrimitiveName = "bytes"
	Link  PrimitiveName = "link" // content identifier link
)

// Primitive represents a scalar value.
type Primitive struct {
	Name PrimitiveName
}

func (p *Primitive) Kind() NodeKind { return NodePrimitive }

// Any is an unconstrained value.
type Any struct{}

func (a *Any) Kind() NodeKind { return NodeAny }

// Map is an opaque string-keyed mapping (used for blobs).
type Map struct{}

func (m *Map) Kind() NodeKind { return NodeMap }

// Named refers to another generated class.
type Named struct {
	Ref   resolve.QualifiedName
	Class string
}

func (n *Named) Kind() NodeKind { return NodeNamed }

// Sequence represents an ordered list of Item.
type Sequence struct {
	Item Type
}

func (s *Sequence) Kind() NodeKind { return NodeSequence }

// Sum is a choice among named classes in declaration order. A closed sum
// admits no members beyond the listed ones.
type Sum struct {
	Members []*Named
	Closed  bool
}

func (s *Sum) Kind() NodeKind { return NodeSum }

// NewPrimitive is a small constructor used throughout the mapper and tests.
func NewPrimitive(name PrimitiveName) *Primitive { return &Primitive{Name: name} }

// NewNamed builds a Named node with its class name derived from q.
func NewNamed(q resolve.QualifiedName) *Named {
	return &Named{Ref: q, Class: resolve.ClassName(q)}
}

// Equal reports structural equality of two type expressions.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Primitive:
		return x.Name == b.(*Primitive).Name
	case *Any, *Map:
		return true
	case *Named:
		y := b.(*Named)
		return x.Ref == y.Ref && x.Class == y.Class
	case *Sequence:
		return Equal(x.Item, b.(*Sequence).Item)
	case *Sum:
		y := b.(*Sum)
		if x.Closed != y.Closed || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if !Equal(x.Members[i], y.Members[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders a compact debugging form such as "[]ComExampleFoo" or
// "ComExampleA|ComExampleB".
func String(t Type) string {
	switch x := t.(type) {
	case nil:
		return "<nil>"
	case *Primitive:
		return string(x.Name)
	case *Any:
		return "any"
	case *Map:
		return "map"
	case *Named:
		return x.Class
	case *Sequence:
		return "[]" + String(x.Item)
	case *Sum:
		names := make([]string, len(x.Members))
		for i, m := range x.Members {
			names[i] = m.Class
		}
		s := "(" + strings.Join(names, "|") + ")"
		if x.Closed {
			s += "!"
		}
		return s
	}
	return "?"
}

// Walk calls fn for t and every nested type expression, parents first.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch x := t.(type) {
	case *Sequence:
		Walk(x.Item, fn)
	case *Sum:
		for _, m := range x.Members {
			Walk(m, fn)
		}
	}
}

// NamedRefs returns every Named node reachable from t in encounter order.
func NamedRefs(t Type) []*Named {
	var out []*Named
	Walk(t, func(n Type) {
		if named, ok := n.(*Named); ok {
			out = append(out, named)
		}
	})
	return out
}
