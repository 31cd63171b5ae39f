// Package deps collects the external documents a lexicon document depends on.
package deps

import (
	"fmt"
	"sort"

	"github.com/reoring/lexgen/internal/resolve"
	"github.com/reoring/lexgen/lexicon"
)

// Set is the deduplicated set of external references of one document,
// grouped by target NSID.
type Set struct {
	byNSID map[string]map[string]struct{}
}

func newSet() *Set { return &Set{byNSID: map[string]map[string]struct{}{}} }

func (s *Set) add(q resolve.QualifiedName) {
	defs, ok := s.byNSID[q.NSID]
	if !ok {
		defs = map[string]struct{}{}
		s.byNSID[q.NSID] = defs
	}
	defs[q.Def] = struct{}{}
}

// Len returns the number of distinct external NSIDs.
func (s *Set) Len() int { return len(s.byNSID) }

// Has reports whether nsid is a dependency.
func (s *Set) Has(nsid string) bool {
	_, ok := s.byNSID[nsid]
	return ok
}

// NSIDs returns the dependencies sorted.
func (s *Set) NSIDs() []string {
	out := make([]string, 0, len(s.byNSID))
	for nsid := range s.byNSID {
		out = append(out, nsid)
	}
	sort.Strings(out)
	return out
}

// Names returns the qualified names referenced in nsid, sorted by definition
// name.
func (s *Set) Names(nsid string) []resolve.QualifiedName {
	defs := s.byNSID[nsid]
	out := make([]resolve.QualifiedName, 0, len(defs))
	for def := range defs {
		out = append(out, resolve.QualifiedName{NSID: nsid, Def: def})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def < out[j].Def })
	return out
}

// Collect walks every record and object definition of doc and gathers the
// references that point at another document. Local references and
// references to doc's own NSID are not dependencies.
func Collect(doc *lexicon.Document) (*Set, error) {
	set := newSet()
	for _, nd := range doc.Defs {
		shape, ok := lexicon.ShapeOf(nd.Def)
		if !ok {
			continue
		}
		for _, f := range shape.Properties {
			if err := collectProperty(set, doc.ID, f.Type); err != nil {
				return nil, fmt.Errorf("%s#%s.%s: %w", doc.ID, nd.Name, f.Name, err)
			}
		}
	}
	return set, nil
}

// Refs returns the raw reference strings carried by p, including those of
// array items, in declaration order.
func Refs(p lexicon.Property) ([]string, error) {
	switch p.Kind() {
	case lexicon.KindBoolean, lexicon.KindInteger, lexicon.KindString,
		lexicon.KindBytes, lexicon.KindCIDLink, lexicon.KindBlob, lexicon.KindUnknown:
		return nil, nil
	case lexicon.KindRef:
		return []string{p.(*lexicon.Ref).Ref}, nil
	case lexicon.KindUnion:
		return p.(*lexicon.Union).Refs, nil
	case lexicon.KindArray:
		items := p.(*lexicon.Array).Items
		if items == nil {
			return nil, nil
		}
		if items.Kind() == lexicon.KindArray {
			return nil, fmt.Errorf("nested array")
		}
		return Refs(items)
	default:
		return nil, fmt.Errorf("unhandled property kind %d", int(p.Kind()))
	}
}

func collectProperty(set *Set, owner string, p lexicon.Property) error {
	refs, err := Refs(p)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if resolve.IsLocal(ref) {
			continue
		}
		q, err := resolve.Resolve(ref, owner)
		if err != nil {
			return err
		}
		if q.NSID == owner {
			continue
		}
		set.add(q)
	}
	return nil
}
