// Package registry indexes lexicon documents by NSID.
//
// A Registry joins the documents found in the user's input tree with a set
// of bundled well-known documents. Both sets are passed in explicitly; the
// registry holds no global state and is read-only after New returns.
package registry

import (
	"sort"

	"github.com/reoring/lexgen/lexicon"
)

// Origin says where a document came from.
type Origin int

const (
	// OriginNone is returned for NSIDs the registry does not know.
	OriginNone Origin = iota
	OriginUser
	OriginBundled
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginBundled:
		return "bundled"
	default:
		return "none"
	}
}

type entry struct {
	doc    *lexicon.Document
	origin Origin
}

// Registry is the union of user-supplied and bundled documents.
type Registry struct {
	byID       map[string]entry
	all        []*lexicon.Document
	user       []*lexicon.Document
	duplicates []*lexicon.Document
	shadowed   []string
}

// New builds a registry. A user document shadows a bundled document with the
// same NSID. When several user documents share an NSID the first one wins and
// the others are reported by Duplicates.
func New(user, bundled []*lexicon.Document) *Registry {
	r := &Registry{byID: make(map[string]entry, len(user)+len(bundled))}
	for _, d := range user {
		if _, dup := r.byID[d.ID]; dup {
			r.duplicates = append(r.duplicates, d)
			continue
		}
		r.byID[d.ID] = entry{doc: d, origin: OriginUser}
		r.user = append(r.user, d)
	}
	for _, d := range bundled {
		if e, ok := r.byID[d.ID]; ok {
			if e.origin == OriginUser {
				r.shadowed = append(r.shadowed, d.ID)
			}
			continue
		}
		r.byID[d.ID] = entry{doc: d, origin: OriginBundled}
	}
	for _, e := range r.byID {
		r.all = append(r.all, e.doc)
	}
	sortByID(r.all)
	sortByID(r.user)
	sort.Strings(r.shadowed)
	return r
}

// Lookup returns the document with the given NSID.
func (r *Registry) Lookup(nsid string) (*lexicon.Document, bool) {
	e, ok := r.byID[nsid]
	return e.doc, ok
}

// Origin reports whether nsid came from the user's input or the bundled set.
func (r *Registry) Origin(nsid string) Origin { return r.byID[nsid].origin }

// Definition returns definition def of document nsid.
func (r *Registry) Definition(nsid, def string) (lexicon.Def, bool) {
	doc, ok := r.Lookup(nsid)
	if !ok {
		return nil, false
	}
	return doc.Def(def)
}

// Documents returns every document, sorted by NSID.
func (r *Registry) Documents() []*lexicon.Document { return r.all }

// User returns the user-supplied documents, sorted by NSID.
func (r *Registry) User() []*lexicon.Document { return r.user }

// Duplicates returns user documents dropped because an earlier document had
// the same NSID.
func (r *Registry) Duplicates() []*lexicon.Document { return r.duplicates }

// Shadowed returns the NSIDs of bundled documents replaced by user documents.
func (r *Registry) Shadowed() []string { return r.shadowed }

// Len returns the number of distinct NSIDs.
func (r *Registry) Len() int { return len(r.byID) }

func sortByID(docs []*lexicon.Document) {
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}
