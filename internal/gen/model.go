// Package gen renders resolved lexicon documents into target-language
// source files. The generator driver builds a File per document; an Emitter
// turns it into bytes.
package gen

import (
	"github.com/reoring/lexgen/internal/ir"
	"github.com/reoring/lexgen/internal/resolve"
	"github.com/reoring/lexgen/lexicon"
)

// File is one output file: every record and object definition of a
// document, in source order, plus the classes it needs from other files.
type File struct {
	NSID        string
	Description string
	Path        string // relative, slash separated
	Classes     []Class
	Imports     []Import
	Content     []byte
}

// Class is one generated type.
type Class struct {
	Name        string
	Ref         resolve.QualifiedName
	Kind        lexicon.DefKind
	Description string
	RecordKey   string
	Fields      []Field
}

// Field is one property of a class in source order.
type Field struct {
	Name     string
	Type     ir.Type
	Source   lexicon.Property
	Required bool
	Nullable bool
}

// Optional reports whether the field may be absent.
func (f Field) Optional() bool { return !f.Required }

// Import lists the classes a file uses from another document.
type Import struct {
	NSID  string
	Names []string
}

// hasSum reports whether any field of the file carries a sum type.
func (f *File) hasSum() bool {
	for _, c := range f.Classes {
		for _, fd := range c.Fields {
			found := false
			ir.Walk(fd.Type, func(t ir.Type) {
				if t.Kind() == ir.NodeSum {
					found = true
				}
			})
			if found {
				return true
			}
		}
	}
	return false
}
