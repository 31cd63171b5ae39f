// Package bundled carries well-known com.atproto lexicons compiled into the
// binary. They are used to resolve references that the user's input tree does
// not define; they are never emitted.
package bundled

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/reoring/lexgen/lexicon"
)

//go:embed lexicons
var files embed.FS

// FS exposes the embedded lexicon tree.
func FS() fs.FS {
	sub, err := fs.Sub(files, "lexicons")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load parses every embedded lexicon and returns them sorted by NSID. Each
// call returns fresh documents; callers build the set once and pass it to
// registry.New.
func Load() ([]*lexicon.Document, error) {
	var docs []*lexicon.Document
	err := fs.WalkDir(files, "lexicons", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := files.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := lexicon.Parse(data)
		if err != nil {
			return fmt.Errorf("bundled %s: %w", path, err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// MustLoad is Load for process start-up.
func MustLoad() []*lexicon.Document {
	docs, err := Load()
	if err != nil {
		panic(err)
	}
	return docs
}
