package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/reoring/lexgen/lexicon"
)

// ErrNotADirectory is returned when the input path is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// LoadDir parses every *.json file below dir. Files that are not valid
// lexicon documents are skipped and logged at debug level; read errors are
// returned. The result is sorted by NSID.
func LoadDir(dir string, logger zerolog.Logger) ([]*lexicon.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", dir, ErrNotADirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotADirectory)
	}
	return LoadFS(os.DirFS(dir), ".", logger.With().Str("root", dir).Logger())
}

// LoadFS is LoadDir over an fs.FS rooted at root.
func LoadFS(fsys fs.FS, root string, logger zerolog.Logger) ([]*lexicon.Document, error) {
	var docs []*lexicon.Document
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		doc, err := lexicon.Parse(data)
		if err != nil {
			logger.Debug().Str("file", path).Err(err).Msg("skipping non-lexicon file")
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByID(docs)
	logger.Debug().Int("documents", len(docs)).Msg("loaded lexicons")
	return docs, nil
}
