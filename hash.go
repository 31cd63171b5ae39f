package lexgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// HashLexicons returns a 16 hex character key over Version, prefix and the
// names and contents of every *.json file below dir. Callers use it to decide
// whether generated output is stale.
func HashLexicons(dir, prefix string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", dir, ErrNotADirectory, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", dir, ErrNotADirectory)
	}
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	slices.SortFunc(paths, comparePaths)

	h := sha256.New()
	h.Write([]byte(Version))
	if prefix != "" {
		h.Write([]byte(prefix))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)[:8]), nil
}

// comparePaths orders paths component by component, so a/b.json sorts before
// a-c/x.json.
func comparePaths(a, b string) int {
	return slices.Compare(
		strings.Split(filepath.ToSlash(a), "/"),
		strings.Split(filepath.ToSlash(b), "/"),
	)
}
