// Package cache stores generated output keyed by the lexicon content hash so
// unchanged inputs can skip generation.
package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Cache is a directory of entries, one subdirectory per key.
type Cache struct {
	root string
}

// New returns a cache rooted at root, or at <user cache dir>/lexgen when
// root is empty.
func New(root string) (*Cache, error) {
	if root == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		root = filepath.Join(base, "lexgen")
	}
	return &Cache{root: root}, nil
}

// Root returns the cache directory.
func (c *Cache) Root() string { return c.root }

// Key combines the lexicon hash with the emitter target; output of different
// targets never shares an entry.
func Key(hash, target string) string { return hash + "-" + target }

func (c *Cache) dir(key string) string { return filepath.Join(c.root, key) }

// Has reports whether an entry exists for key.
func (c *Cache) Has(key string) bool {
	info, err := os.Stat(c.dir(key))
	return err == nil && info.IsDir()
}

// Restore copies the entry for key into outDir and returns the written
// paths. ok is false on a miss.
func (c *Cache) Restore(key, outDir string) (paths []string, ok bool, err error) {
	src := c.dir(key)
	if !c.Has(key) {
		return nil, false, nil
	}
	rels, err := listFiles(src)
	if err != nil {
		return nil, false, err
	}
	for _, rel := range rels {
		dst := filepath.Join(outDir, rel)
		if err := copyFile(filepath.Join(src, rel), dst); err != nil {
			return paths, false, err
		}
		paths = append(paths, dst)
	}
	return paths, true, nil
}

// Store records the given files, which must live below outDir, as the entry
// for key. The entry appears atomically; an existing entry is replaced.
func (c *Cache) Store(key, outDir string, paths []string) error {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	tmp, err := os.MkdirTemp(c.root, ".tmp-"+key+"-")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	defer os.RemoveAll(tmp)

	for _, p := range paths {
		rel, err := filepath.Rel(outDir, p)
		if err != nil || !filepath.IsLocal(rel) {
			return fmt.Errorf("cache: %s is not below %s", p, outDir)
		}
		if err := copyFile(p, filepath.Join(tmp, rel)); err != nil {
			return err
		}
	}

	dst := c.dir(key)
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("replace cache entry: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	err := os.RemoveAll(c.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func listFiles(root string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	sort.Strings(rels)
	return rels, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
