package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/lexgen"
	"github.com/reoring/lexgen/internal/fetch"
)

const fooLexicon = `{
  "lexicon": 1,
  "id": "com.example.foo",
  "defs": {
    "main": {
      "type": "record",
      "key": "tid",
      "record": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text": { "type": "string" },
          "subject": { "type": "ref", "ref": "com.atproto.repo.strongRef" }
        }
      }
    }
  }
}`

type harness struct {
	app    *app
	stdout bytes.Buffer
	stderr bytes.Buffer
	// clones maps a clone URL to whether it succeeds.
	clones map[string]bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"LEXGEN_INPUT", "LEXGEN_OUTPUT", "LEXGEN_PREFIX", "LEXGEN_TARGET", "LEXGEN_ONLY", "LEXGEN_CACHE_DISABLED", "LEXGEN_CACHE_DIR"} {
		t.Setenv(k, "")
	}
	h := &harness{clones: map[string]bool{}}
	tmp := t.TempDir()
	h.app = &app{
		stdout: &h.stdout,
		stderr: &h.stderr,
		newFetcher: func(l zerolog.Logger) *fetch.Fetcher {
			return &fetch.Fetcher{
				Clone: func(_ context.Context, url, dest string) error {
					if !h.clones[url] {
						return errors.New("not found")
					}
					return writeLexicons(filepath.Join(dest, "lexicons"))
				},
				Providers: fetch.DefaultProviders,
				Logger:    l,
				TempDir:   tmp,
			}
		},
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	cmd := h.app.rootCmd()
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	return cmd.ExecuteContext(context.Background())
}

func writeLexicons(dir string) error {
	path := filepath.Join(dir, "com", "example", "foo.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fooLexicon), 0o644)
}

func lexiconDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, writeLexicons(dir))
	return dir
}

func TestGenerate_CachesOutput(t *testing.T) {
	h := newHarness(t)
	src := lexiconDir(t)
	out := t.TempDir()
	cacheDir := t.TempDir()

	hash, err := lexgen.HashLexicons(src, "")
	require.NoError(t, err)
	want := filepath.Join(out, "com", "example", "foo.py")

	require.NoError(t, h.run(t, "generate", src, "-o", out, "--cache-dir", cacheDir))
	assert.Equal(t, "generated 1 file(s) (cached as "+hash+"):\n  "+want+"\n", h.stdout.String())
	assert.FileExists(t, want)

	require.NoError(t, os.RemoveAll(out))
	require.NoError(t, h.run(t, "generate", src, "-o", out, "--cache-dir", cacheDir))
	assert.Equal(t, "cache hit ("+hash+") - copied 1 file(s):\n  "+want+"\n", h.stdout.String())
	assert.FileExists(t, want)
}

func TestGenerate_NoCache(t *testing.T) {
	h := newHarness(t)
	src := lexiconDir(t)
	out := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "cache")

	for i := 0; i < 2; i++ {
		require.NoError(t, h.run(t, "generate", src, "-o", out, "--cache-dir", cacheDir, "--no-cache"))
		assert.True(t, strings.HasPrefix(h.stdout.String(), "generated 1 file(s)"))
	}
	assert.NoDirExists(t, cacheDir)
}

func TestGenerate_TargetChangesKey(t *testing.T) {
	h := newHarness(t)
	src := lexiconDir(t)
	cacheDir := t.TempDir()

	require.NoError(t, h.run(t, "generate", src, "-o", t.TempDir(), "--cache-dir", cacheDir))
	require.NoError(t, h.run(t, "generate", src, "-o", t.TempDir(), "--cache-dir", cacheDir, "-t", "go"))
	// The go target also carries the bundled strongRef it references.
	assert.True(t, strings.HasPrefix(h.stdout.String(), "generated 2 file(s)"))
	assert.Contains(t, h.stdout.String(), "com.example.foo.go")
	assert.Contains(t, h.stdout.String(), "com.atproto.repo.strongRef.go")
}

func TestGenerate_StrictIgnoresCache(t *testing.T) {
	h := newHarness(t)
	src := t.TempDir()
	path := filepath.Join(src, "com", "example", "foo.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	dangling := strings.Replace(fooLexicon, "com.atproto.repo.strongRef", "com.example.missing", 1)
	require.NoError(t, os.WriteFile(path, []byte(dangling), 0o644))
	out := t.TempDir()
	cacheDir := t.TempDir()

	require.NoError(t, h.run(t, "generate", src, "-o", out, "--cache-dir", cacheDir))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "generated 1 file(s)"))

	err := h.run(t, "generate", src, "-o", out, "--cache-dir", cacheDir, "--strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lexgen.ErrUnresolvedRef))
	assert.NotContains(t, h.stdout.String(), "cache hit")
}

func TestGenerate_UppercaseExtensionIgnored(t *testing.T) {
	h := newHarness(t)
	src := lexiconDir(t)
	upper := filepath.Join(src, "com", "example", "BAR.JSON")
	require.NoError(t, os.WriteFile(upper, []byte(strings.Replace(fooLexicon, "com.example.foo", "com.example.bar", 1)), 0o644))
	out := t.TempDir()

	require.NoError(t, h.run(t, "generate", src, "-o", out, "--no-cache"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "generated 1 file(s)"))
	assert.NoFileExists(t, filepath.Join(out, "com", "example", "bar.py"))
}

func TestGenerate_NotADirectory(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "generate", filepath.Join(t.TempDir(), "missing"), "--no-cache")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lexgen.ErrNotADirectory))
	assert.Contains(t, err.Error(), "not a directory")
}

func TestGenerate_UnknownTarget(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "generate", lexiconDir(t), "-t", "cobol", "--no-cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target: cobol")
}

func TestGenerate_RemoteShorthand(t *testing.T) {
	h := newHarness(t)
	h.clones["https://tangled.sh/acme/schemas"] = true
	out := t.TempDir()

	require.NoError(t, h.run(t, "generate", "acme/schemas", "-o", out, "--no-cache"))
	assert.Contains(t, h.stderr.String(), "trying github")
	assert.Contains(t, h.stderr.String(), "trying tangled")
	assert.FileExists(t, filepath.Join(out, "com", "example", "foo.py"))
}

func TestGenerate_RemoteNotFound(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "generate", "nonexistent-owner/nonexistent-repo", "--no-cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find")
	assert.Contains(t, h.stderr.String(), "trying github")
}

func TestGenerate_WatchNeedsLocalSource(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "generate", "https://example.com/x.git", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch")
}

func TestHash(t *testing.T) {
	h := newHarness(t)
	src := lexiconDir(t)
	want, err := lexgen.HashLexicons(src, "pkg")
	require.NoError(t, err)

	require.NoError(t, h.run(t, "hash", src, "-p", "pkg"))
	assert.Equal(t, want+"\n", h.stdout.String())
}

func TestTargetsAndVersion(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "targets"))
	assert.Equal(t, "go\njsonschema\npython (default)\n", h.stdout.String())

	require.NoError(t, h.run(t, "version"))
	assert.Equal(t, "lexgen "+lexgen.Version+"\n", h.stdout.String())
}

func TestInvalidLogLevel(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}
