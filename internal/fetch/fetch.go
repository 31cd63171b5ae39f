// Package fetch materialises remote lexicon sources (git repositories) as
// local directories.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Provider is a git host that understands owner/repo shorthands.
type Provider struct {
	Name string
	// URL is a format string receiving "owner/repo".
	URL string
}

// DefaultProviders are tried in order for owner/repo shorthands.
var DefaultProviders = []Provider{
	{Name: "github", URL: "https://github.com/%s.git"},
	{Name: "tangled", URL: "https://tangled.sh/%s"},
}

// Cloner clones url into dest, which does not exist yet.
type Cloner func(ctx context.Context, url, dest string) error

// GitClone shells out to a shallow `git clone`.
func GitClone(ctx context.Context, url, dest string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth=1", "--quiet", url, dest)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("git clone %s: %w: %s", url, err, msg)
		}
		return fmt.Errorf("git clone %s: %w", url, err)
	}
	return nil
}

var shorthand = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// IsRemote reports whether source names a git repository rather than a
// local directory.
func IsRemote(source string) bool {
	for _, p := range []string{"https://", "http://", "git://", "ssh://", "git@"} {
		if strings.HasPrefix(source, p) {
			return true
		}
	}
	if strings.HasSuffix(source, ".git") {
		return true
	}
	if !shorthand.MatchString(source) || strings.HasPrefix(source, ".") {
		return false
	}
	_, err := os.Stat(source)
	return os.IsNotExist(err)
}

// Fetcher clones remote sources into temporary directories.
type Fetcher struct {
	Clone     Cloner
	Providers []Provider
	Logger    zerolog.Logger
	// TempDir is the parent of clone directories; empty means os.TempDir.
	TempDir string
}

// New returns a Fetcher using git and the default providers.
func New(logger zerolog.Logger) *Fetcher {
	return &Fetcher{Clone: GitClone, Providers: DefaultProviders, Logger: logger}
}

// Fetch clones source and returns the lexicon directory inside the clone: its
// lexicons/ subdirectory when present, the repository root otherwise. The
// caller must invoke cleanup when done with the directory.
func (f *Fetcher) Fetch(ctx context.Context, source string) (dir string, cleanup func(), err error) {
	if isURL(source) {
		return f.cloneInto(ctx, source)
	}

	var names []string
	for _, p := range f.Providers {
		names = append(names, p.Name)
		url := fmt.Sprintf(p.URL, source)
		f.Logger.Info().Str("url", url).Msgf("trying %s", p.Name)
		dir, cleanup, err := f.cloneInto(ctx, url)
		if err == nil {
			return dir, cleanup, nil
		}
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		f.Logger.Debug().Err(err).Str("provider", p.Name).Msg("clone failed")
	}
	return "", nil, fmt.Errorf("could not find %s on %s", source, strings.Join(names, " or "))
}

func (f *Fetcher) cloneInto(ctx context.Context, url string) (string, func(), error) {
	parent, err := os.MkdirTemp(f.TempDir, "lexgen-src-")
	if err != nil {
		return "", nil, fmt.Errorf("create clone dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(parent) }

	repo := filepath.Join(parent, "repo")
	if err := f.Clone(ctx, url, repo); err != nil {
		cleanup()
		return "", nil, err
	}
	if info, err := os.Stat(filepath.Join(repo, "lexicons")); err == nil && info.IsDir() {
		return filepath.Join(repo, "lexicons"), cleanup, nil
	}
	return repo, cleanup, nil
}

func isURL(source string) bool {
	return strings.Contains(source, "://") || strings.HasPrefix(source, "git@") || strings.HasSuffix(source, ".git")
}
