package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/lexgen"
	"github.com/reoring/lexgen/bundled"
	"github.com/reoring/lexgen/cache"
	"github.com/reoring/lexgen/internal/fetch"
	"github.com/reoring/lexgen/internal/watch"
)

type generateOptions struct {
	output   string
	prefix   string
	target   string
	only     []string
	cacheDir string
	noCache  bool
	strict   bool
	watch    bool
}

func (a *app) generateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [source]",
		Short: "Generate models for every lexicon in source",
		Long: fmt.Sprintf(`Generate one model file per lexicon document.

source is a directory, a git URL or an owner/repo shorthand (tried on GitHub,
then Tangled). Without a source, ./lexicons is used when it exists, otherwise
the current directory.

Available targets: %s`, strings.Join(lexgen.Targets(), ", ")),
		Example: `  # Generate Python models from ./lexicons
  lexgen generate

  # Generate Go types under a package prefix
  lexgen generate ./schemas -t go -p models -o internal/models

  # Fetch a repository and emit only one namespace
  lexgen generate bluesky-social/atproto --only app.bsky.feed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyGenerateFlags(cmd, opts)
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return a.runGenerate(cmd.Context(), source, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output directory (default ./generated)")
	f.StringVarP(&opts.prefix, "prefix", "p", "", "Namespace prefix for generated modules")
	f.StringVarP(&opts.target, "target", "t", "", fmt.Sprintf("Target language (%s)", strings.Join(lexgen.Targets(), ", ")))
	f.StringSliceVar(&opts.only, "only", nil, "Only emit NSIDs under these prefixes")
	f.StringVar(&opts.cacheDir, "cache-dir", "", "Cache root (default: user cache dir)")
	f.BoolVar(&opts.noCache, "no-cache", false, "Always regenerate")
	f.BoolVar(&opts.strict, "strict", false, "Fail on unresolved references")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when lexicons change")

	return cmd
}

// applyGenerateFlags lets explicitly set flags override the loaded config.
func (a *app) applyGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	f := cmd.Flags()
	if f.Changed("output") {
		a.cfg.Output = opts.output
	}
	if f.Changed("prefix") {
		a.cfg.Prefix = opts.prefix
	}
	if f.Changed("target") {
		a.cfg.Target = opts.target
	}
	if f.Changed("only") {
		a.cfg.Only = opts.only
	}
	if f.Changed("cache-dir") {
		a.cfg.Cache.Dir = opts.cacheDir
	}
	if f.Changed("no-cache") {
		a.cfg.Cache.Disabled = opts.noCache
	}
	if f.Changed("strict") {
		a.cfg.Strict = opts.strict
	}
}

func (a *app) runGenerate(ctx context.Context, source string, opts *generateOptions) error {
	if !slices.Contains(lexgen.Targets(), a.cfg.Target) {
		return fmt.Errorf("unknown target: %s (available: %s)", a.cfg.Target, strings.Join(lexgen.Targets(), ", "))
	}
	if source == "" {
		source = a.cfg.Input
	}
	if source == "" {
		source = defaultSource()
	}

	dir := source
	if fetch.IsRemote(source) {
		if opts.watch {
			return errors.New("--watch needs a local source")
		}
		fetched, cleanup, err := a.newFetcher(a.logger).Fetch(ctx, source)
		if err != nil {
			return err
		}
		defer cleanup()
		dir = fetched
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", source, lexgen.ErrNotADirectory)
	}

	if err := a.generateOnce(dir); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	w, err := watch.New(dir, watch.DefaultDebounce, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	a.logger.Info().Str("dir", dir).Msg("watching for changes")
	err = w.Run(ctx, func() error { return a.generateOnce(dir) })
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) generateOnce(dir string) error {
	cfg := a.cfg
	hash, err := lexgen.HashLexicons(dir, cfg.Prefix)
	if err != nil {
		return err
	}

	var store *cache.Cache
	key := cache.Key(hash, cfg.Target)
	switch {
	case cfg.Cache.Disabled:
	case len(cfg.Only) > 0:
		a.logger.Debug().Msg("cache bypassed for filtered generation")
	case cfg.Strict:
		// A hit would skip reference checking.
		a.logger.Debug().Msg("cache bypassed for strict generation")
	default:
		if store, err = cache.New(cfg.Cache.Dir); err != nil {
			a.logger.Warn().Err(err).Msg("cache unavailable")
			store = nil
		}
	}

	if store != nil {
		paths, ok, err := store.Restore(key, cfg.Output)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(a.stdout, "cache hit (%s) - copied %d file(s):\n", hash, len(paths))
			a.printPaths(paths)
			return nil
		}
	}

	paths, err := lexgen.Run(lexgen.RunConfig{
		InputDir:  dir,
		OutputDir: cfg.Output,
		Bundled:   bundled.MustLoad(),
		Options: lexgen.Options{
			Prefix: cfg.Prefix,
			Target: cfg.Target,
			Only:   cfg.Only,
			Strict: cfg.Strict,
			Logger: a.logger,
		},
	})
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Store(key, cfg.Output, paths); err != nil {
			a.logger.Warn().Err(err).Msg("cache store failed")
		}
	}
	fmt.Fprintf(a.stdout, "generated %d file(s) (cached as %s):\n", len(paths), hash)
	a.printPaths(paths)
	return nil
}

func (a *app) printPaths(paths []string) {
	for _, p := range paths {
		fmt.Fprintf(a.stdout, "  %s\n", p)
	}
}

func defaultSource() string {
	if info, err := os.Stat("lexicons"); err == nil && info.IsDir() {
		return "lexicons"
	}
	return "."
}
