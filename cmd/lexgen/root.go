package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/lexgen/config"
	"github.com/reoring/lexgen/internal/fetch"
	"github.com/reoring/lexgen/internal/logging"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger zerolog.Logger

	// newFetcher is replaced in tests to avoid shelling out to git.
	newFetcher func(zerolog.Logger) *fetch.Fetcher
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, newFetcher: fetch.New}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lexgen",
		Short:         "Generate typed models from lexicon schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath, "Config file (ignored when missing)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: console or json")

	root.AddCommand(
		a.generateCmd(),
		a.hashCmd(),
		a.targetsCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadWithFallback(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	logger, err := logging.New(a.stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
