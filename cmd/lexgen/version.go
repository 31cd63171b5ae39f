package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/lexgen"
)

func (a *app) targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the available output targets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, t := range lexgen.Targets() {
				if t == lexgen.DefaultTarget {
					fmt.Fprintf(a.stdout, "%s (default)\n", t)
					continue
				}
				fmt.Fprintln(a.stdout, t)
			}
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lexgen version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(a.stdout, "lexgen %s\n", lexgen.Version)
			return nil
		},
	}
}
