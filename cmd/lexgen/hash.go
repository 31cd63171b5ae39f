package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/lexgen"
)

func (a *app) hashCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "hash [dir]",
		Short: "Print the cache key for a lexicon directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultSource()
			if len(args) == 1 {
				dir = args[0]
			}
			if !cmd.Flags().Changed("prefix") {
				prefix = a.cfg.Prefix
			}
			h, err := lexgen.HashLexicons(dir, prefix)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, h)
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Namespace prefix")
	return cmd
}
