package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seo-backend/internal/knowledge"
)

// NewSeedCmd creates the seed command. Entries already present are left untouched.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in knowledge corpus into the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			entries, err := knowledge.LoadCorpus()
			if err != nil {
				return err
			}
			n, err := knowledge.Seed(cmd.Context(), app.Index, app.Embedder, entries)
			if err != nil {
				return err
			}
			total, err := app.Index.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d entries, index holds %d\n", n, total)
			return nil
		},
	}
}
