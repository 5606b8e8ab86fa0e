package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			items, err := app.AnalysesService.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCORE\tCREATED\tURL\tTITLE")
			for _, item := range items {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", item.ID, item.Score, item.CreatedAt.Format("2006-01-02 15:04"), item.URL, item.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of rows (default from HISTORY_LIMIT, max 100)")
	return cmd
}
