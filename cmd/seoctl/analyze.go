package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"seo-backend/internal/analyses"
	"seo-backend/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze a single page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "markdown" {
				return fmt.Errorf("unsupported format %q (use json or markdown)", format)
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			result, cached, err := app.AnalysesService.AnalyzeCached(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "markdown" {
				return report.WriteMarkdown(out, result, cached)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(analyses.Response{Result: result, Cached: cached})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or markdown")
	return cmd
}
