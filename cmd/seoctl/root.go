package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"seo-backend/internal/bootstrap"
	"seo-backend/internal/shared/config"
	"seo-backend/internal/shared/telemetry"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoctl",
		Short: "Analyze pages for on-page SEO and ask the SEO assistant",
		Long: `seoctl runs the same pipeline as the API server: it fetches a page, scores it,
grounds the result in the built-in knowledge base and stores it in history.

Storage, cache and model providers come from the same environment variables as the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp loads configuration and builds the dependencies. Logs go to stderr so
// command output stays machine readable.
func newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg := config.Load()
	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	slog.SetDefault(telemetry.New(cmd.ErrOrStderr(), "seoctl", level))
	gin.SetMode(gin.ReleaseMode)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return bootstrap.Build(ctx, cfg)
}
