package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i80and/marian/internal/manifest"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "marian",
	Short: "marian indexes and ranks documentation manifests for full-text search",
	Long: `marian builds a full-text search index over one or more documentation
manifests and serves ranked search results over HTTP.

  marian serve dir:./manifests               Serve /search, /status, /refresh
  marian query dir:./manifests fox           Run a query and print results
  marian query --interactive dir:./manifests Browse an index interactively`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

// Execute is the CLI entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
}

// mustLoader resolves source into a manifest.Loader or exits 1, per the
// CLI's contract that a missing or invalid source argument is a fatal error.
func mustLoader(source string) manifest.Loader {
	if source == "" {
		fmt.Fprintln(os.Stderr, "marian: missing manifest source argument (e.g. dir:./manifests)")
		os.Exit(1)
	}
	loader, err := manifest.ParseSource(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marian:", err)
		os.Exit(1)
	}
	return loader
}

func init() {
	log.Logger = log.With().Caller().Logger()
}
