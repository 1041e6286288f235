package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i80and/marian/internal/httpapi"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <source>",
	Short: "Build an index from a manifest source and serve it over HTTP",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader := mustLoader(args[0])
		server := httpapi.New(loader)

		if err := server.Refresh(cmd.Context()); err != nil {
			fmt.Fprintln(os.Stderr, "marian: initial index load failed:", err)
			os.Exit(1)
		}

		log.Info().Str("addr", listenAddr).Msg("listening")
		if err := http.ListenAndServe(listenAddr, server.Handler()); err != nil {
			fmt.Fprintln(os.Stderr, "marian:", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "address to listen on")
}
