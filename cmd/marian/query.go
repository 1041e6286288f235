package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/i80and/marian/internal/httpapi"
	"github.com/i80and/marian/internal/query"
	"github.com/i80and/marian/internal/rank"
	"github.com/i80and/marian/internal/tui"
)

var (
	querySearchProperties string
	queryInteractive      bool
)

var queryCmd = &cobra.Command{
	Use:   "query <source> [terms...]",
	Short: "Build an index from a manifest source and run a query",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader := mustLoader(args[0])
		server := httpapi.New(loader)
		if err := server.Refresh(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "marian: initial index load failed:", err)
			os.Exit(1)
		}

		terms := strings.Join(args[1:], " ")

		if queryInteractive {
			model := tui.NewModel(server.Index(), terms)
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				fmt.Fprintln(os.Stderr, "marian:", err)
				os.Exit(1)
			}
			return
		}

		if terms == "" {
			fmt.Fprintln(os.Stderr, "marian: query requires search terms (or --interactive)")
			os.Exit(1)
		}

		var searchProperties []string
		if querySearchProperties != "" {
			searchProperties = strings.Split(querySearchProperties, ",")
		}

		q := query.New(terms, searchProperties)
		results := rank.Search(server.Index(), q)

		for i, r := range results {
			fmt.Printf("%2d. %s\n    %s\n", i+1, r.Title, r.URL)
			if r.Preview != "" {
				fmt.Printf("    %s\n", r.Preview)
			}
		}
		if len(results) == 0 {
			fmt.Println("no results")
		}
	},
}

func init() {
	queryCmd.Flags().StringVar(&querySearchProperties, "search-properties", "", "comma-separated manifest names to restrict the search to")
	queryCmd.Flags().BoolVar(&queryInteractive, "interactive", false, "browse results in an interactive terminal UI instead of printing them")
}
