// Package tui provides an optional interactive query interface over the
// search engine, for exploring an index from a terminal instead of curling
// /search. Adapted from the teacher's command-lookup TUI: the same
// input/searching/browsing state machine, repurposed from fuzzy command
// matching to live full-text search against an in-memory index.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i80and/marian/internal/fts"
	"github.com/i80and/marian/internal/rank"
)

// AppState is the TUI's current mode.
type AppState int

const (
	StateInput AppState = iota
	StateSearching
	StateBrowsing
	StateError
)

// Model holds the TUI's state.
type Model struct {
	state         AppState
	query         string
	results       []rank.Result
	cursor        int
	width, height int
	err           error
	index         *fts.Index
}

// NewModel returns a Model searching idx, optionally starting with
// initialQuery already populated and a search already in flight.
func NewModel(idx *fts.Index, initialQuery string) Model {
	m := Model{
		state: StateInput,
		query: initialQuery,
		index: idx,
	}
	if initialQuery != "" {
		m.state = StateSearching
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, tea.EnterAltScreen)
	if m.query != "" {
		cmds = append(cmds, performSearch(m.index, m.query))
	}
	return tea.Batch(cmds...)
}
