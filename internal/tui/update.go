package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i80and/marian/internal/fts"
	"github.com/i80and/marian/internal/query"
	"github.com/i80and/marian/internal/rank"
)

// performSearch runs a search against idx in the background and delivers
// its results as a resultsMsg.
func performSearch(idx *fts.Index, q string) tea.Cmd {
	return func() tea.Msg {
		if err := idx.RequireFinished(); err != nil {
			return errorMsg{err}
		}
		parsed := query.New(q, nil)
		return resultsMsg(rank.Search(idx, parsed))
	}
}

type resultsMsg []rank.Result
type errorMsg struct{ err error }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		switch m.state {
		case StateInput:
			switch msg.Type {
			case tea.KeyEnter:
				if m.query != "" {
					m.state = StateSearching
					return m, performSearch(m.index, m.query)
				}
			case tea.KeyEsc:
				return m, tea.Quit
			case tea.KeyBackspace:
				if runes := []rune(m.query); len(runes) > 0 {
					m.query = string(runes[:len(runes)-1])
				}
			case tea.KeyRunes:
				m.query += string(msg.Runes)
			case tea.KeySpace:
				m.query += " "
			}

		case StateBrowsing, StateError:
			switch msg.String() {
			case "q", "esc":
				m.state = StateInput
				m.results = nil
				m.cursor = 0
				m.err = nil
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.results)-1 {
					m.cursor++
				}
			}
		}

	case resultsMsg:
		m.results = msg
		m.state = StateBrowsing
		m.cursor = 0

	case errorMsg:
		m.err = msg.err
		m.state = StateError

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}
