package tui

import "fmt"

// View implements tea.Model.
func (m Model) View() string {
	var s string

	switch m.state {
	case StateInput:
		s += "marian search\n\n"
		s += "Enter a query:\n"
		s += "> " + m.query + "\n\n"
		s += "(Enter to search, Esc to quit)"

	case StateSearching:
		s += "Searching...\n"

	case StateBrowsing:
		s += fmt.Sprintf("%d result(s) for %q (q to search again):\n\n", len(m.results), m.query)

		end := len(m.results)
		if m.height > 5 && end > m.height-5 {
			end = m.height - 5
		}

		for i := 0; i < end; i++ {
			cursor := " "
			if m.cursor == i {
				cursor = ">"
			}
			r := m.results[i]
			s += fmt.Sprintf("%s %s\n   %s\n\n", cursor, r.Title, r.URL)
		}

		s += "(arrow keys to navigate, q to search again)"

	case StateError:
		s += fmt.Sprintf("Error: %v\n\n(q to try again)", m.err)
	}

	return s
}
