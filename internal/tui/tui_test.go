package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/i80and/marian/internal/fts"
	"github.com/i80and/marian/internal/rank"
)

func newTestTUIIndex() *fts.Index {
	idx := fts.New()
	idx.Add(fts.DocumentInput{
		URL:       "https://example.com/fox/",
		Title:     "The Fox",
		FieldText: map[string]string{"text": "a quick fox"},
	}, true, "docs")
	idx.Finish(time.Unix(0, 0))
	return idx
}

func TestNewModelWithoutInitialQueryStartsAtInput(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	if m.state != StateInput {
		t.Fatalf("expected StateInput, got %v", m.state)
	}
}

func TestNewModelWithInitialQueryStartsSearching(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "fox")
	if m.state != StateSearching {
		t.Fatalf("expected StateSearching, got %v", m.state)
	}
	if m.Init() == nil {
		t.Fatal("expected a non-nil Init command when an initial query is set")
	}
}

func TestUpdateTypingAppendsToQuery(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fox")})
	nm := next.(Model)
	if nm.query != "fox" {
		t.Fatalf("expected query %q, got %q", "fox", nm.query)
	}
}

func TestUpdateBackspaceRemovesLastRune(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.query = "fox"
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	nm := next.(Model)
	if nm.query != "fo" {
		t.Fatalf("expected query %q, got %q", "fo", nm.query)
	}
}

func TestUpdateEnterWithEmptyQueryStaysAtInput(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	nm := next.(Model)
	if nm.state != StateInput {
		t.Fatalf("expected StateInput to persist on empty query, got %v", nm.state)
	}
	if cmd != nil {
		t.Fatal("expected no search command for an empty query")
	}
}

func TestUpdateEnterWithQueryStartsSearching(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.query = "fox"
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	nm := next.(Model)
	if nm.state != StateSearching {
		t.Fatalf("expected StateSearching, got %v", nm.state)
	}
	if cmd == nil {
		t.Fatal("expected a search command")
	}
}

func TestUpdateResultsMsgEntersBrowsing(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.state = StateSearching
	next, _ := m.Update(resultsMsg{{Title: "The Fox", URL: "https://example.com/fox/"}})
	nm := next.(Model)
	if nm.state != StateBrowsing {
		t.Fatalf("expected StateBrowsing, got %v", nm.state)
	}
	if len(nm.results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(nm.results))
	}
}

func TestUpdateErrorMsgEntersError(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.state = StateSearching
	next, _ := m.Update(errorMsg{err: errBoom})
	nm := next.(Model)
	if nm.state != StateError {
		t.Fatalf("expected StateError, got %v", nm.state)
	}
	if nm.err != errBoom {
		t.Fatalf("expected err to be carried through, got %v", nm.err)
	}
}

func TestUpdateQuitsOutOfBrowsingBackToInput(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.state = StateBrowsing
	m.results = []rank.Result{{Title: "The Fox"}}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	nm := next.(Model)
	if nm.state != StateInput {
		t.Fatalf("expected StateInput, got %v", nm.state)
	}
	if nm.results != nil {
		t.Fatal("expected results to be cleared")
	}
}

func TestUpdateCursorNavigationStaysInBounds(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.state = StateBrowsing
	m.results = []rank.Result{{Title: "one"}, {Title: "two"}}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	nm := next.(Model)
	if nm.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", nm.cursor)
	}

	next, _ = nm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	nm = next.(Model)
	if nm.cursor != 1 {
		t.Fatalf("expected cursor to stay at 1 past the last result, got %d", nm.cursor)
	}
}

func TestViewRendersQueryInInputState(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.query = "fox"
	view := m.View()
	if !strings.Contains(view, "fox") {
		t.Fatalf("expected view to contain the current query, got %q", view)
	}
}

func TestViewRendersResultsInBrowsingState(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.state = StateBrowsing
	m.results = []rank.Result{{Title: "The Fox", URL: "https://example.com/fox/"}}
	view := m.View()
	if !strings.Contains(view, "The Fox") || !strings.Contains(view, "https://example.com/fox/") {
		t.Fatalf("expected view to contain result title and URL, got %q", view)
	}
}

func TestViewRendersErrorInErrorState(t *testing.T) {
	m := NewModel(newTestTUIIndex(), "")
	m.state = StateError
	m.err = errBoom
	view := m.View()
	if !strings.Contains(view, errBoom.Error()) {
		t.Fatalf("expected view to mention the error, got %q", view)
	}
}

type testError string

func (e testError) Error() string { return string(e) }

var errBoom = testError("boom")
