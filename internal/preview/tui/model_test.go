package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mind-engage/h5pimporter/internal/preview"
	"github.com/mind-engage/h5pimporter/internal/rowset"
)

func newTestModel(t *testing.T, csv string) Model {
	t.Helper()
	ed, err := preview.NewEditor(rowset.ParseCSV(csv))
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	return NewModel(ed)
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// TestEditCommitsToHandoff verifies an edit reaches the hidden-field value.
func TestEditCommitsToHandoff(t *testing.T) {
	m := newTestModel(t, "question,answers,correct_answer,feedback\nQ1,a|b,1,ok\nQ2,c|d,1,ok\n")

	m = send(m,
		key(tea.KeyDown),
		key(tea.KeyRight), key(tea.KeyRight),
		key(tea.KeyEnter),
		key(tea.KeyBackspace),
		runes("2"),
		key(tea.KeyEnter),
	)

	if got := m.Editor().Cell(1, 2); got != "2" {
		t.Fatalf("cell = %q, want 2", got)
	}
	if !strings.Contains(m.Editor().Handoff(), `"question":"Q2","answers":"c|d","correct_answer":"2"`) {
		t.Fatalf("handoff = %s", m.Editor().Handoff())
	}
}

// TestEscCancelsEdit verifies cancelled edits leave the grid untouched.
func TestEscCancelsEdit(t *testing.T) {
	m := newTestModel(t, "question,answers\nQ1,a\n")
	before := m.Editor().Handoff()

	m = send(m, key(tea.KeyEnter), runes("zzz"), key(tea.KeyEsc))

	if m.Editor().Handoff() != before {
		t.Fatalf("handoff changed: %s", m.Editor().Handoff())
	}
	if m.editing {
		t.Fatal("still editing after esc")
	}
}

// TestAcceptAndAbort verifies the two ways out of the editor.
func TestAcceptAndAbort(t *testing.T) {
	m := send(newTestModel(t, "a\n1\n"), key(tea.KeyCtrlS))
	if !m.Accepted() || m.Aborted() {
		t.Fatal("ctrl+s should accept")
	}
	m = send(newTestModel(t, "a\n1\n"), runes("q"))
	if m.Accepted() || !m.Aborted() {
		t.Fatal("q should abort")
	}
}

// TestEmptyGridView verifies the empty-state message replaces the table.
func TestEmptyGridView(t *testing.T) {
	m := newTestModel(t, "")
	m = send(m, key(tea.KeyEnter))
	if m.editing {
		t.Fatal("editing an empty grid")
	}
	if !strings.Contains(m.View(), "No data found in CSV file.") {
		t.Fatalf("view = %q", m.View())
	}
}
