package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mind-engage/h5pimporter/internal/preview"
)

const cellWidth = 24

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Model is a terminal grid editor over a preview.Editor.
type Model struct {
	editor   *preview.Editor
	table    table.Model
	input    textinput.Model
	col      int
	editing  bool
	accepted bool
	aborted  bool
	err      error
}

// NewModel builds the editor view for ed.
func NewModel(ed *preview.Editor) Model {
	g := ed.Grid()
	t := table.New(
		table.WithColumns(columns(g, 0)),
		table.WithRows(rows(g)),
		table.WithFocused(true),
		table.WithHeight(min(max(len(g.Rows), 1), 15)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	t.SetStyles(styles)

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 0

	return Model{editor: ed, table: t, input: in}
}

// Accepted reports whether the user saved with ctrl+s.
func (m Model) Accepted() bool { return m.accepted }

// Aborted reports whether the user quit without saving.
func (m Model) Aborted() bool { return m.aborted }

// Editor returns the underlying editor with every committed edit applied.
func (m Model) Editor() *preview.Editor { return m.editor }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-6, 2))
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(typed)
		}
		return m.updateBrowsing(typed)
	}
	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.editor.Grid()
	switch msg.String() {
	case "ctrl+c", "q":
		m.aborted = true
		return m, tea.Quit
	case "ctrl+s":
		m.accepted = true
		return m, tea.Quit
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.table.SetColumns(columns(g, m.col))
		}
		return m, nil
	case "right", "l":
		if m.col < len(g.Header)-1 {
			m.col++
			m.table.SetColumns(columns(g, m.col))
		}
		return m, nil
	case "enter":
		if g.Empty() {
			return m, nil
		}
		m.editing = true
		m.err = nil
		m.input.SetValue(m.editor.Cell(m.table.Cursor(), m.col))
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		if err := m.editor.Edit(m.table.Cursor(), m.col, m.input.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.table.SetRows(rows(m.editor.Grid()))
		return m, nil
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	g := m.editor.Grid()
	if g.Empty() {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Data Preview"),
			g.EmptyMessage(),
			statusStyle.Render("q quit"),
		)
	}

	row := m.table.Cursor()
	status := fmt.Sprintf("row %d/%d, column %q", row+1, len(g.Rows), g.Header[m.col].Text)
	footer := statusStyle.Render("arrows move · enter edit · ctrl+s import · q quit")
	if m.editing {
		footer = m.input.View() + "\n" + statusStyle.Render("enter commit · esc cancel")
	} else if m.err != nil {
		footer = errorStyle.Render(m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Data Preview"),
		m.table.View(),
		statusStyle.Render(status),
		footer,
	)
}

func columns(g preview.Grid, selected int) []table.Column {
	cols := make([]table.Column, len(g.Header))
	for i, h := range g.Header {
		title := h.Text
		if i == selected {
			title = "[" + title + "]"
		}
		cols[i] = table.Column{Title: title, Width: cellWidth}
	}
	return cols
}

func rows(g preview.Grid) []table.Row {
	out := make([]table.Row, 0, len(g.Rows))
	for _, cells := range g.Rows {
		r := make(table.Row, len(cells))
		for i, c := range cells {
			r[i] = c.Text
		}
		out = append(out, r)
	}
	return out
}

// Run shows the editor until the user accepts or quits. It reports whether
// the edits were accepted.
func Run(ed *preview.Editor, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(NewModel(ed), opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.Accepted(), nil
}
