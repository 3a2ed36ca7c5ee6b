package preview

import (
	"errors"
	"fmt"

	"github.com/mind-engage/h5pimporter/internal/rowset"
)

// EmptyMessage is shown in place of the table when there are no rows.
const EmptyMessage = "No data found in CSV file."

// HeaderCell is a read-only column label.
type HeaderCell struct {
	Text string `json:"text"`
}

// Cell is one editable value.
type Cell struct {
	Text string `json:"text"`
}

// Grid is the editable table shown to the editor.
type Grid struct {
	Header []HeaderCell `json:"header"`
	Rows   [][]Cell     `json:"rows"`
}

func (g Grid) Empty() bool { return len(g.Rows) == 0 }

// EmptyMessage returns the empty-state text, or "" when there is a table.
func (g Grid) EmptyMessage() string {
	if g.Empty() {
		return EmptyMessage
	}
	return ""
}

// Render lays rs out as a grid, one cell per row and column.
func Render(rs rowset.RowSet) Grid {
	g := Grid{
		Header: make([]HeaderCell, len(rs.Header)),
		Rows:   make([][]Cell, 0, len(rs.Rows)),
	}
	for i, h := range rs.Header {
		g.Header[i] = HeaderCell{Text: h}
	}
	for _, row := range rs.Rows {
		cells := make([]Cell, len(rs.Header))
		for i, h := range rs.Header {
			cells[i] = Cell{Text: row.Value(h)}
		}
		g.Rows = append(g.Rows, cells)
	}
	return g
}

// Serialize reads the grid back in header and display order.
func Serialize(g Grid) rowset.RowSet {
	rs := rowset.RowSet{Header: make([]string, len(g.Header))}
	for i, h := range g.Header {
		rs.Header[i] = h.Text
	}
	for _, cells := range g.Rows {
		fields := make([]string, len(cells))
		for i, c := range cells {
			fields[i] = c.Text
		}
		rs.Append(fields)
	}
	return rs
}

var ErrCellOutOfRange = errors.New("cell out of range")

// Editor keeps a grid and its hand-off string in step: every edit
// re-serializes immediately.
type Editor struct {
	grid    Grid
	handoff string
}

func NewEditor(rs rowset.RowSet) (*Editor, error) {
	e := &Editor{grid: Render(rs)}
	if err := e.sync(); err != nil {
		return nil, err
	}
	return e, nil
}

// Edit replaces the text of the cell at (row, col), both 0-based.
func (e *Editor) Edit(row, col int, value string) error {
	if row < 0 || row >= len(e.grid.Rows) || col < 0 || col >= len(e.grid.Header) {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, row, col)
	}
	e.grid.Rows[row][col].Text = value
	return e.sync()
}

func (e *Editor) sync() error {
	s, err := rowset.EncodeHandoff(Serialize(e.grid))
	if err != nil {
		return fmt.Errorf("serialize preview: %w", err)
	}
	e.handoff = s
	return nil
}

// Cell returns the current text at (row, col).
func (e *Editor) Cell(row, col int) string {
	if row < 0 || row >= len(e.grid.Rows) || col < 0 || col >= len(e.grid.Rows[row]) {
		return ""
	}
	return e.grid.Rows[row][col].Text
}

// Handoff is the value carried by the hidden csv_preview_data field.
func (e *Editor) Handoff() string { return e.handoff }

func (e *Editor) Grid() Grid { return e.grid }

func (e *Editor) RowSet() rowset.RowSet { return Serialize(e.grid) }
