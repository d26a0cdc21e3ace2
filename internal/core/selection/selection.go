// Package selection tracks which parts of a dataset the user has picked for
// translation and reduces them to one canonical target set.
//
// Three granularities coexist: whole rows, whole columns and individual
// cells. They are stored independently so that clearing one does not lose
// the others, and are only reconciled by [Resolve].
package selection

import "maps"

// Cell identifies a single row/column coordinate.
type Cell struct {
	Row int
	Col string
}

// Universe describes the rows and columns currently available for
// selection. Toggles for coordinates outside the universe are ignored.
type Universe interface {
	HasRow(index int) bool
	HasColumn(key string) bool
	// RowIndices returns every row index in ascending order.
	RowIndices() []int
	// ColumnKeys returns every column key in display order.
	ColumnKeys() []string
}

// State is an immutable copy of the three selection sets.
type State struct {
	Rows  map[int]struct{}
	Cols  map[string]struct{}
	Cells map[Cell]struct{}
}

// Empty reports whether nothing is selected in any granularity.
func (s State) Empty() bool {
	return len(s.Rows) == 0 && len(s.Cols) == 0 && len(s.Cells) == 0
}

// Model holds the mutable selection sets and the expanded-cell display set.
// It contains pure data logic with no Bubble Tea dependencies.
type Model struct {
	universe Universe
	rows     map[int]struct{}
	cols     map[string]struct{}
	cells    map[Cell]struct{}
	expanded map[Cell]struct{}
}

// New creates an empty selection over u.
func New(u Universe) *Model {
	return &Model{
		universe: u,
		rows:     make(map[int]struct{}),
		cols:     make(map[string]struct{}),
		cells:    make(map[Cell]struct{}),
		expanded: make(map[Cell]struct{}),
	}
}

// ToggleRow flips membership of row i.
func (m *Model) ToggleRow(i int) {
	if !m.universe.HasRow(i) {
		return
	}
	toggle(m.rows, i)
}

// ToggleCol flips membership of column k.
func (m *Model) ToggleCol(k string) {
	if !m.universe.HasColumn(k) {
		return
	}
	toggle(m.cols, k)
}

// ToggleCell flips membership of the explicit cell (i, k).
func (m *Model) ToggleCell(i int, k string) {
	if !m.universe.HasRow(i) || !m.universe.HasColumn(k) {
		return
	}
	toggle(m.cells, Cell{Row: i, Col: k})
}

// SelectRow adds row i. Unlike ToggleRow, repeating it is a no-op.
func (m *Model) SelectRow(i int) {
	if m.universe.HasRow(i) {
		m.rows[i] = struct{}{}
	}
}

// SelectCol adds column k.
func (m *Model) SelectCol(k string) {
	if m.universe.HasColumn(k) {
		m.cols[k] = struct{}{}
	}
}

// SelectCell adds the explicit cell (i, k).
func (m *Model) SelectCell(i int, k string) {
	if m.universe.HasRow(i) && m.universe.HasColumn(k) {
		m.cells[Cell{Row: i, Col: k}] = struct{}{}
	}
}

// ToggleExpand flips whether a cell is rendered wrapped instead of truncated.
func (m *Model) ToggleExpand(c Cell) {
	toggle(m.expanded, c)
}

// ToggleMaster clears everything when every row and every column is already
// selected, and selects all rows and columns otherwise. Only the row and
// column sets are compared against the totals; a cells-only selection counts
// as "not fully selected".
func (m *Model) ToggleMaster() {
	if m.allSelected() {
		m.Clear()
		return
	}
	m.SelectAll()
}

// SelectAll selects every row and every column. Cells are left untouched.
func (m *Model) SelectAll() {
	for _, i := range m.universe.RowIndices() {
		m.rows[i] = struct{}{}
	}
	for _, k := range m.universe.ColumnKeys() {
		m.cols[k] = struct{}{}
	}
}

// Clear empties rows, columns, cells and the expanded set.
func (m *Model) Clear() {
	clear(m.rows)
	clear(m.cols)
	clear(m.cells)
	clear(m.expanded)
}

// Prune drops every row, column, cell and expanded entry the universe no
// longer contains. Call it after the universe changes underneath the model.
func (m *Model) Prune() {
	for i := range m.rows {
		if !m.universe.HasRow(i) {
			delete(m.rows, i)
		}
	}
	for k := range m.cols {
		if !m.universe.HasColumn(k) {
			delete(m.cols, k)
		}
	}
	for _, set := range []map[Cell]struct{}{m.cells, m.expanded} {
		for c := range set {
			if !m.universe.HasRow(c.Row) || !m.universe.HasColumn(c.Col) {
				delete(set, c)
			}
		}
	}
}

func (m *Model) allSelected() bool {
	return len(m.rows) == len(m.universe.RowIndices()) &&
		len(m.cols) == len(m.universe.ColumnKeys())
}

// AllSelected reports whether the master checkbox should render as checked.
func (m *Model) AllSelected() bool {
	return len(m.universe.RowIndices()) > 0 && m.allSelected()
}

// State returns a copy of the current selection sets.
func (m *Model) State() State {
	return State{
		Rows:  maps.Clone(m.rows),
		Cols:  maps.Clone(m.cols),
		Cells: maps.Clone(m.cells),
	}
}

// Targets resolves the current selection against the model's universe.
func (m *Model) Targets() (Targets, error) {
	return Resolve(m.State(), m.universe.RowIndices(), m.universe.ColumnKeys())
}

// RowSelected reports whether row i is selected as a whole.
func (m *Model) RowSelected(i int) bool {
	_, ok := m.rows[i]
	return ok
}

// ColSelected reports whether column k is selected as a whole.
func (m *Model) ColSelected(k string) bool {
	_, ok := m.cols[k]
	return ok
}

// IsSelected reports whether (i, k) is covered by any granularity.
func (m *Model) IsSelected(i int, k string) bool {
	if m.RowSelected(i) || m.ColSelected(k) {
		return true
	}
	_, ok := m.cells[Cell{Row: i, Col: k}]
	return ok
}

// IsExpanded reports whether c is in the expanded display set.
func (m *Model) IsExpanded(c Cell) bool {
	_, ok := m.expanded[c]
	return ok
}

// Count returns the targeted-cell figure shown in the footer:
// rows*totalCols + cols*(totalRows-rows) + cells.
//
// A cell inside both a selected row and an explicit cell entry is counted
// twice. The figure is a display approximation and must not drive targeting.
func (m *Model) Count(totalRows, totalCols int) int {
	return len(m.rows)*totalCols + len(m.cols)*(totalRows-len(m.rows)) + len(m.cells)
}

func toggle[K comparable](set map[K]struct{}, k K) {
	if _, ok := set[k]; ok {
		delete(set, k)
		return
	}
	set[k] = struct{}{}
}
