package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/lingo/internal/core/dataset"
	"github.com/colonyops/lingo/internal/core/selection"
	"github.com/colonyops/lingo/internal/core/styles"
	"github.com/colonyops/lingo/internal/tui/components"
)

const (
	gutterWidth    = 6
	minColumnWidth = 4
	maxColumnWidth = 32
	// widthSampleRows bounds how many rows are measured when sizing columns.
	widthSampleRows = 200
)

// gridState is the cursor position in filtered-row coordinates and the first
// visible row.
type gridState struct {
	row    int
	col    int
	rowOff int
}

func (g *gridState) moveRow(delta, rows, visible int) {
	g.row += delta
	g.clamp(rows, -1, visible)
}

func (g *gridState) moveCol(delta, cols int) {
	g.col += delta
	g.col = max(min(g.col, cols-1), 0)
}

// clamp keeps the cursor inside the grid and scrolls so it stays visible.
// A negative cols leaves the column untouched.
func (g *gridState) clamp(rows, cols, visible int) {
	g.row = max(min(g.row, rows-1), 0)
	if cols >= 0 {
		g.col = max(min(g.col, cols-1), 0)
	}

	visible = max(visible, 1)
	if g.row < g.rowOff {
		g.rowOff = g.row
	}
	if g.row >= g.rowOff+visible {
		g.rowOff = g.row - visible + 1
	}
	g.rowOff = max(min(g.rowOff, rows-visible), 0)
}

// visibleRows is the number of grid rows that fit below the header and above
// the footer.
func (m Model) visibleRows() int {
	h := m.height
	if h == 0 {
		h = 24
	}
	chrome := 4
	if m.searching {
		chrome++
	}
	return max(h-chrome, 1)
}

// columnWidths sizes each column within bounds. A width sent by the server
// is used as is, widened only to fit the label; otherwise the column fits its
// widest label or value.
func columnWidths(snap dataset.Snapshot) []int {
	widths := make([]int, len(snap.Columns))
	for i, c := range snap.Columns {
		w := ansi.StringWidth(c.DisplayLabel())
		if hint, ok := c.CellWidth(); ok {
			widths[i] = max(min(max(w, hint), maxColumnWidth), minColumnWidth)
			continue
		}
		for r, row := range snap.Rows {
			if r >= widthSampleRows {
				break
			}
			w = max(w, ansi.StringWidth(row.Value(c.Key)))
		}
		widths[i] = max(min(w, maxColumnWidth), minColumnWidth)
	}
	return widths
}

// firstColumn picks the leftmost column to draw so the cursor column fits
// in avail cells.
func firstColumn(widths []int, cursor, avail int) int {
	if len(widths) == 0 {
		return 0
	}
	start := cursor
	used := widths[cursor] + 1
	for start > 0 && used+widths[start-1]+1 <= avail {
		start--
		used += widths[start] + 1
	}
	return start
}

// pendingSet marks the cells targeted by the active job.
type pendingSet struct {
	rows map[int]struct{}
	cols map[string]struct{}
}

func (p pendingSet) has(row int, col string) bool {
	if p.rows == nil {
		return false
	}
	_, r := p.rows[row]
	_, c := p.cols[col]
	return r && c
}

func (m Model) pending() pendingSet {
	if !m.jobs.Active() {
		return pendingSet{}
	}
	j := m.jobs.Job()
	p := pendingSet{
		rows: make(map[int]struct{}, len(j.Rows)),
		cols: make(map[string]struct{}, len(j.Cols)),
	}
	for _, r := range j.Rows {
		p.rows[r] = struct{}{}
	}
	for _, c := range j.Cols {
		p.cols[c] = struct{}{}
	}
	return p
}

// renderGrid draws the column header and the visible rows, at most height
// lines in total.
func (m Model) renderGrid(width, height int) string {
	snap := m.view.Filtered()

	if len(snap.Columns) == 0 {
		msg := "No data"
		switch {
		case m.datasetID == "":
			msg = "No dataset selected. Start lingo with --dataset <id>."
		case m.loading:
			msg = m.spinner.View() + " Loading dataset..."
		}
		return styles.MutedStyle.Render(msg)
	}

	widths := columnWidths(snap)
	start := firstColumn(widths, m.grid.col, width-gutterWidth)

	end := start
	used := gutterWidth
	for end < len(widths) && used+widths[end]+1 <= width {
		used += widths[end] + 1
		end++
	}
	end = max(end, start+1)

	lines := []string{m.renderColumnHeader(snap.Columns[start:end], widths[start:end])}

	if len(snap.Rows) == 0 {
		msg := "No rows"
		if m.view.Filter() != "" {
			msg = fmt.Sprintf("No rows match %q", m.view.Filter())
		}
		lines = append(lines, styles.MutedStyle.Render(msg))
		return strings.Join(lines, "\n")
	}

	pending := m.pending()
	for r := m.grid.rowOff; r < len(snap.Rows) && len(lines) < height; r++ {
		block := m.renderRow(r, snap.Rows[r], snap.Columns[start:end], widths[start:end], start, pending)
		for _, line := range strings.Split(block, "\n") {
			if len(lines) >= height {
				break
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderColumnHeader(cols []dataset.Column, widths []int) string {
	parts := []string{components.Pad(gutterWidth)}
	for i, c := range cols {
		style := styles.GridHeaderStyle
		if m.sel.ColSelected(c.Key) {
			style = styles.GridHeaderSelectedStyle
		}
		parts = append(parts, style.Render(components.Fit(c.DisplayLabel(), widths[i])), " ")
	}
	return strings.Join(parts, "")
}

func (m Model) renderRow(pos int, row dataset.Row, cols []dataset.Column, widths []int, firstCol int, pending pendingSet) string {
	gutter := styles.GridGutterStyle
	marker := " "
	if m.sel.RowSelected(row.Index) {
		gutter = styles.GridGutterSelectedStyle
		marker = "▌"
	}
	label := fmt.Sprintf("%s%*d ", marker, gutterWidth-2, row.Index)
	cells := []string{gutter.Render(label)}

	for i, c := range cols {
		cell := selection.Cell{Row: row.Index, Col: c.Key}
		value := row.Value(c.Key)

		style := styles.GridCellStyle
		switch {
		case pending.has(row.Index, c.Key):
			style = styles.GridCellPendingStyle
		case m.sel.IsSelected(row.Index, c.Key):
			style = styles.GridCellSelectedStyle
		}
		if pos == m.grid.row && firstCol+i == m.grid.col {
			style = style.Inherit(styles.GridCursorStyle)
		}

		var rendered string
		if m.sel.IsExpanded(cell) {
			rendered = style.Width(widths[i]).Render(value)
		} else {
			rendered = style.Render(components.Fit(value, widths[i]))
		}
		cells = append(cells, rendered, " ")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
