package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/lingo/internal/core/dataset"
)

func TestColumnWidths(t *testing.T) {
	long := strings.Repeat("x", 50)
	snap := dataset.Snapshot{
		Columns: []dataset.Column{
			{Key: "id", Label: "ID"},
			{Key: "en", Label: "English", Width: "150px"},
			{Key: "vi", Label: "Vietnamese", Width: "40px"},
			{Key: "note", Label: "Note", Width: "999"},
			{Key: "long", Label: "Long"},
		},
		Rows: []dataset.Row{
			dataset.NewRow(0, []string{"id", "en", "vi", "note", "long"}, []string{"1", long, "", "", long}),
		},
	}

	widths := columnWidths(snap)

	assert.Equal(t, []int{
		minColumnWidth, // content sized, label and value are narrower than the minimum
		15,             // server width wins over a wider value
		10,             // server width widened to fit "Vietnamese"
		maxColumnWidth, // server width clamped
		maxColumnWidth, // content sized and clamped
	}, widths)
}

func TestGridState_clamp_scrolls_cursor_into_view(t *testing.T) {
	g := gridState{row: 9}
	g.clamp(10, 3, 4)

	assert.Equal(t, 9, g.row)
	assert.Equal(t, 6, g.rowOff)

	g.moveRow(-20, 10, 4)
	assert.Equal(t, 0, g.row)
	assert.Equal(t, 0, g.rowOff)

	g.moveCol(5, 3)
	assert.Equal(t, 2, g.col)
}
