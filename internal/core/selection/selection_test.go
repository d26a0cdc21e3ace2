package selection

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUniverse struct {
	rows int
	cols []string
}

func (u fakeUniverse) HasRow(i int) bool { return i >= 0 && i < u.rows }

func (u fakeUniverse) HasColumn(k string) bool {
	for _, c := range u.cols {
		if c == k {
			return true
		}
	}
	return false
}

func (u fakeUniverse) RowIndices() []int {
	out := make([]int, u.rows)
	for i := range out {
		out[i] = i
	}
	return out
}

func (u fakeUniverse) ColumnKeys() []string { return u.cols }

func newTestModel(rows int, cols ...string) *Model {
	return New(fakeUniverse{rows: rows, cols: cols})
}

func TestModel_ToggleRow(t *testing.T) {
	m := newTestModel(5, "id", "en")

	m.ToggleRow(2)
	assert.True(t, m.RowSelected(2))

	m.ToggleRow(2)
	assert.False(t, m.RowSelected(2))
}

func TestModel_Toggle_ignores_unknown_coordinates(t *testing.T) {
	m := newTestModel(3, "en")

	m.ToggleRow(7)
	m.ToggleRow(-1)
	m.ToggleCol("fr")
	m.ToggleCell(9, "en")
	m.ToggleCell(1, "fr")

	assert.True(t, m.State().Empty())
}

func TestModel_IsSelected(t *testing.T) {
	m := newTestModel(4, "id", "en", "fr")

	m.ToggleRow(0)
	m.ToggleCol("fr")
	m.ToggleCell(2, "en")

	tests := []struct {
		row  int
		col  string
		want bool
	}{
		{0, "id", true},
		{1, "fr", true},
		{2, "en", true},
		{2, "id", false},
		{3, "en", false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.row)+"/"+tt.col, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsSelected(tt.row, tt.col))
		})
	}
}

func TestModel_ToggleMaster(t *testing.T) {
	t.Run("selects all from empty", func(t *testing.T) {
		m := newTestModel(3, "id", "en")

		m.ToggleMaster()

		s := m.State()
		assert.Len(t, s.Rows, 3)
		assert.Len(t, s.Cols, 2)
		assert.True(t, m.AllSelected())
	})

	t.Run("twice from empty returns to empty", func(t *testing.T) {
		m := newTestModel(3, "id", "en")

		m.ToggleMaster()
		m.ToggleMaster()

		assert.True(t, m.State().Empty())
	})

	t.Run("clears cells and expanded when fully selected", func(t *testing.T) {
		m := newTestModel(2, "en")
		m.SelectAll()
		m.ToggleCell(1, "en")
		m.ToggleExpand(Cell{Row: 1, Col: "en"})

		m.ToggleMaster()

		assert.True(t, m.State().Empty())
		assert.False(t, m.IsExpanded(Cell{Row: 1, Col: "en"}))
	})

	t.Run("cells only selection selects all", func(t *testing.T) {
		m := newTestModel(3, "id", "en")
		m.ToggleCell(1, "en")

		m.ToggleMaster()

		s := m.State()
		assert.Len(t, s.Rows, 3)
		assert.Len(t, s.Cols, 2)
		assert.Len(t, s.Cells, 1, "select all leaves cells untouched")
	})

	t.Run("partial row selection selects all", func(t *testing.T) {
		m := newTestModel(3, "en")
		m.ToggleRow(0)
		m.ToggleCol("en")

		m.ToggleMaster()

		assert.Len(t, m.State().Rows, 3)
	})
}

func TestModel_Clear(t *testing.T) {
	m := newTestModel(3, "id", "en")
	m.ToggleRow(1)
	m.ToggleCol("en")
	m.ToggleCell(2, "id")
	m.ToggleExpand(Cell{Row: 2, Col: "id"})

	m.Clear()

	assert.True(t, m.State().Empty())
	assert.False(t, m.IsExpanded(Cell{Row: 2, Col: "id"}))
}

func TestModel_ToggleExpand_does_not_affect_targets(t *testing.T) {
	m := newTestModel(3, "en")
	m.ToggleExpand(Cell{Row: 1, Col: "en"})

	assert.True(t, m.IsExpanded(Cell{Row: 1, Col: "en"}))
	assert.True(t, m.State().Empty())

	_, err := m.Targets()
	require.Error(t, err)
}

func TestModel_State_is_a_copy(t *testing.T) {
	m := newTestModel(3, "en")
	m.ToggleRow(1)

	s := m.State()
	m.ToggleRow(1)

	assert.Len(t, s.Rows, 1)
}

func TestModel_Count_double_counts_overlap(t *testing.T) {
	m := newTestModel(10, "id", "en", "fr")
	m.ToggleRow(0)
	m.ToggleRow(1)
	m.ToggleCol("en")
	m.ToggleCell(0, "id") // already covered by row 0

	// 2 rows * 3 cols + 1 col * (10-2) rows + 1 cell
	assert.Equal(t, 15, m.Count(10, 3))
}

func TestModel_Prune_after_universe_shrinks(t *testing.T) {
	u := &fakeUniverse{rows: 5, cols: []string{"id", "en", "vi"}}
	m := New(u)
	m.ToggleMaster()
	m.ToggleCell(4, "vi")
	m.ToggleCell(1, "en")
	m.ToggleExpand(Cell{Row: 4, Col: "en"})
	m.ToggleExpand(Cell{Row: 0, Col: "vi"})

	u.rows = 3
	u.cols = []string{"id", "en"}
	m.Prune()

	s := m.State()
	assert.Len(t, s.Rows, 3)
	assert.Equal(t, map[string]struct{}{"id": {}, "en": {}}, s.Cols)
	assert.Equal(t, map[Cell]struct{}{{Row: 1, Col: "en"}: {}}, s.Cells)
	assert.False(t, m.IsExpanded(Cell{Row: 4, Col: "en"}))
	assert.False(t, m.IsExpanded(Cell{Row: 0, Col: "vi"}))
	assert.True(t, m.AllSelected())

	targets, err := m.Targets()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, targets.Rows)

	m.ToggleMaster()
	assert.True(t, m.State().Empty())
}

func TestModel_Select_is_idempotent(t *testing.T) {
	m := newTestModel(3, "id", "en")

	for range 2 {
		m.SelectRow(1)
		m.SelectCol("en")
		m.SelectCell(2, "id")
	}
	m.SelectRow(7)
	m.SelectCol("fr")
	m.SelectCell(0, "fr")

	s := m.State()
	assert.Equal(t, map[int]struct{}{1: {}}, s.Rows)
	assert.Equal(t, map[string]struct{}{"en": {}}, s.Cols)
	assert.Equal(t, map[Cell]struct{}{{Row: 2, Col: "id"}: {}}, s.Cells)
}
