package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	allRows := []int{0, 1, 2, 3, 4}
	colOrder := []string{"id", "en", "fr"}

	tests := []struct {
		name    string
		setup   func(m *Model)
		want    Targets
		wantErr string
	}{
		{
			name:  "column only targets every row",
			setup: func(m *Model) { m.ToggleCol("en") },
			want:  Targets{Rows: []int{0, 1, 2, 3, 4}, Cols: []string{"en"}},
		},
		{
			name:  "single cell",
			setup: func(m *Model) { m.ToggleCell(3, "en") },
			want:  Targets{Rows: []int{3}, Cols: []string{"en"}},
		},
		{
			name: "rows and columns",
			setup: func(m *Model) {
				m.ToggleRow(4)
				m.ToggleRow(1)
				m.ToggleCol("fr")
				m.ToggleCol("id")
			},
			want: Targets{Rows: []int{1, 4}, Cols: []string{"id", "fr"}},
		},
		{
			name: "column plus cell does not expand to every row",
			setup: func(m *Model) {
				m.ToggleCol("fr")
				m.ToggleCell(2, "en")
			},
			want: Targets{Rows: []int{2}, Cols: []string{"en", "fr"}},
		},
		{
			name: "cells union with rows is de-duplicated",
			setup: func(m *Model) {
				m.ToggleRow(2)
				m.ToggleCol("en")
				m.ToggleCell(2, "en")
				m.ToggleCell(0, "fr")
			},
			want: Targets{Rows: []int{0, 2}, Cols: []string{"en", "fr"}},
		},
		{
			name:    "rows without columns",
			setup:   func(m *Model) { m.ToggleRow(1) },
			wantErr: "no columns selected",
		},
		{
			name:    "empty selection",
			setup:   func(m *Model) {},
			wantErr: "no rows selected",
		},
		{
			name: "cleared selection",
			setup: func(m *Model) {
				m.ToggleRow(1)
				m.ToggleCol("en")
				m.Clear()
			},
			wantErr: "no rows selected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(len(allRows), colOrder...)
			tt.setup(m)

			got, err := Resolve(m.State(), allRows, colOrder)
			if tt.wantErr != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_cell_independent_of_totals(t *testing.T) {
	s := State{Cells: map[Cell]struct{}{{Row: 3, Col: "en"}: {}}}

	got, err := Resolve(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.Rows)
	assert.Equal(t, []string{"en"}, got.Cols)
}

func TestResolve_unknown_columns_sorted_after_order(t *testing.T) {
	s := State{
		Rows: map[int]struct{}{0: {}},
		Cols: map[string]struct{}{"zz": {}, "en": {}, "aa": {}},
	}

	got, err := Resolve(s, []int{0}, []string{"en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "aa", "zz"}, got.Cols)
}

func TestResolve_idempotent(t *testing.T) {
	m := newTestModel(6, "id", "en", "fr")
	m.ToggleRow(5)
	m.ToggleCol("en")
	m.ToggleCell(1, "fr")
	m.ToggleCell(3, "id")
	m.ToggleRow(5)
	m.ToggleCell(4, "en")

	first, err := m.Targets()
	require.NoError(t, err)
	second, err := m.Targets()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_does_not_mutate_state(t *testing.T) {
	s := State{Cols: map[string]struct{}{"en": {}}}

	_, err := Resolve(s, []int{0, 1}, []string{"en"})
	require.NoError(t, err)

	assert.Empty(t, s.Rows)
	assert.Len(t, s.Cols, 1)
}

func TestTargets_Len(t *testing.T) {
	assert.Equal(t, 6, Targets{Rows: []int{0, 1, 2}, Cols: []string{"en", "fr"}}.Len())
	assert.Equal(t, 0, Targets{}.Len())
}
