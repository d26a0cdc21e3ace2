package selection

import (
	"slices"
	"sort"
)

// ValidationError reports a selection that cannot be submitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid selection: " + e.Reason
}

// Targets is the canonical set of rows and columns a job is submitted for.
type Targets struct {
	Rows []int
	Cols []string
}

// Len returns the number of (row, column) pairs the targets span.
func (t Targets) Len() int {
	return len(t.Rows) * len(t.Cols)
}

// Resolve reduces a selection state to its target rows and columns.
//
//  1. A pure column selection (columns set, no rows, no cells) targets every
//     row in allRows.
//  2. Every explicit cell contributes its row and its column.
//  3. The union is de-duplicated. Rows are ascending; columns follow colOrder,
//     with keys missing from colOrder appended in ascending order.
//
// An empty dimension is a *ValidationError. Resolve never mutates s.
func Resolve(s State, allRows []int, colOrder []string) (Targets, error) {
	rows := make(map[int]struct{}, len(s.Rows)+len(s.Cells))
	cols := make(map[string]struct{}, len(s.Cols)+len(s.Cells))

	for i := range s.Rows {
		rows[i] = struct{}{}
	}
	for k := range s.Cols {
		cols[k] = struct{}{}
	}

	if len(s.Cols) > 0 && len(s.Rows) == 0 && len(s.Cells) == 0 {
		for _, i := range allRows {
			rows[i] = struct{}{}
		}
	}

	for c := range s.Cells {
		rows[c.Row] = struct{}{}
		cols[c.Col] = struct{}{}
	}

	if len(rows) == 0 {
		return Targets{}, &ValidationError{Reason: "no rows selected"}
	}
	if len(cols) == 0 {
		return Targets{}, &ValidationError{Reason: "no columns selected"}
	}

	t := Targets{
		Rows: make([]int, 0, len(rows)),
		Cols: make([]string, 0, len(cols)),
	}
	for i := range rows {
		t.Rows = append(t.Rows, i)
	}
	slices.Sort(t.Rows)

	for _, k := range colOrder {
		if _, ok := cols[k]; ok {
			t.Cols = append(t.Cols, k)
			delete(cols, k)
		}
	}
	rest := make([]string, 0, len(cols))
	for k := range cols {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	t.Cols = append(t.Cols, rest...)

	return t, nil
}
