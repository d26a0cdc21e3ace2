package dataset

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher retrieves a dataset snapshot from the backend.
type Fetcher interface {
	FetchDataset(ctx context.Context, datasetID string, limit int) (Snapshot, error)
}

// View owns the current snapshot and a filtered projection of it. It is the
// only component that replaces the snapshot; everything else reads row
// indices and column keys through it.
type View struct {
	source   Snapshot
	filter   string
	filtered Snapshot
}

// NewView creates an empty view.
func NewView() *View {
	return &View{}
}

// Load fetches datasetID and replaces the snapshot. On failure the previous
// snapshot is kept and the error is returned for the caller to report.
func (v *View) Load(ctx context.Context, f Fetcher, datasetID string, limit int) error {
	snap, err := f.FetchDataset(ctx, datasetID, limit)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", datasetID, err)
	}
	v.Replace(snap)
	return nil
}

// Replace swaps in a new snapshot and recomputes the filtered projection.
// Row indices are renumbered positionally.
func (v *View) Replace(s Snapshot) {
	rows := make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		r.Index = i
		rows[i] = r
	}
	s.Rows = rows
	if len(s.Columns) == 0 {
		s.Columns = DeriveColumns(s.Rows)
	}
	v.source = s
	v.applyFilter()
}

// Snapshot returns the unfiltered snapshot.
func (v *View) Snapshot() Snapshot {
	return v.source
}

// SetFilter sets the search term. An empty term disables filtering.
func (v *View) SetFilter(term string) {
	if term == v.filter {
		return
	}
	v.filter = term
	v.applyFilter()
}

// Filter returns the active search term.
func (v *View) Filter() string {
	return v.filter
}

// Filtered returns the snapshot restricted to rows matching the filter.
// Rows keep their source Index.
func (v *View) Filtered() Snapshot {
	return v.filtered
}

func (v *View) applyFilter() {
	if v.filter == "" {
		v.filtered = v.source
		return
	}

	term := strings.ToLower(v.filter)
	rows := make([]Row, 0, len(v.source.Rows))
	for _, r := range v.source.Rows {
		if r.Matches(term) {
			rows = append(rows, r)
		}
	}

	v.filtered = Snapshot{
		DatasetID: v.source.DatasetID,
		Columns:   v.source.Columns,
		Rows:      rows,
		TotalRows: v.source.TotalRows,
	}
}

// HasRow reports whether index exists in the source snapshot.
func (v *View) HasRow(index int) bool {
	return index >= 0 && index < len(v.source.Rows)
}

// HasColumn reports whether key is a column of the source snapshot.
func (v *View) HasColumn(key string) bool {
	_, ok := v.source.Column(key)
	return ok
}

// RowIndices returns every source row index in ascending order.
func (v *View) RowIndices() []int {
	out := make([]int, len(v.source.Rows))
	for i := range v.source.Rows {
		out[i] = v.source.Rows[i].Index
	}
	return out
}

// ColumnKeys returns the source column keys in display order.
func (v *View) ColumnKeys() []string {
	out := make([]string, len(v.source.Columns))
	for i, c := range v.source.Columns {
		out[i] = c.Key
	}
	return out
}
