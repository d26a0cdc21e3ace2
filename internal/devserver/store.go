package devserver

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/colonyops/lingo/internal/core/dataset"
)

// change is one applied cell write, kept so it can be reverted.
type change struct {
	Row int
	Col string
	Old string
	New string
}

type record struct {
	columns []dataset.Column
	rows    []dataset.Row
	history []change
}

// Store is an in-memory dataset store with per-dataset write history.
type Store struct {
	mu       sync.Mutex
	datasets map[string]*record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{datasets: make(map[string]*record)}
}

// Put creates or replaces a dataset. Columns are derived from the rows when
// none are given.
func (s *Store) Put(id string, columns []dataset.Column, rows []dataset.Row) {
	if len(columns) == 0 {
		columns = dataset.DeriveColumns(rows)
	}

	cp := make([]dataset.Row, len(rows))
	for i, r := range rows {
		cp[i] = r.Clone()
		cp[i].Index = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[id] = &record{columns: append([]dataset.Column(nil), columns...), rows: cp}
}

// Has reports whether dataset id exists.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.datasets[id]
	return ok
}

// Page returns copies of the first limit rows of a dataset along with its
// columns and total row count. A limit below 1 returns every row.
func (s *Store) Page(id string, limit int) ([]dataset.Row, []dataset.Column, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.datasets[id]
	if !ok {
		return nil, nil, 0, false
	}

	n := len(rec.rows)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([]dataset.Row, n)
	for i := range n {
		rows[i] = rec.rows[i].Clone()
	}
	return rows, append([]dataset.Column(nil), rec.columns...), len(rec.rows), true
}

// Value returns one cell of a dataset.
func (s *Store) Value(id string, row int, col string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.datasets[id]
	if !ok || row < 0 || row >= len(rec.rows) {
		return "", false
	}
	return rec.rows[row].Value(col), true
}

// Update writes one cell and records the previous value in the history.
func (s *Store) Update(id string, row int, col, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.datasets[id]
	if !ok || row < 0 || row >= len(rec.rows) {
		return false
	}

	r := &rec.rows[row]
	rec.history = append(rec.history, change{Row: row, Col: col, Old: r.Value(col), New: value})
	r.Set(col, value)
	return true
}

// Undo reverts the most recent write of a dataset. It returns false when the
// history is empty.
func (s *Store) Undo(id string) (change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.datasets[id]
	if !ok || len(rec.history) == 0 {
		return change{}, false
	}

	last := rec.history[len(rec.history)-1]
	rec.history = rec.history[:len(rec.history)-1]
	rec.rows[last.Row].Set(last.Col, last.Old)
	return last, true
}

// WriteCSV writes a dataset as CSV with a header row of column keys.
func (s *Store) WriteCSV(id string, w io.Writer) error {
	rows, cols, _, ok := s.Page(id, 0)
	if !ok {
		return fmt.Errorf("dataset %s: %w", id, errDatasetNotFound)
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			line[i] = r.Value(c.Key)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Seed fills a dataset with n generated rows of short English phrases,
// an empty target column and a numeric id.
func (s *Store) Seed(id string, n int) {
	phrases := []string{
		"Welcome back",
		"Save changes",
		"Your order has shipped",
		"Invalid password",
		"Settings",
		"Sign out",
		"Try again later",
		"New message",
	}

	cols := []dataset.Column{
		{Key: "id", Label: "ID", Width: "80px"},
		{Key: "en", Label: "English", Editable: true, Width: "300px"},
		{Key: "vi", Label: "Vietnamese", Editable: true, Width: "300px"},
		{Key: "note", Label: "Note", Editable: true, Width: "150px"},
	}

	rows := make([]dataset.Row, n)
	for i := range n {
		rows[i] = dataset.NewRow(i,
			[]string{"id", "en", "vi", "note"},
			[]string{strconv.Itoa(i + 1), phrases[i%len(phrases)], "", ""},
		)
	}

	s.Put(id, cols, rows)
}
