// Package dataset holds the client-side copy of a remote tabular dataset.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// pixelsPerCell converts CSS pixel widths to terminal cells.
const pixelsPerCell = 10

// Column describes one dataset column.
type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Editable bool   `json:"editable"`
	Width    string `json:"width,omitempty"`
}

// DisplayLabel returns Label, falling back to Key.
func (c Column) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// CellWidth converts Width to terminal cells. Width is either a bare cell
// count ("24") or a pixel size ("150px"). ok is false when no usable width
// was sent.
func (c Column) CellWidth() (cells int, ok bool) {
	w := strings.TrimSpace(c.Width)
	px := strings.HasSuffix(w, "px")
	n, err := strconv.Atoi(strings.TrimSuffix(w, "px"))
	if err != nil || n <= 0 {
		return 0, false
	}
	if px {
		n = max(n/pixelsPerCell, 1)
	}
	return n, true
}

// Row is an ordered record keyed by column key. Index is the row's position
// in the source snapshot and is the unit of selection and targeting.
type Row struct {
	Index  int
	keys   []string
	values map[string]string
}

// NewRow builds a row from parallel key and value slices.
func NewRow(index int, keys, values []string) Row {
	r := Row{
		Index:  index,
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]string, len(keys)),
	}
	for i, k := range keys {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.Set(k, v)
	}
	return r
}

// Keys returns the row's field keys in wire order.
func (r Row) Keys() []string {
	return r.keys
}

// Value returns the string form of the field k, or "" when absent.
func (r Row) Value(k string) string {
	return r.values[k]
}

// Set assigns a field, appending the key if it is new.
func (r *Row) Set(k, v string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

// Clone returns a deep copy of r.
func (r Row) Clone() Row {
	out := Row{
		Index:  r.Index,
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]string, len(r.values)),
	}
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Matches reports whether any field contains term, ignoring case. term must
// already be lower-cased.
func (r Row) Matches(term string) bool {
	for _, k := range r.keys {
		if strings.Contains(strings.ToLower(r.values[k]), term) {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes a JSON object preserving key order. Scalars keep
// their JSON text (numbers, booleans), strings are unquoted, null becomes "",
// and nested values are kept as compact JSON.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode row: expected object, got %v", tok)
	}

	*r = Row{Index: r.Index}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode row key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode row: unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode row field %q: %w", key, err)
		}
		r.Set(key, rawString(raw))
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

// MarshalJSON encodes the row as an object in key order with string values.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rawString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case trimmed[0] == '{' || trimmed[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	}
	return string(trimmed)
}

// Snapshot is one fetched copy of a dataset. Snapshots are replaced
// wholesale, never patched.
type Snapshot struct {
	DatasetID string
	Columns   []Column
	Rows      []Row
	// TotalRows is the server-side row count; it can exceed len(Rows) when
	// the fetch was limited.
	TotalRows int
}

// Len returns the number of rows held.
func (s Snapshot) Len() int {
	return len(s.Rows)
}

// Column returns the column with key k.
func (s Snapshot) Column(k string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Key == k {
			return c, true
		}
	}
	return Column{}, false
}

// DeriveColumns builds editable columns from the first-seen key order of
// rows. It is used when the backend does not describe its columns.
func DeriveColumns(rows []Row) []Column {
	seen := make(map[string]struct{})
	var cols []Column
	for _, r := range rows {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, Column{Key: k, Label: k, Editable: true})
		}
	}
	return cols
}
