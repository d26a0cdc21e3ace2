package devserver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lingo/internal/core/dataset"
)

func TestStore_Undo_reverts_last_write(t *testing.T) {
	s := NewStore()
	s.Put("ds", nil, []dataset.Row{
		dataset.NewRow(0, []string{"en", "vi"}, []string{"Hello", ""}),
	})

	require.True(t, s.Update("ds", 0, "vi", "first"))
	require.True(t, s.Update("ds", 0, "vi", "second"))

	c, ok := s.Undo("ds")
	require.True(t, ok)
	assert.Equal(t, change{Row: 0, Col: "vi", Old: "first", New: "second"}, c)

	v, _ := s.Value("ds", 0, "vi")
	assert.Equal(t, "first", v)

	_, ok = s.Undo("ds")
	require.True(t, ok)
	v, _ = s.Value("ds", 0, "vi")
	assert.Empty(t, v)

	_, ok = s.Undo("ds")
	assert.False(t, ok, "history is empty")
}

func TestStore_Update_out_of_range(t *testing.T) {
	s := NewStore()
	s.Seed("ds", 2)

	assert.False(t, s.Update("ds", 5, "vi", "x"))
	assert.False(t, s.Update("missing", 0, "vi", "x"))

	_, ok := s.Undo("ds")
	assert.False(t, ok)
}

func TestStore_Page(t *testing.T) {
	s := NewStore()
	s.Seed("ds", 5)

	rows, cols, total, ok := s.Page("ds", 2)
	require.True(t, ok)
	assert.Len(t, rows, 2)
	assert.Equal(t, 5, total)
	assert.Equal(t, "id", cols[0].Key)

	rows[0].Set("en", "mutated")
	v, _ := s.Value("ds", 0, "en")
	assert.Equal(t, "Welcome back", v, "page rows are copies")

	_, _, _, ok = s.Page("missing", 1)
	assert.False(t, ok)
}

func TestStore_WriteCSV(t *testing.T) {
	s := NewStore()
	s.Put("ds", nil, []dataset.Row{
		dataset.NewRow(0, []string{"id", "en"}, []string{"1", "Hello, world"}),
		dataset.NewRow(1, []string{"id", "en"}, []string{"2", "Bye"}),
	})

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV("ds", &buf))
	assert.Equal(t, "id,en\n1,\"Hello, world\"\n2,Bye\n", buf.String())

	require.ErrorIs(t, s.WriteCSV("missing", &buf), errDatasetNotFound)
}

func TestPrefixTranslator(t *testing.T) {
	tr := PrefixTranslator("vi")

	assert.Equal(t, "[vi] Hello", tr("Hello"))
	assert.Equal(t, "[vi] Hello", tr("[vi] Hello"))
	assert.Empty(t, tr(""))
}
