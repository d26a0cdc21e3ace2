package backend

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/devserver"
)

func newTestClient(t *testing.T) (*Client, *devserver.Store) {
	t.Helper()

	store := devserver.NewStore()
	store.Seed("demo", 4)

	srv := devserver.New(store, devserver.Options{}, zerolog.Nop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	return New(ts.URL+"/", 5*time.Second, zerolog.Nop()), store
}

func TestClient_job_lifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	id, err := c.CreateJob(ctx, job.CreateRequest{DatasetID: "demo", Rows: []int{0, 1}, Columns: []string{"vi"}})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		p, err := c.Progress(ctx, id)
		return err == nil && p.Status == "completed"
	}, 2*time.Second, 10*time.Millisecond)

	p, err := c.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Processed)
	assert.Equal(t, 2, p.Total)

	require.NoError(t, c.Pause(ctx, id))
	require.NoError(t, c.Resume(ctx, id))

	snap, err := c.FetchDataset(ctx, "demo", 10)
	require.NoError(t, err)
	assert.Equal(t, "[vi] Welcome back", snap.Rows[0].Value("vi"))

	require.NoError(t, c.Undo(ctx, "demo"))
	require.NoError(t, c.Undo(ctx, "demo"))
	require.ErrorIs(t, c.Undo(ctx, "demo"), job.ErrNothingToUndo)
}

func TestClient_Progress_unknown_task(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Progress(context.Background(), "missing")
	require.ErrorIs(t, err, job.ErrTaskNotFound)
}

func TestClient_CreateJob_rejected(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.CreateJob(context.Background(), job.CreateRequest{DatasetID: "nope", Rows: []int{0}, Columns: []string{"en"}})

	var terr *job.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	assert.Contains(t, err.Error(), "Dataset not found")
}

func TestClient_FetchDataset(t *testing.T) {
	c, _ := newTestClient(t)

	snap, err := c.FetchDataset(context.Background(), "demo", 3)
	require.NoError(t, err)

	assert.Equal(t, "demo", snap.DatasetID)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, 4, snap.TotalRows)
	assert.Equal(t, []string{"id", "en", "vi", "note"}, snap.Rows[0].Keys())
	for i, r := range snap.Rows {
		assert.Equal(t, i, r.Index)
	}

	col, ok := snap.Column("en")
	require.True(t, ok)
	assert.Equal(t, "English", col.DisplayLabel())
}

func TestClient_Export(t *testing.T) {
	c, _ := newTestClient(t)

	var buf bytes.Buffer
	n, err := c.Export(context.Background(), "demo", &buf)
	require.NoError(t, err)

	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "id,en,vi,note\n")

	_, err = c.Export(context.Background(), "missing", &buf)
	require.Error(t, err)
}

func TestClient_missing_task_id(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(ts.Close)

	c := New(ts.URL, time.Second, zerolog.Nop())
	_, err := c.CreateJob(context.Background(), job.CreateRequest{DatasetID: "demo", Rows: []int{0}, Columns: []string{"en"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task_id")
}

func TestClient_unreachable_server(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(url, time.Second, zerolog.Nop())
	_, err := c.Progress(context.Background(), "task-1")

	var terr *job.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
	assert.NotErrorIs(t, err, job.ErrTaskNotFound)
}
