package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lingo/internal/core/job"
)

func newTestServer(t *testing.T, opts Options) (*Store, *httptest.Server) {
	t.Helper()

	store := NewStore()
	store.Seed("demo", 5)

	srv := New(store, opts, zerolog.Nop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return store, ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	resp, err := http.Post(url, "application/json", r)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func startTask(t *testing.T, ts *httptest.Server, rows []int, cols []string) string {
	t.Helper()

	resp := post(t, ts.URL+"/translate", job.CreateRequest{DatasetID: "demo", Rows: rows, Columns: cols})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[map[string]string](t, resp)
	require.NotEmpty(t, out["task_id"])
	return out["task_id"]
}

func progress(t *testing.T, ts *httptest.Server, id string) job.Progress {
	t.Helper()

	resp := get(t, ts.URL+"/progress/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[job.Progress](t, resp)
}

func TestServer_translate_runs_to_completion(t *testing.T) {
	store, ts := newTestServer(t, Options{})

	id := startTask(t, ts, []int{0, 1}, []string{"vi", "en"})

	require.Eventually(t, func() bool {
		return progress(t, ts, id).Status == string(job.StatusCompleted)
	}, 2*time.Second, 10*time.Millisecond)

	p := progress(t, ts, id)
	assert.Equal(t, 4, p.Processed)
	assert.Equal(t, 4, p.Total)

	vi, _ := store.Value("demo", 0, "vi")
	assert.Equal(t, "[vi] Welcome back", vi, "empty target filled from source")
	en, _ := store.Value("demo", 1, "en")
	assert.Equal(t, "[vi] Save changes", en)
	untouched, _ := store.Value("demo", 2, "vi")
	assert.Empty(t, untouched)
}

func TestServer_pause_and_resume(t *testing.T) {
	_, ts := newTestServer(t, Options{ItemDelay: 20 * time.Millisecond, PauseCheck: 5 * time.Millisecond})

	id := startTask(t, ts, []int{0, 1, 2, 3, 4}, []string{"en", "vi"})

	resp := post(t, ts.URL+"/pause/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(job.StatusPaused), progress(t, ts, id).Status)

	// At most one in-flight item lands after the pause.
	time.Sleep(60 * time.Millisecond)
	before := progress(t, ts, id).Processed
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, before, progress(t, ts, id).Processed)

	resp = post(t, ts.URL+"/resume/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		return progress(t, ts, id).Status == string(job.StatusCompleted)
	}, 2*time.Second, 10*time.Millisecond)

	// Resuming a finished task keeps it completed.
	post(t, ts.URL+"/resume/"+id, nil)
	assert.Equal(t, string(job.StatusCompleted), progress(t, ts, id).Status)
}

func TestServer_translate_validation(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	tests := []struct {
		name string
		req  job.CreateRequest
		want int
	}{
		{"unknown dataset", job.CreateRequest{DatasetID: "nope", Rows: []int{0}, Columns: []string{"en"}}, http.StatusNotFound},
		{"no rows", job.CreateRequest{DatasetID: "demo", Columns: []string{"en"}}, http.StatusBadRequest},
		{"no columns", job.CreateRequest{DatasetID: "demo", Rows: []int{0}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/translate", tt.req)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestServer_unknown_task(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/progress/missing").StatusCode)
	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/pause/missing", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/resume/missing", nil).StatusCode)
}

func TestServer_undo(t *testing.T) {
	store, ts := newTestServer(t, Options{})

	resp := post(t, ts.URL+"/undo/demo", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Nothing to undo", decode[map[string]string](t, resp)["detail"])

	store.Update("demo", 3, "vi", "xin chao")

	resp = post(t, ts.URL+"/undo/demo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v, _ := store.Value("demo", 3, "vi")
	assert.Empty(t, v)

	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/undo/missing", nil).StatusCode)
}

func TestServer_dataset_limit(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := get(t, ts.URL+"/dataset/demo?limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decode[struct {
		Data      []map[string]string `json:"data"`
		TotalRows int                 `json:"total_rows"`
	}](t, resp)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 5, page.TotalRows)
	assert.Equal(t, "Welcome back", page.Data[0]["en"])

	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/dataset/demo?limit=zero").StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/dataset/missing").StatusCode)
}

func TestServer_export(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := get(t, ts.URL+"/export/demo")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "id,en,vi,note\n1,Welcome back,,\n")
}
