// Package backend is the HTTP client for the translation server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/lingo/internal/core/dataset"
	"github.com/colonyops/lingo/internal/core/job"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// Client talks to the translation server. It implements job.Backend and
// dataset.Fetcher.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var (
	_ job.Backend     = (*Client)(nil)
	_ dataset.Fetcher = (*Client)(nil)
)

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

type createResponse struct {
	TaskID string `json:"task_id"`
}

// CreateJob submits a translation job and returns its task id.
func (c *Client) CreateJob(ctx context.Context, req job.CreateRequest) (string, error) {
	var resp createResponse
	if err := c.do(ctx, "create job", http.MethodPost, "/translate", req, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", &job.TransportError{Op: "create job", Err: errors.New("response has no task_id")}
	}
	return resp.TaskID, nil
}

// Progress returns the server's view of a task. An unknown task is
// job.ErrTaskNotFound.
func (c *Client) Progress(ctx context.Context, taskID string) (job.Progress, error) {
	var p job.Progress
	err := c.do(ctx, "poll", http.MethodGet, "/progress/"+url.PathEscape(taskID), nil, &p)
	if statusCode(err) == http.StatusNotFound {
		return job.Progress{}, fmt.Errorf("poll %s: %w", taskID, job.ErrTaskNotFound)
	}
	return p, err
}

// Pause asks the server to suspend a task.
func (c *Client) Pause(ctx context.Context, taskID string) error {
	return c.do(ctx, "pause", http.MethodPost, "/pause/"+url.PathEscape(taskID), nil, nil)
}

// Resume asks the server to continue a suspended task.
func (c *Client) Resume(ctx context.Context, taskID string) error {
	return c.do(ctx, "resume", http.MethodPost, "/resume/"+url.PathEscape(taskID), nil, nil)
}

// Undo reverses the last applied batch for a dataset. The server answers
// 400 when its history is empty, which maps to job.ErrNothingToUndo.
func (c *Client) Undo(ctx context.Context, datasetID string) error {
	err := c.do(ctx, "undo", http.MethodPost, "/undo/"+url.PathEscape(datasetID), nil, nil)
	if statusCode(err) == http.StatusBadRequest {
		return job.ErrNothingToUndo
	}
	return err
}

type datasetResponse struct {
	Data      []dataset.Row    `json:"data"`
	TotalRows int              `json:"total_rows"`
	Columns   []dataset.Column `json:"columns"`
}

// FetchDataset returns up to limit rows of a dataset.
func (c *Client) FetchDataset(ctx context.Context, datasetID string, limit int) (dataset.Snapshot, error) {
	path := "/dataset/" + url.PathEscape(datasetID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp datasetResponse
	if err := c.do(ctx, "fetch dataset", http.MethodGet, path, nil, &resp); err != nil {
		return dataset.Snapshot{}, err
	}

	for i := range resp.Data {
		resp.Data[i].Index = i
	}
	total := resp.TotalRows
	if total == 0 {
		total = len(resp.Data)
	}

	return dataset.Snapshot{
		DatasetID: datasetID,
		Columns:   resp.Columns,
		Rows:      resp.Data,
		TotalRows: total,
	}, nil
}

// Export streams the CSV export of a dataset into w.
func (c *Client) Export(ctx context.Context, datasetID string, w io.Writer) (int64, error) {
	const op = "export"

	resp, err := c.send(ctx, op, http.MethodGet, "/export/"+url.PathEscape(datasetID), nil)
	if err != nil {
		return 0, err
	}
	defer c.closeBody(op, resp)

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &job.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer c.closeBody(op, resp)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &job.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// send performs the request and returns the response for 2xx statuses. Any
// other status is turned into a *job.TransportError carrying the body text.
func (c *Client) send(ctx context.Context, op, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &job.TransportError{Op: op, Err: err}
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer c.closeBody(op, resp)
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &job.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(errorDetail(detail, resp.Status)),
		}
	}

	return resp, nil
}

func (c *Client) closeBody(op string, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.log.Debug().Err(err).Str("op", op).Msg("close response body")
	}
}

// errorDetail extracts a FastAPI-style {"detail": "..."} message, falling
// back to the raw body or the status line.
func errorDetail(body []byte, status string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return status
}

func statusCode(err error) int {
	var terr *job.TransportError
	if errors.As(err, &terr) {
		return terr.StatusCode
	}
	return 0
}
