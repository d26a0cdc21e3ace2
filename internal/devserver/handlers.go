package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/colonyops/lingo/internal/core/dataset"
	"github.com/colonyops/lingo/internal/core/job"
)

// defaultPageLimit matches the real server when no limit is sent.
const defaultPageLimit = 100

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req job.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.store.Has(req.DatasetID) {
		s.writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if len(req.Rows) == 0 || len(req.Columns) == 0 {
		s.writeError(w, http.StatusBadRequest, "rows and columns are required")
		return
	}

	items := make([]workItem, 0, len(req.Rows)*len(req.Columns))
	for _, row := range req.Rows {
		for _, col := range req.Columns {
			items = append(items, workItem{row: row, col: col})
		}
	}

	id := uuid.NewString()
	s.tracker.Init(id, req.DatasetID, len(items))

	s.wg.Add(1)
	go s.run(s.ctx, id, req.DatasetID, items)

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Translation started",
		"task_id": id,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, ok := s.tracker.Progress(chi.URLParam(r, "taskID"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, chi.URLParam(r, "taskID"), job.StatusPaused, "Task paused")
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, chi.URLParam(r, "taskID"), job.StatusRunning, "Task resumed")
}

func (s *Server) setStatus(w http.ResponseWriter, id string, status job.Status, msg string) {
	if _, ok := s.tracker.Status(id); !ok {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	// Finished tasks keep their terminal status.
	s.tracker.SetStatus(id, status)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")
	if !s.store.Has(id) {
		s.writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}

	c, ok := s.store.Undo(id)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Nothing to undo")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"row_idx": c.Row,
		"col_key": c.Col,
		"value":   c.Old,
	})
}

type datasetPage struct {
	Data      []dataset.Row    `json:"data"`
	TotalRows int              `json:"total_rows"`
	Columns   []dataset.Column `json:"columns"`
	Limit     int              `json:"limit"`
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	limit := defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, cols, total, ok := s.store.Page(chi.URLParam(r, "datasetID"), limit)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if rows == nil {
		rows = []dataset.Row{}
	}

	s.writeJSON(w, http.StatusOK, datasetPage{
		Data:      rows,
		TotalRows: total,
		Columns:   cols,
		Limit:     limit,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")
	if !s.store.Has(id) {
		s.writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_translated.csv", id))
	if err := s.store.WriteCSV(id, w); err != nil {
		s.log.Error().Err(err).Str("dataset_id", id).Msg("export failed")
	}
}

// writeError writes a {"detail": message} error body.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"detail": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("json encode error")
	}
}
