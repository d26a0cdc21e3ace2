package devserver

import (
	"context"
	"strings"
	"time"

	"github.com/colonyops/lingo/internal/core/job"
)

// Translator turns one cell value into its translation.
type Translator func(text string) string

// PrefixTranslator returns a Translator that tags non-empty text with
// "[lang] ". Already tagged text is returned unchanged.
func PrefixTranslator(lang string) Translator {
	tag := "[" + lang + "] "
	return func(text string) string {
		if text == "" || strings.HasPrefix(text, tag) {
			return text
		}
		return tag + text
	}
}

type workItem struct {
	row int
	col string
}

// run processes every row/column pair of a task in row-major order. Paused
// tasks wait without consuming items. Progress is written after each item.
func (s *Server) run(ctx context.Context, id, datasetID string, items []workItem) {
	defer s.wg.Done()

	log := s.log.With().Str("task_id", id).Str("dataset_id", datasetID).Logger()
	log.Info().Int("items", len(items)).Msg("task started")

	processed := 0
	for processed < len(items) {
		status, ok := s.tracker.Status(id)
		if !ok || status.Terminal() {
			return
		}
		if status == job.StatusPaused {
			if !sleep(ctx, s.pauseCheck) {
				log.Info().Msg("task interrupted while paused")
				return
			}
			continue
		}

		if !sleep(ctx, s.itemDelay) {
			log.Info().Int("processed", processed).Msg("task interrupted")
			return
		}

		s.apply(datasetID, items[processed])

		processed++
		s.tracker.Advance(id, processed)
	}

	s.tracker.Finish(id, job.StatusCompleted)
	log.Info().Int("processed", processed).Msg("task completed")
}

// apply translates one cell in place. Empty cells are filled from the
// source column.
func (s *Server) apply(datasetID string, it workItem) {
	current, ok := s.store.Value(datasetID, it.row, it.col)
	if !ok {
		return
	}
	text := current
	if text == "" && s.source != "" && s.source != it.col {
		text, _ = s.store.Value(datasetID, it.row, s.source)
	}
	if out := s.translate(text); out != current {
		s.store.Update(datasetID, it.row, it.col, out)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
