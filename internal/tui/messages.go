package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/lingo/internal/core/dataset"
	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/core/notify"
)

// datasetLoadedMsg carries a fetch result. seq orders overlapping fetches.
type datasetLoadedMsg struct {
	seq  uint64
	snap dataset.Snapshot
	err  error
}

type submitResultMsg struct {
	taskID string
	err    error
}

// pollTickMsg fires once per poll interval for the chain started with gen.
type pollTickMsg struct {
	gen uint64
}

type pollResultMsg struct {
	gen      uint64
	progress job.Progress
	err      error
}

// controlAckMsg reports the server's answer to a pause or resume request.
type controlAckMsg struct {
	op     string
	taskID string
	err    error
}

type undoResultMsg struct {
	err error
}

type noticeExpiredMsg struct {
	seq uint64
}

type searchDebounceMsg struct {
	seq uint64
}

func (m Model) fetchDataset(seq uint64) tea.Cmd {
	ctx, backend, id, limit := m.ctx, m.backend, m.datasetID, m.rowLimit
	return func() tea.Msg {
		snap, err := backend.FetchDataset(ctx, id, limit)
		return datasetLoadedMsg{seq: seq, snap: snap, err: err}
	}
}

func (m Model) submitJob(req job.CreateRequest) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		id, err := backend.CreateJob(ctx, req)
		return submitResultMsg{taskID: id, err: err}
	}
}

func schedulePollTick(gen uint64) tea.Cmd {
	return tea.Tick(job.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (m Model) pollProgress(gen uint64, taskID string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		p, err := backend.Progress(ctx, taskID)
		return pollResultMsg{gen: gen, progress: p, err: err}
	}
}

func (m Model) sendControl(op, taskID string, send func(context.Context, string) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return controlAckMsg{op: op, taskID: taskID, err: send(ctx, taskID)}
	}
}

func (m Model) requestUndo() tea.Cmd {
	ctx, backend, id := m.ctx, m.backend, m.datasetID
	return func() tea.Msg {
		return undoResultMsg{err: backend.Undo(ctx, id)}
	}
}

func scheduleNoticeExpiry(seq uint64) tea.Cmd {
	return tea.Tick(notify.DisplayDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func scheduleSearchDebounce(seq uint64, d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return searchDebounceMsg{seq: seq} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}
