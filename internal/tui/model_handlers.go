package tui

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/core/notify"
	"github.com/colonyops/lingo/internal/core/selection"
	"github.com/colonyops/lingo/internal/tui/components"
)

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.search.SetWidth(max(msg.Width-4, 10))
	if m.showHelp {
		m.help = components.NewHelpDialog("Keys", m.keys.helpSections(), m.helpWidth())
	}
	m.grid.clamp(m.rowCount(), m.colCount(), m.visibleRows())
	return m, nil
}

func (m Model) handleDatasetLoaded(msg datasetLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq <= m.appliedSeq {
		return m, nil
	}
	if msg.seq == m.loadSeq {
		m.loading = false
	}

	if msg.err != nil {
		// The previous snapshot stays on screen.
		m.log.Warn().Err(msg.err).Uint64("seq", msg.seq).Msg("dataset fetch failed")
		return m, m.post(notify.Notification{Level: notify.LevelError, Message: "Failed to load dataset"})
	}

	m.appliedSeq = msg.seq
	m.view.Replace(msg.snap)
	m.sel.Prune()
	m.grid.clamp(m.rowCount(), m.colCount(), m.visibleRows())
	return m, nil
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.jobs.SubmitFailed(msg.err)
		return m, m.post(notify.Notification{Level: notify.LevelError, Message: "Failed to start translation"})
	}

	gen, ok := m.jobs.SubmitSucceeded(msg.taskID)
	if !ok {
		return m, nil
	}
	return m, tea.Batch(
		schedulePollTick(gen),
		m.post(notify.Notification{Level: notify.LevelInfo, Message: "Translation started"}),
	)
}

// handlePollTick issues one status request if the tick still belongs to the
// live chain. Stale ticks end their chain by scheduling nothing.
func (m Model) handlePollTick(msg pollTickMsg) (tea.Model, tea.Cmd) {
	if !m.jobs.ShouldPoll(msg.gen) {
		return m, nil
	}
	return m, m.pollProgress(msg.gen, m.jobs.TaskID())
}

func (m Model) handlePollResult(msg pollResultMsg) (tea.Model, tea.Cmd) {
	var out job.PollOutcome
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		out = m.jobs.PollFailed(msg.gen, msg.err)
	} else {
		out = m.jobs.ApplyPoll(msg.gen, msg.progress)
	}

	var cmds []tea.Cmd
	if out.Refresh {
		cmds = append(cmds, m.refresh())
	}
	if out.Notice != nil {
		cmds = append(cmds, m.post(*out.Notice))
	}
	if out.Continue {
		cmds = append(cmds, schedulePollTick(msg.gen))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleControlAck(msg controlAckMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The next applied poll corrects the provisional status.
		m.log.Warn().Err(msg.err).Str("op", msg.op).Str("task_id", msg.taskID).Msg("control request failed")
		return m, nil
	}
	m.log.Debug().Str("op", msg.op).Str("task_id", msg.taskID).Msg("control request acknowledged")
	return m, nil
}

func (m Model) handleUndoResult(msg undoResultMsg) (tea.Model, tea.Cmd) {
	out := m.jobs.UndoResult(msg.err)

	cmds := []tea.Cmd{m.post(out.Notice)}
	if out.Refresh {
		cmds = append(cmds, m.refresh())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSearchDebounce(msg searchDebounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.searchSeq {
		return m, nil
	}
	m.view.SetFilter(m.search.Value())
	m.grid.clamp(m.rowCount(), m.colCount(), m.visibleRows())
	return m, nil
}

func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// handleKey routes key presses by UI state: help overlay, search input, then
// the grid.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Dismiss, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	return m.handleGridKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.searchSeq++
		m.view.SetFilter("")
		m.grid.clamp(m.rowCount(), m.colCount(), m.visibleRows())
		return m, nil
	case "enter":
		// Keep the filter, leave the input.
		m.searching = false
		m.search.Blur()
		m.searchSeq++
		m.view.SetFilter(m.search.Value())
		m.grid.clamp(m.rowCount(), m.colCount(), m.visibleRows())
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	return m, tea.Batch(cmd, scheduleSearchDebounce(m.searchSeq, m.debounce))
}

func (m Model) handleGridKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	rows, cols, visible := m.rowCount(), m.colCount(), m.visibleRows()

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Help):
		m.showHelp = true
		m.help = components.NewHelpDialog("Keys", k.helpSections(), m.helpWidth())
		return m, nil
	case key.Matches(msg, k.Dismiss):
		m.notices.Dismiss()
		return m, nil
	case key.Matches(msg, k.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, k.Up):
		m.grid.moveRow(-1, rows, visible)
	case key.Matches(msg, k.Down):
		m.grid.moveRow(1, rows, visible)
	case key.Matches(msg, k.Left):
		m.grid.moveCol(-1, cols)
	case key.Matches(msg, k.Right):
		m.grid.moveCol(1, cols)
	case key.Matches(msg, k.Top):
		m.grid.moveRow(-rows, rows, visible)
	case key.Matches(msg, k.End):
		m.grid.moveRow(rows, rows, visible)

	case key.Matches(msg, k.ToggleCell):
		if c, ok := m.cursorCell(); ok {
			m.sel.ToggleCell(c.Row, c.Col)
		}
	case key.Matches(msg, k.ToggleRow):
		if c, ok := m.cursorCell(); ok {
			m.sel.ToggleRow(c.Row)
		}
	case key.Matches(msg, k.ToggleCol):
		if c, ok := m.cursorCell(); ok {
			m.sel.ToggleCol(c.Col)
		}
	case key.Matches(msg, k.ToggleMaster):
		m.sel.ToggleMaster()
	case key.Matches(msg, k.Clear):
		m.sel.Clear()
	case key.Matches(msg, k.Expand):
		if c, ok := m.cursorCell(); ok {
			m.sel.ToggleExpand(c)
		}

	case key.Matches(msg, k.Translate):
		return m.translate()
	case key.Matches(msg, k.PauseResume):
		return m.pauseOrResume()
	case key.Matches(msg, k.Undo):
		return m.undo()
	case key.Matches(msg, k.Refresh):
		if m.datasetID == "" {
			return m, nil
		}
		return m, m.refresh()
	}

	return m, nil
}

// translate resolves the selection and submits it. Validation failures are
// reported without any network call.
func (m Model) translate() (tea.Model, tea.Cmd) {
	targets, err := m.sel.Targets()
	if err != nil {
		return m, m.post(notify.Notification{Level: notify.LevelWarning, Message: validationMessage("translate", err)})
	}

	req, err := m.jobs.BeginSubmit(m.datasetID, targets)
	if err != nil {
		return m, m.post(notify.Notification{Level: notify.LevelWarning, Message: validationMessage("translate", err)})
	}

	return m, m.submitJob(req)
}

func (m Model) pauseOrResume() (tea.Model, tea.Cmd) {
	if id, ok := m.jobs.Resume(); ok {
		return m, m.sendControl("resume", id, m.backend.Resume)
	}
	if id, ok := m.jobs.Pause(); ok {
		return m, m.sendControl("pause", id, m.backend.Pause)
	}
	return m, nil
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	if err := m.jobs.BeginUndo(m.datasetID); err != nil {
		return m, m.post(notify.Notification{Level: notify.LevelWarning, Message: validationMessage("undo", err)})
	}
	return m, m.requestUndo()
}

// cursorCell returns the source coordinates under the cursor.
func (m Model) cursorCell() (selection.Cell, bool) {
	snap := m.view.Filtered()
	if m.grid.row < 0 || m.grid.row >= len(snap.Rows) || m.grid.col < 0 || m.grid.col >= len(snap.Columns) {
		return selection.Cell{}, false
	}
	return selection.Cell{Row: snap.Rows[m.grid.row].Index, Col: snap.Columns[m.grid.col].Key}, true
}

func (m Model) rowCount() int { return len(m.view.Filtered().Rows) }
func (m Model) colCount() int { return len(m.view.Filtered().Columns) }

func (m Model) helpWidth() int {
	return min(max(m.width-10, 30), 70)
}

func validationMessage(action string, err error) string {
	var selErr *selection.ValidationError
	if errors.As(err, &selErr) {
		return "Cannot " + action + ": " + selErr.Reason
	}
	var jobErr *job.ValidationError
	if errors.As(err, &jobErr) {
		return "Cannot " + action + ": " + jobErr.Reason
	}
	return err.Error()
}
