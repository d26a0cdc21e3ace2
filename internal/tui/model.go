// Package tui implements the lingo terminal UI: a dataset grid with
// row, column and cell selection, and the lifecycle of one translation job.
//
// The Bubble Tea Update loop is the only place selection, dataset, job and
// notification state change. Network calls run as commands and report back
// as messages.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/lingo/internal/core/dataset"
	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/core/notify"
	"github.com/colonyops/lingo/internal/core/selection"
	"github.com/colonyops/lingo/internal/core/styles"
	"github.com/colonyops/lingo/internal/tui/components"
	"github.com/colonyops/lingo/pkg/logutils"
)

// Backend is the server surface the TUI needs.
type Backend interface {
	job.Backend
	dataset.Fetcher
}

// Options configure a Model.
type Options struct {
	DatasetID      string
	Backend        Backend
	RowLimit       int
	MaxFailures    int
	SearchDebounce time.Duration
	Logger         zerolog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	datasetID string
	backend   Backend
	rowLimit  int
	log       zerolog.Logger

	view    *dataset.View
	sel     *selection.Model
	jobs    *job.Controller
	notices *notify.Channel

	keys    keyMap
	spinner spinner.Model
	help    *components.HelpDialog

	search    textinput.Model
	searching bool
	searchSeq uint64
	debounce  time.Duration

	// loadSeq numbers fetch requests; appliedSeq is the newest one applied.
	loadSeq    uint64
	appliedSeq uint64
	loading    bool

	grid gridState

	width    int
	height   int
	showHelp bool
	quitting bool
}

// New creates the root model.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	view := dataset.NewView()

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search rows"
	search.CharLimit = 200
	searchStyles := textinput.DefaultStyles(true)
	searchStyles.Focused.Prompt = styles.SearchPromptStyle
	searchStyles.Cursor.Color = styles.ColorPrimary
	search.SetStyles(searchStyles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusStyle

	m := Model{
		ctx:       ctx,
		cancel:    cancel,
		datasetID: opts.DatasetID,
		backend:   opts.Backend,
		rowLimit:  opts.RowLimit,
		log:       logutils.Component(opts.Logger, "tui"),
		view:      view,
		sel:       selection.New(view),
		jobs:      job.NewController(opts.MaxFailures, logutils.Component(opts.Logger, "job")),
		notices:   notify.NewChannel(),
		keys:      defaultKeyMap(),
		spinner:   sp,
		search:    search,
		debounce:  opts.SearchDebounce,
	}
	if m.datasetID != "" {
		m.loadSeq = 1
		m.loading = true
	}
	return m
}

// Init starts the first dataset load.
func (m Model) Init() tea.Cmd {
	if m.datasetID == "" {
		return nil
	}
	return tea.Batch(m.fetchDataset(m.loadSeq), m.spinner.Tick)
}

// Update is the single mutator of all UI state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	// Results
	case datasetLoadedMsg:
		return m.handleDatasetLoaded(msg)
	case submitResultMsg:
		return m.handleSubmitResult(msg)
	case pollTickMsg:
		return m.handlePollTick(msg)
	case pollResultMsg:
		return m.handlePollResult(msg)
	case controlAckMsg:
		return m.handleControlAck(msg)
	case undoResultMsg:
		return m.handleUndoResult(msg)

	// Timers
	case noticeExpiredMsg:
		m.notices.Expire(msg.seq)
		return m, nil
	case searchDebounceMsg:
		return m.handleSearchDebounce(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	// Input
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// quit invalidates the poll chain and cancels in-flight requests.
func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.jobs.Stop()
	m.cancel()
	return m, tea.Quit
}

// post shows a notification and schedules its expiry.
func (m Model) post(n notify.Notification) tea.Cmd {
	return scheduleNoticeExpiry(m.notices.Post(n))
}

// refresh starts a dataset fetch.
func (m *Model) refresh() tea.Cmd {
	m.loadSeq++
	m.loading = true
	return m.fetchDataset(m.loadSeq)
}
