package tui

import (
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/core/notify"
	"github.com/colonyops/lingo/internal/core/styles"
	"github.com/colonyops/lingo/internal/tui/components"
)

const progressBarWidth = 20

// View renders the TUI.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.quitting {
		return ""
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	lines := []string{
		m.renderHeader(w),
		styles.MutedStyle.Render(strings.Repeat("─", w)),
	}

	gridHeight := m.visibleRows() + 1
	grid := lipgloss.NewStyle().Height(gridHeight).MaxHeight(gridHeight).Render(m.renderGrid(w, gridHeight))
	lines = append(lines, grid)

	if m.searching {
		lines = append(lines, m.search.View())
	}
	lines = append(lines, m.renderFooter(w))

	content := strings.Join(lines, "\n")

	if n, ok := m.notices.Current(); ok {
		content = noticeOverlay(content, n, w, h)
	}
	if m.showHelp && m.help != nil {
		content = m.help.Overlay(content, w, h)
	}
	return content
}

func (m Model) renderHeader(width int) string {
	parts := []string{styles.TitleStyle.Render("lingo")}

	if m.datasetID != "" {
		parts = append(parts, styles.FooterKeyStyle.Render(m.datasetID))
	}

	status := m.jobs.Status()
	if m.loading || status == job.StatusSubmitting {
		parts = append(parts, m.spinner.View())
	}

	if status != job.StatusIdle {
		parts = append(parts, styles.StatusStyle.Render(string(status)))
	}

	j := m.jobs.Job()
	if j.Total > 0 && status != job.StatusSubmitting {
		pct := j.Percent()
		parts = append(parts,
			progressBar(pct, progressBarWidth, status == job.StatusPaused),
			fmt.Sprintf("%3.0f%%", pct),
			styles.MutedStyle.Render(fmt.Sprintf("%d/%d", j.Processed, j.Total)),
		)
	}

	header := strings.Join(parts, " ")
	return lipgloss.NewStyle().MaxWidth(width).Render(header)
}

// progressBar draws pct as a bar of width cells. Values outside 0..100 are
// clamped for drawing only.
func progressBar(pct float64, width int, paused bool) string {
	filled := int(math.Round(pct / 100 * float64(width)))
	filled = max(min(filled, width), 0)

	fill := styles.ProgressFillStyle
	if paused {
		fill = styles.ProgressPauseStyle
	}
	return fill.Render(strings.Repeat("█", filled)) +
		styles.ProgressTrackStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderFooter(width int) string {
	filtered := m.view.Filtered()
	all := m.view.Snapshot()

	stats := fmt.Sprintf("rows %d/%d", len(filtered.Rows), all.TotalRows)
	if f := m.view.Filter(); f != "" {
		stats += fmt.Sprintf(" · filter %q", f)
	}
	if n := m.sel.Count(len(all.Rows), len(all.Columns)); n > 0 {
		stats += fmt.Sprintf(" · %d cells selected", n)
	}

	keys := make([]string, 0, len(m.keys.shortHelp()))
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		keys = append(keys, styles.FooterKeyStyle.Render(h.Key)+" "+h.Desc)
	}

	footer := styles.FooterStyle.Render(stats + "  " + strings.Join(keys, "  "))
	return components.Fit(footer, width)
}

func noticeOverlay(background string, n notify.Notification, width, height int) string {
	style := styles.NoticeInfoStyle
	switch n.Level {
	case notify.LevelError:
		style = styles.NoticeErrorStyle
	case notify.LevelWarning:
		style = styles.NoticeWarningStyle
	}

	box := style.Render(n.Message)

	bgLayer := lipgloss.NewLayer(background)
	noticeLayer := lipgloss.NewLayer(box)

	x := max(width-lipgloss.Width(box)-1, 0)
	y := max(height-lipgloss.Height(box)-1, 0)
	noticeLayer.X(x).Y(y).Z(2)

	return lipgloss.NewCompositor(bgLayer, noticeLayer).Render()
}
