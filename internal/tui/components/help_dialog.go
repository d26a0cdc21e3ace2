// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/lingo/internal/core/styles"
)

// HelpEntry represents a single keyboard shortcut entry.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups related help entries under a title.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpDialog displays all available keyboard shortcuts. The sections are
// rendered as markdown tables with the active theme's glamour style.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
	rendered string
}

// NewHelpDialog creates a help dialog wrapped to width.
func NewHelpDialog(title string, sections []HelpDialogSection, width int) *HelpDialog {
	h := &HelpDialog{title: title, sections: sections}
	h.rendered = h.render(max(width, 20))
	return h
}

// Markdown returns the markdown source of the dialog body.
func (h *HelpDialog) Markdown() string {
	var b strings.Builder
	for i, section := range h.sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if section.Title != "" {
			fmt.Fprintf(&b, "## %s\n\n", section.Title)
		}
		b.WriteString("| Key | Action |\n|---|---|\n")
		for _, e := range section.Entries {
			fmt.Fprintf(&b, "| `%s` | %s |\n", e.Key, e.Desc)
		}
	}
	return b.String()
}

func (h *HelpDialog) render(width int) string {
	src := h.Markdown()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw help")
		return src
	}

	out, err := renderer.Render(src)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render help markdown, showing raw help")
		return src
	}
	return strings.Trim(out, "\n")
}

// View renders the help dialog.
func (h *HelpDialog) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		h.rendered,
		styles.ModalHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the help dialog centered over the given background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	modal := h.View()

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	modalLayer.X(max((width-modalW)/2, 0)).Y(max((height-modalH)/2, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
