package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/lingo/internal/tui/components"
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Top   key.Binding
	End   key.Binding

	ToggleCell   key.Binding
	ToggleRow    key.Binding
	ToggleCol    key.Binding
	ToggleMaster key.Binding
	Clear        key.Binding
	Expand       key.Binding

	Translate   key.Binding
	PauseResume key.Binding
	Undo        key.Binding
	Refresh     key.Binding

	Search  key.Binding
	Help    key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Top:   key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		End:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),

		ToggleCell:   key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle cell")),
		ToggleRow:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle row")),
		ToggleCol:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle column")),
		ToggleMaster: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all / none")),
		Clear:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
		Expand:       key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "wrap cell")),

		Translate:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "translate selection")),
		PauseResume: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause / resume")),
		Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo last change")),
		Refresh:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload dataset")),

		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss message")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func helpEntries(bindings ...key.Binding) []components.HelpEntry {
	entries := make([]components.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		entries = append(entries, components.HelpEntry{Key: h.Key, Desc: h.Desc})
	}
	return entries
}

func (k keyMap) helpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{Title: "Navigation", Entries: helpEntries(k.Up, k.Down, k.Left, k.Right, k.Top, k.End)},
		{Title: "Selection", Entries: helpEntries(k.ToggleCell, k.ToggleRow, k.ToggleCol, k.ToggleMaster, k.Clear, k.Expand)},
		{Title: "Translation", Entries: helpEntries(k.Translate, k.PauseResume, k.Undo, k.Refresh)},
		{Title: "General", Entries: helpEntries(k.Search, k.Help, k.Dismiss, k.Quit)},
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.ToggleCell, k.ToggleRow, k.ToggleCol, k.Translate, k.PauseResume, k.Undo, k.Search, k.Help}
}
