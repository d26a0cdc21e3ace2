package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/lingo/pkg/tuitest"
)

func TestPad(t *testing.T) {
	assert.Empty(t, Pad(0))
	assert.Empty(t, Pad(-3))
	assert.Equal(t, "   ", Pad(3))
	assert.Len(t, Pad(250), 250)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"pads short text", "abc", 6, "abc   "},
		{"exact width", "abcdef", 6, "abcdef"},
		{"truncates with ellipsis", "abcdefgh", 6, "abcde…"},
		{"flattens newlines", "a\nb", 4, "a b "},
		{"zero width", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fit(tt.in, tt.width))
		})
	}
}

func TestHelpDialog_Markdown(t *testing.T) {
	h := NewHelpDialog("Help", []HelpDialogSection{
		{Title: "Selection", Entries: []HelpEntry{{Key: "space", Desc: "toggle cell"}}},
		{Title: "Jobs", Entries: []HelpEntry{{Key: "t", Desc: "translate"}}},
	}, 60)

	md := h.Markdown()
	assert.Contains(t, md, "## Selection")
	assert.Contains(t, md, "| `space` | toggle cell |")
	assert.Contains(t, md, "## Jobs")

	view := tuitest.StripANSI(h.View())
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "toggle cell")
	assert.True(t, strings.Contains(view, "esc/? close"))
}
