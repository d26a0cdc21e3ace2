package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

const maxCachedPad = 200

var (
	padCache [maxCachedPad + 1]string
	padOnce  sync.Once
)

// Pad returns a string of n spaces. Widths up to 200 are cached.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n > maxCachedPad {
		return strings.Repeat(" ", n)
	}
	padOnce.Do(func() {
		for i := range padCache {
			padCache[i] = strings.Repeat(" ", i)
		}
	})
	return padCache[n]
}

// Fit truncates s to width display cells, marking cut text with an ellipsis,
// and pads it with spaces to exactly width. Newlines are flattened.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	s = ansi.Truncate(s, width, "…")
	return s + Pad(width-ansi.StringWidth(s))
}
