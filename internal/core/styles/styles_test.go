package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_sorted_and_resolvable(t *testing.T) {
	names := ThemeNames()
	require.Contains(t, names, DefaultTheme)
	assert.IsNonDecreasing(t, names)

	for _, name := range names {
		_, ok := GetPalette(name)
		assert.True(t, ok, name)
	}

	_, ok := GetPalette("no-such-theme")
	assert.False(t, ok)
}

func TestSetTheme_rebuilds_colors(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("gruvbox")
	SetTheme(p)

	assert.Equal(t, p.Primary, ColorPrimary)
	assert.Equal(t, p, CurrentPalette)

	cfg := GlamourStyle()
	require.NotNil(t, cfg.H1.Color)
	assert.Equal(t, "#83a598", *cfg.H1.Color)
}
