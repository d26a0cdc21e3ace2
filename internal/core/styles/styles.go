// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	MutedStyle         lipgloss.Style

	// Header and footer.
	TitleStyle         lipgloss.Style
	StatusStyle        lipgloss.Style
	FooterStyle        lipgloss.Style
	FooterKeyStyle     lipgloss.Style
	ProgressFillStyle  lipgloss.Style
	ProgressPauseStyle lipgloss.Style
	ProgressTrackStyle lipgloss.Style

	// Grid.
	GridHeaderStyle         lipgloss.Style
	GridHeaderSelectedStyle lipgloss.Style
	GridCellStyle           lipgloss.Style
	GridCellSelectedStyle   lipgloss.Style
	GridCellPendingStyle    lipgloss.Style
	GridCursorStyle         lipgloss.Style
	GridGutterStyle         lipgloss.Style
	GridGutterSelectedStyle lipgloss.Style

	// Overlays.
	ModalStyle        lipgloss.Style
	ModalTitleStyle   lipgloss.Style
	ModalHelpStyle    lipgloss.Style
	SearchPromptStyle lipgloss.Style

	NoticeInfoStyle    lipgloss.Style
	NoticeWarningStyle lipgloss.Style
	NoticeErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	StatusStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	FooterStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	FooterKeyStyle = lipgloss.NewStyle().Foreground(ColorForeground).Bold(true)
	ProgressFillStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ProgressPauseStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ProgressTrackStyle = lipgloss.NewStyle().Foreground(ColorSurface)

	GridHeaderStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	GridHeaderSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true)
	GridCellStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	GridCellSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface)
	GridCellPendingStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Background(ColorSurface)
	GridCursorStyle = lipgloss.NewStyle().Reverse(true)
	GridGutterStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	GridGutterSelectedStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().Foreground(ColorMuted).MarginTop(1)
	SearchPromptStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	notice := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MaxWidth(60)
	NoticeInfoStyle = notice.BorderForeground(ColorPrimary).Foreground(ColorForeground)
	NoticeWarningStyle = notice.BorderForeground(ColorWarning).Foreground(ColorWarning)
	NoticeErrorStyle = notice.BorderForeground(ColorError).Foreground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
