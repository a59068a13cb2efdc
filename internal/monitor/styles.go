package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsestation/pulse/internal/display"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	MetricNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true).
				Padding(0, 1)

	SuggestionStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Padding(0, 1)
)

// Status glyphs
const (
	GlyphWaiting = "◌"
	GlyphNormal  = "◉"
	GlyphAlert   = "▲"
	GlyphPlain   = "•"
)

// PollingSpinnerFrames animate the header while a cycle is in flight.
var PollingSpinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// ValueColor picks the color for a display value from its status class.
// Unclassified values use the primary text color.
func ValueColor(v display.Value) lipgloss.Color {
	switch {
	case v.Status == nil:
		return ColorTextPrimary
	case v.Alert():
		return ColorCritical
	default:
		return ColorHealthy
	}
}

// ValueGlyph returns the status indicator for a display value.
func ValueGlyph(v display.Value, ok bool) string {
	switch {
	case !ok:
		return GlyphWaiting
	case v.Status == nil:
		return GlyphPlain
	case v.Alert():
		return GlyphAlert
	default:
		return GlyphNormal
	}
}

// RenderValue styles a display value for a card.
func RenderValue(v display.Value, ok bool) string {
	if !ok {
		return MutedStyle.Render("--")
	}
	style := lipgloss.NewStyle().Foreground(ValueColor(v))
	if v.Alert() {
		style = style.Bold(true)
	}
	return style.Render(v.Text)
}

// truncate shortens s to max cells, adding an ellipsis when cut.
func truncate(s string, max int) string {
	if max <= 3 || lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) > max-3 {
		r = r[:max-3]
	}
	return strings.TrimRight(string(r), " ") + "..."
}
