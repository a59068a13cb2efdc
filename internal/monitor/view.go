package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetailView()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if banner := m.renderErrorBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title, source, last update and clock.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("pulse")

	var updateText string
	switch {
	case m.lastUpdate.IsZero():
		updateText = "waiting for first poll"
	case m.SecondsSinceUpdate() == 0:
		updateText = "updated just now"
	default:
		updateText = fmt.Sprintf("updated %ds ago", m.SecondsSinceUpdate())
	}

	parts := []string{updateText}
	if m.source != "" {
		parts = append([]string{m.source}, parts...)
	}
	if m.polling {
		parts = append(parts, PollingSpinnerFrames[m.spinnerFrame%len(PollingSpinnerFrames)]+" polling")
	}
	info := LabelStyle.Render(" | " + strings.Join(parts, " | "))

	left := title + info
	clock := ValueStyle.Render(m.clock.String())
	if m.width > 0 {
		return HeaderStyle.Render(spread(left, clock, m.width-2))
	}
	return HeaderStyle.Render(left + "  " + clock)
}

// renderErrorBanner shows the last cycle's failure until a cycle succeeds.
func (m Model) renderErrorBanner() string {
	msg, suggestion := m.LastError()
	if msg == "" {
		return ""
	}
	if m.failures > 1 {
		msg = fmt.Sprintf("%s (%d failures in a row)", msg, m.failures)
	}
	if m.width > 0 {
		msg = truncate(msg, m.width-2)
	}
	banner := ErrorBannerStyle.Render("✗ " + msg)
	if suggestion != "" {
		banner += "\n" + SuggestionStyle.Render(suggestion)
	}
	return banner
}

// renderCards renders the grid of metric cards.
func (m Model) renderCards() string {
	if len(m.descs) == 0 {
		return LabelStyle.Render("No metrics configured")
	}

	width := m.calculateCardWidth()
	cards := make([]string, 0, len(m.descs))
	for i, d := range m.descs {
		cards = append(cards, m.renderCard(d, width, i == m.selected))
	}
	return m.layoutCards(cards, width)
}

// calculateCardWidth determines the card width for the terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 || m.width >= BreakpointCompact {
		return cardWidth
	}
	w := m.width - 4
	if w < cardMinWidth {
		w = cardMinWidth
	}
	return w
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, width int) string {
	perRow := 1
	if m.width > 0 {
		perRow = m.width / (width + 3)
		if perRow < 1 {
			perRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}
