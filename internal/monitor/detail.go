package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/series"
)

var (
	detailSectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		MarginBottom(1)
)

const detailGraphHeight = 8

// renderDetailView renders the expanded view of the selected metric.
func (m Model) renderDetailView() string {
	d, ok := m.Selected()
	if !ok {
		return LabelStyle.Render("No metric selected")
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(d))
	b.WriteString("\n")
	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.renderDetailContent())
	}
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("esc back | ↑↓ scroll | r poll now | q quit"))
	return b.String()
}

func (m Model) renderDetailHeader(d series.Descriptor) string {
	cur, _ := m.values(d)
	title := TitleStyle.Render(d.Label) + LabelStyle.Render(" ("+d.Key+")")
	return HeaderStyle.Render(title + "  " + ValueGlyphStyled(cur.value, cur.ok) + "  " + ValueStyle.Render(m.clock.String()))
}

// updateDetailViewportContent refreshes the scrollable detail content.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady {
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent())
}

// renderDetailContent renders the selected metric's values, graph and
// recent samples.
func (m Model) renderDetailContent() string {
	d, ok := m.Selected()
	if !ok {
		return ""
	}
	width := m.width - 6
	if width < 40 {
		width = 40
	}

	current, average := m.values(d)

	var values []string
	values = append(values, LabelStyle.Render("Current  ")+RenderValue(current.value, current.ok))
	if d.Averaged {
		values = append(values, LabelStyle.Render("Average  ")+RenderValue(average.value, average.ok)+
			MutedStyle.Render(fmt.Sprintf("  over %s", m.windowText())))
	}
	if limit, ok := m.limitFor(d.Key); ok {
		values = append(values, LabelStyle.Render("Limit    ")+ValueStyle.Render(display.Format(d.Unit, limit, true)))
	}
	if c := m.chartFor(d); c != nil {
		if lo, hi, ok := c.Range(); ok {
			values = append(values, LabelStyle.Render("Range    ")+
				ValueStyle.Render(display.Format(d.Unit, lo, true)+" .. "+display.Format(d.Unit, hi, true)))
		}
	}

	sections := []string{
		detailSectionStyle.Width(width).Render(strings.Join(values, "\n")),
		detailSectionStyle.Width(width).Render(m.renderGraph(d, width-4, detailGraphHeight)),
	}
	if samples := m.renderRecentSamples(d, 10); samples != "" {
		sections = append(sections, detailSectionStyle.Width(width).Render(samples))
	}
	return strings.Join(sections, "\n")
}

// renderRecentSamples lists the newest n samples of the chart, newest first.
func (m Model) renderRecentSamples(d series.Descriptor, n int) string {
	c := m.chartFor(d)
	if c == nil {
		return ""
	}
	labels, data, _ := c.Data()
	lines := []string{LabelStyle.Render("Recent samples")}
	for i := len(data) - 1; i >= 0 && len(data)-i <= n; i-- {
		lines = append(lines, MutedStyle.Render(labels[i])+"  "+ValueStyle.Render(display.Format(d.Unit, data[i], true)))
	}
	return strings.Join(lines, "\n")
}

// limitFor returns the limit applied by the last successful cycle.
func (m Model) limitFor(key string) (float64, bool) {
	v, ok := m.limits[key]
	return v, ok
}

func (m Model) windowText() string {
	if w, ok := m.poller.(interface{ Window() time.Duration }); ok {
		return w.Window().String()
	}
	return "window"
}
