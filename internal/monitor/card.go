package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsestation/pulse/internal/chart"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/series"
)

const (
	cardGraphHeight = 2
	cardMinWidth    = 24
	cardWidth       = 38
)

// renderCard renders one metric card.
func (m Model) renderCard(d series.Descriptor, width int, selected bool) string {
	style := CardStyle.Width(width)
	if selected {
		style = CardSelectedStyle.Width(width)
	}
	inner := width - 4

	current, average := m.values(d)
	cur, curOK := current.value, current.ok

	title := ValueGlyphStyled(cur, curOK) + " " + MetricNameStyle.Render(truncate(d.Label, inner-2-len(d.Unit)))
	title = spread(title, MutedStyle.Render(d.Unit), inner)

	lines := []string{title}
	row := LabelStyle.Render("now ") + RenderValue(cur, curOK)
	if d.Averaged {
		row = spread(row, LabelStyle.Render("avg ")+RenderValue(average.value, average.ok), inner)
	}
	lines = append(lines, row)
	lines = append(lines, m.renderGraph(d, inner, cardGraphHeight))

	return style.Render(strings.Join(lines, "\n"))
}

type fieldValue struct {
	value display.Value
	ok    bool
}

// values reads a descriptor's current and average fields off the board.
func (m Model) values(d series.Descriptor) (current, average fieldValue) {
	if m.board == nil {
		return
	}
	cf, af := display.FieldsFor(d.Key)
	current.value, current.ok = m.board.Get(cf)
	average.value, average.ok = m.board.Get(af)
	return
}

// ValueGlyphStyled colors the status glyph like its value.
func ValueGlyphStyled(v display.Value, ok bool) string {
	glyph := ValueGlyph(v, ok)
	if !ok {
		return MutedStyle.Render(glyph)
	}
	return lipgloss.NewStyle().Foreground(ValueColor(v)).Render(glyph)
}

// renderGraph draws the descriptor's terminal chart, or a placeholder when
// no chart exists yet.
func (m Model) renderGraph(d series.Descriptor, width, height int) string {
	c := m.chartFor(d)
	if c == nil {
		placeholder := MutedStyle.Render(truncate("waiting for data", width))
		return placeholder + strings.Repeat("\n", height-1)
	}
	if height <= 1 {
		return c.RenderSparkline(width)
	}
	return c.Render(width, height)
}

func (m Model) chartFor(d series.Descriptor) *chart.TerminalChart {
	if m.charts == nil {
		return nil
	}
	c, ok := m.charts.Chart(d.Target)
	if !ok {
		return nil
	}
	if _, data, _ := c.Data(); len(data) == 0 {
		return nil
	}
	return c
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
