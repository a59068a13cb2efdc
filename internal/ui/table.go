package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// MetricRow is one line of the metric table. Alert flags color the value
// cells; an empty Average renders as a dash.
type MetricRow struct {
	Label        string
	Current      string
	CurrentAlert *bool
	Average      string
	AverageAlert *bool
	Limit        string
}

// RenderMetricTable renders the board as a bordered table.
func RenderMetricTable(rows []MetricRow) string {
	if len(rows) == 0 {
		return MutedStyle().Render("No metrics to display")
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Label,
			statusCell(r.Current, r.CurrentAlert),
			statusCell(r.Average, r.AverageAlert),
			dash(r.Limit),
		})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := HeaderStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("METRIC", "CURRENT", "AVERAGE", "LIMIT").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.Render()
}

// statusCell prefixes a classified value with its status symbol.
func statusCell(text string, alert *bool) string {
	if text == "" {
		return MutedStyle().Render("-")
	}
	switch {
	case alert == nil:
		return text
	case *alert:
		return ErrorStyle().Bold(true).Render(SymbolAlert + " " + text)
	default:
		return SuccessStyle().Render(SymbolComplete + " " + text)
	}
}

func dash(s string) string {
	if s == "" {
		return MutedStyle().Render("-")
	}
	return s
}
