package chart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsestation/pulse/internal/series"
)

// Braille cells are a 2x4 dot matrix starting at U+2800. dotBits maps
// [row][col] inside a cell to the bit that lights that dot.
const brailleEmpty = '⠀'

var dotBits = [4][2]uint{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Scale is the vertical range a series is drawn against.
type Scale struct {
	Min, Max float64
}

// ScaleFor picks the vertical range for data. Percent series always use
// 0-100 so charts stay comparable between polls; other units fit the data.
func ScaleFor(unit string, data []float64) Scale {
	if unit == series.UnitPercent {
		return Scale{Min: 0, Max: 100}
	}
	if len(data) == 0 {
		return Scale{Min: 0, Max: 1}
	}
	s := Scale{Min: data[0], Max: data[0]}
	for _, v := range data[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if s.Max == s.Min {
		s.Min--
		s.Max++
	}
	return s
}

// norm maps v into [0,1].
func (s Scale) norm(v float64) float64 {
	if s.Max <= s.Min {
		return 0.5
	}
	n := (v - s.Min) / (s.Max - s.Min)
	switch {
	case n < 0:
		return 0
	case n > 1:
		return 1
	}
	return n
}

// Braille draws data as a filled braille plot, width cells wide and height
// rows tall. Each cell holds two samples; short series are right-aligned.
func Braille(data []float64, scale Scale, width, height int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	slots := width * 2
	points := data
	if len(points) > slots {
		points = resample(points, slots)
	}
	offset := slots - len(points)
	levels := height * 4

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(brailleEmpty), width))
	}

	for i, v := range points {
		slot := i + offset
		cell, sub := slot/2, slot%2
		lit := int(scale.norm(v) * float64(levels))
		if lit == 0 {
			lit = 1
		}
		for dot := 0; dot < lit; dot++ {
			row := height - 1 - dot/4
			grid[row][cell] |= 1 << dotBits[3-dot%4][sub]
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, height)
	for r, row := range grid {
		lines[r] = style.Render(string(row))
	}
	return strings.Join(lines, "\n")
}

// Sparkline draws data as a single row of block characters.
func Sparkline(data []float64, scale Scale, width int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	points := data
	if len(points) > width {
		points = resample(points, width)
	}
	var b strings.Builder
	top := len(blocks) - 1
	for _, v := range points {
		b.WriteRune(blocks[int(scale.norm(v)*float64(top))])
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// resample shrinks data to n points, keeping the maximum of each bucket so
// spikes survive.
func resample(data []float64, n int) []float64 {
	if n <= 0 || len(data) == 0 {
		return nil
	}
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	bucket := float64(len(data)) / float64(n)
	for i := range out {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end <= start {
			end = start + 1
		}
		if end > len(data) {
			end = len(data)
		}
		peak := data[start]
		for _, v := range data[start+1 : end] {
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
	}
	return out
}
