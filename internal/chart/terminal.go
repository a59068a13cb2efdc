package chart

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TerminalRenderer keeps each chart's latest series in memory for a
// terminal front end to draw. Charts are safe to read from other goroutines.
type TerminalRenderer struct {
	mu     sync.RWMutex
	charts map[string]*TerminalChart
	order  []string
}

// NewTerminalRenderer creates an empty renderer.
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{charts: make(map[string]*TerminalChart)}
}

// Create registers a chart on target.
func (r *TerminalRenderer) Create(target string, opts Options) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.charts[target]; exists {
		return nil, fmt.Errorf("chart %s already exists", target)
	}
	c := &TerminalChart{target: target, opts: opts}
	r.charts[target] = c
	r.order = append(r.order, target)
	return c, nil
}

// Chart returns the chart on target.
func (r *TerminalRenderer) Chart(target string) (*TerminalChart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[target]
	return c, ok
}

// Targets returns the created targets in creation order.
func (r *TerminalRenderer) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// TerminalChart is one in-memory chart.
type TerminalChart struct {
	target string
	opts   Options

	mu      sync.RWMutex
	labels  []string
	data    []float64
	version int
}

// Update replaces the stored series.
func (c *TerminalChart) Update(labels []string, data []float64) error {
	if len(labels) != len(data) {
		return fmt.Errorf("chart %s: %d labels for %d values", c.target, len(labels), len(data))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append(c.labels[:0:0], labels...)
	c.data = append(c.data[:0:0], data...)
	c.version++
	return nil
}

// Target returns the chart's target name.
func (c *TerminalChart) Target() string { return c.target }

// Options returns the chart's creation options.
func (c *TerminalChart) Options() Options { return c.opts }

// Data returns copies of the current labels and values and the number of
// updates applied so far.
func (c *TerminalChart) Data() ([]string, []float64, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.labels...), append([]float64(nil), c.data...), c.version
}

// Render draws the chart as a braille plot.
func (c *TerminalChart) Render(width, height int) string {
	_, data, _ := c.Data()
	return Braille(data, ScaleFor(c.opts.Unit, data), width, height, lipgloss.Color(c.opts.Color))
}

// RenderSparkline draws the chart as a single-row sparkline.
func (c *TerminalChart) RenderSparkline(width int) string {
	_, data, _ := c.Data()
	return Sparkline(data, ScaleFor(c.opts.Unit, data), width, lipgloss.Color(c.opts.Color))
}

// Range returns the minimum and maximum of the current series.
func (c *TerminalChart) Range() (lo, hi float64, ok bool) {
	_, data, _ := c.Data()
	if len(data) == 0 {
		return 0, 0, false
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return sorted[0], sorted[len(sorted)-1], true
}
