package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func init() {
	DisableColors()
}

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_Success(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Polling http://localhost:8000/api/data")
	assert.Equal(t, SpinnerPending, s.State())

	s.Start()
	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(20 * time.Millisecond)
	s.Success("6 metrics")

	assert.Equal(t, SpinnerSuccess, s.State())
	text := out.String()
	assert.Contains(t, text, "Polling http://localhost:8000/api/data...")
	assert.True(t, strings.HasSuffix(text, "6 metrics\n"))
	assert.Contains(t, text, SymbolSuccess)
}

func TestSpinner_Fail(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Polling")
	s.Start()
	s.Fail("")

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail+" Polling")
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "idle")
	s.Stop()
	assert.Empty(t, out.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "0.00s"},
		{d: 50 * time.Millisecond, want: "0.05s"},
		{d: 1200 * time.Millisecond, want: "1.2s"},
		{d: 61 * time.Second, want: "61.0s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestRenderMetricTable(t *testing.T) {
	yes, no := true, false
	out := RenderMetricTable([]MetricRow{
		{Label: "CPU Usage (%)", Current: "20.00%", Average: "15.00%"},
		{Label: "Disk Usage (%)", Current: "60.00%"},
		{Label: "Temperature (°C)", Current: "70°C", CurrentAlert: &yes, Average: "65.00°C", AverageAlert: &no, Limit: "65.00°C"},
	})

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "METRIC")
	assert.Contains(t, lines[1], "LIMIT")
	assert.Contains(t, out, "20.00%")
	assert.Contains(t, out, SymbolAlert+" 70°C")
	assert.Contains(t, out, SymbolComplete+" 65.00°C")

	var disk string
	for _, l := range lines {
		if strings.Contains(l, "Disk") {
			disk = l
		}
	}
	assert.Equal(t, 2, strings.Count(disk, " - "), "missing average and limit render as dashes")
}

func TestRenderMetricTable_Empty(t *testing.T) {
	assert.Equal(t, "No metrics to display", RenderMetricTable(nil))
}
