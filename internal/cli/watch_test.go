package cli

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/stats"
)

func TestWatch_Headless(t *testing.T) {
	dir := isolate(t)
	srv := endpoint(t, http.StatusOK, metricsBody())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, "watch", "--headless",
		"--url", srv.URL,
		"--interval", "1m",
		"--renderer", "none",
		"--exporter-addr", "127.0.0.1:0",
		"--log-file", filepath.Join(dir, "pulse.log"))
	require.NoError(t, err)

	assert.Contains(t, out, "cpu_usage=20.00% (avg 15.00%)")
	assert.Contains(t, out, "disk=60.00%")
	assert.NotContains(t, out, "disk=60.00% (avg")
	assert.FileExists(t, filepath.Join(dir, "pulse.log"))
}

func TestWatch_HeadlessFailureLine(t *testing.T) {
	dir := isolate(t)
	srv := endpoint(t, http.StatusOK, `{"error": "sensor offline"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, "watch", "--headless",
		"--url", srv.URL,
		"--renderer", "none",
		"--log-file", filepath.Join(dir, "pulse.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "cycle 1 failed [APPLICATION]")
	assert.Contains(t, out, "sensor offline")
}

func TestFormatCycleLine(t *testing.T) {
	descs := series.DefaultDescriptors()
	cpuCur, cpuAvg := display.FieldsFor(series.KeyCPU)
	diskCur, _ := display.FieldsFor(series.KeyDisk)

	u := display.Update{
		cpuCur:  display.Classified("20.00%", stats.StatusNormal),
		cpuAvg:  display.Value{Text: "15.00%"},
		diskCur: display.Value{Text: "60.00%"},
	}

	assert.Equal(t, "cpu_usage=20.00% (avg 15.00%) disk=60.00%", formatCycleLine(descs, u))
	assert.Empty(t, formatCycleLine(descs, display.Update{}))
}
