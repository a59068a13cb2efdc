package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGRenderer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	r, err := NewPNGRenderer(dir)
	require.NoError(t, err)

	h, err := r.Create("cpuChart", Options{Label: "CPU Usage (%)", Color: "#FF6384", Unit: "%"})
	require.NoError(t, err)

	path := filepath.Join(dir, "cpuChart.png")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing is written before the first update")

	require.NoError(t, h.Update([]string{"a", "b", "c"}, []float64{10, 40, 20}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultPNGWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultPNGHeight, img.Bounds().Dy())
}

func TestPNGRenderer_EdgeCases(t *testing.T) {
	r, err := NewPNGRenderer(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name string
		opts Options
		data []float64
	}{
		{name: "single point", opts: Options{Unit: "°C", Color: "#FFCD56"}, data: []float64{70}},
		{name: "flat series", opts: Options{Unit: "MB", Color: "#9966FF"}, data: []float64{5, 5, 5}},
		{name: "empty series", opts: Options{Unit: "%"}, data: nil},
		{name: "bad color", opts: Options{Unit: "%", Color: "teal"}, data: []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := r.Create("edge", tt.opts)
			require.NoError(t, err)
			labels := make([]string, len(tt.data))
			assert.NoError(t, h.Update(labels, tt.data))
		})
	}
}

func TestPNGRenderer_RejectsPathTargets(t *testing.T) {
	r, err := NewPNGRenderer(t.TempDir())
	require.NoError(t, err)

	for _, target := range []string{"", "..", "../escape", `a\b`} {
		_, err := r.Create(target, Options{})
		assert.Error(t, err, target)
	}
}
