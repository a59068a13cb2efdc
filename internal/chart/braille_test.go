package chart

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Plain output keeps assertions independent of ANSI codes.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		name string
		unit string
		data []float64
		want Scale
	}{
		{name: "percent is fixed", unit: "%", data: []float64{10, 20}, want: Scale{0, 100}},
		{name: "fit to data", unit: "MB", data: []float64{5, 1, 9}, want: Scale{1, 9}},
		{name: "flat data widened", unit: "°C", data: []float64{70, 70}, want: Scale{69, 71}},
		{name: "empty", unit: "MB", want: Scale{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScaleFor(tt.unit, tt.data))
		})
	}
}

func TestScale_Norm(t *testing.T) {
	s := Scale{Min: 0, Max: 100}
	assert.InDelta(t, 0.5, s.norm(50), 1e-9)
	assert.Equal(t, 0.0, s.norm(-10))
	assert.Equal(t, 1.0, s.norm(150))
	assert.Equal(t, 0.5, Scale{Min: 1, Max: 1}.norm(1))
}

func TestBraille(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Braille(nil, Scale{0, 100}, 10, 2, "#fff"))
		assert.Empty(t, Braille([]float64{1}, Scale{0, 100}, 0, 2, "#fff"))
	})

	t.Run("dimensions", func(t *testing.T) {
		out := Braille([]float64{0, 50, 100}, Scale{0, 100}, 8, 3, "#fff")
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.Equal(t, 8, utf8.RuneCountInString(line))
		}
	})

	t.Run("full value lights the top row", func(t *testing.T) {
		out := Braille([]float64{100, 100}, Scale{0, 100}, 1, 2, "#fff")
		lines := strings.Split(out, "\n")
		assert.Equal(t, "⣿", lines[0])
		assert.Equal(t, "⣿", lines[1])
	})

	t.Run("right aligned", func(t *testing.T) {
		out := Braille([]float64{100}, Scale{0, 100}, 3, 1, "#fff")
		runes := []rune(out)
		require.Len(t, runes, 3)
		assert.Equal(t, brailleEmpty, runes[0])
		assert.NotEqual(t, brailleEmpty, runes[2])
	})

	t.Run("downsamples long series", func(t *testing.T) {
		data := make([]float64, 100)
		out := Braille(data, Scale{0, 100}, 5, 1, "#fff")
		assert.Equal(t, 5, utf8.RuneCountInString(out))
	})
}

func TestSparkline(t *testing.T) {
	out := Sparkline([]float64{0, 100}, Scale{0, 100}, 10, "#fff")
	assert.Equal(t, "▁█", out)

	out = Sparkline([]float64{0, 50, 100, 25}, Scale{0, 100}, 2, "#fff")
	assert.Equal(t, 2, utf8.RuneCountInString(out))
	assert.Empty(t, Sparkline(nil, Scale{0, 100}, 5, "#fff"))
}

func TestResample(t *testing.T) {
	assert.Equal(t, []float64{5, 9}, resample([]float64{1, 5, 2, 9}, 2))
	assert.Equal(t, []float64{1, 2}, resample([]float64{1, 2}, 5))
	assert.Nil(t, resample(nil, 3))
}
