package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/stats"
)

func TestValueColorAndGlyph(t *testing.T) {
	tests := []struct {
		name  string
		value display.Value
		ok    bool
		color string
		glyph string
	}{
		{name: "missing", ok: false, color: string(ColorTextPrimary), glyph: GlyphWaiting},
		{name: "plain", value: display.Value{Text: "1%"}, ok: true, color: string(ColorTextPrimary), glyph: GlyphPlain},
		{name: "normal", value: display.Classified("60°C", stats.StatusNormal), ok: true, color: string(ColorHealthy), glyph: GlyphNormal},
		{name: "alert", value: display.Classified("99°C", stats.StatusAlert), ok: true, color: string(ColorCritical), glyph: GlyphAlert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.color, string(ValueColor(tt.value)))
			assert.Equal(t, tt.glyph, ValueGlyph(tt.value, tt.ok))
		})
	}
}

func TestRenderValue(t *testing.T) {
	assert.Equal(t, "--", RenderValue(display.Value{}, false))
	assert.Equal(t, "70°C", RenderValue(display.Classified("70°C", stats.StatusAlert), true))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Network...", truncate("Network Received (MB)", 10))
	assert.Equal(t, "abc", truncate("abc", 2))
}

func TestSpread(t *testing.T) {
	assert.Equal(t, "a    b", spread("a", "b", 6))
	assert.Equal(t, "long right", spread("long", "right", 3))
}
