package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default PNG dimensions.
const (
	DefaultPNGWidth  = 640
	DefaultPNGHeight = 240
)

// PNGRenderer writes every chart update to <Dir>/<target>.png.
type PNGRenderer struct {
	Dir    string
	Width  int
	Height int
}

// NewPNGRenderer creates a renderer writing into dir, creating it if needed.
func NewPNGRenderer(dir string) (*PNGRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory %s: %w", dir, err)
	}
	return &PNGRenderer{Dir: dir, Width: DefaultPNGWidth, Height: DefaultPNGHeight}, nil
}

// Create returns a chart bound to <Dir>/<target>.png. Nothing is written
// until the first update.
func (r *PNGRenderer) Create(target string, opts Options) (Handle, error) {
	if strings.ContainsAny(target, `/\`) || target == "" || target == "." || target == ".." {
		return nil, fmt.Errorf("invalid chart target %q", target)
	}
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultPNGWidth
	}
	if h <= 0 {
		h = DefaultPNGHeight
	}
	return &pngChart{
		path:   filepath.Join(r.Dir, target+".png"),
		opts:   opts,
		width:  w,
		height: h,
	}, nil
}

type pngChart struct {
	path   string
	opts   Options
	width  int
	height int
}

func (c *pngChart) Update(labels []string, data []float64) error {
	var buf bytes.Buffer
	if err := c.render(&buf, data); err != nil {
		return err
	}
	// Write through a temp file so readers never see a half-written image.
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func (c *pngChart) render(buf *bytes.Buffer, data []float64) error {
	ys := append([]float64(nil), data...)
	if len(ys) == 0 {
		ys = []float64{0}
	}
	// go-chart needs at least two points to compute an x range.
	if len(ys) == 1 {
		ys = append(ys, ys[0])
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}

	scale := ScaleFor(c.opts.Unit, ys)
	color := parseHex(c.opts.Color)

	line := gochart.ContinuousSeries{
		Name:    c.opts.Label,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
		},
	}
	if c.opts.Fill {
		line.Style.FillColor = color.WithAlpha(64)
	}

	ch := gochart.Chart{
		Title:      c.opts.Label,
		Width:      c.width,
		Height:     c.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 12, Right: 12, Bottom: 12}},
		XAxis:      gochart.XAxis{Style: gochart.Style{Hidden: !c.opts.ShowXLabels}},
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: scale.Min, Max: scale.Max}},
		Series:     []gochart.Series{line},
	}
	if c.opts.ShowLegend {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}

	if err := ch.Render(gochart.PNG, buf); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(c.path), err)
	}
	return nil
}

// parseHex converts "#RRGGBB" to a drawing color, defaulting to blue.
func parseHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return gochart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}
