// Package render turns chart specifications into files: PNG images for the bar-style charts
// and an xlsx workbook with the data behind a page.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"olistdash/api/models"
)

// ErrUnsupportedChart is returned for charts that are drawn client-side (maps).
var ErrUnsupportedChart = errors.New("chart kind cannot be rendered as an image")

var namedColors = map[string]color.RGBA{
	"skyblue":    {R: 135, G: 206, B: 235, A: 255},
	"lightgreen": {R: 144, G: 238, B: 144, A: 255},
	"salmon":     {R: 250, G: 128, B: 114, A: 255},
}

var defaultBarColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// PNG draws c at the given size (in points) and writes the image to w.
func PNG(w io.Writer, c models.Chart, width, height vg.Length) error {
	p, err := newPlot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func newPlot(c models.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.Encoding.X
	p.Y.Label.Text = c.Encoding.Y

	var err error
	switch c.Kind {
	case models.ChartBar, models.ChartCountPlot:
		err = addBars(p, c)
	case models.ChartHistogram:
		err = addHistogram(p, c)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChart, c.Kind)
	}
	if err != nil {
		return nil, err
	}

	if c.XTickAngle != 0 {
		p.X.Tick.Label.Rotation = float64(c.XTickAngle) * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

// addBars draws one bar per x category. When the color channel is categorical the bars are
// stacked, one layer per color value, in first-seen order.
func addBars(p *plot.Plot, c models.Chart) error {
	xs := distinct(c.Data, c.Encoding.X)
	if len(xs) == 0 {
		return nil
	}
	index := make(map[string]int, len(xs))
	for i, x := range xs {
		index[x] = i
	}

	width := barWidth(len(xs))
	layers := []string{""}
	if stacked(c) {
		layers = distinct(c.Data, c.Encoding.Color)
	}

	var below *plotter.BarChart
	for li, layer := range layers {
		values := make(plotter.Values, len(xs))
		for _, d := range c.Data {
			if layer != "" && label(d[c.Encoding.Color]) != layer {
				continue
			}
			values[index[label(d[c.Encoding.X])]] += number(d[c.Encoding.Y])
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", c.ID, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		if layer == "" {
			bars.Color = fill(c)
		} else {
			bars.Color = plotutil.Color(li)
			p.Legend.Add(layer, bars)
		}
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		below = bars
	}

	p.NominalX(xs...)
	p.Legend.Top = true
	return nil
}

func addHistogram(p *plot.Plot, c models.Chart) error {
	bins := make([]plotter.HistogramBin, 0, len(c.Data))
	for _, d := range c.Data {
		bins = append(bins, plotter.HistogramBin{
			Min:    number(d["bin_start"]),
			Max:    number(d["bin_end"]),
			Weight: number(d["count"]),
		})
	}
	if len(bins) == 0 {
		return nil
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     bins[0].Max - bins[0].Min,
		FillColor: fill(c),
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(h)
	return nil
}

// stacked reports whether the color channel names a categorical column.
func stacked(c models.Chart) bool {
	if c.Encoding.Color == "" || c.Encoding.Color == c.Encoding.Y {
		return false
	}
	for _, d := range c.Data {
		if _, ok := d[c.Encoding.Color].(string); ok {
			return true
		}
	}
	return false
}

func fill(c models.Chart) color.Color {
	if rgba, ok := namedColors[c.Color]; ok {
		return rgba
	}
	return defaultBarColor
}

func barWidth(n int) vg.Length {
	w := vg.Points(600 / float64(n))
	if w > vg.Points(30) {
		return vg.Points(30)
	}
	if w < vg.Points(2) {
		return vg.Points(2)
	}
	return w
}

func distinct(data []models.Datum, col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range data {
		v := label(d[col])
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func label(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
