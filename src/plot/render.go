package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output encoding for Render.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return SVG
	}
	return PNG
}

// ContentType is the HTTP media type of f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// invisible keeps go-chart from substituting a default color (it treats a
// zero Color as unset).
var invisible = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// lineMarkerStyle draws a connected line with a dot on every sample.
func lineMarkerStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}

func ticksFor(a Axis) []chart.Tick {
	out := make([]chart.Tick, 0, len(a.Ticks))
	for _, v := range a.Ticks {
		out = append(out, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return out
}

// GoChart converts the model into a go-chart chart. The depth range is
// descending so the surface is drawn at the top of the plot.
func (c ProfileChart) GoChart() chart.Chart {
	series := make([]chart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.Salinity
			ys[i] = p.Depth
		}
		series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: lineMarkerStyle(s.Color)})
	}
	if len(series) == 0 {
		// go-chart refuses to render without a series; span the axes with
		// an invisible one so the empty plot area still draws.
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{c.Salinity.Min, c.Salinity.Max},
			YValues: []float64{c.Depth.Min, c.Depth.Max},
			Style:   chart.Style{StrokeColor: invisible, StrokeWidth: 1, DotColor: invisible, DotWidth: 0},
		})
	}

	ch := chart.Chart{
		Title:      c.Title,
		Width:      c.Width,
		Height:     c.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  c.Salinity.Label,
			Range: &chart.ContinuousRange{Min: c.Salinity.Min, Max: c.Salinity.Max, Descending: c.Salinity.Reversed},
			Ticks: ticksFor(c.Salinity),
		},
		YAxis: chart.YAxis{
			Name:  c.Depth.Label,
			Range: &chart.ContinuousRange{Min: c.Depth.Min, Max: c.Depth.Max, Descending: c.Depth.Reversed},
			Ticks: ticksFor(c.Depth),
		},
		Series: series,
	}
	if !c.Empty() {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

// Render writes the chart to w in format f.
func (c ProfileChart) Render(w io.Writer, f Format) error {
	ch := c.GoChart()
	rp := chart.PNG
	if f == SVG {
		rp = chart.SVG
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render %s chart: %w", f, err)
	}
	return nil
}

// Image renders the chart as PNG and decodes it for on-screen display.
func (c ProfileChart) Image() (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf, PNG); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart png: %w", err)
	}
	return img, nil
}
