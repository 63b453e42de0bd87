// Package plot turns a dataset into a salinity/depth profile chart: one
// line-with-markers series per float, depth growing downward.
package plot

import (
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

const (
	DefaultTitle = "Salinity Profiles near the Equator (March 2023)"

	// Label keys accepted in Options.Labels.
	FieldSalinity = "Salinity"
	FieldDepth    = "Depth"
)

// Default axis spans used when there is no data to fit.
var (
	emptySalinity = [2]float64{30, 40}
	emptyDepth    = [2]float64{0, 1000}
)

// palette assigns float colors in series order (tab10).
var palette = []string{
	"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd",
	"8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf",
}

// Options control chart text and size.
type Options struct {
	Title  string
	Labels map[string]string // field name -> axis label
	Width  int
	Height int
}

// DefaultOptions matches the equatorial March 2023 view.
func DefaultOptions() Options {
	return Options{
		Title: DefaultTitle,
		Labels: map[string]string{
			FieldSalinity: "Salinity (PSU)",
			FieldDepth:    "Depth (m)",
		},
		Width:  900,
		Height: 700,
	}
}

func (o Options) label(field string) string {
	if l := strings.TrimSpace(o.Labels[field]); l != "" {
		return l
	}
	return DefaultOptions().Labels[field]
}

// Point is one marker: salinity on X, depth on Y.
type Point struct {
	Salinity float64
	Depth    float64
}

// Series is the line of one float.
type Series struct {
	Name    string
	FloatID int64
	Color   drawing.Color
	Points  []Point // ascending depth
}

// Axis describes one chart axis. With Reversed set the axis runs from Max
// at the origin to Min at the far end, so on the vertical axis Min is on top.
type Axis struct {
	Label    string
	Min, Max float64
	Ticks    []float64
	Reversed bool
}

// ProfileChart is the renderer-independent chart model.
type ProfileChart struct {
	Title         string
	Width, Height int
	Salinity      Axis // horizontal
	Depth         Axis // vertical, always reversed
	Series        []Series
}

// Empty reports whether the chart has no data series.
func (c ProfileChart) Empty() bool { return len(c.Series) == 0 }

// Build groups ds by float and lays out one series per float. An empty ds
// produces a chart with axes and no series.
func Build(ds types.Dataset, opts Options) ProfileChart {
	def := DefaultOptions()
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = def.Title
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}

	profiles := argo.GroupByFloat(ds)
	c := ProfileChart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
	}
	minS, maxS := math.Inf(1), math.Inf(-1)
	maxD := math.Inf(-1)
	for i, p := range profiles {
		s := Series{
			Name:    strconv.FormatInt(p.FloatID, 10),
			FloatID: p.FloatID,
			Color:   seriesColor(i),
			Points:  make([]Point, 0, len(p.Levels)),
		}
		for _, l := range p.Levels {
			s.Points = append(s.Points, Point{Salinity: l.Salinity, Depth: l.Depth})
			minS = math.Min(minS, l.Salinity)
			maxS = math.Max(maxS, l.Salinity)
			maxD = math.Max(maxD, l.Depth)
		}
		c.Series = append(c.Series, s)
	}

	if c.Empty() {
		minS, maxS = emptySalinity[0], emptySalinity[1]
		maxD = emptyDepth[1]
	} else {
		minS, maxS = niceAxisBounds(minS, maxS)
		// leave room below the deepest marker
		maxD *= 1.05
		if maxD <= 0 {
			maxD = 1
		}
	}
	c.Salinity = fitAxis(opts.label(FieldSalinity), minS, maxS, false)
	c.Depth = fitAxis(opts.label(FieldDepth), 0, maxD, true)
	return c
}

func fitAxis(label string, min, max float64, reversed bool) Axis {
	ticks := niceTicks(min, max, 6)
	a := Axis{Label: label, Min: min, Max: max, Ticks: ticks, Reversed: reversed}
	if len(ticks) >= 2 {
		a.Min, a.Max = ticks[0], ticks[len(ticks)-1]
	}
	return a
}

// seriesColor cycles the palette, darkening each further round so that
// more than ten floats still get distinct colors.
func seriesColor(i int) drawing.Color {
	c := drawing.ColorFromHex(palette[i%len(palette)])
	round := i / len(palette)
	if round == 0 {
		return c
	}
	f := math.Pow(0.7, float64(round))
	return drawing.Color{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: 255}
}
