package plot

import (
	"fmt"
	"testing"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

func sampleMarch(t *testing.T) types.Dataset {
	t.Helper()
	ds, err := argo.Filter(argo.SampleDataset(), argo.DefaultBounds())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	return ds
}

// TestBuild_TwoSeriesAscendingDepthReversedAxis covers the equatorial March
// 2023 view: one series per float, three points each, surface on top.
func TestBuild_TwoSeriesAscendingDepthReversedAxis(t *testing.T) {
	c := Build(sampleMarch(t), DefaultOptions())
	if len(c.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(c.Series))
	}
	for _, s := range c.Series {
		if len(s.Points) != 3 {
			t.Fatalf("series %s: %d points", s.Name, len(s.Points))
		}
		for i, want := range []float64{0, 500, 1000} {
			if s.Points[i].Depth != want {
				t.Fatalf("series %s point %d depth %v want %v", s.Name, i, s.Points[i].Depth, want)
			}
		}
	}
	if c.Series[0].Name != "2903304" || c.Series[1].Name != "2901205" {
		t.Fatalf("series names %q %q", c.Series[0].Name, c.Series[1].Name)
	}
	if c.Series[0].Color == c.Series[1].Color {
		t.Fatalf("floats share a color")
	}
	if !c.Depth.Reversed || c.Salinity.Reversed {
		t.Fatalf("only the depth axis must be reversed: depth=%v salinity=%v", c.Depth.Reversed, c.Salinity.Reversed)
	}
	if c.Depth.Min != 0 || c.Depth.Max < 1000 {
		t.Fatalf("depth axis [%v,%v] must span 0..1000", c.Depth.Min, c.Depth.Max)
	}
	if c.Salinity.Min > 34.5 || c.Salinity.Max < 35.1 {
		t.Fatalf("salinity axis [%v,%v] clips data", c.Salinity.Min, c.Salinity.Max)
	}

	gc := c.GoChart()
	if len(gc.Series) != 2 {
		t.Fatalf("go-chart series %d", len(gc.Series))
	}
	cs, ok := gc.Series[0].(chart.ContinuousSeries)
	if !ok {
		t.Fatalf("expected ContinuousSeries, got %T", gc.Series[0])
	}
	if cs.XValues[0] != 34.5 || cs.YValues[2] != 1000 {
		t.Fatalf("x=salinity y=depth mapping broken: %v %v", cs.XValues, cs.YValues)
	}
	if cs.Style.DotWidth <= 0 || cs.Style.StrokeWidth <= 0 {
		t.Fatalf("series must draw lines with markers: %+v", cs.Style)
	}
	yr, ok := gc.YAxis.Range.(*chart.ContinuousRange)
	if !ok {
		t.Fatalf("expected ContinuousRange on Y, got %T", gc.YAxis.Range)
	}
	if !yr.IsDescending() {
		t.Fatalf("depth axis not descending")
	}
	// go-chart places y pixels at bottom-Translate(v): a larger
	// translation is higher on the canvas, so 0 must translate above 1000.
	yr.SetDomain(500)
	if yr.Translate(0) <= yr.Translate(1000) {
		t.Fatalf("depth 0 not above depth 1000: %d vs %d", yr.Translate(0), yr.Translate(1000))
	}
	if gc.Title != DefaultTitle || gc.XAxis.Name != "Salinity (PSU)" || gc.YAxis.Name != "Depth (m)" {
		t.Fatalf("title/labels: %q %q %q", gc.Title, gc.XAxis.Name, gc.YAxis.Name)
	}
	if len(gc.Elements) != 1 {
		t.Fatalf("expected a legend element")
	}
}

func TestBuild_EmptyDatasetHasNoSeries(t *testing.T) {
	b := argo.DefaultBounds()
	b.Month = time.April
	ds, err := argo.Filter(argo.SampleDataset(), b)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	c := Build(ds, DefaultOptions())
	if !c.Empty() {
		t.Fatalf("expected no series, got %d", len(c.Series))
	}
	if c.Depth.Min != 0 || c.Depth.Max != 1000 || !c.Depth.Reversed {
		t.Fatalf("empty depth axis %+v", c.Depth)
	}
	if c.Salinity.Min != 30 || c.Salinity.Max != 40 {
		t.Fatalf("empty salinity axis %+v", c.Salinity)
	}
	gc := c.GoChart()
	if len(gc.Elements) != 0 {
		t.Fatalf("empty chart should carry no legend")
	}
}

func TestBuild_CustomLabelsAndDefaults(t *testing.T) {
	c := Build(argo.SampleDataset(), Options{
		Title:  "Custom",
		Labels: map[string]string{FieldDepth: "Depth [m]"},
	})
	if c.Title != "Custom" || c.Depth.Label != "Depth [m]" {
		t.Fatalf("custom text not applied: %+v", c)
	}
	if c.Salinity.Label != "Salinity (PSU)" {
		t.Fatalf("missing label should default, got %q", c.Salinity.Label)
	}
	if c.Width != 900 || c.Height != 700 {
		t.Fatalf("default size %dx%d", c.Width, c.Height)
	}
}

func TestSeriesColorDistinct(t *testing.T) {
	seen := map[string]int{}
	for i := 0; i < 30; i++ {
		c := seriesColor(i)
		key := fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
		if j, dup := seen[key]; dup {
			t.Fatalf("series %d and %d share color %s", j, i, key)
		}
		seen[key] = i
	}
}
