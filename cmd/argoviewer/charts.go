package main

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/cmd/argoviewer/uihelpers"
	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/plot"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// exportWidthOverride forces the chart width when no window exists.
var exportWidthOverride int

// profile table columns
var tableHeaders = [8]string{"Float", "Date", "Lat", "Lon", "Levels", "Max depth (m)", "Surface sal (PSU)", "Mean sal (PSU)"}

// monthOptions lists the month names used by the month selector.
func monthOptions() []string {
	out := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, m.String())
	}
	return out
}

// parseMonth accepts a month name, a three letter abbreviation or a number.
func parseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || (len(s) == 3 && strings.EqualFold(s, name[:3])) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown month %q", argo.ErrInvalidBounds, s)
}

// parseBoundsInputs turns the raw filter entries into validated bounds.
func parseBoundsInputs(latMin, latMax, month, year string) (argo.Bounds, error) {
	var b argo.Bounds
	var err error
	if b.LatMin, err = strconv.ParseFloat(strings.TrimSpace(latMin), 64); err != nil {
		return b, fmt.Errorf("%w: latitude min %q", argo.ErrInvalidBounds, latMin)
	}
	if b.LatMax, err = strconv.ParseFloat(strings.TrimSpace(latMax), 64); err != nil {
		return b, fmt.Errorf("%w: latitude max %q", argo.ErrInvalidBounds, latMax)
	}
	if b.Month, err = parseMonth(month); err != nil {
		return b, err
	}
	if b.Year, err = strconv.Atoi(strings.TrimSpace(year)); err != nil {
		return b, fmt.Errorf("%w: year %q", argo.ErrInvalidBounds, year)
	}
	return b, b.Validate()
}

// summaryCell returns the text of one profile table cell. Row 0 is the header.
func summaryCell(rows []argo.ProfileSummary, row, col int) string {
	if col < 0 || col >= len(tableHeaders) {
		return ""
	}
	if row == 0 {
		return tableHeaders[col]
	}
	i := row - 1
	if i < 0 || i >= len(rows) {
		return ""
	}
	s := rows[i]
	switch col {
	case 0:
		return strconv.FormatInt(s.FloatID, 10)
	case 1:
		return s.Date.Format(types.DateLayout)
	case 2:
		return uihelpers.FormatLatitude(s.Latitude)
	case 3:
		return uihelpers.FormatLongitude(s.Longitude)
	case 4:
		return strconv.Itoa(s.Levels)
	case 5:
		return fmt.Sprintf("%.0f", s.MaxDepth)
	case 6:
		return fmt.Sprintf("%.2f", s.SurfaceSalinity)
	default:
		return fmt.Sprintf("%.2f", s.MeanSalinity)
	}
}

// applyBounds filters the loaded dataset and refreshes the derived summaries.
func applyBounds(state *uiState, b argo.Bounds) error {
	filtered, err := argo.Filter(state.dataset, b)
	if err != nil {
		return err
	}
	state.bounds = b
	state.filtered = filtered
	state.summaries = argo.Summarize(argo.GroupByFloat(filtered))
	argo.Debugf("[viewer] %s: %d records, %d floats", b, len(filtered), len(state.summaries))
	return nil
}

// chartSize follows the window width, or exportWidthOverride when headless.
func chartSize(state *uiState) (int, int) {
	if exportWidthOverride > 0 {
		return uihelpers.ComputeChartDimensions(exportWidthOverride)
	}
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return uihelpers.ComputeChartDimensions(900)
	}
	sz := state.window.Canvas().Size()
	// leave room for the profile table on the right
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.6) - 12)
}

func chartOptions(state *uiState) plot.Options {
	opts := plot.DefaultOptions()
	opts.Width, opts.Height = chartSize(state)
	if state.title != "" {
		opts.Title = state.title
	}
	return opts
}

// renderProfileChart draws the current selection. Errors fall back to a blank image.
func renderProfileChart(state *uiState) image.Image {
	opts := chartOptions(state)
	pc := plot.Build(state.filtered, opts)
	img, err := pc.Image()
	if err != nil {
		argo.Warnf("[viewer] render chart: %v", err)
		return blank(opts.Width, opts.Height)
	}
	if pc.Empty() {
		return plot.DrawHint(img, "No records match "+state.bounds.String())
	}
	if state.showHints {
		return plot.DrawHint(img, fmt.Sprintf("%d floats, %d records. Surface at top.", len(pc.Series), len(state.filtered)))
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}
