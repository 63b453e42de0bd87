package uihelpers

import (
	"math"
	"strconv"
)

// ComputeChartDimensions clamps the profile chart to the available width.
// Profiles are tall, so height follows width at 0.85 within [420,1000].
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 480 {
		w = 480
	}
	if w > 1400 {
		w = 1400
	}
	h := int(float32(w) * 0.85)
	if h < 420 {
		h = 420
	}
	if h > 1000 {
		h = 1000
	}
	return w, h
}

// ComputeTableColumnWidths returns the 8 column widths of the profile table
// for a window width. A width of 0 hides the column.
// Order: Float, Date, Lat, Lon, Levels, MaxDepth, SurfaceSal, MeanSal
func ComputeTableColumnWidths(winW float32) [8]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 560
	if winW < ultraCompactBreakpoint {
		return [8]int{90, 0, 0, 0, 0, 80, 90, 0}
	}
	if winW < compactBreakpoint {
		return [8]int{90, 95, 70, 80, 0, 80, 90, 90}
	}
	return [8]int{110, 110, 90, 100, 70, 110, 120, 120}
}

// FormatLatitude renders a latitude as degrees with a hemisphere suffix.
func FormatLatitude(v float64) string {
	hemi := "N"
	if v < 0 {
		hemi = "S"
	}
	return strconv.FormatFloat(math.Abs(v), 'f', 2, 64) + "°" + hemi
}

// FormatLongitude accepts both 0..360 and -180..180 conventions.
func FormatLongitude(v float64) string {
	if v > 180 {
		v -= 360
	}
	hemi := "E"
	if v < 0 {
		hemi = "W"
	}
	return strconv.FormatFloat(math.Abs(v), 'f', 2, 64) + "°" + hemi
}
