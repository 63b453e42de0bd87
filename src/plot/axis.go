package plot

import (
	"fmt"
	"math"
)

// niceAxisBounds expands [min,max] by a 5% margin and rounds outward to the
// order of magnitude of the span.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks returns about n tick values covering [min,max] with a step of
// 1, 2, 2.5 or 5 times a power of ten. The ticks cover min and max up to
// floating point error.
func niceTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n-1)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	// tolerate representation error such as 34.4/0.2 = 171.99999999999997
	start := math.Floor(min/bestStep+1e-9) * bestStep
	end := math.Ceil(max/bestStep-1e-9) * bestStep
	steps := int(math.Round((end - start) / bestStep))
	ticks := make([]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		v := start + float64(i)*bestStep
		if math.Abs(v) < bestStep*1e-9 {
			v = 0
		}
		ticks = append(ticks, v)
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
