package argo

import (
	"fmt"
	"math"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// Bounds selects records by an inclusive latitude band and a calendar month.
type Bounds struct {
	LatMin float64    `json:"lat_min"`
	LatMax float64    `json:"lat_max"`
	Month  time.Month `json:"month"`
	Year   int        `json:"year"`
}

// DefaultBounds is the equatorial band (-5..5) in March 2023.
func DefaultBounds() Bounds {
	return Bounds{LatMin: -5, LatMax: 5, Month: time.March, Year: 2023}
}

// Validate returns an error wrapping ErrInvalidBounds when b cannot be applied.
func (b Bounds) Validate() error {
	switch {
	case math.IsNaN(b.LatMin) || math.IsNaN(b.LatMax):
		return fmt.Errorf("%w: latitude bounds must be numbers", ErrInvalidBounds)
	case b.LatMin > b.LatMax:
		return fmt.Errorf("%w: lat_min %v > lat_max %v", ErrInvalidBounds, b.LatMin, b.LatMax)
	case b.Month < time.January || b.Month > time.December:
		return fmt.Errorf("%w: month %d outside 1..12", ErrInvalidBounds, int(b.Month))
	case b.Year < 1000 || b.Year > 9999:
		return fmt.Errorf("%w: year %d is not a 4-digit year", ErrInvalidBounds, b.Year)
	}
	return nil
}

// Match reports whether r lies inside the latitude band and was taken in the
// target month of the target year. Month and year are compared separately.
func (b Bounds) Match(r types.Record) bool {
	if math.IsNaN(r.Latitude) || r.Latitude < b.LatMin || r.Latitude > b.LatMax {
		return false
	}
	return r.Date.Month() == b.Month && r.Date.Year() == b.Year
}

func (b Bounds) String() string {
	return fmt.Sprintf("lat=[%g,%g] %s %d", b.LatMin, b.LatMax, b.Month, b.Year)
}

// Filter returns the records of ds matched by b, in their original order.
// The result is a new, non-nil Dataset; an empty result is not an error.
func Filter(ds types.Dataset, b Bounds) (types.Dataset, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := make(types.Dataset, 0, len(ds))
	for _, r := range ds {
		if b.Match(r) {
			out = append(out, r)
		}
	}
	Debugf("filter %s kept %d of %d records", b, len(out), len(ds))
	return out, nil
}
