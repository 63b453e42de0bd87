package types

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used for record dates in text formats.
const DateLayout = "2006-01-02"

// Record is one observation taken by a float at a single depth level.
type Record struct {
	FloatID   int64     `json:"float_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Date      time.Time `json:"date"`
	Depth     float64   `json:"depth"`    // metres, >= 0
	Salinity  float64   `json:"salinity"` // PSU
}

// Validate reports the first field that is out of its physical range.
func (r Record) Validate() error {
	switch {
	case math.IsNaN(r.Latitude) || r.Latitude < -90 || r.Latitude > 90:
		return fmt.Errorf("latitude %v outside [-90,90]", r.Latitude)
	case math.IsNaN(r.Longitude) || r.Longitude < -180 || r.Longitude > 360:
		return fmt.Errorf("longitude %v outside [-180,360]", r.Longitude)
	case math.IsNaN(r.Depth) || r.Depth < 0:
		return fmt.Errorf("depth %v must be non-negative", r.Depth)
	case math.IsNaN(r.Salinity) || math.IsInf(r.Salinity, 0):
		return fmt.Errorf("salinity %v is not a number", r.Salinity)
	case r.Date.IsZero():
		return fmt.Errorf("missing date")
	}
	return nil
}

// Dataset is an ordered, read-only sequence of records. Operations over a
// Dataset return new slices and never modify the receiver.
type Dataset []Record

// FloatIDs returns the distinct float ids in order of first appearance.
func (d Dataset) FloatIDs() []int64 {
	seen := make(map[int64]bool, len(d))
	var ids []int64
	for _, r := range d {
		if seen[r.FloatID] {
			continue
		}
		seen[r.FloatID] = true
		ids = append(ids, r.FloatID)
	}
	return ids
}

// Clone returns a copy that shares no backing array with d.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}
