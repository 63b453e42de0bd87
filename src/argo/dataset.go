// Package argo holds the float dataset pipeline: loading, filtering by
// region and month, grouping records into per-float profiles, and exporting.
package argo

import (
	"errors"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

var (
	// ErrInvalidBounds is returned when filter bounds cannot describe any region/month.
	ErrInvalidBounds = errors.New("invalid filter bounds")
	// ErrMalformedRecord is returned when a dataset row cannot be parsed or is out of range.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SampleDataset returns the built-in six-record dataset: two floats near the
// equator, one vertical profile each, in March 2023.
func SampleDataset() types.Dataset {
	a := day(2023, time.March, 5)
	b := day(2023, time.March, 12)
	return types.Dataset{
		{FloatID: 2903304, Latitude: 1.0, Longitude: 160.0, Date: a, Depth: 0, Salinity: 34.5},
		{FloatID: 2903304, Latitude: 1.0, Longitude: 160.0, Date: a, Depth: 500, Salinity: 34.8},
		{FloatID: 2903304, Latitude: 1.0, Longitude: 160.0, Date: a, Depth: 1000, Salinity: 35.0},
		{FloatID: 2901205, Latitude: -2.0, Longitude: 150.0, Date: b, Depth: 0, Salinity: 34.6},
		{FloatID: 2901205, Latitude: -2.0, Longitude: 150.0, Date: b, Depth: 500, Salinity: 34.9},
		{FloatID: 2901205, Latitude: -2.0, Longitude: 150.0, Date: b, Depth: 1000, Salinity: 35.1},
	}
}
