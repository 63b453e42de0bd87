package argo

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

func TestFilter_SampleMarch2023KeepsAllSix(t *testing.T) {
	ds := SampleDataset()
	got, err := Filter(ds, DefaultBounds())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !reflect.DeepEqual(got, ds) {
		t.Fatalf("expected all %d records, got %d: %+v", len(ds), len(got), got)
	}
	ids := got.FloatIDs()
	if len(ids) != 2 || ids[0] != 2903304 || ids[1] != 2901205 {
		t.Fatalf("unexpected floats %v", ids)
	}
}

func TestFilter_AprilIsEmptyNotError(t *testing.T) {
	b := DefaultBounds()
	b.Month = time.April
	got, err := Filter(SampleDataset(), b)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil dataset, got %#v", got)
	}
}

func TestFilter_FloatOutsideBandExcluded(t *testing.T) {
	ds := SampleDataset()
	for i := range ds {
		if ds[i].FloatID == 2903304 {
			ds[i].Latitude = 10.0
		}
	}
	got, err := Filter(ds, DefaultBounds())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for _, r := range got {
		if r.FloatID != 2901205 {
			t.Fatalf("unexpected float %d retained", r.FloatID)
		}
	}
}

func TestFilter_LatitudeBoundsInclusive(t *testing.T) {
	date := day(2023, time.March, 15)
	eps := 1e-9
	ds := types.Dataset{
		{FloatID: 1, Latitude: -5, Date: date},
		{FloatID: 2, Latitude: 5, Date: date},
		{FloatID: 3, Latitude: -5 - eps, Date: date},
		{FloatID: 4, Latitude: 5 + eps, Date: date},
		{FloatID: 5, Latitude: math.NaN(), Date: date},
	}
	got, err := Filter(ds, DefaultBounds())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if ids := got.FloatIDs(); !reflect.DeepEqual(ids, []int64{1, 2}) {
		t.Fatalf("expected floats [1 2], got %v", ids)
	}
}

func TestFilter_MonthBoundary(t *testing.T) {
	ds := types.Dataset{
		{FloatID: 1, Date: day(2023, time.March, 1)},
		{FloatID: 2, Date: day(2023, time.March, 31)},
		{FloatID: 3, Date: day(2023, time.April, 1)},
		{FloatID: 4, Date: day(2023, time.February, 28)},
		{FloatID: 5, Date: day(2022, time.March, 15)},
		{FloatID: 6, Date: time.Date(2023, time.March, 31, 23, 59, 59, 0, time.UTC)},
	}
	got, err := Filter(ds, DefaultBounds())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if ids := got.FloatIDs(); !reflect.DeepEqual(ids, []int64{1, 2, 6}) {
		t.Fatalf("expected floats [1 2 6], got %v", ids)
	}
}

func TestFilter_SubsetIdempotentOrderPreserving(t *testing.T) {
	base := day(2023, time.March, 1)
	var ds types.Dataset
	for i := 0; i < 40; i++ {
		ds = append(ds, types.Record{
			FloatID:  int64(i % 7),
			Latitude: float64(i%21) - 10,
			Date:     base.AddDate(0, 0, i),
			Depth:    float64(i * 10),
		})
	}
	b := DefaultBounds()
	once, err := Filter(ds, b)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	twice, err := Filter(once, b)
	if err != nil {
		t.Fatalf("filter twice: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent")
	}
	// every kept record appears in ds at a strictly increasing position
	pos := -1
	for _, r := range once {
		found := -1
		for j := pos + 1; j < len(ds); j++ {
			if reflect.DeepEqual(ds[j], r) {
				found = j
				break
			}
		}
		if found < 0 {
			t.Fatalf("record %+v not found in order after index %d", r, pos)
		}
		pos = found
	}
}

func TestFilter_DoesNotShareBackingArray(t *testing.T) {
	ds := SampleDataset()
	got, err := Filter(ds, DefaultBounds())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	got[0].Salinity = 99
	if ds[0].Salinity == 99 {
		t.Fatalf("filter result aliases the input dataset")
	}
}

func TestBoundsValidate(t *testing.T) {
	cases := []struct {
		name string
		b    Bounds
		ok   bool
	}{
		{"default", DefaultBounds(), true},
		{"equal lat", Bounds{LatMin: 3, LatMax: 3, Month: time.June, Year: 2020}, true},
		{"inverted lat", Bounds{LatMin: 5, LatMax: -5, Month: time.March, Year: 2023}, false},
		{"nan lat", Bounds{LatMin: math.NaN(), LatMax: 5, Month: time.March, Year: 2023}, false},
		{"month zero", Bounds{LatMin: -5, LatMax: 5, Month: 0, Year: 2023}, false},
		{"month 13", Bounds{LatMin: -5, LatMax: 5, Month: 13, Year: 2023}, false},
		{"short year", Bounds{LatMin: -5, LatMax: 5, Month: time.March, Year: 23}, false},
		{"long year", Bounds{LatMin: -5, LatMax: 5, Month: time.March, Year: 20230}, false},
	}
	for _, c := range cases {
		err := c.b.Validate()
		if c.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok {
			if err == nil {
				t.Fatalf("%s: expected error", c.name)
			}
			if !errors.Is(err, ErrInvalidBounds) {
				t.Fatalf("%s: error %v does not wrap ErrInvalidBounds", c.name, err)
			}
		}
	}
}

func TestFilter_InvalidBoundsFailBeforeFiltering(t *testing.T) {
	got, err := Filter(SampleDataset(), Bounds{LatMin: 5, LatMax: -5, Month: time.March, Year: 2023})
	if !errors.Is(err, ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil dataset on error, got %v", got)
	}
}
