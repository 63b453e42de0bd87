package argo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// PointWriter is the subset of influxdb2's blocking write API the exporter uses.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Exporter writes records as InfluxDB points in batches.
type Exporter struct {
	w           PointWriter
	measurement string
	batchSize   int
}

// NewExporter wraps w. A batchSize <= 0 writes everything in one call.
func NewExporter(w PointWriter, measurement string, batchSize int) *Exporter {
	if measurement == "" {
		measurement = DefaultMeasurement
	}
	return &Exporter{w: w, measurement: measurement, batchSize: batchSize}
}

// pointTime is the record date offset by one millisecond per metre of
// depth, so levels of one profile keep distinct timestamps down to 1e-6 m.
func pointTime(r types.Record) time.Time {
	return r.Date.Add(time.Duration(math.Round(r.Depth * float64(time.Millisecond))))
}

// RecordPoint converts r to a point stamped with pointTime.
func RecordPoint(measurement string, r types.Record) *write.Point {
	return newPoint(measurement, r, pointTime(r))
}

func newPoint(measurement string, r types.Record, ts time.Time) *write.Point {
	return influxdb2.NewPoint(measurement,
		map[string]string{"float_id": strconv.FormatInt(r.FloatID, 10)},
		map[string]interface{}{
			"latitude":     r.Latitude,
			"longitude":    r.Longitude,
			"depth_m":      r.Depth,
			"salinity_psu": r.Salinity,
		},
		ts)
}

type seriesKey struct {
	floatID int64
	ns      int64
}

// Export writes ds and returns the number of points written before any error.
func (e *Exporter) Export(ctx context.Context, ds types.Dataset) (int, error) {
	defer TimeTrack(time.Now(), "influx export")
	size := e.batchSize
	if size <= 0 || size > len(ds) {
		size = len(ds)
	}
	written := 0
	// a float timestamp already used moves forward by 1ns
	seen := make(map[seriesKey]struct{}, len(ds))
	for begin := 0; begin < len(ds); begin += size {
		limit := begin + size
		if limit > len(ds) {
			limit = len(ds)
		}
		pts := make([]*write.Point, 0, limit-begin)
		for _, r := range ds[begin:limit] {
			ts := pointTime(r)
			k := seriesKey{floatID: r.FloatID, ns: ts.UnixNano()}
			for {
				if _, dup := seen[k]; !dup {
					break
				}
				k.ns++
			}
			if shift := time.Duration(k.ns - ts.UnixNano()); shift > 0 {
				Debugf("influx: float %d timestamp %s taken, shifted by %s", r.FloatID, ts.Format(time.RFC3339Nano), shift)
				ts = ts.Add(shift)
			}
			seen[k] = struct{}{}
			pts = append(pts, newPoint(e.measurement, r, ts))
		}
		if err := e.w.WritePoint(ctx, pts...); err != nil {
			return written, fmt.Errorf("influx write batch at %d: %w", begin, err)
		}
		written += len(pts)
		Debugf("influx: wrote %d/%d points", written, len(ds))
	}
	return written, nil
}

// ExportToInflux connects with cfg, checks server health and exports ds.
func ExportToInflux(ctx context.Context, cfg InfluxConfig, ds types.Dataset) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	defer client.Close()

	health, err := client.Health(ctx)
	if err != nil {
		return 0, fmt.Errorf("influx health: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return 0, fmt.Errorf("influx health check failed: %s", msg)
	}
	exp := NewExporter(client.WriteAPIBlocking(cfg.Org, cfg.Bucket), cfg.Measurement, cfg.BatchSize)
	n, err := exp.Export(ctx, ds)
	if err != nil {
		return n, err
	}
	Infof("influx: exported %d points to %s/%s", n, cfg.Org, cfg.Bucket)
	return n, nil
}
