package argo

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// LoadFile reads a dataset from path, choosing the reader by extension:
// .csv, .jsonl/.ndjson or .nc. An empty path yields SampleDataset.
// Any malformed row fails the whole load.
func LoadFile(path string) (types.Dataset, error) {
	defer TimeTrack(time.Now(), "load "+path)
	if strings.TrimSpace(path) == "" {
		Debugf("no dataset path given; using built-in sample")
		return SampleDataset(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".jsonl", ".ndjson":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadJSONL(f)
	case ".nc":
		return ReadNetCDF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// parseDate accepts a plain calendar date or an RFC3339 timestamp and
// returns it in UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(types.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return t.UTC(), nil
}

// jsonRecord is the line format of .jsonl datasets. Pointers distinguish a
// missing field from a zero value.
type jsonRecord struct {
	FloatID   *int64   `json:"float_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Date      string   `json:"date"`
	Depth     *float64 `json:"depth"`
	Salinity  *float64 `json:"salinity"`
}

func (j jsonRecord) record() (types.Record, error) {
	var missing []string
	if j.FloatID == nil {
		missing = append(missing, "float_id")
	}
	if j.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if j.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if j.Depth == nil {
		missing = append(missing, "depth")
	}
	if j.Salinity == nil {
		missing = append(missing, "salinity")
	}
	if len(missing) > 0 {
		return types.Record{}, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	d, err := parseDate(j.Date)
	if err != nil {
		return types.Record{}, err
	}
	r := types.Record{
		FloatID:   *j.FloatID,
		Latitude:  *j.Latitude,
		Longitude: *j.Longitude,
		Date:      d,
		Depth:     *j.Depth,
		Salinity:  *j.Salinity,
	}
	return r, r.Validate()
}

// ReadJSONL reads one JSON record per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) (types.Dataset, error) {
	var ds types.Dataset
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(strings.TrimSpace(string(b))) == 0 {
			continue
		}
		var jr jsonRecord
		if err := json.Unmarshal(b, &jr); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		rec, err := jr.record()
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		ds = append(ds, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}
