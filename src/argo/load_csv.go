package argo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvColumns = []string{"float_id", "latitude", "longitude", "date", "depth", "salinity"}

// normalizeColumn folds header spellings such as "FloatID", "float_id" and
// "Float Id" onto the same key.
func normalizeColumn(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, " ", "")
}

// resolveColumns maps each record column to its header name in names.
func resolveColumns(names []string) (map[string]string, error) {
	byKey := map[string]string{}
	for _, name := range names {
		byKey[normalizeColumn(name)] = name
	}
	out := make(map[string]string, len(csvColumns))
	for _, c := range csvColumns {
		name, ok := byKey[normalizeColumn(c)]
		if !ok {
			return nil, fmt.Errorf("%w: csv is missing column %q", ErrMalformedRecord, c)
		}
		out[c] = name
	}
	return out, nil
}

// ReadCSV reads a header-prefixed CSV table with the record columns in any
// order. Extra columns are ignored. A header without rows is an empty dataset.
func ReadCSV(r io.Reader) (types.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if header, rest, _ := bytes.Cut(data, []byte("\n")); len(bytes.TrimSpace(rest)) == 0 {
		if len(bytes.TrimSpace(header)) == 0 {
			return nil, fmt.Errorf("%w: csv has no header", ErrMalformedRecord)
		}
		names, err := csv.NewReader(bytes.NewReader(header)).Read()
		if err != nil {
			return nil, fmt.Errorf("read csv header: %w", err)
		}
		if _, err := resolveColumns(names); err != nil {
			return nil, err
		}
		return types.Dataset{}, nil
	}

	// Everything is read as strings so that a bad cell fails with its row
	// number instead of silently turning into NaN.
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	names, err := resolveColumns(df.Names())
	if err != nil {
		return nil, err
	}
	cols := map[string][]string{}
	for c, name := range names {
		cols[c] = df.Col(name).Records()
	}

	n := df.Nrow()
	ds := make(types.Dataset, 0, n)
	for i := 0; i < n; i++ {
		rec, err := csvRecord(cols, i)
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRecord, i+2, err)
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

func csvRecord(cols map[string][]string, i int) (types.Record, error) {
	var rec types.Record
	id, err := strconv.ParseInt(strings.TrimSpace(cols["float_id"][i]), 10, 64)
	if err != nil {
		return rec, fmt.Errorf("float_id %q is not an integer", cols["float_id"][i])
	}
	rec.FloatID = id
	num := func(col string) (float64, error) {
		raw := strings.TrimSpace(cols[col][i])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			return 0, fmt.Errorf("%s %q is not numeric", col, raw)
		}
		return v, nil
	}
	if rec.Latitude, err = num("latitude"); err != nil {
		return rec, err
	}
	if rec.Longitude, err = num("longitude"); err != nil {
		return rec, err
	}
	if rec.Depth, err = num("depth"); err != nil {
		return rec, err
	}
	if rec.Salinity, err = num("salinity"); err != nil {
		return rec, err
	}
	if rec.Date, err = parseDate(cols["date"][i]); err != nil {
		return rec, err
	}
	return rec, rec.Validate()
}
