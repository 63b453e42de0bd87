package argo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// argoFill is the smallest value treated as _FillValue in ARGO core files
// (99999 for PRES/PSAL, 999999 for JULD).
const argoFill = 99999.0

// juldEpoch is the reference date of the JULD variable.
var juldEpoch = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// ReadNetCDF reads an ARGO core profile file (N_PROF x N_LEVELS) into one
// record per valid level. Adjusted PRES/PSAL values win over raw ones when
// present. Profiles with a fill-valued date or position are skipped.
func ReadNetCDF(path string) (types.Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf %s: %w", path, err)
	}
	defer nc.Close()

	platforms, err := varStrings(nc, "PLATFORM_NUMBER")
	if err != nil {
		return nil, err
	}
	lat, err := varFloats(nc, "LATITUDE")
	if err != nil {
		return nil, err
	}
	lon, err := varFloats(nc, "LONGITUDE")
	if err != nil {
		return nil, err
	}
	juld, err := varFloats(nc, "JULD")
	if err != nil {
		return nil, err
	}
	pres, err := varLevels(nc, "PRES")
	if err != nil {
		return nil, err
	}
	psal, err := varLevels(nc, "PSAL")
	if err != nil {
		return nil, err
	}
	presAdj := optionalLevels(nc, path, "PRES_ADJUSTED")
	psalAdj := optionalLevels(nc, path, "PSAL_ADJUSTED")

	nProf := len(platforms)
	if len(lat) != nProf || len(lon) != nProf || len(juld) != nProf || len(pres) != nProf || len(psal) != nProf {
		return nil, fmt.Errorf("%w: N_PROF mismatch between variables in %s", ErrMalformedRecord, path)
	}

	var ds types.Dataset
	for p := 0; p < nProf; p++ {
		id, err := strconv.ParseInt(strings.TrimSpace(platforms[p]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: profile %d: platform number %q", ErrMalformedRecord, p, platforms[p])
		}
		if isFill(juld[p]) || isFill(lat[p]) || isFill(lon[p]) {
			Warnf("netcdf %s: skipping profile %d of float %d (fill-valued date or position)", path, p, id)
			continue
		}
		date := JuldToDate(juld[p])
		for l := range pres[p] {
			pr := pickLevel(presAdj, pres, p, l)
			sal := pickLevel(psalAdj, psal, p, l)
			if isFill(pr) || isFill(sal) {
				continue
			}
			rec := types.Record{
				FloatID:   id,
				Latitude:  lat[p],
				Longitude: lon[p],
				Date:      date,
				Depth:     PressureToDepth(pr, lat[p]),
				Salinity:  sal,
			}
			if err := rec.Validate(); err != nil {
				return nil, fmt.Errorf("%w: profile %d level %d: %v", ErrMalformedRecord, p, l, err)
			}
			ds = append(ds, rec)
		}
	}
	Infof("netcdf %s: %d profiles, %d levels kept", path, nProf, len(ds))
	return ds, nil
}

// optionalLevels reads an adjusted variable. A missing variable yields nil
// quietly; any other failure is logged and the raw values are used.
func optionalLevels(nc api.Group, path, name string) [][]float64 {
	v, err := varLevels(nc, name)
	if err == nil {
		return v
	}
	if !errors.Is(err, cdf.ErrNotFound) && !errors.Is(err, hdf5.ErrNotFound) {
		Warnf("netcdf %s: ignoring %s: %v", path, name, err)
	}
	return nil
}

func isFill(v float64) bool { return math.IsNaN(v) || math.Abs(v) >= argoFill }

func pickLevel(adj, raw [][]float64, p, l int) float64 {
	if p < len(adj) && l < len(adj[p]) && !isFill(adj[p][l]) {
		return adj[p][l]
	}
	if l < len(raw[p]) {
		return raw[p][l]
	}
	return math.NaN()
}

// JuldToDate converts ARGO julian days (since 1950-01-01 UTC) to the
// calendar date of the profile.
func JuldToDate(juld float64) time.Time {
	t := juldEpoch.Add(time.Duration(juld * float64(24*time.Hour)))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PressureToDepth converts sea pressure in dbar to depth in metres at the
// given latitude (UNESCO 1983, Fofonoff & Millard).
func PressureToDepth(p, lat float64) float64 {
	if p <= 0 {
		return 0
	}
	x := math.Sin(lat / 57.29578)
	x *= x
	g := 9.780318*(1.0+(5.2788e-3+2.36e-5*x)*x) + 1.092e-6*p
	return ((((-1.82e-15*p+2.279e-10)*p-2.2512e-5)*p + 9.72659) * p) / g
}

func varValues(nc api.Group, name string) (interface{}, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("netcdf variable %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("netcdf variable %s: %w", name, err)
	}
	return v, nil
}

func varFloats(nc api.Group, name string) ([]float64, error) {
	v, err := varValues(nc, name)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case []float64:
		return vv, nil
	case []float32:
		out := make([]float64, len(vv))
		for i, f := range vv {
			out[i] = float64(f)
		}
		return out, nil
	case float64:
		return []float64{vv}, nil
	case float32:
		return []float64{float64(vv)}, nil
	}
	return nil, fmt.Errorf("netcdf variable %s: unexpected type %T", name, v)
}

func varLevels(nc api.Group, name string) ([][]float64, error) {
	v, err := varValues(nc, name)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case [][]float32:
		out := make([][]float64, len(vv))
		for i, row := range vv {
			out[i] = make([]float64, len(row))
			for j, f := range row {
				out[i][j] = float64(f)
			}
		}
		return out, nil
	case [][]float64:
		return vv, nil
	case []float32:
		// single-profile files may collapse N_PROF
		row := make([]float64, len(vv))
		for j, f := range vv {
			row[j] = float64(f)
		}
		return [][]float64{row}, nil
	case []float64:
		return [][]float64{vv}, nil
	}
	return nil, fmt.Errorf("netcdf variable %s: unexpected type %T", name, v)
}

func varStrings(nc api.Group, name string) ([]string, error) {
	v, err := varValues(nc, name)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case []string:
		return vv, nil
	case string:
		return []string{vv}, nil
	case [][]byte:
		out := make([]string, len(vv))
		for i, b := range vv {
			out[i] = string(b)
		}
		return out, nil
	}
	return nil, fmt.Errorf("netcdf variable %s: unexpected type %T", name, v)
}
