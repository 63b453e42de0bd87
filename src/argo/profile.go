package argo

import (
	"math"
	"sort"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// Level is one depth/salinity sample of a profile.
type Level struct {
	Depth    float64 `json:"depth"`
	Salinity float64 `json:"salinity"`
}

// Profile is the vertical series of one float, levels ordered by ascending depth.
type Profile struct {
	FloatID   int64     `json:"float_id"`
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Levels    []Level   `json:"levels"`
}

// GroupByFloat splits ds into one Profile per float id, in order of first
// appearance. Date and position are taken from the float's first record.
func GroupByFloat(ds types.Dataset) []Profile {
	idx := map[int64]int{}
	var out []Profile
	for _, r := range ds {
		i, ok := idx[r.FloatID]
		if !ok {
			i = len(out)
			idx[r.FloatID] = i
			out = append(out, Profile{FloatID: r.FloatID, Date: r.Date, Latitude: r.Latitude, Longitude: r.Longitude})
		}
		out[i].Levels = append(out[i].Levels, Level{Depth: r.Depth, Salinity: r.Salinity})
	}
	for i := range out {
		sort.SliceStable(out[i].Levels, func(a, b int) bool { return out[i].Levels[a].Depth < out[i].Levels[b].Depth })
	}
	return out
}

// ProfileSummary condenses one profile for tables and reports.
type ProfileSummary struct {
	FloatID         int64     `json:"float_id"`
	Date            time.Time `json:"date"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Levels          int       `json:"levels"`
	MaxDepth        float64   `json:"max_depth_m"`
	SurfaceSalinity float64   `json:"surface_salinity_psu"`
	MeanSalinity    float64   `json:"mean_salinity_psu"`
	MinSalinity     float64   `json:"min_salinity_psu"`
	MaxSalinity     float64   `json:"max_salinity_psu"`
}

// Summarize computes one summary per profile. Surface salinity is the value
// at the shallowest level.
func Summarize(profiles []Profile) []ProfileSummary {
	out := make([]ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		s := ProfileSummary{
			FloatID:   p.FloatID,
			Date:      p.Date,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Levels:    len(p.Levels),
		}
		if len(p.Levels) > 0 {
			s.SurfaceSalinity = p.Levels[0].Salinity
			s.MaxDepth = p.Levels[len(p.Levels)-1].Depth
			s.MinSalinity, s.MaxSalinity = math.Inf(1), math.Inf(-1)
			var sum float64
			for _, l := range p.Levels {
				sum += l.Salinity
				s.MinSalinity = math.Min(s.MinSalinity, l.Salinity)
				s.MaxSalinity = math.Max(s.MaxSalinity, l.Salinity)
			}
			s.MeanSalinity = sum / float64(len(p.Levels))
		}
		out = append(out, s)
	}
	return out
}
