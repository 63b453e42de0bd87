package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	def := argo.DefaultBounds()
	var (
		file   string
		b      argo.Bounds
		month  int
		asJSON bool
	)
	fs := flag.NewFlagSet("argoreader", flag.ContinueOnError)
	fs.StringVar(&file, "file", "", "Dataset path (.csv, .jsonl, .nc). Empty uses the built-in sample")
	fs.Float64Var(&b.LatMin, "lat-min", def.LatMin, "Southern latitude bound (inclusive)")
	fs.Float64Var(&b.LatMax, "lat-max", def.LatMax, "Northern latitude bound (inclusive)")
	fs.IntVar(&month, "month", int(def.Month), "Calendar month 1-12")
	fs.IntVar(&b.Year, "year", def.Year, "Calendar year")
	fs.BoolVar(&asJSON, "json", false, "Print profile summaries as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	b.Month = time.Month(month)

	ds, err := argo.LoadFile(file)
	if err != nil {
		return err
	}
	filtered, err := argo.Filter(ds, b)
	if err != nil {
		return err
	}
	sums := argo.Summarize(argo.GroupByFloat(filtered))
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}
	fmt.Fprintf(out, "Selection: %s\n", b)
	fmt.Fprintf(out, "Total records: %d of %d\n", len(filtered), len(ds))
	fmt.Fprintf(out, "Floats: %d\n", len(sums))
	for _, s := range sums {
		fmt.Fprintf(out, "%d %s lat=%.2f lon=%.2f levels=%d max_depth=%.0f surface=%.2f mean=%.2f\n",
			s.FloatID, s.Date.Format(types.DateLayout), s.Latitude, s.Longitude, s.Levels, s.MaxDepth, s.SurfaceSalinity, s.MeanSalinity)
	}
	return nil
}
