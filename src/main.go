// ARGO salinity profile pipeline entrypoint.
//
// Loads a float dataset (built-in sample, CSV, JSONL or ARGO NetCDF), keeps the
// records inside a latitude band for one calendar month, and draws salinity
// against depth with one line per float and the surface at the top.
//
// Output modes:
//  1. --out chart.png|chart.svg: render once to a file and exit.
//  2. default: serve the chart in a browser tab on --listen until interrupted.
//
// With --influx-export the filtered records are also written to InfluxDB
// (connection from ARGO_INFLUX_* variables, optionally via a .env file).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/plot"
	"github.com/iafilius/ArgoProfileMonitor/src/server"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

type config struct {
	file       string
	bounds     argo.Bounds
	month      int
	title      string
	salLabel   string
	depthLabel string
	width      int
	height     int
	out        string
	listen     string
	influx     bool
	envFile    string
	logLevel   string
}

func parseFlags(args []string) (config, error) {
	def := argo.DefaultBounds()
	opts := plot.DefaultOptions()
	var c config
	fs := flag.NewFlagSet("argoprofiles", flag.ContinueOnError)
	fs.StringVar(&c.file, "file", "", "Dataset path (.csv, .jsonl, .nc). Empty uses the built-in sample")
	fs.Float64Var(&c.bounds.LatMin, "lat-min", def.LatMin, "Southern latitude bound (inclusive)")
	fs.Float64Var(&c.bounds.LatMax, "lat-max", def.LatMax, "Northern latitude bound (inclusive)")
	fs.IntVar(&c.month, "month", int(def.Month), "Calendar month 1-12")
	fs.IntVar(&c.bounds.Year, "year", def.Year, "Calendar year (4 digits)")
	fs.StringVar(&c.title, "title", opts.Title, "Chart title")
	fs.StringVar(&c.salLabel, "salinity-label", opts.Labels[plot.FieldSalinity], "Salinity axis label")
	fs.StringVar(&c.depthLabel, "depth-label", opts.Labels[plot.FieldDepth], "Depth axis label")
	fs.IntVar(&c.width, "width", opts.Width, "Chart width in pixels")
	fs.IntVar(&c.height, "height", opts.Height, "Chart height in pixels")
	fs.StringVar(&c.out, "out", "", "Write the chart to this file (.png or .svg) instead of serving it")
	fs.StringVar(&c.listen, "listen", "127.0.0.1:8050", "Address to serve the chart on when --out is empty")
	fs.BoolVar(&c.influx, "influx-export", false, "Export filtered records to InfluxDB (ARGO_INFLUX_* settings)")
	fs.StringVar(&c.envFile, "env", ".env", "Optional .env file with ARGO_INFLUX_* settings")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	c.bounds.Month = time.Month(c.month)
	return c, c.bounds.Validate()
}

func (c config) chartOptions() plot.Options {
	return plot.Options{
		Title: c.title,
		Labels: map[string]string{
			plot.FieldSalinity: c.salLabel,
			plot.FieldDepth:    c.depthLabel,
		},
		Width:  c.width,
		Height: c.height,
	}
}

// writeChart renders the chart for ds to path, format chosen by extension.
func writeChart(path string, ds types.Dataset, opts plot.Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plot.Build(ds, opts).Render(f, plot.FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(ctx context.Context, c config) error {
	if !argo.SetLogLevel(c.logLevel) {
		argo.Warnf("unknown log level %q; keeping %d", c.logLevel, argo.GetLogLevel())
	}
	if err := argo.LoadEnv(c.envFile); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	ds, err := argo.LoadFile(c.file)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	filtered, err := argo.Filter(ds, c.bounds)
	if err != nil {
		return err
	}
	argo.Infof("%s: %d of %d records, %d floats", c.bounds, len(filtered), len(ds), len(filtered.FloatIDs()))
	if len(filtered) == 0 {
		argo.Warnf("no records match %s; the chart will be empty", c.bounds)
	}

	if c.influx {
		if _, err := argo.ExportToInflux(ctx, argo.InfluxConfigFromEnv(), filtered); err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.out) != "" {
		if err := writeChart(c.out, filtered, c.chartOptions()); err != nil {
			return err
		}
		argo.Infof("wrote %s", c.out)
		return nil
	}
	// the browser can re-filter via query parameters; keep the full dataset
	srv := server.New(ds, c.bounds, c.chartOptions())
	return server.ListenAndServe(ctx, c.listen, srv.Handler())
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, c); err != nil {
		argo.Errorf("%v", err)
		os.Exit(1)
	}
}
