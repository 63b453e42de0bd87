package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
)

func TestParseFlags_Defaults(t *testing.T) {
	c, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.bounds != argo.DefaultBounds() {
		t.Fatalf("default bounds %+v", c.bounds)
	}
	if c.out != "" || c.file != "" {
		t.Fatalf("no file should be read or written by default: %+v", c)
	}
	o := c.chartOptions()
	if o.Labels["Salinity"] != "Salinity (PSU)" || o.Labels["Depth"] != "Depth (m)" {
		t.Fatalf("default labels %v", o.Labels)
	}
}

func TestParseFlags_InvalidBounds(t *testing.T) {
	for _, args := range [][]string{
		{"-lat-min", "6", "-lat-max", "5"},
		{"-month", "0"},
		{"-month", "13"},
		{"-year", "99"},
	} {
		if _, err := parseFlags(args); !errors.Is(err, argo.ErrInvalidBounds) {
			t.Fatalf("%v: expected ErrInvalidBounds, got %v", args, err)
		}
	}
}

func TestRun_WritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "charts", "profiles.png")
	c, err := parseFlags([]string{"-out", out, "-env", filepath.Join(t.TempDir(), "none.env"), "-width", "500", "-height", "600"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := run(context.Background(), c); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 500 || img.Bounds().Dy() != 600 {
		t.Fatalf("chart size %v", img.Bounds())
	}
}

func TestRun_EmptySelectionStillWritesSVG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "april.svg")
	c, err := parseFlags([]string{"-out", out, "-month", "4", "-env", filepath.Join(t.TempDir(), "none.env")})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.bounds.Month != time.April {
		t.Fatalf("month flag not applied")
	}
	if err := run(context.Background(), c); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "<svg") {
		t.Fatalf("expected svg output")
	}
}

func TestRun_MalformedDatasetFails(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "bad.csv")
	body := "float_id,latitude,longitude,date,depth,salinity\n1,0,0,not-a-date,0,34\n"
	if err := os.WriteFile(data, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := filepath.Join(dir, "chart.png")
	c, err := parseFlags([]string{"-file", data, "-out", out, "-env", filepath.Join(dir, "none.env")})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := run(context.Background(), c); !errors.Is(err, argo.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no chart should be written on load failure")
	}
}
