package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/plot"
)

// RunExportMode renders the filtered profile chart as PNG and SVG under outDir.
// It runs headlessly without creating a UI window.
func RunExportMode(filePath, outDir string, b argo.Bounds, title string) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	ds, err := argo.LoadFile(filePath)
	if err != nil {
		return err
	}
	st := &uiState{filePath: filePath, title: title, dataset: ds}
	if err := applyBounds(st, b); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, renderProfileChart(st)); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	pngPath := filepath.Join(outDir, "salinity_profiles.png")
	if err := os.WriteFile(pngPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pngPath, err)
	}

	svgPath := filepath.Join(outDir, "salinity_profiles.svg")
	f, err := os.Create(svgPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", svgPath, err)
	}
	if err := plot.Build(st.filtered, chartOptions(st)).Render(f, plot.SVG); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	argo.Infof("[viewer] exported %d floats to %s", len(st.summaries), outDir)
	return nil
}
