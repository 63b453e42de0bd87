package main

import "testing"

func TestExportChartPNG_NoWindowIsNoop(t *testing.T) {
	exportChartPNG(nil, "salinity_profiles.png")
	exportChartPNG(&uiState{}, "salinity_profiles.png")
}

func TestSavePrefs_NoAppIsNoop(t *testing.T) {
	savePrefs(nil)
	savePrefs(&uiState{})
	loadPrefs(&uiState{}, nil)
}
