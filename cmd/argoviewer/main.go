package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ArgoProfileMonitor/cmd/argoviewer/uihelpers"
	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	filePath  string
	title     string
	bounds    argo.Bounds
	dataset   types.Dataset
	filtered  types.Dataset
	summaries []argo.ProfileSummary
	showHints bool

	table       *widget.Table
	chartCanvas *canvas.Image
	statusLabel *widget.Label

	latMinEntry *widget.Entry
	latMaxEntry *widget.Entry
	monthSelect *widget.Select
	yearEntry   *widget.Entry
}

func main() {
	var (
		fileFlag  string
		exportDir string
		logLevel  string
		title     string
	)
	def := argo.DefaultBounds()
	var b argo.Bounds
	var month int
	flag.StringVar(&fileFlag, "file", "", "Dataset path (.csv, .jsonl, .nc). Empty uses the last file or the built-in sample")
	flag.Float64Var(&b.LatMin, "lat-min", def.LatMin, "Southern latitude bound (inclusive)")
	flag.Float64Var(&b.LatMax, "lat-max", def.LatMax, "Northern latitude bound (inclusive)")
	flag.IntVar(&month, "month", int(def.Month), "Calendar month 1-12")
	flag.IntVar(&b.Year, "year", def.Year, "Calendar year")
	flag.StringVar(&title, "title", "", "Chart title override")
	flag.StringVar(&exportDir, "export-dir", "", "Render the charts into this directory and exit without opening a window")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	b.Month = time.Month(month)
	argo.SetLogLevel(logLevel)

	if exportDir != "" {
		if err := RunExportMode(fileFlag, exportDir, b, title); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := b.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	a := app.NewWithID("com.argo.viewer")
	w := a.NewWindow("ARGO Profile Viewer")
	w.Resize(fyne.NewSize(1300, 860))

	state := &uiState{
		app:      a,
		window:   w,
		filePath: fileFlag,
		title:    title,
		bounds:   b,
	}
	flagsSet := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { flagsSet[f.Name] = true })
	loadPrefs(state, flagsSet)

	fileLabel := widget.NewLabel(truncatePath(state.filePath, 60))
	state.statusLabel = widget.NewLabel("")

	// filter controls
	state.latMinEntry = widget.NewEntry()
	state.latMaxEntry = widget.NewEntry()
	state.yearEntry = widget.NewEntry()
	state.monthSelect = widget.NewSelect(monthOptions(), nil)
	syncBoundInputs(state)
	applyBtn := widget.NewButton("Apply", func() { applyInputs(state) })
	state.latMinEntry.OnSubmitted = func(string) { applyInputs(state) }
	state.latMaxEntry.OnSubmitted = func(string) { applyInputs(state) }
	state.yearEntry.OnSubmitted = func(string) { applyInputs(state) }

	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	state.table = widget.NewTable(
		func() (int, int) { return len(state.summaries) + 1, len(tableHeaders) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(summaryCell(state.summaries, id.Row, id.Col))
		},
	)
	updateColumnWidths(state)

	state.chartCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(600, 520))

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state, fileLabel) }),
		widget.NewButton("Reload", func() { loadAll(state, fileLabel) }),
		widget.NewLabel("Lat min:"), container.NewGridWrap(fyne.NewSize(70, 36), state.latMinEntry),
		widget.NewLabel("Lat max:"), container.NewGridWrap(fyne.NewSize(70, 36), state.latMaxEntry),
		widget.NewLabel("Month:"), state.monthSelect,
		widget.NewLabel("Year:"), container.NewGridWrap(fyne.NewSize(80, 36), state.yearEntry),
		applyBtn, hintsChk,
		widget.NewLabel("File:"), fileLabel,
	)
	split := container.NewHSplit(container.NewVScroll(state.chartCanvas), state.table)
	split.Offset = 0.62
	w.SetContent(container.NewBorder(top, state.statusLabel, nil, nil, split))

	// redraw on resize so the chart follows the window width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() {
							updateColumnWidths(state)
							redrawChart(state)
						})
					}
				}
			}
		}()
	}

	state.monthSelect.OnChanged = func(string) { applyInputs(state) }
	hintsChk.OnChanged = func(v bool) {
		state.showHints = v
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state, fileLabel)
	loadAll(state, fileLabel)
	w.ShowAndRun()
}

func buildMenus(state *uiState, fileLabel *widget.Label) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state, fileLabel) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state, fileLabel) }),
		fyne.NewMenuItem("Use Sample Data", func() {
			state.filePath = ""
			fileLabel.SetText("(sample)")
			savePrefs(state)
			loadAll(state, fileLabel)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state, "salinity_profiles.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

func openFileDialog(state *uiState, fileLabel *widget.Label) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		fileLabel.SetText(truncatePath(state.filePath, 60))
		savePrefs(state)
		loadAll(state, fileLabel)
	}, state.window)
	d.Show()
}

// loadAll reads the dataset, applies the current bounds and redraws.
func loadAll(state *uiState, fileLabel *widget.Label) {
	defer argo.TimeTrack(time.Now(), "viewer load")
	ds, err := argo.LoadFile(state.filePath)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	if state.filePath == "" && fileLabel != nil {
		fileLabel.SetText("(sample)")
	}
	state.dataset = ds
	if err := applyBounds(state, state.bounds); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	argo.Infof("[viewer] loaded %d records from %s", len(ds), displayName(state.filePath))
	refreshViews(state)
}

// applyInputs validates the filter entries and re-filters the dataset.
func applyInputs(state *uiState) {
	b, err := parseBoundsInputs(state.latMinEntry.Text, state.latMaxEntry.Text, state.monthSelect.Selected, state.yearEntry.Text)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	if err := applyBounds(state, b); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	savePrefs(state)
	refreshViews(state)
}

func refreshViews(state *uiState) {
	if state.statusLabel != nil {
		state.statusLabel.SetText(fmt.Sprintf("%s: %d of %d records, %d floats", state.bounds, len(state.filtered), len(state.dataset), len(state.summaries)))
	}
	if state.table != nil {
		state.table.Refresh()
	}
	redrawChart(state)
}

func redrawChart(state *uiState) {
	if state.chartCanvas == nil {
		return
	}
	img := renderProfileChart(state)
	state.chartCanvas.Image = img
	cw, ch := chartSize(state)
	state.chartCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(ch)))
	state.chartCanvas.Refresh()
}

func updateColumnWidths(state *uiState) {
	if state == nil || state.table == nil {
		return
	}
	winW := float32(1300)
	if state.window != nil && state.window.Canvas() != nil {
		winW = state.window.Canvas().Size().Width
	}
	for col, w := range uihelpers.ComputeTableColumnWidths(winW) {
		state.table.SetColumnWidth(col, float32(w))
	}
	state.table.Refresh()
}

func syncBoundInputs(state *uiState) {
	state.latMinEntry.SetText(strconv.FormatFloat(state.bounds.LatMin, 'g', -1, 64))
	state.latMaxEntry.SetText(strconv.FormatFloat(state.bounds.LatMax, 'g', -1, 64))
	state.yearEntry.SetText(strconv.Itoa(state.bounds.Year))
	state.monthSelect.Selected = state.bounds.Month.String()
	state.monthSelect.Refresh()
}

func exportChartPNG(state *uiState, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if state.chartCanvas == nil || state.chartCanvas.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	img := state.chartCanvas.Image
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetFloat("latMin", state.bounds.LatMin)
	prefs.SetFloat("latMax", state.bounds.LatMax)
	prefs.SetInt("month", int(state.bounds.Month))
	prefs.SetInt("year", state.bounds.Year)
	prefs.SetBool("showHints", state.showHints)
}

// loadPrefs restores the last session. Values given on the command line win.
func loadPrefs(state *uiState, flagsSet map[string]bool) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if !flagsSet["file"] {
		if last := prefs.String("lastFile"); last != "" {
			if _, err := os.Stat(last); err == nil {
				state.filePath = last
			}
		}
	}
	b := state.bounds
	if !flagsSet["lat-min"] {
		b.LatMin = prefs.FloatWithFallback("latMin", b.LatMin)
	}
	if !flagsSet["lat-max"] {
		b.LatMax = prefs.FloatWithFallback("latMax", b.LatMax)
	}
	if !flagsSet["month"] {
		b.Month = time.Month(prefs.IntWithFallback("month", int(b.Month)))
	}
	if !flagsSet["year"] {
		b.Year = prefs.IntWithFallback("year", b.Year)
	}
	if b.Validate() == nil {
		state.bounds = b
	} else {
		argo.Warnf("[viewer] ignoring stored bounds %s", b)
	}
	state.showHints = prefs.BoolWithFallback("showHints", false)
}

func displayName(p string) string {
	if strings.TrimSpace(p) == "" {
		return "built-in sample"
	}
	return filepath.Base(p)
}

func truncatePath(p string, n int) string {
	if p == "" {
		return "(sample)"
	}
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
