package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/joho/godotenv"

	"github.com/yuli091280/Race-Walking-Visualization/cmd/locviewer/uihelpers"
	"github.com/yuli091280/Race-Walking-Visualization/src/judgedb"
	"github.com/yuli091280/Race-Walking-Visualization/src/locgraph"
	"github.com/yuli091280/Race-Walking-Visualization/src/logging"
)

const defaultMaxLoc = 60

type uiState struct {
	app    fyne.App
	window fyne.Window

	dbPath string
	raceID int
	db     *judgedb.DB
	graph  *locgraph.Graph

	// widgets
	chartCanvas *canvas.Image
	overlay     *annotationOverlay
	athleteList *doubleList
	judgeList   *doubleList
	bentKneeChk *widget.Check
	locChk      *widget.Check
	maxLocEntry *widget.Entry
	hintsChk    *widget.Check
	raceLabel   *widget.Label
}

func main() {
	// .env is optional; flags win over environment
	_ = godotenv.Load()

	var dbFlag, logLevel string
	var raceFlag int
	flag.StringVar(&dbFlag, "db", os.Getenv("LOCVIEWER_DB"), "Path to the judge database")
	flag.IntVar(&raceFlag, "race", 1, "Race id to load")
	flag.StringVar(&logLevel, "loglevel", os.Getenv("LOCVIEWER_LOGLEVEL"), "Log level (debug, info, warn, error)")
	flag.Parse()
	if logLevel != "" {
		logging.SetLogLevel(logLevel)
	}

	a := app.NewWithID("com.racewalkvis.locviewer")
	w := a.NewWindow("Race Walk LOC Viewer")
	w.Resize(fyne.NewSize(1200, 800))

	state := &uiState{
		app:    a,
		window: w,
		dbPath: dbFlag,
		raceID: raceFlag,
		graph:  locgraph.New(defaultMaxLoc),
	}
	loadPrefs(state)

	// chart canvas + hover overlay
	state.chartCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(900, 400))
	state.overlay = newAnnotationOverlay(state)

	// selection widgets
	state.athleteList = newDoubleList()
	state.athleteList.OnChanged = func(bibs []int) {
		if state.graph.DisplayAthletes(bibs) {
			redrawChart(state)
		}
	}
	state.judgeList = newDoubleList()
	state.judgeList.OnChanged = func(judges []int) {
		if state.graph.DisplayJudges(judges) {
			redrawChart(state)
		}
	}
	state.bentKneeChk = widget.NewCheck("Bent Knee", func(b bool) {
		if state.graph.DisplayCallType(locgraph.BentKnee, b) {
			redrawChart(state)
		}
	})
	state.locChk = widget.NewCheck("LOC", func(b bool) {
		if state.graph.DisplayCallType(locgraph.Loc, b) {
			redrawChart(state)
		}
	})

	state.maxLocEntry = widget.NewEntry()
	state.maxLocEntry.SetText(strconv.Itoa(state.graph.MaxLoc()))
	state.maxLocEntry.OnSubmitted = func(v string) {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			state.maxLocEntry.SetText(strconv.Itoa(state.graph.MaxLoc()))
			return
		}
		state.graph.SetMaxLoc(n)
		savePrefs(state)
		redrawChart(state)
	}

	state.hintsChk = widget.NewCheck("Hints", func(b bool) {
		state.graph.SetShowHint(b)
		savePrefs(state)
		redrawChart(state)
	})

	state.hintsChk.SetChecked(a.Preferences().BoolWithFallback("showHints", false))

	state.raceLabel = widget.NewLabel("")

	// layout: selectors and toggles on the left, chart on the right
	side := container.NewVBox(
		state.raceLabel,
		widget.NewLabel("Athletes:"),
		state.athleteList.Container(),
		widget.NewLabel("Judges:"),
		state.judgeList.Container(),
		widget.NewLabel("Judge calls:"),
		container.NewHBox(state.bentKneeChk, state.locChk),
		container.NewHBox(widget.NewLabel("Max LOC (ms):"), state.maxLocEntry),
		state.hintsChk,
	)
	content := container.NewBorder(nil, nil, side, nil,
		container.NewStack(state.chartCanvas, state.overlay))
	w.SetContent(content)

	buildMenus(state)

	// redraw on window resize so the chart scales with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			if state.db != nil {
				state.db.Close()
			}
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
					if curW := int(c.Size().Width); curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawChart(state) })
					}
				}
			}
		}()
	}

	if state.dbPath != "" {
		loadRace(state)
	}
	w.ShowAndRun()
}

func buildMenus(state *uiState) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Database…", func() { openDatabaseDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadRace(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	if canv := state.window.Canvas(); canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openDatabaseDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openDatabaseDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadRace(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadRace(state) })
	}
}

func openDatabaseDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.dbPath = rc.URI().Path()
		savePrefs(state)
		loadRace(state)
	}, state.window)
	d.Show()
}

// loadRace opens the database, plots the race and repopulates the
// selection lists. Everything starts deselected except the call-type
// checkboxes, which keep their current state.
func loadRace(state *uiState) {
	if state.dbPath == "" {
		dialog.ShowInformation("No database", "Open a judge database first.", state.window)
		return
	}
	if state.db != nil {
		state.db.Close()
		state.db = nil
	}
	db, err := judgedb.Open(state.dbPath)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.db = db

	data, err := db.LoadRace(state.raceID)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	if err := state.graph.Plot(data.Loc, data.Calls, data.Athletes, data.Judges); err != nil {
		dialog.ShowError(err, state.window)
		return
	}

	race, err := db.RaceByID(state.raceID)
	if err == nil && race != nil {
		state.raceLabel.SetText(fmt.Sprintf("Race: %s", race.Name))
	} else {
		state.raceLabel.SetText(fmt.Sprintf("Race: %d", state.raceID))
	}

	labels := make([]string, len(data.Athletes))
	bibs := make([]int, len(data.Athletes))
	for i, info := range data.Athletes {
		labels[i] = info.Label()
		bibs[i] = info.Bib
	}
	state.athleteList.SetItems(labels, bibs)

	judgeLabels := make([]string, len(data.Judges))
	for i, id := range data.Judges {
		judgeLabels[i] = judgeLabel(state, id)
	}
	state.judgeList.SetItems(judgeLabels, data.Judges)

	// carry the checkbox state into the fresh plot
	state.graph.DisplayCallType(locgraph.BentKnee, state.bentKneeChk.Checked)
	state.graph.DisplayCallType(locgraph.Loc, state.locChk.Checked)

	logging.Debugf("race %d plotted, legend %v", state.raceID, state.graph.Legend())
	redrawChart(state)
}

func judgeLabel(state *uiState, id int) string {
	if j, err := state.db.JudgeByID(id); err == nil && j != nil {
		return fmt.Sprintf("%s, %s (%d)", j.LastName, j.FirstName, j.ID)
	}
	return fmt.Sprintf("Judge (%d)", id)
}

// redrawChart re-renders the graph into the chart canvas at the current
// window size. The single redraw point for every filter and hover change.
func redrawChart(state *uiState) {
	w, h := chartSize(state)
	img := state.graph.Render(w, h)
	state.chartCanvas.Image = img
	state.chartCanvas.SetMinSize(fyne.NewSize(float32(w), float32(h)))
	state.chartCanvas.Refresh()
	state.overlay.Refresh()
}

func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 900, 405
	}
	sz := state.window.Canvas().Size()
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.7) - 12)
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	p := state.app.Preferences()
	p.SetString("dbPath", state.dbPath)
	p.SetInt("maxLoc", state.graph.MaxLoc())
	p.SetBool("showHints", state.hintsChk != nil && state.hintsChk.Checked)
}

func loadPrefs(state *uiState) {
	p := state.app.Preferences()
	if state.dbPath == "" {
		state.dbPath = p.StringWithFallback("dbPath", "")
	}
	state.graph.SetMaxLoc(p.IntWithFallback("maxLoc", defaultMaxLoc))
	state.graph.SetShowHint(p.BoolWithFallback("showHints", false))
}
