package locgraph

import (
	"fmt"
	"sort"
	"time"
)

// LocSeries is one athlete's sampled LOC curve, time-ascending.
type LocSeries struct {
	Times  []time.Time
	Values []float64
}

// CallSeries holds the raw event times of one judge's calls of one type
// against one athlete, split by card color.
type CallSeries struct {
	Yellow []time.Time
	Red    []time.Time
}

// JudgeCallData nests call series by bib, judge id and call-type key as the
// database hands them out.
type JudgeCallData map[int]map[int]map[string]CallSeries

// AthleteInfo identifies one athlete in a race.
type AthleteInfo struct {
	LastName  string
	FirstName string
	Bib       int
}

// Label returns the display label used for lines and legends.
func (a AthleteInfo) Label() string {
	return fmt.Sprintf("%s, %s (%d)", a.LastName, a.FirstName, a.Bib)
}

// Graph holds every plotted series for one race and the selection state
// deciding what is drawn. All methods must be called from a single
// goroutine; the UI event loop serializes them.
type Graph struct {
	maxLocValue int
	maxLoc      *AthleteSeries

	athletes map[int]*AthleteSeries
	order    []int
	byType   map[CallType][]*CallMarkerGroup
	byJudge  map[int][]*CallMarkerGroup
	judges   []int

	tmin, tmax time.Time
	geom       Geometry
	showHint   bool
}

// New creates an empty graph with the given max-LOC threshold in ms.
func New(maxLoc int) *Graph {
	g := &Graph{maxLocValue: maxLoc}
	g.Reset()
	return g
}

// Reset clears all series and indexes, leaving the graph ready for a new
// Plot. The max-LOC threshold value is kept.
func (g *Graph) Reset() {
	g.maxLoc = nil
	g.athletes = make(map[int]*AthleteSeries)
	g.order = nil
	g.byType = make(map[CallType][]*CallMarkerGroup)
	g.byJudge = make(map[int][]*CallMarkerGroup)
	g.judges = nil
	g.tmin, g.tmax = time.Time{}, time.Time{}
	g.geom = Geometry{}
}

// Title is the chart title, derived from the current max-LOC threshold.
func (g *Graph) Title() string {
	return fmt.Sprintf("Racer LOC over Time w/ Max LOC = %d ms", g.maxLocValue)
}

// MaxLoc returns the current max-LOC threshold in ms.
func (g *Graph) MaxLoc() int { return g.maxLocValue }

// SetMaxLoc updates the threshold, moving the reference line and the chart
// title. The caller re-renders afterwards.
func (g *Graph) SetMaxLoc(v int) {
	g.maxLocValue = v
	if g.maxLoc != nil {
		for i := range g.maxLoc.Line.Values {
			g.maxLoc.Line.Values[i] = float64(v)
		}
	}
}

// SetShowHint toggles the footer hint stamped onto rendered images.
func (g *Graph) SetShowHint(v bool) { g.showHint = v }

// Plot builds every series for a race: one line plus annotation per
// athlete, and one yellow/red call marker group per (athlete, judge, call
// type) present in judgeData, all hidden until selected. Call marker event
// times are interpolated onto the athlete's own LOC curve so markers sit on
// the line. Returns an UnknownCallTypeError if judgeData carries a
// call-type key outside the closed set.
func (g *Graph) Plot(locValues map[int]LocSeries, judgeData JudgeCallData, athletes []AthleteInfo, judges []int) error {
	g.Reset()
	g.judges = append(g.judges, judges...)
	for _, j := range judges {
		g.byJudge[j] = nil
	}

	// Time extent across every athlete, needed for the reference line.
	for _, info := range athletes {
		for _, t := range locValues[info.Bib].Times {
			if g.tmin.IsZero() || t.Before(g.tmin) {
				g.tmin = t
			}
			if g.tmax.IsZero() || t.After(g.tmax) {
				g.tmax = t
			}
		}
	}
	if g.tmin.IsZero() {
		g.tmin = time.Now()
		g.tmax = g.tmin.Add(time.Minute)
	}

	maxLocLine := &LineSeries{
		Label:  "Max LOC",
		Times:  []time.Time{g.tmin, g.tmax},
		Values: []float64{float64(g.maxLocValue), float64(g.maxLocValue)},
		Color:  colorMaxLoc,
	}
	maxLocLine.SetVisible(true)
	g.maxLoc = &AthleteSeries{Line: maxLocLine}

	for i, info := range athletes {
		runner := locValues[info.Bib]
		series := &AthleteSeries{
			Bib: info.Bib,
			Line: &LineSeries{
				Label:  info.Label(),
				Times:  runner.Times,
				Values: runner.Values,
				Color:  athletePalette[i%len(athletePalette)],
			},
		}
		g.athletes[info.Bib] = series
		g.order = append(g.order, info.Bib)

		for _, judgeID := range sortedKeys(judgeData[info.Bib]) {
			perJudge := judgeData[info.Bib][judgeID]
			for _, key := range sortedKeys(perJudge) {
				callType, err := ParseCallType(key)
				if err != nil {
					return fmt.Errorf("building plot for bib %d: %w", info.Bib, err)
				}
				calls := perJudge[key]
				yellow := &MarkerSeries{
					Label:  callType.DisplayName() + " Yellow Card",
					Times:  calls.Yellow,
					Values: interpolate(calls.Yellow, runner.Times, runner.Values),
					Color:  colorYellowCard,
				}
				red := &MarkerSeries{
					Label:  callType.DisplayName() + " Red Card",
					Times:  calls.Red,
					Values: interpolate(calls.Red, runner.Times, runner.Values),
					Color:  colorRedCard,
				}
				group := NewCallMarkerGroup(judgeID, callType, yellow, red)
				series.AddCallMarkerGroup(group)
				g.byType[callType] = append(g.byType[callType], group)
				g.byJudge[judgeID] = append(g.byJudge[judgeID], group)
			}
		}
	}
	return nil
}

// DisplayAthletes shows exactly the athletes whose bib is in selectedBibs,
// hiding all others and cascading the athlete selection into their call
// marker groups. Reports whether any visibility changed.
func (g *Graph) DisplayAthletes(selectedBibs []int) bool {
	selected := make(map[int]bool, len(selectedBibs))
	for _, bib := range selectedBibs {
		selected[bib] = true
	}
	changed := false
	for _, bib := range g.order {
		series := g.athletes[bib]
		if selected[bib] {
			if series.Select() {
				changed = true
			}
		} else if series.Deselect() {
			changed = true
		}
	}
	return changed
}

// DisplayCallType shows or hides every call marker group of the given
// type. Reports whether any visibility changed.
func (g *Graph) DisplayCallType(callType CallType, show bool) bool {
	changed := false
	for _, group := range g.byType[callType] {
		if show {
			if group.Select(SelectType) {
				changed = true
			}
		} else if group.Deselect(SelectType) {
			changed = true
		}
	}
	return changed
}

// DisplayJudges shows the call marker groups of the judges in
// selectedJudges and hides every other judge's. Reports whether any
// visibility changed.
func (g *Graph) DisplayJudges(selectedJudges []int) bool {
	selected := make(map[int]bool, len(selectedJudges))
	for _, j := range selectedJudges {
		selected[j] = true
	}
	changed := false
	for judge, groups := range g.byJudge {
		for _, group := range groups {
			if selected[judge] {
				if group.Select(SelectJudge) {
					changed = true
				}
			} else if group.Deselect(SelectJudge) {
				changed = true
			}
		}
	}
	return changed
}

// Legend returns the legend entries for the current visibility state: the
// max-LOC reference first, then visible athletes in registration order.
func (g *Graph) Legend() []string {
	var out []string
	if g.maxLoc != nil {
		out = append(out, g.maxLoc.Line.Label)
	}
	for _, bib := range g.order {
		if series := g.athletes[bib]; series.Visible() {
			out = append(out, series.Line.Label)
		}
	}
	return out
}

// AthleteSeriesByBib returns the series for one athlete, or nil.
func (g *Graph) AthleteSeriesByBib(bib int) *AthleteSeries { return g.athletes[bib] }

// Bibs returns the plotted bib numbers in registration order.
func (g *Graph) Bibs() []int { return g.order }

// Judges returns the judge ids the graph was built with.
func (g *Graph) Judges() []int { return g.judges }

func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
