package locgraph

import (
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// LineSeries is the renderable handle for one athlete's LOC curve.
type LineSeries struct {
	Label  string
	Times  []time.Time
	Values []float64
	Color  drawing.Color

	visible bool
}

// Visible reports whether the line is currently drawn.
func (l *LineSeries) Visible() bool { return l.visible }

// SetVisible shows or hides the line.
func (l *LineSeries) SetVisible(v bool) { l.visible = v }

// MarkerSeries is the renderable handle for one set of judge-call markers.
// Marker Y values are interpolated onto the athlete's LOC curve so they sit
// on the line rather than at the raw recorded values.
type MarkerSeries struct {
	Label  string
	Times  []time.Time
	Values []float64
	Color  drawing.Color

	visible bool
}

// Visible reports whether the markers are currently drawn.
func (m *MarkerSeries) Visible() bool { return m.visible }

// CallMarkerGroup pairs the yellow and red marker series for one
// (athlete, judge, call type) combination.
type CallMarkerGroup struct {
	Judge  int
	Type   CallType
	Yellow *MarkerSeries
	Red    *MarkerSeries

	selected Selection
}

// NewCallMarkerGroup builds a group around a yellow/red marker pair.
// Both series start hidden until the group is selected by everything.
func NewCallMarkerGroup(judge int, callType CallType, yellow, red *MarkerSeries) *CallMarkerGroup {
	return &CallMarkerGroup{Judge: judge, Type: callType, Yellow: yellow, Red: red}
}

// Select marks the group selected along the given criterion. The markers
// only become visible once the group has been selected by type, judge and
// athlete together. Reports whether the rendered visibility changed.
func (g *CallMarkerGroup) Select(bit Selection) bool {
	g.selected = g.selected.With(bit)
	visible := g.selected.All()
	changed := g.Yellow.visible != visible || g.Red.visible != visible
	g.Yellow.visible = visible
	g.Red.visible = visible
	return changed
}

// Deselect clears the given criterion and hides the markers outright.
// A single deselection wins no matter which other criteria still hold;
// visibility only comes back through a Select that completes the mask
// again. Reports whether the rendered visibility changed.
func (g *CallMarkerGroup) Deselect(bit Selection) bool {
	g.selected = g.selected.Without(bit)
	changed := g.Yellow.visible || g.Red.visible
	g.Yellow.visible = false
	g.Red.visible = false
	return changed
}

// Visible reports whether either marker series is currently drawn. Used to
// gate hover hit-testing.
func (g *CallMarkerGroup) Visible() bool {
	return g.Yellow.visible || g.Red.visible
}

// Selected returns the current selection mask.
func (g *CallMarkerGroup) Selected() Selection { return g.selected }

// AthleteSeries groups everything plotted for a single athlete: the LOC
// line, its hover annotation and the call marker groups attached to it.
// The max-LOC reference line is a degenerate AthleteSeries with no groups.
type AthleteSeries struct {
	Bib        int
	Line       *LineSeries
	Annotation Annotation

	groups []*CallMarkerGroup
}

// Select shows the athlete's line and adds the athlete selection to every
// owned call marker group. Reports whether anything changed visibility.
func (a *AthleteSeries) Select() bool {
	changed := !a.Line.visible
	a.Line.visible = true
	for _, g := range a.groups {
		if g.Select(SelectAthlete) {
			changed = true
		}
	}
	return changed
}

// Deselect hides the athlete's line and removes the athlete selection from
// every owned call marker group. Reports whether anything changed
// visibility.
func (a *AthleteSeries) Deselect() bool {
	changed := a.Line.visible
	a.Line.visible = false
	for _, g := range a.groups {
		if g.Deselect(SelectAthlete) {
			changed = true
		}
	}
	return changed
}

// Visible reports whether the LOC line itself is shown. Independent of the
// call marker groups' state.
func (a *AthleteSeries) Visible() bool { return a.Line.visible }

// AddCallMarkerGroup appends a group to this athlete. The caller is
// responsible for also registering the group in the chart-level indexes.
func (a *AthleteSeries) AddCallMarkerGroup(g *CallMarkerGroup) {
	a.groups = append(a.groups, g)
}

// CallMarkerGroups returns the owned groups in insertion order.
func (a *AthleteSeries) CallMarkerGroups() []*CallMarkerGroup { return a.groups }
