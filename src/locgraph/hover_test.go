package locgraph

import (
	"strings"
	"testing"
	"time"
)

// hoverGraph builds a fully selected scenario graph with geometry laid out
// at 800x400.
func hoverGraph(t *testing.T) *Graph {
	t.Helper()
	g := scenarioGraph(t)
	g.DisplayAthletes([]int{1, 2})
	g.DisplayJudges([]int{10})
	g.DisplayCallType(Loc, true)
	g.Render(800, 400)
	if !g.Geometry().Valid {
		t.Fatal("geometry should be valid after render")
	}
	return g
}

func TestHover_MarkerHitShowsAnnotation(t *testing.T) {
	g := hoverGraph(t)
	x, y := g.Geometry().Pixel(raceStart.Add(5*time.Second), 50)

	if !g.Hover(x, y) {
		t.Fatal("hover on a marker should report a change")
	}
	anns := g.Annotations()
	if len(anns) != 1 {
		t.Fatalf("annotations = %d, want 1", len(anns))
	}
	if anns[0].Text != "Doe, Jane (1): LOC Yellow Card" {
		t.Fatalf("annotation text = %q", anns[0].Text)
	}
	if anns[0].X != x || anns[0].Y != y {
		t.Fatalf("annotation anchored at (%v,%v), want (%v,%v)", anns[0].X, anns[0].Y, x, y)
	}
	if anns[0].Stacked {
		t.Fatal("first annotation of a pass must not be stacked")
	}
	// point sits mid-plot: label to the right of the point, above it
	if anns[0].HAlign != AlignLeft || anns[0].VAlign != AlignBottom {
		t.Fatalf("placement = (%v,%v), want (AlignLeft,AlignBottom)", anns[0].HAlign, anns[0].VAlign)
	}

	// a second identical hover changes nothing
	if g.Hover(x, y) {
		t.Fatal("unchanged hover should not request a redraw")
	}
}

func TestHover_MissHidesPreviousAnnotation(t *testing.T) {
	g := hoverGraph(t)
	x, y := g.Geometry().Pixel(raceStart.Add(5*time.Second), 50)
	g.Hover(x, y)

	// far corner of the plot area, away from any marker
	fx, fy := g.Geometry().Pixel(raceStart.Add(1*time.Second), 5)
	if !g.Hover(fx, fy) {
		t.Fatal("leaving the marker should report a change")
	}
	if len(g.Annotations()) != 0 {
		t.Fatal("annotation should be hidden after the miss")
	}
	if g.Hover(fx, fy) {
		t.Fatal("second miss should change nothing")
	}
}

func TestHover_OutsidePlotAreaIsNoop(t *testing.T) {
	g := hoverGraph(t)
	x, y := g.Geometry().Pixel(raceStart.Add(5*time.Second), 50)
	g.Hover(x, y)

	if g.Hover(-5, -5) {
		t.Fatal("hover outside the plot area must leave annotations alone")
	}
	if len(g.Annotations()) != 1 {
		t.Fatal("existing annotation should survive an out-of-area event")
	}
}

func TestHover_SkipsHiddenAthletes(t *testing.T) {
	g := hoverGraph(t)
	g.DisplayAthletes(nil)
	g.Render(800, 400)

	x, y := g.Geometry().Pixel(raceStart.Add(5*time.Second), 50)
	if g.Hover(x, y) {
		t.Fatal("hidden series must not produce annotations")
	}
	if len(g.Annotations()) != 0 {
		t.Fatal("no annotations expected")
	}
}

func TestHover_HiddenMarkersNotHitTested(t *testing.T) {
	g := hoverGraph(t)
	g.DisplayCallType(Loc, false)

	x, y := g.Geometry().Pixel(raceStart.Add(5*time.Second), 50)
	if g.Hover(x, y) {
		t.Fatal("hidden markers must not be hit")
	}
}

func TestHover_DeduplicatesLabels(t *testing.T) {
	g := New(60)
	ts := raceStart.Add(5 * time.Second)
	loc := map[int]LocSeries{1: {
		Times:  []time.Time{raceStart, raceStart.Add(10 * time.Second)},
		Values: []float64{40, 60},
	}}
	// two yellow events at the exact same instant
	calls := JudgeCallData{1: {10: {"loc": {Yellow: []time.Time{ts, ts}}}}}
	if err := g.Plot(loc, calls, []AthleteInfo{{LastName: "Doe", FirstName: "Jane", Bib: 1}}, []int{10}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	g.DisplayAthletes([]int{1})
	g.DisplayJudges([]int{10})
	g.DisplayCallType(Loc, true)
	g.Render(800, 400)

	x, y := g.Geometry().Pixel(ts, 50)
	g.Hover(x, y)
	anns := g.Annotations()
	if len(anns) != 1 {
		t.Fatalf("annotations = %d, want 1", len(anns))
	}
	if strings.Contains(anns[0].Text, "\n") {
		t.Fatalf("duplicate hits must collapse to one label, got %q", anns[0].Text)
	}
}

func TestHover_StacksSecondAnnotation(t *testing.T) {
	g := New(60)
	ts := raceStart.Add(5 * time.Second)
	series := LocSeries{
		Times:  []time.Time{raceStart, raceStart.Add(10 * time.Second)},
		Values: []float64{40, 60},
	}
	loc := map[int]LocSeries{1: series, 2: series}
	calls := JudgeCallData{
		1: {10: {"loc": {Yellow: []time.Time{ts}}}},
		2: {10: {"loc": {Red: []time.Time{ts}}}},
	}
	athletes := []AthleteInfo{
		{LastName: "Doe", FirstName: "Jane", Bib: 1},
		{LastName: "Roe", FirstName: "Rick", Bib: 2},
	}
	if err := g.Plot(loc, calls, athletes, []int{10}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	g.DisplayAthletes([]int{1, 2})
	g.DisplayJudges([]int{10})
	g.DisplayCallType(Loc, true)
	g.Render(800, 400)

	x, y := g.Geometry().Pixel(ts, 50)
	if !g.Hover(x, y) {
		t.Fatal("hover should report a change")
	}
	anns := g.Annotations()
	if len(anns) != 2 {
		t.Fatalf("annotations = %d, want 2", len(anns))
	}
	if anns[0].Stacked {
		t.Fatal("first annotation must not be stacked")
	}
	if !anns[1].Stacked {
		t.Fatal("second annotation must stack below the first")
	}
	if anns[1].Text != "Roe, Rick (2): LOC Red Card" {
		t.Fatalf("second annotation text = %q", anns[1].Text)
	}
}

func TestHover_QuadrantRuleFlipsNearEdges(t *testing.T) {
	g := New(60)
	end := raceStart.Add(10 * time.Second)
	// curve peaks high so the marker lands in the top band of the plot
	loc := map[int]LocSeries{1: {
		Times:  []time.Time{raceStart, end},
		Values: []float64{40, 95},
	}}
	calls := JudgeCallData{1: {10: {"loc": {Yellow: []time.Time{end}}}}}
	if err := g.Plot(loc, calls, []AthleteInfo{{LastName: "Doe", FirstName: "Jane", Bib: 1}}, []int{10}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	g.DisplayAthletes([]int{1})
	g.DisplayJudges([]int{10})
	g.DisplayCallType(Loc, true)
	g.Render(800, 400)

	x, y := g.Geometry().Pixel(end, 95)
	if !g.Hover(x, y) {
		t.Fatal("hover should report a change")
	}
	anns := g.Annotations()
	if len(anns) != 1 {
		t.Fatalf("annotations = %d, want 1", len(anns))
	}
	// right of the horizontal midline: label flips to the left of the point
	if anns[0].HAlign != AlignRight || anns[0].OffsetX >= 0 {
		t.Fatalf("expected right-aligned negative offset, got %v %v", anns[0].HAlign, anns[0].OffsetX)
	}
	// top band: label drops below instead of above
	if anns[0].VAlign != AlignTop || anns[0].OffsetY <= 0 {
		t.Fatalf("expected below-point placement, got %v %v", anns[0].VAlign, anns[0].OffsetY)
	}
}
