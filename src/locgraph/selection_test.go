package locgraph

import "testing"

func newTestGroup() *CallMarkerGroup {
	return NewCallMarkerGroup(10, Loc, &MarkerSeries{Label: "LOC Yellow Card"}, &MarkerSeries{Label: "LOC Red Card"})
}

func TestSelection_BitOps(t *testing.T) {
	s := SelectNone
	s = s.With(SelectType)
	s = s.With(SelectType) // idempotent
	if s != SelectType {
		t.Fatalf("selection = %b, want %b", s, SelectType)
	}
	s = s.With(SelectJudge).With(SelectAthlete)
	if !s.All() {
		t.Fatalf("selection %b should satisfy All", s)
	}
	s = s.Without(SelectJudge)
	if s.All() {
		t.Fatalf("selection %b should not satisfy All", s)
	}
	if s != SelectType|SelectAthlete {
		t.Fatalf("selection = %b, want type|athlete", s)
	}
}

func TestCallMarkerGroup_VisibleOnlyWhenFullySelected(t *testing.T) {
	orders := [][]Selection{
		{SelectType, SelectJudge, SelectAthlete},
		{SelectAthlete, SelectType, SelectJudge},
		{SelectJudge, SelectAthlete, SelectType},
	}
	for _, order := range orders {
		g := newTestGroup()
		for i, bit := range order {
			g.Select(bit)
			wantVisible := i == len(order)-1
			if g.Visible() != wantVisible {
				t.Fatalf("after %d of %v selections: visible = %v, want %v", i+1, order, g.Visible(), wantVisible)
			}
		}
		if !g.Yellow.Visible() || !g.Red.Visible() {
			t.Fatal("both marker series should be shown when fully selected")
		}
	}
}

func TestCallMarkerGroup_DeselectAlwaysHides(t *testing.T) {
	// Any single deselection hides the pair no matter which bits remain set.
	for _, bit := range []Selection{SelectType, SelectJudge, SelectAthlete} {
		g := newTestGroup()
		g.Select(SelectType)
		g.Select(SelectJudge)
		g.Select(SelectAthlete)
		if !g.Visible() {
			t.Fatal("fully selected group should be visible")
		}
		g.Deselect(bit)
		if g.Visible() {
			t.Fatalf("group still visible after deselecting %b", bit)
		}
		if g.Yellow.Visible() || g.Red.Visible() {
			t.Fatal("both marker series should be hidden after any deselection")
		}
	}
}

func TestCallMarkerGroup_DeselectHidesEvenWhenPartiallySelected(t *testing.T) {
	g := newTestGroup()
	g.Select(SelectType)
	g.Deselect(SelectJudge) // judge bit was never set
	if g.Visible() {
		t.Fatal("group should stay hidden")
	}
	if g.Selected() != SelectType {
		t.Fatalf("mask = %b, want type only", g.Selected())
	}
}

func TestCallMarkerGroup_VisibilityReturnsViaFreshSelect(t *testing.T) {
	g := newTestGroup()
	g.Select(SelectType)
	g.Select(SelectJudge)
	g.Select(SelectAthlete)
	g.Deselect(SelectType)
	if g.Visible() {
		t.Fatal("hidden after deselect")
	}
	// judge and athlete bits are still set, one fresh select completes the mask
	if changed := g.Select(SelectType); !changed {
		t.Fatal("re-select should change visibility")
	}
	if !g.Visible() {
		t.Fatal("group should be visible again after the mask is complete")
	}
}

func TestCallMarkerGroup_SelectReportsChanges(t *testing.T) {
	g := newTestGroup()
	if g.Select(SelectType) {
		t.Fatal("partial select should not change visibility")
	}
	g.Select(SelectJudge)
	if !g.Select(SelectAthlete) {
		t.Fatal("completing the mask should change visibility")
	}
	if g.Select(SelectAthlete) {
		t.Fatal("idempotent select should not report a change")
	}
	if !g.Deselect(SelectJudge) {
		t.Fatal("deselect of a visible group should report a change")
	}
	if g.Deselect(SelectJudge) {
		t.Fatal("deselect of a hidden group should not report a change")
	}
}

func TestAthleteSeries_CascadesIntoGroups(t *testing.T) {
	a := &AthleteSeries{Bib: 1, Line: &LineSeries{Label: "Doe, Jane (1)"}}
	g := newTestGroup()
	g.Select(SelectType)
	g.Select(SelectJudge)
	a.AddCallMarkerGroup(g)

	a.Select()
	if !a.Visible() {
		t.Fatal("line should be visible after Select")
	}
	if !g.Visible() {
		t.Fatal("athlete selection should complete the group's mask")
	}

	a.Deselect()
	if a.Visible() {
		t.Fatal("line should be hidden after Deselect")
	}
	if g.Visible() {
		t.Fatal("group should be hidden after athlete deselection")
	}
}

func TestAthleteSeries_VisibleIgnoresGroupState(t *testing.T) {
	a := &AthleteSeries{Bib: 1, Line: &LineSeries{}}
	g := newTestGroup()
	a.AddCallMarkerGroup(g)
	a.Select()
	g.Deselect(SelectType)
	if !a.Visible() {
		t.Fatal("line visibility must not depend on group state")
	}
}
