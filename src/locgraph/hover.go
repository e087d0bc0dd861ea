package locgraph

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// hitRadiusPx is the pixel-space containment radius around a marker.
const hitRadiusPx = 6

// HAlign anchors annotation text horizontally relative to its point.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignRight
)

// VAlign anchors annotation text vertically relative to its point.
type VAlign int

const (
	AlignBottom VAlign = iota
	AlignTop
)

// Annotation is the placement spec for one athlete's hover tooltip. The
// host resolves it to screen coordinates: for the first annotation of a
// pass the offsets apply from the hit point, for a stacked one they apply
// from the bottom-left corner of the previously placed annotation's box.
type Annotation struct {
	Text    string
	X, Y    float32 // hit point in image pixel space
	OffsetX float32
	OffsetY float32
	HAlign  HAlign
	VAlign  VAlign
	Stacked bool
	Color   drawing.Color
	Visible bool
}

// Hover runs the nearest-point annotation pass for a pointer position in
// image pixel coordinates. Athletes whose line is hidden are skipped, as
// are hidden marker series. Every label hit for an athlete is collected,
// deduplicated and joined by newline into that athlete's annotation.
// Reports whether any annotation changed, i.e. whether the host needs one
// redraw.
func (g *Graph) Hover(x, y float32) bool {
	if !g.geom.Contains(x, y) {
		return false
	}
	changed := false
	var previous *Annotation
	for _, bib := range g.order {
		athlete := g.athletes[bib]
		if !athlete.Visible() {
			continue
		}

		var labels []string
		var hitX, hitY float32
		for _, group := range athlete.CallMarkerGroups() {
			for _, markers := range []*MarkerSeries{group.Yellow, group.Red} {
				if !markers.Visible() {
					continue
				}
				for i, t := range markers.Times {
					px, py := g.geom.Pixel(t, markers.Values[i])
					if abs32(px-x) > hitRadiusPx || abs32(py-y) > hitRadiusPx {
						continue
					}
					hitX, hitY = px, py
					label := athlete.Line.Label + ": " + markers.Label
					if !containsString(labels, label) {
						labels = append(labels, label)
					}
				}
			}
		}

		if len(labels) > 0 {
			ann := g.placeAnnotation(athlete, hitX, hitY, strings.Join(labels, "\n"), previous)
			if ann != athlete.Annotation {
				athlete.Annotation = ann
				changed = true
			}
			previous = &athlete.Annotation
		} else if athlete.Annotation.Visible {
			athlete.Annotation = Annotation{}
			changed = true
		}
	}
	return changed
}

// placeAnnotation positions a tooltip for a hit point. The first tooltip
// of a pass is pushed away from the plot midlines so it stays inside the
// chart; later ones stack below-left of the one placed before them.
func (g *Graph) placeAnnotation(athlete *AthleteSeries, x, y float32, text string, previous *Annotation) Annotation {
	ann := Annotation{
		Text:    text,
		X:       x,
		Y:       y,
		Color:   athlete.Line.Color,
		Visible: true,
	}
	if previous != nil {
		ann.Stacked = true
		ann.OffsetX = 3
		ann.OffsetY = 5
		ann.HAlign = AlignLeft
		ann.VAlign = AlignTop
		return ann
	}
	ann.OffsetX = 20
	ann.OffsetY = -20
	midX := (g.geom.Left + g.geom.Right) / 2
	if x > midX {
		ann.HAlign = AlignRight
		ann.OffsetX = -20
	}
	// top 10% of the plot area: drop the label below the point instead
	if y < g.geom.Top+(g.geom.Bottom-g.geom.Top)*0.1 {
		ann.VAlign = AlignTop
		ann.OffsetY = 20
	}
	return ann
}

// Annotations returns the currently visible annotations in athlete
// registration order, for the host overlay to draw.
func (g *Graph) Annotations() []Annotation {
	var out []Annotation
	for _, bib := range g.order {
		if ann := g.athletes[bib].Annotation; ann.Visible {
			out = append(out, ann)
		}
	}
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
