package locgraph

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/yuli091280/Race-Walking-Visualization/src/logging"
)

// Chart paddings and axis gutters in image pixel space. The chart's own
// axes stay hidden and the gutters are part of the chart padding, so the
// rectangle go-chart draws series into is exactly the plot box Geometry
// describes; the axis lines and labels are stamped into the gutters
// afterwards.
const (
	padTop    = 40 // leaves room for the chart title
	padLeft   = 16
	padRight  = 12
	padBottom = 28

	axisLeftGutterPx   = 48
	axisBottomGutterPx = 22
)

var (
	colorMaxLoc     = drawing.Color{R: 217, G: 42, B: 42, A: 255}
	colorRedCard    = drawing.Color{R: 217, G: 42, B: 42, A: 255}
	colorYellowCard = drawing.Color{R: 230, G: 200, B: 0, A: 255}

	athletePalette = []drawing.Color{
		{R: 0, G: 116, B: 217, A: 255},
		{R: 46, G: 204, B: 64, A: 255},
		{R: 255, G: 133, B: 27, A: 255},
		{R: 177, G: 13, B: 201, A: 255},
		{R: 57, G: 204, B: 204, A: 255},
		{R: 240, G: 18, B: 190, A: 255},
		{R: 61, G: 153, B: 112, A: 255},
		{R: 133, G: 20, B: 75, A: 255},
	}
)

// Geometry is the data-to-pixel mapping captured at render time so the
// hover pass can hit-test without asking the chart library.
type Geometry struct {
	Valid                    bool
	Left, Top, Right, Bottom float32
	TMin, TMax               time.Time
	YMin, YMax               float64
}

// Pixel maps a data point to image pixel coordinates.
func (g Geometry) Pixel(t time.Time, v float64) (float32, float32) {
	tspan := g.TMax.Sub(g.TMin).Seconds()
	if tspan <= 0 {
		tspan = 1
	}
	yspan := g.YMax - g.YMin
	if yspan <= 0 {
		yspan = 1
	}
	fx := t.Sub(g.TMin).Seconds() / tspan
	fy := (v - g.YMin) / yspan
	x := g.Left + float32(fx)*(g.Right-g.Left)
	y := g.Bottom - float32(fy)*(g.Bottom-g.Top)
	return x, y
}

// Contains reports whether a pixel sits inside the plotting area.
func (g Geometry) Contains(x, y float32) bool {
	return g.Valid && x >= g.Left && x <= g.Right && y >= g.Top && y <= g.Bottom
}

// Geometry returns the mapping captured by the last Render call.
func (g *Graph) Geometry() Geometry { return g.geom }

// Render draws the chart at the given size, returning the image to embed
// in the host canvas. Only visible series are drawn. The legend always
// carries the max-LOC line first, then visible athletes in registration
// order.
func (g *Graph) Render(width, height int) image.Image {
	if g.maxLoc == nil {
		g.geom = Geometry{}
		return blank(width, height)
	}

	ymax := float64(g.maxLocValue)
	for _, bib := range g.order {
		for _, v := range g.athletes[bib].Line.Values {
			if v > ymax {
				ymax = v
			}
		}
	}
	_, niceMax := niceAxisBounds(0, ymax)

	g.geom = Geometry{
		Valid:  true,
		Left:   padLeft + axisLeftGutterPx,
		Top:    padTop,
		Right:  float32(width) - padRight,
		Bottom: float32(height) - padBottom - axisBottomGutterPx,
		TMin:   g.tmin,
		TMax:   g.tmax,
		YMin:   0,
		YMax:   niceMax,
	}

	series := []chart.Series{lineSeries(g.maxLoc.Line, chart.Style{
		StrokeWidth:     2.0,
		StrokeColor:     g.maxLoc.Line.Color,
		StrokeDashArray: []float64{5.0, 5.0},
	})}
	for _, bib := range g.order {
		athlete := g.athletes[bib]
		if !athlete.Visible() || len(athlete.Line.Times) == 0 {
			continue
		}
		series = append(series, lineSeries(athlete.Line, chart.Style{
			StrokeWidth: 2.0,
			StrokeColor: athlete.Line.Color,
			DotWidth:    3,
			DotColor:    athlete.Line.Color,
		}))
	}
	for _, bib := range g.order {
		for _, group := range g.athletes[bib].CallMarkerGroups() {
			for _, markers := range []*MarkerSeries{group.Yellow, group.Red} {
				if !markers.Visible() || len(markers.Times) == 0 {
					continue
				}
				series = append(series, markerSeries(markers))
			}
		}
	}

	step, _ := pickTimeStep(g.tmax.Sub(g.tmin))
	timeTicks := makeTimeTicks(g.tmin, g.tmax, step)
	yTicks := niceTicks(0, niceMax, 6)

	// Axes hidden: go-chart otherwise shrinks the plot box by the measured
	// size of its axis labels, desyncing the drawn series from Geometry.
	ch := chart.Chart{
		Title:  g.Title(),
		Width:  width,
		Height: height,
		Background: chart.Style{Padding: chart.Box{
			Top:    padTop,
			Left:   padLeft + axisLeftGutterPx,
			Right:  padRight,
			Bottom: padBottom + axisBottomGutterPx,
		}},
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(g.tmin),
				Max: chart.TimeToFloat64(g.tmax),
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax},
		},
		YAxisSecondary: chart.YAxis{Style: chart.Hidden()},
		Series:         series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		logging.Errorf("chart render failed: %v; showing blank fallback", err)
		return blank(width, height)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		logging.Errorf("chart decode failed: %v; showing blank fallback", err)
		return blank(width, height)
	}
	img = stampAxes(img, g.geom, timeTicks, yTicks)
	img = stampLegend(img, g.legendEntries())
	if g.showHint {
		img = stampText(img, "Hover a judge-call marker for details", 8, img.Bounds().Max.Y-6)
	}
	return img
}

type legendEntry struct {
	label string
	color drawing.Color
}

func (g *Graph) legendEntries() []legendEntry {
	var out []legendEntry
	if g.maxLoc != nil {
		out = append(out, legendEntry{g.maxLoc.Line.Label, g.maxLoc.Line.Color})
	}
	for _, bib := range g.order {
		if a := g.athletes[bib]; a.Visible() {
			out = append(out, legendEntry{a.Line.Label, a.Line.Color})
		}
	}
	return out
}

// lineSeries converts a LineSeries to a go-chart time series, padding
// single-point data so go-chart always sees a non-zero X span.
func lineSeries(l *LineSeries, style chart.Style) chart.Series {
	xs, ys := l.Times, l.Values
	if len(xs) == 1 {
		xs = []time.Time{xs[0], xs[0].Add(1 * time.Second)}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.TimeSeries{Name: l.Label, XValues: xs, YValues: ys, Style: style}
}

func markerSeries(m *MarkerSeries) chart.Series {
	xs, ys := m.Times, m.Values
	if len(xs) == 1 {
		xs = []time.Time{xs[0], xs[0]}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.TimeSeries{
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    6,
			DotColor:    m.Color,
		},
	}
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice"
// numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n tick marks between [min, max] using nice
// increments.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil((max - min) / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	if math.Abs(v) >= 10 {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// pickTimeStep maps a time span to a tick step and label format.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04:05"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	default:
		return 30 * time.Minute, "15:04"
	}
}

// makeTimeTicks returns rounded ticks confined to [min, max], aligned to
// step boundaries in UTC to avoid DST label anomalies. A tick outside the
// range would stretch the drawn axis past the data span and break the
// pixel mapping, so none are emitted.
func makeTimeTicks(minT, maxT time.Time, step time.Duration) []chart.Tick {
	if step <= 0 {
		return nil
	}
	_, labelFmt := pickTimeStep(maxT.Sub(minT))
	st := int64(step.Seconds())
	if st <= 0 {
		st = 1
	}
	aligned := time.Unix((minT.UTC().Unix()/st)*st, 0).UTC()
	if aligned.Before(minT.UTC()) {
		aligned = aligned.Add(step)
	}
	ticks := []chart.Tick{}
	for t := aligned; !t.After(maxT.UTC()); t = t.Add(step) {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Local().Format(labelFmt)})
		if len(ticks) > 20 {
			break
		}
	}
	if len(ticks) == 0 {
		ticks = append(ticks,
			chart.Tick{Value: chart.TimeToFloat64(minT), Label: minT.Local().Format(labelFmt)},
			chart.Tick{Value: chart.TimeToFloat64(maxT), Label: maxT.Local().Format(labelFmt)})
	}
	return ticks
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 250, G: 250, B: 250, A: 255})
		}
	}
	return img
}

// stampAxes draws the axis lines, tick marks and labels into the gutters
// around the plot box. Tick positions come from the same Geometry mapping
// the hover pass uses.
func stampAxes(img image.Image, geom Geometry, xTicks, yTicks []chart.Tick) image.Image {
	if img == nil || !geom.Valid {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	axisCol := image.NewUniform(color.RGBA{R: 51, G: 51, B: 51, A: 255})
	face := basicfont.Face7x13
	left, top := int(geom.Left), int(geom.Top)
	right, bottom := int(geom.Right), int(geom.Bottom)
	draw.Draw(rgba, image.Rect(left-1, top, left, bottom+1), axisCol, image.Point{}, draw.Src)
	draw.Draw(rgba, image.Rect(left-1, bottom, right, bottom+1), axisCol, image.Point{}, draw.Src)

	yspan := geom.YMax - geom.YMin
	if yspan <= 0 {
		yspan = 1
	}
	for _, tick := range yTicks {
		if tick.Value < geom.YMin || tick.Value > geom.YMax {
			continue
		}
		fy := (tick.Value - geom.YMin) / yspan
		y := bottom - int(float64(bottom-top)*fy)
		draw.Draw(rgba, image.Rect(left-4, y, left, y+1), axisCol, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: rgba, Src: axisCol, Face: face}
		w := d.MeasureString(tick.Label).Ceil()
		d.Dot = fixed.Point26_6{X: fixed.I(left - 6 - w), Y: fixed.I(y + 4)}
		d.DrawString(tick.Label)
	}

	xmin := chart.TimeToFloat64(geom.TMin)
	xmax := chart.TimeToFloat64(geom.TMax)
	xspan := xmax - xmin
	if xspan <= 0 {
		xspan = 1
	}
	for _, tick := range xTicks {
		fx := (tick.Value - xmin) / xspan
		if fx < 0 || fx > 1 {
			continue
		}
		x := left + int(float64(right-left)*fx)
		draw.Draw(rgba, image.Rect(x, bottom, x+1, bottom+4), axisCol, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: rgba, Src: axisCol, Face: face}
		w := d.MeasureString(tick.Label).Ceil()
		d.Dot = fixed.Point26_6{X: fixed.I(x - w/2), Y: fixed.I(bottom + 16)}
		d.DrawString(tick.Label)
	}

	// axis names
	d := &font.Drawer{Dst: rgba, Src: axisCol, Face: face}
	d.Dot = fixed.Point26_6{X: fixed.I(b.Min.X + padLeft), Y: fixed.I(top - 6)}
	d.DrawString("Racer LOC (ms)")
	tw := d.MeasureString("Time").Ceil()
	d.Dot = fixed.Point26_6{X: fixed.I((left + right - tw) / 2), Y: fixed.I(b.Max.Y - 8)}
	d.DrawString("Time")
	return rgba
}

// stampLegend draws the legend entries onto the top-left corner of the
// plotting area, one swatch and label per row.
func stampLegend(img image.Image, entries []legendEntry) image.Image {
	if img == nil || len(entries) == 0 {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	rowH := face.Metrics().Height.Ceil() + 4
	x := b.Min.X + padLeft + axisLeftGutterPx + 10
	y := b.Min.Y + padTop + rowH

	// backdrop sized to the widest label
	maxW := 0
	dr := &font.Drawer{Face: face}
	for _, e := range entries {
		if w := dr.MeasureString(e.label).Ceil(); w > maxW {
			maxW = w
		}
	}
	bg := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 215})
	rect := image.Rect(x-6, y-rowH, x+14+maxW+6, y+rowH*(len(entries)-1)+6)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)

	for _, e := range entries {
		swatch := image.NewUniform(color.RGBA{R: e.color.R, G: e.color.G, B: e.color.B, A: 255})
		draw.Draw(rgba, image.Rect(x, y-9, x+10, y+1), swatch, image.Point{}, draw.Over)
		d := &font.Drawer{
			Dst:  rgba,
			Src:  image.NewUniform(color.RGBA{A: 255}),
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(x + 14), Y: fixed.I(y)},
		}
		d.DrawString(e.label)
		y += rowH
	}
	return rgba
}

// stampText draws a small text string onto the image with a translucent
// backdrop for readability.
func stampText(img image.Image, text string, x, y int) image.Image {
	if img == nil || text == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	pad := 4
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	bg := image.NewUniform(color.RGBA{A: 190})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
