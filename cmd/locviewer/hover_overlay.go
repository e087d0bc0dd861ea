package main

import (
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/yuli091280/Race-Walking-Visualization/cmd/locviewer/uihelpers"
	"github.com/yuli091280/Race-Walking-Visualization/src/locgraph"
)

// annotationOverlay sits on top of the chart image and feeds pointer
// motion into the graph's hover pass, then draws whatever annotations the
// pass produced.
type annotationOverlay struct {
	widget.BaseWidget
	state *uiState
}

func newAnnotationOverlay(state *uiState) *annotationOverlay {
	o := &annotationOverlay{state: state}
	o.ExtendBaseWidget(o)
	return o
}

// MouseMoved maps the pointer into chart image coordinates and runs the
// hover pass. One Refresh per event, and only when something changed.
func (o *annotationOverlay) MouseMoved(ev *desktop.MouseEvent) {
	g := o.state.graph
	img := o.state.chartCanvas
	if g == nil || img == nil || img.Image == nil {
		return
	}
	b := img.Image.Bounds()
	size := o.Size()
	ix, iy, ok := uihelpers.ViewToImage(ev.Position.X, ev.Position.Y,
		float32(b.Dx()), float32(b.Dy()), size.Width, size.Height)
	if !ok {
		return
	}
	if g.Hover(ix, iy) {
		o.Refresh()
	}
}

func (o *annotationOverlay) MouseIn(*desktop.MouseEvent) {}
func (o *annotationOverlay) MouseOut()                   {}

var _ desktop.Hoverable = (*annotationOverlay)(nil)

func (o *annotationOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background keeps the full area hoverable
	bg := canvas.NewRectangle(color.RGBA{})
	return &annotationRenderer{o: o, bg: bg, objs: []fyne.CanvasObject{bg}}
}

type annotationRenderer struct {
	o    *annotationOverlay
	bg   *canvas.Rectangle
	objs []fyne.CanvasObject
}

func (r *annotationRenderer) Destroy() {}

func (r *annotationRenderer) MinSize() fyne.Size { return fyne.NewSize(10, 10) }

func (r *annotationRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *annotationRenderer) Refresh() {
	r.Layout(r.o.Size())
	for _, obj := range r.objs {
		obj.Refresh()
	}
}

// Layout rebuilds one background-rect-plus-label pair per visible
// annotation, resolving the placement spec against the contain-fit image
// transform. Stacked annotations hang below-left of the previous box.
func (r *annotationRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.objs = r.objs[:1]

	g := r.o.state.graph
	img := r.o.state.chartCanvas
	if g == nil || img == nil || img.Image == nil {
		return
	}
	b := img.Image.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	_, _, _, _, scale := uihelpers.ContainRect(imgW, imgH, size.Width, size.Height)

	const pad = float32(5)
	var prevBox *fyne.Position
	var prevH float32
	for _, ann := range g.Annotations() {
		label := widget.NewRichText(&widget.TextSegment{Text: ann.Text})
		label.Wrapping = fyne.TextWrapOff
		ts := label.MinSize()
		boxW := ts.Width + 2*pad
		boxH := ts.Height + 2*pad

		var bx, by float32
		if ann.Stacked && prevBox != nil {
			bx = prevBox.X + ann.OffsetX
			by = prevBox.Y + prevH + ann.OffsetY
		} else {
			ax, ay := uihelpers.ImageToView(ann.X, ann.Y, imgW, imgH, size.Width, size.Height)
			bx = ax + ann.OffsetX*scale
			by = ay + ann.OffsetY*scale
			if ann.HAlign == locgraph.AlignRight {
				bx -= boxW
			}
			if ann.VAlign == locgraph.AlignBottom {
				by -= boxH
			}
		}
		if bx < 0 {
			bx = 0
		}
		if by < 0 {
			by = 0
		}
		if bx+boxW > size.Width {
			bx = size.Width - boxW
		}
		if by+boxH > size.Height {
			by = size.Height - boxH
		}

		bgRect := canvas.NewRectangle(toRGBA(ann.Color, 230))
		bgRect.CornerRadius = 4
		bgRect.Resize(fyne.NewSize(boxW, boxH))
		bgRect.Move(fyne.NewPos(bx, by))
		label.Resize(ts)
		label.Move(fyne.NewPos(bx+pad, by+pad))

		r.objs = append(r.objs, bgRect, label)
		pos := fyne.NewPos(bx, by)
		prevBox = &pos
		prevH = boxH
	}
}

func toRGBA(c drawing.Color, alpha uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
