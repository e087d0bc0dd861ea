// Package uihelpers holds pure UI-geometry helpers so they stay testable
// without a window.
package uihelpers

// ComputeChartDimensions applies the width/height clamp rules used for the
// LOC chart. Input: desired raw width (e.g. canvas width). Returns clamped
// width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.45)
	if h < 320 {
		h = 320
	}
	if h > 640 {
		h = 640
	}
	return w, h
}

// ContainRect computes where an image of imgW×imgH lands inside a view of
// viewW×viewH under contain-fit scaling: the drawn rectangle's origin and
// size, plus the applied scale factor.
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	w = imgW * scale
	h = imgH * scale
	x = (viewW - w) / 2
	y = (viewH - h) / 2
	return x, y, w, h, scale
}

// ViewToImage maps a point in view coordinates to image pixel coordinates
// under the same contain-fit transform. The second return is false when the
// point falls outside the drawn rectangle.
func ViewToImage(vx, vy, imgW, imgH, viewW, viewH float32) (float32, float32, bool) {
	x, y, w, h, scale := ContainRect(imgW, imgH, viewW, viewH)
	if scale <= 0 || vx < x || vx > x+w || vy < y || vy > y+h {
		return 0, 0, false
	}
	return (vx - x) / scale, (vy - y) / scale, true
}

// ImageToView is the inverse mapping, for drawing overlay objects at image
// pixel positions.
func ImageToView(ix, iy, imgW, imgH, viewW, viewH float32) (float32, float32) {
	x, y, _, _, scale := ContainRect(imgW, imgH, viewW, viewH)
	return x + ix*scale, y + iy*scale
}
