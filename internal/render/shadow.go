// Package render holds window decoration effects drawn around the canvas.
package render

import (
	"image"
	"image/draw"
)

// Shadow configures the drop shadow drawn under the canvas page.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is a small shadow suited to a page on a grey backdrop.
func DefaultShadow() Shadow {
	return Shadow{
		Radius:  8,
		Offset:  image.Pt(4, 4),
		Opacity: 0.45,
	}
}

// Mask returns the blurred alpha mask for a page of the given size and the
// position of the mask's origin relative to the page's top-left corner. It
// returns nil when there is nothing to draw.
func (s Shadow) Mask(size image.Point) (*image.Alpha, image.Point) {
	if size.X <= 0 || size.Y <= 0 || s.Opacity <= 0 {
		return nil, image.Point{}
	}
	opacity := min(s.Opacity, 1)
	radius := max(s.Radius, 0)

	m := image.NewAlpha(image.Rect(0, 0, size.X+2*radius, size.Y+2*radius))
	a := uint8(opacity*255 + 0.5)
	for y := radius; y < radius+size.Y; y++ {
		row := m.Pix[y*m.Stride:]
		for x := radius; x < radius+size.X; x++ {
			row[x] = a
		}
	}
	if radius > 0 {
		boxBlur(m, radius)
	}
	return m, s.Offset.Sub(image.Pt(radius, radius))
}

// Draw paints the shadow of page onto dst.
func (s Shadow) Draw(dst draw.Image, page image.Rectangle) {
	m, at := s.Mask(page.Size())
	if m == nil {
		return
	}
	r := m.Bounds().Add(page.Min.Add(at))
	draw.DrawMask(dst, r, image.Black, image.Point{}, m, image.Point{}, draw.Over)
}

// boxBlur blurs m in place with a horizontal then a vertical box filter.
func boxBlur(m *image.Alpha, radius int) {
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	n := max(w, h)
	prefix := make([]int, n+1)
	line := make([]uint8, n)
	for y := 0; y < h; y++ {
		blurLine(m.Pix[y*m.Stride:], 1, w, radius, prefix, line)
	}
	for x := 0; x < w; x++ {
		blurLine(m.Pix[x:], m.Stride, h, radius, prefix, line)
	}
}

// blurLine averages n samples spaced step apart over a window of radius.
func blurLine(pix []uint8, step, n, radius int, prefix []int, out []uint8) {
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(pix[i*step])
	}
	for i := 0; i < n; i++ {
		lo := max(i-radius, 0)
		hi := min(i+radius, n-1)
		out[i] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
	}
	for i := 0; i < n; i++ {
		pix[i*step] = out[i]
	}
}
