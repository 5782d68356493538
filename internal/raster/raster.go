// Package raster draws strokes into a pair of bitmaps: a committed layer
// holding finished strokes and a scratch layer holding the stroke in
// progress. The scratch layer is merged into the committed one with the
// stroke's alpha as a uniform opacity.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/stroke"
)

// Defaults for arrow geometry and text, in pixels and points.
const (
	DefaultHeadLength = 20 // arrow head length along the shaft
	DefaultHeadExtra  = 15 // head width beyond the stroke width
	DefaultFontSize   = 25
)

// Layers is the committed bitmap and the scratch bitmap of one canvas.
type Layers struct {
	committed *image.RGBA
	scratch   *image.RGBA
	dc        *gg.Context

	headLength float64
	headExtra  float64
	fontSize   float64
	face       font.Face
}

// Option configures Layers.
type Option func(*Layers)

// WithHeadLength sets the arrow head length in pixels.
func WithHeadLength(v float64) Option {
	return func(l *Layers) {
		if v > 0 {
			l.headLength = v
		}
	}
}

// WithHeadExtra sets how much wider the arrow head is than the tail.
func WithHeadExtra(v float64) Option {
	return func(l *Layers) {
		if v >= 0 {
			l.headExtra = v
		}
	}
}

// WithFontSize sets the point size used for text strokes.
func WithFontSize(v float64) Option {
	return func(l *Layers) {
		if v > 0 {
			l.fontSize = v
		}
	}
}

// New allocates both layers at the given size.
func New(width, height int, opts ...Option) (*Layers, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	l := &Layers{
		committed:  image.NewRGBA(image.Rect(0, 0, width, height)),
		scratch:    image.NewRGBA(image.Rect(0, 0, width, height)),
		headLength: DefaultHeadLength,
		headExtra:  DefaultHeadExtra,
		fontSize:   DefaultFontSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	l.face = truetype.NewFace(f, &truetype.Options{
		Size:    l.fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	l.dc = gg.NewContextForRGBA(l.scratch)
	l.dc.SetLineCap(gg.LineCapRound)
	l.dc.SetFontFace(l.face)
	return l, nil
}

// Bounds is the canvas rectangle.
func (l *Layers) Bounds() image.Rectangle {
	return l.committed.Bounds()
}

// HeadLength and HeadExtra report the arrow geometry in use.
func (l *Layers) HeadLength() float64 { return l.headLength }
func (l *Layers) HeadExtra() float64  { return l.headExtra }

// Begin prepares the scratch layer for a new gesture.
func (l *Layers) Begin() {
	l.ClearScratch()
}

// Update renders an in-progress stroke. Brush strokes only get their newest
// segment drawn; shape strokes are redrawn from first to last point.
func (l *Layers) Update(s stroke.Stroke) {
	n := len(s.Points)
	switch s.Tool {
	case stroke.Brush:
		if n >= 2 {
			l.segment(s.Points[n-2], s.Points[n-1], s.Settings)
		}
	case stroke.Square, stroke.Arrow:
		l.ClearScratch()
		if n >= 2 {
			l.shape(s)
		}
	}
}

// Finish completes a gesture: taps get their dot, then the scratch layer is
// merged into the committed one.
func (l *Layers) Finish(s stroke.Stroke) {
	if len(s.Points) == 1 && s.Tool != stroke.Text {
		l.ClearScratch()
		l.dot(s.Points[0], s.Settings)
	}
	l.Composite(s.Settings.Color.A)
}

// Cancel drops whatever the scratch layer holds.
func (l *Layers) Cancel() {
	l.ClearScratch()
}

// Render draws one finished stroke from scratch and merges it.
func (l *Layers) Render(s stroke.Stroke) {
	l.ClearScratch()
	l.draw(s)
	l.Composite(s.Settings.Color.A)
}

// Replay clears both layers and renders strokes in order.
func (l *Layers) Replay(strokes []stroke.Stroke) {
	l.Reset()
	for _, s := range strokes {
		l.Render(s)
	}
}

func (l *Layers) draw(s stroke.Stroke) {
	n := len(s.Points)
	if n == 0 {
		return
	}
	switch s.Tool {
	case stroke.Brush:
		if n == 1 {
			l.dot(s.Points[0], s.Settings)
			return
		}
		for i := 1; i < n; i++ {
			l.segment(s.Points[i-1], s.Points[i], s.Settings)
		}
	case stroke.Square, stroke.Arrow:
		if n == 1 {
			l.dot(s.Points[0], s.Settings)
			return
		}
		l.shape(s)
	case stroke.Text:
		l.text(s.Points[0], s.Text, s.Settings)
	}
}

func (l *Layers) shape(s stroke.Stroke) {
	from, to := s.First(), s.Last()
	if s.Tool == stroke.Square {
		l.rect(from, to, s.Settings)
		return
	}
	w := s.Settings.Width
	pts, err := geom.ArrowPath(from, to, w, w+l.headExtra, l.headLength)
	if err != nil {
		l.dot(from, s.Settings)
		return
	}
	l.polygon(pts, s.Settings)
}

func (l *Layers) segment(a, b geom.Point, st stroke.Settings) {
	l.dc.SetColor(st.Color.Opaque())
	l.dc.SetLineWidth(st.Width)
	l.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	l.dc.Stroke()
}

func (l *Layers) dot(p geom.Point, st stroke.Settings) {
	l.dc.SetColor(st.Color.Opaque())
	l.dc.DrawCircle(p.X, p.Y, st.Width/2)
	l.dc.Fill()
}

func (l *Layers) rect(a, b geom.Point, st stroke.Settings) {
	origin, size := geom.Rect(a, b)
	if size.X == 0 && size.Y == 0 {
		l.dot(a, st)
		return
	}
	l.dc.SetColor(st.Color.Opaque())
	l.dc.SetLineWidth(st.Width)
	l.dc.DrawRectangle(origin.X, origin.Y, size.X, size.Y)
	l.dc.Stroke()
}

func (l *Layers) polygon(pts []geom.Point, st stroke.Settings) {
	l.dc.SetColor(st.Color.Opaque())
	l.dc.SetLineWidth(1)
	for i, p := range pts {
		if i == 0 {
			l.dc.MoveTo(p.X, p.Y)
		} else {
			l.dc.LineTo(p.X, p.Y)
		}
	}
	l.dc.ClosePath()
	l.dc.FillPreserve()
	l.dc.Stroke()
}

func (l *Layers) text(anchor geom.Point, content string, st stroke.Settings) {
	if content == "" {
		return
	}
	l.dc.SetColor(st.Color.Opaque())
	lineHeight := l.dc.FontHeight() * 1.2
	for i, line := range strings.Split(content, "\n") {
		l.dc.DrawStringAnchored(line, anchor.X, anchor.Y+float64(i)*lineHeight, 0, 1)
	}
}

// Composite merges the scratch layer into the committed layer with the
// given opacity and clears the scratch layer.
func (l *Layers) Composite(alpha float64) {
	mergeOver(l.committed, l.scratch, alpha)
	l.ClearScratch()
}

func mergeOver(dst, src *image.RGBA, alpha float64) {
	a := math.Max(0, math.Min(1, alpha))
	mask := image.NewUniform(color.Alpha16{A: uint16(math.Round(a * 0xffff))})
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}

// ClearScratch empties the scratch layer.
func (l *Layers) ClearScratch() {
	l.dc.ClearPath()
	clear(l.scratch.Pix)
}

// Reset empties both layers.
func (l *Layers) Reset() {
	l.ClearScratch()
	clear(l.committed.Pix)
}

// Committed returns a copy of the committed layer.
func (l *Layers) Committed() *image.RGBA {
	return clone(l.committed)
}

// Preview returns the committed layer with the scratch layer merged at
// alpha, leaving both layers untouched.
func (l *Layers) Preview(alpha float64) *image.RGBA {
	out := clone(l.committed)
	mergeOver(out, l.scratch, alpha)
	return out
}

func clone(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
