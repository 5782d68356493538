// Package export writes the stroke history as vector output.
package export

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/raster"
	"github.com/example/touchdraw/internal/stroke"
)

// PDF renders strokes onto a single page the size of the canvas, one PDF
// point per pixel.
type PDF struct {
	bounds     image.Rectangle
	headLength float64
	headExtra  float64
	fontSize   float64
	background *stroke.Color
}

// Option configures a PDF export.
type Option func(*PDF)

// WithArrowHead sets the arrow head length and extra head width.
func WithArrowHead(length, extra float64) Option {
	return func(p *PDF) {
		p.headLength = length
		p.headExtra = extra
	}
}

// WithFontSize sets the point size for text strokes.
func WithFontSize(size float64) Option {
	return func(p *PDF) {
		p.fontSize = size
	}
}

// WithBackground paints the page before drawing strokes.
func WithBackground(c stroke.Color) Option {
	return func(p *PDF) {
		p.background = &c
	}
}

// NewPDF prepares an export for a canvas of the given bounds.
func NewPDF(bounds image.Rectangle, opts ...Option) (*PDF, error) {
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("invalid page size %dx%d", bounds.Dx(), bounds.Dy())
	}
	p := &PDF{
		bounds:     bounds,
		headLength: raster.DefaultHeadLength,
		headExtra:  raster.DefaultHeadExtra,
		fontSize:   raster.DefaultFontSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Write encodes strokes as a PDF document to w.
func (p *PDF) Write(w io.Writer, strokes []stroke.Stroke) error {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(p.bounds.Dx()), Ht: float64(p.bounds.Dy())},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	doc.SetLineCapStyle("round")
	doc.SetLineJoinStyle("round")
	if p.background != nil {
		setFill(doc, *p.background)
		doc.SetAlpha(p.background.A, "Normal")
		doc.Rect(0, 0, float64(p.bounds.Dx()), float64(p.bounds.Dy()), "F")
	}
	for _, s := range strokes {
		p.stroke(doc, s)
	}
	if err := doc.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return doc.Output(w)
}

// WriteFile writes the PDF to path.
func (p *PDF) WriteFile(path string, strokes []stroke.Stroke) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return p.Write(f, strokes)
}

func (p *PDF) stroke(doc *gofpdf.Fpdf, s stroke.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	st := s.Settings
	doc.SetAlpha(st.Color.A, "Normal")
	setDraw(doc, st.Color)
	setFill(doc, st.Color)
	doc.SetLineWidth(st.Width)
	off := geom.Pt(float64(p.bounds.Min.X), float64(p.bounds.Min.Y))

	if s.Tool != stroke.Text && len(s.Points) == 1 {
		c := s.Points[0].Sub(off)
		doc.Circle(c.X, c.Y, st.Width/2, "F")
		return
	}
	switch s.Tool {
	case stroke.Brush:
		for i, pt := range s.Points {
			pt = pt.Sub(off)
			if i == 0 {
				doc.MoveTo(pt.X, pt.Y)
			} else {
				doc.LineTo(pt.X, pt.Y)
			}
		}
		doc.DrawPath("D")
	case stroke.Square:
		origin, size := geom.Rect(s.First().Sub(off), s.Last().Sub(off))
		if size.X == 0 && size.Y == 0 {
			doc.Circle(origin.X, origin.Y, st.Width/2, "F")
			return
		}
		doc.Rect(origin.X, origin.Y, size.X, size.Y, "D")
	case stroke.Arrow:
		from, to := s.First().Sub(off), s.Last().Sub(off)
		pts, err := geom.ArrowPath(from, to, st.Width, st.Width+p.headExtra, p.headLength)
		if err != nil {
			doc.Circle(from.X, from.Y, st.Width/2, "F")
			return
		}
		poly := make([]gofpdf.PointType, len(pts))
		for i, pt := range pts {
			poly[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
		}
		doc.SetLineWidth(1)
		doc.Polygon(poly, "FD")
	case stroke.Text:
		anchor := s.First().Sub(off)
		doc.SetFont("Helvetica", "", p.fontSize)
		doc.SetTextColor(channel(st.Color.R), channel(st.Color.G), channel(st.Color.B))
		lineHeight := p.fontSize * 1.2
		for i, line := range strings.Split(s.Text, "\n") {
			doc.Text(anchor.X, anchor.Y+p.fontSize+float64(i)*lineHeight, line)
		}
	}
}

func setDraw(doc *gofpdf.Fpdf, c stroke.Color) {
	doc.SetDrawColor(channel(c.R), channel(c.G), channel(c.B))
}

func setFill(doc *gofpdf.Fpdf, c stroke.Color) {
	doc.SetFillColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
