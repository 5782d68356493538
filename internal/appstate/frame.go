package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/render"
)

const statusHeight = 20

var (
	backdrop = color.RGBA{96, 96, 96, 255}
	statusBg = color.RGBA{235, 235, 235, 255}
	dimmed   = color.RGBA{150, 150, 150, 255}

	pageShadow = render.DefaultShadow()
)

const caret = "|"

// view places the canvas inside the window.
type view struct {
	dst  image.Rectangle
	zoom float64
}

// layout fits the canvas above the status bar, shrinking it when the
// window is too small but never enlarging it.
func layout(canvas image.Rectangle, winW, winH int) view {
	availH := winH - statusHeight
	zoom := 1.0
	if canvas.Dx() > 0 && canvas.Dy() > 0 {
		zx := float64(winW) / float64(canvas.Dx())
		zy := float64(availH) / float64(canvas.Dy())
		zoom = min(zoom, zx, zy)
	}
	if zoom <= 0 {
		zoom = 1
	}
	w := int(float64(canvas.Dx()) * zoom)
	h := int(float64(canvas.Dy()) * zoom)
	return view{dst: image.Rect(0, 0, w, h), zoom: zoom}
}

// toCanvas maps a window position into canvas coordinates.
func (v view) toCanvas(x, y float32) geom.Point {
	return geom.Pt(
		(float64(x)-float64(v.dst.Min.X))/v.zoom,
		(float64(y)-float64(v.dst.Min.Y))/v.zoom,
	)
}

// toWindow maps a canvas position into window pixels.
func (v view) toWindow(p geom.Point) image.Point {
	return image.Pt(v.dst.Min.X+int(p.X*v.zoom), v.dst.Min.Y+int(p.Y*v.zoom))
}

// renderFrame draws the whole window contents into dst.
func (a *AppState) renderFrame(dst *image.RGBA, img *image.RGBA, v view) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(backdrop), image.Point{}, draw.Src)
	pageShadow.Draw(dst, v.dst)
	draw.Draw(dst, v.dst, image.NewUniform(a.Background), image.Point{}, draw.Over)
	if v.zoom == 1 {
		draw.Draw(dst, v.dst, img, img.Bounds().Min, draw.Over)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, v.dst, img, img.Bounds(), draw.Over, nil)
	}

	if anchor, ok := a.Canvas.PendingText(); ok {
		at := v.toWindow(anchor)
		col := a.Canvas.Settings().Color
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
			Dot: fixed.P(at.X, at.Y+13)}
		d.DrawString(string(a.text) + caret)
	}

	bar := image.Rect(b.Min.X, b.Max.Y-statusHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, image.NewUniform(statusBg), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
		Dot: fixed.P(bar.Min.X+4, bar.Min.Y+14)}
	d.DrawString(a.statusText())

	x := d.Dot.X.Ceil() + 12
	for _, item := range a.availability() {
		src := image.Image(image.Black)
		if !item.on {
			src = image.NewUniform(dimmed)
		}
		d = &font.Drawer{Dst: dst, Src: src, Face: basicfont.Face7x13, Dot: fixed.P(x, bar.Min.Y+14)}
		d.DrawString(item.label)
		x = d.Dot.X.Ceil() + 8
	}
	if a.message != "" {
		meas := &font.Drawer{Face: basicfont.Face7x13}
		w := meas.MeasureString(a.message).Ceil()
		d = &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
			Dot: fixed.P(bar.Max.X-w-4, bar.Min.Y+14)}
		d.DrawString(a.message)
	}
}

func (a *AppState) statusText() string {
	var sb strings.Builder
	st := a.Canvas.Settings()
	fmt.Fprintf(&sb, "%s  width %g  %s", a.Canvas.Tool(), st.Width, a.ColorName())
	if a.Typing() {
		sb.WriteString("  typing (enter to place, esc to cancel)")
	}
	return sb.String()
}

type availItem struct {
	label string
	on    bool
}

func (a *AppState) availability() []availItem {
	f := a.flags
	return []availItem{
		{"U:undo", f.Undo},
		{"R:redo", f.Redo},
		{"X:clear", f.Clear},
	}
}
