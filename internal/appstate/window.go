package appstate

import (
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the event loop on s until the window closes. All canvas calls
// happen on this goroutine.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	bounds := a.Canvas.Bounds()
	width := bounds.Dx()
	height := bounds.Dy() + statusHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "touchdraw"})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	v := layout(bounds, width, height)
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			v = layout(bounds, width, height)
			w.Send(paint.Event{})
		case paint.Event:
			a.paint(s, w, width, height, v)
		case mouse.Event:
			if a.Pointer(e, v.toCanvas(e.X, e.Y)) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if a.Apply(Translate(e, a.Typing())) {
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func (a *AppState) paint(s screen.Screen, w screen.Window, width, height int, v view) {
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	a.renderFrame(b.RGBA(), a.Canvas.Preview(), v)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
