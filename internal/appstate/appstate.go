// Package appstate hosts a canvas in a desktop window: mouse drags become
// gestures, keys select tools and trigger history operations.
package appstate

import (
	"fmt"
	"image"
	"log"
	"sync"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/touchdraw/internal/avail"
	"github.com/example/touchdraw/internal/canvas"
	"github.com/example/touchdraw/internal/config"
	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/stroke"
)

// widths are the steps [ and ] move between.
var widths = []float64{1, 2, 3, 5, 8, 12, 20, 32}

// AppState drives a canvas from window input.
type AppState struct {
	Canvas     *canvas.Canvas
	Palette    []config.PaletteEntry
	Background stroke.Color

	onSave    func(*image.RGBA) (string, error)
	onCopy    func(*image.RGBA) error
	onExport  func([]stroke.Stroke) (string, error)
	onClose   func()
	closeOnce sync.Once

	colorIdx int
	flags    avail.Flags
	text     []rune
	pressed  bool
	message  string
	dirty    bool
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithPalette sets the colours reachable through the number keys.
func WithPalette(p []config.PaletteEntry) Option {
	return func(a *AppState) {
		if len(p) > 0 {
			a.Palette = p
		}
	}
}

// WithBackground sets the colour shown behind the committed layer.
func WithBackground(c stroke.Color) Option { return func(a *AppState) { a.Background = c } }

// WithOnSave registers the handler for Ctrl+S. It returns where the image went.
func WithOnSave(fn func(*image.RGBA) (string, error)) Option {
	return func(a *AppState) { a.onSave = fn }
}

// WithOnCopy registers the handler for Ctrl+C.
func WithOnCopy(fn func(*image.RGBA) error) Option { return func(a *AppState) { a.onCopy = fn } }

// WithOnExport registers the handler for Ctrl+E.
func WithOnExport(fn func([]stroke.Stroke) (string, error)) Option {
	return func(a *AppState) { a.onExport = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New attaches an AppState to cv. The AppState becomes the canvas'
// availability observer.
func New(cv *canvas.Canvas, opts ...Option) *AppState {
	a := &AppState{
		Canvas:     cv,
		Palette:    config.DefaultPalette(),
		Background: stroke.Color{R: 1, G: 1, B: 1, A: 1},
	}
	for _, o := range opts {
		o(a)
	}
	a.flags = cv.Flags()
	cv.SetObserver(a)
	return a
}

func (a *AppState) UndoEnabled()   { a.setFlag(&a.flags.Undo, true) }
func (a *AppState) UndoDisabled()  { a.setFlag(&a.flags.Undo, false) }
func (a *AppState) RedoEnabled()   { a.setFlag(&a.flags.Redo, true) }
func (a *AppState) RedoDisabled()  { a.setFlag(&a.flags.Redo, false) }
func (a *AppState) ClearEnabled()  { a.setFlag(&a.flags.Clear, true) }
func (a *AppState) ClearDisabled() { a.setFlag(&a.flags.Clear, false) }

func (a *AppState) setFlag(f *bool, v bool) {
	*f = v
	a.dirty = true
}

// Flags is the availability last reported by the canvas.
func (a *AppState) Flags() avail.Flags {
	return a.flags
}

// Typing reports whether key presses go to a pending text stroke.
func (a *AppState) Typing() bool {
	_, ok := a.Canvas.PendingText()
	return ok
}

// TextInput is the text typed so far for the pending text stroke.
func (a *AppState) TextInput() string {
	return string(a.text)
}

// Message is the status message from the last action.
func (a *AppState) Message() string {
	return a.message
}

// ColorName is the palette name of the brush colour, if it came from the
// palette.
func (a *AppState) ColorName() string {
	if a.colorIdx >= 0 && a.colorIdx < len(a.Palette) && a.Palette[a.colorIdx].Color == a.Canvas.Settings().Color {
		return a.Palette[a.colorIdx].Name
	}
	return a.Canvas.Settings().Color.Hex()
}

// Apply performs cmd and reports whether the window needs repainting.
func (a *AppState) Apply(cmd Command) bool {
	cv := a.Canvas
	switch cmd.Action {
	case ActionNone:
		return a.takeDirty()
	case ActionToolBrush:
		a.selectTool(stroke.Brush)
	case ActionToolSquare:
		a.selectTool(stroke.Square)
	case ActionToolArrow:
		a.selectTool(stroke.Arrow)
	case ActionToolText:
		a.selectTool(stroke.Text)
	case ActionUndo:
		if !cv.Undo() {
			a.message = "nothing to undo"
		} else {
			a.message = ""
		}
	case ActionRedo:
		if !cv.Redo() {
			a.message = "nothing to redo"
		} else {
			a.message = ""
		}
	case ActionClear:
		if cv.Clear() {
			a.message = "cleared"
		}
	case ActionCancel:
		a.text = nil
		a.pressed = false
		if cv.CancelStroke() {
			a.message = "cancelled"
		}
	case ActionWider:
		a.stepWidth(1)
	case ActionThinner:
		a.stepWidth(-1)
	case ActionPalette:
		if cmd.Index < 0 || cmd.Index >= len(a.Palette) {
			return false
		}
		if err := cv.SetBrushColor(a.Palette[cmd.Index].Color); err != nil {
			a.message = err.Error()
		} else {
			a.colorIdx = cmd.Index
		}
	case ActionTextInput:
		if !a.Typing() {
			return false
		}
		a.text = append(a.text, cmd.Rune)
	case ActionTextBackspace:
		if len(a.text) > 0 {
			a.text = a.text[:len(a.text)-1]
		}
	case ActionTextCommit:
		if _, err := cv.CommitPendingText(string(a.text)); err != nil {
			a.message = err.Error()
		} else {
			a.message = ""
		}
		a.text = nil
	case ActionSave:
		a.save()
	case ActionCopy:
		a.copy()
	case ActionExport:
		a.export()
	default:
		return false
	}
	a.dirty = false
	return true
}

func (a *AppState) takeDirty() bool {
	d := a.dirty
	a.dirty = false
	return d
}

func (a *AppState) selectTool(t stroke.Tool) {
	if a.Typing() && t != stroke.Text {
		a.text = nil
	}
	if err := a.Canvas.SetTool(t); err != nil {
		a.message = err.Error()
		return
	}
	a.message = ""
}

func (a *AppState) stepWidth(dir int) {
	cur := a.Canvas.Settings().Width
	next := cur
	if dir > 0 {
		for _, w := range widths {
			if w > cur {
				next = w
				break
			}
		}
	} else {
		for i := len(widths) - 1; i >= 0; i-- {
			if widths[i] < cur {
				next = widths[i]
				break
			}
		}
	}
	if next == cur {
		return
	}
	if err := a.Canvas.SetBrushWidth(next); err != nil {
		a.message = err.Error()
	}
}

func (a *AppState) save() {
	if a.onSave == nil {
		a.message = "saving is not configured"
		return
	}
	where, err := a.onSave(a.Canvas.CurrentBitmap())
	if err != nil {
		log.Printf("save: %v", err)
		a.message = fmt.Sprintf("save failed: %v", err)
		return
	}
	a.message = "saved " + where
}

func (a *AppState) copy() {
	if a.onCopy == nil {
		a.message = "clipboard is not configured"
		return
	}
	if err := a.onCopy(a.Canvas.CurrentBitmap()); err != nil {
		log.Printf("copy: %v", err)
		a.message = fmt.Sprintf("copy failed: %v", err)
		return
	}
	a.message = "copied to clipboard"
}

func (a *AppState) export() {
	if a.onExport == nil {
		a.message = "export is not configured"
		return
	}
	where, err := a.onExport(a.Canvas.ExportStack())
	if err != nil {
		log.Printf("export: %v", err)
		a.message = fmt.Sprintf("export failed: %v", err)
		return
	}
	a.message = "exported " + where
}

// Pointer feeds a mouse event, already mapped to canvas coordinates, into
// the gesture contract. It reports whether the window needs repainting.
func (a *AppState) Pointer(e mouse.Event, p geom.Point) bool {
	cv := a.Canvas
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if a.Typing() && len(a.text) > 0 {
			// clicking elsewhere confirms the text being typed
			if _, err := cv.CommitPendingText(string(a.text)); err != nil {
				a.message = err.Error()
			}
		}
		a.text = nil
		a.pressed = true
		cv.BeginStroke(p)
		return true
	case e.Direction == mouse.DirNone && a.pressed:
		return cv.ExtendStroke(p)
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if !a.pressed {
			return false
		}
		a.pressed = false
		cv.EndStroke()
		return true
	}
	return false
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}
