package appstate

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/touchdraw/internal/canvas"
	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/stroke"
)

func newApp(t *testing.T, opts ...Option) *AppState {
	t.Helper()
	cv, err := canvas.New(200, 150)
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	return New(cv, opts...)
}

func press(r rune) key.Event {
	return key.Event{Rune: r, Direction: key.DirPress}
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		ev     key.Event
		typing bool
		want   Action
	}{
		{press('b'), false, ActionToolBrush},
		{press('S'), false, ActionToolSquare},
		{press('a'), false, ActionToolArrow},
		{press('t'), false, ActionToolText},
		{press('u'), false, ActionUndo},
		{press('r'), false, ActionRedo},
		{press('x'), false, ActionClear},
		{press(']'), false, ActionWider},
		{press('['), false, ActionThinner},
		{press('u'), true, ActionTextInput},
		{key.Event{Code: key.CodeEscape, Direction: key.DirPress}, true, ActionCancel},
		{key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress}, true, ActionTextCommit},
		{key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress}, false, ActionNone},
		{key.Event{Code: key.CodeDeleteBackspace, Direction: key.DirPress}, true, ActionTextBackspace},
		{key.Event{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl, Direction: key.DirPress}, true, ActionSave},
		{key.Event{Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress}, false, ActionUndo},
		{key.Event{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift, Direction: key.DirPress}, false, ActionRedo},
		{key.Event{Rune: 'b', Direction: key.DirRelease}, false, ActionNone},
	}
	for _, c := range cases {
		if got := Translate(c.ev, c.typing).Action; got != c.want {
			t.Errorf("Translate(%+v, typing=%v) = %v, want %v", c.ev, c.typing, got, c.want)
		}
	}
	if got := Translate(press('3'), false); got.Action != ActionPalette || got.Index != 2 {
		t.Errorf("Translate('3') = %+v", got)
	}
}

func drag(a *AppState, pts ...geom.Point) {
	a.Pointer(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirPress}, pts[0])
	for _, p := range pts[1:] {
		a.Pointer(mouse.Event{Direction: mouse.DirNone}, p)
	}
	a.Pointer(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, pts[len(pts)-1])
}

func TestPointerDrawsStroke(t *testing.T) {
	a := newApp(t)
	drag(a, geom.Pt(10, 10), geom.Pt(50, 50), geom.Pt(90, 20))
	if a.Canvas.Len() != 1 {
		t.Fatalf("expected one stroke, got %d", a.Canvas.Len())
	}
	if !a.Flags().Undo || !a.Flags().Clear {
		t.Fatalf("observer flags not updated: %+v", a.Flags())
	}
	// moves without a press are ignored
	if a.Pointer(mouse.Event{Direction: mouse.DirNone}, geom.Pt(1, 1)) {
		t.Fatalf("hover reported a change")
	}
}

func TestApplyHistory(t *testing.T) {
	a := newApp(t)
	drag(a, geom.Pt(10, 10), geom.Pt(50, 50))
	a.Apply(Command{Action: ActionUndo})
	if a.Canvas.Len() != 0 || !a.Flags().Redo {
		t.Fatalf("undo not applied: len=%d flags=%+v", a.Canvas.Len(), a.Flags())
	}
	a.Apply(Command{Action: ActionRedo})
	if a.Canvas.Len() != 1 {
		t.Fatalf("redo not applied")
	}
	a.Apply(Command{Action: ActionClear})
	if a.Canvas.Len() != 0 || a.Flags().Clear {
		t.Fatalf("clear not applied")
	}
	a.Apply(Command{Action: ActionRedo})
	if a.Message() != "nothing to redo" {
		t.Fatalf("message = %q", a.Message())
	}
}

func TestTextEntry(t *testing.T) {
	a := newApp(t)
	a.Apply(Command{Action: ActionToolText})
	drag(a, geom.Pt(20, 30))
	if !a.Typing() {
		t.Fatalf("expected typing mode after text tap")
	}
	for _, r := range "hix" {
		a.Apply(Translate(press(r), a.Typing()))
	}
	a.Apply(Command{Action: ActionTextBackspace})
	if a.TextInput() != "hi" {
		t.Fatalf("text input = %q", a.TextInput())
	}
	a.Apply(Command{Action: ActionTextCommit})
	strokes := a.Canvas.ExportStack()
	if len(strokes) != 1 || strokes[0].Text != "hi" || strokes[0].First() != geom.Pt(20, 30) {
		t.Fatalf("unexpected strokes %+v", strokes)
	}
	if a.Typing() {
		t.Fatalf("still typing after commit")
	}
}

func TestCancelText(t *testing.T) {
	a := newApp(t)
	a.Apply(Command{Action: ActionToolText})
	drag(a, geom.Pt(20, 30))
	a.Apply(Command{Action: ActionTextInput, Rune: 'z'})
	a.Apply(Command{Action: ActionCancel})
	if a.Typing() || a.TextInput() != "" || a.Canvas.Len() != 0 {
		t.Fatalf("cancel left state behind")
	}
}

func TestPaletteAndWidth(t *testing.T) {
	a := newApp(t)
	a.Apply(Command{Action: ActionPalette, Index: 1})
	if a.ColorName() != a.Palette[1].Name {
		t.Fatalf("colour = %s", a.ColorName())
	}
	if a.Apply(Command{Action: ActionPalette, Index: 99}) {
		t.Fatalf("out of range palette index applied")
	}
	a.Apply(Command{Action: ActionWider})
	if w := a.Canvas.Settings().Width; w != 8 {
		t.Fatalf("width after wider = %v", w)
	}
	a.Apply(Command{Action: ActionThinner})
	a.Apply(Command{Action: ActionThinner})
	if w := a.Canvas.Settings().Width; w != 3 {
		t.Fatalf("width after thinner = %v", w)
	}
}

func TestSaveHandler(t *testing.T) {
	var got *image.RGBA
	a := newApp(t, WithOnSave(func(img *image.RGBA) (string, error) {
		got = img
		return "out.png", nil
	}), WithOnCopy(func(*image.RGBA) error { return errors.New("no display") }))
	a.Apply(Command{Action: ActionSave})
	if got == nil || a.Message() != "saved out.png" {
		t.Fatalf("save handler not called: %q", a.Message())
	}
	a.Apply(Command{Action: ActionCopy})
	if a.Message() != "copy failed: no display" {
		t.Fatalf("message = %q", a.Message())
	}
	a.Apply(Command{Action: ActionExport})
	if a.Message() != "export is not configured" {
		t.Fatalf("message = %q", a.Message())
	}
}

func TestLayout(t *testing.T) {
	v := layout(image.Rect(0, 0, 400, 300), 400, 320)
	if v.zoom != 1 || v.dst != image.Rect(0, 0, 400, 300) {
		t.Fatalf("unexpected view %+v", v)
	}
	v = layout(image.Rect(0, 0, 400, 300), 200, 170)
	if v.zoom != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", v.zoom)
	}
	if p := v.toCanvas(100, 50); p != geom.Pt(200, 100) {
		t.Fatalf("toCanvas = %v", p)
	}
}

func TestRenderFrame(t *testing.T) {
	a := newApp(t, WithBackground(stroke.Color{R: 1, G: 1, B: 1, A: 1}))
	drag(a, geom.Pt(10, 10), geom.Pt(100, 100))
	dst := image.NewRGBA(image.Rect(0, 0, 200, 170))
	v := layout(a.Canvas.Bounds(), 200, 170)
	a.renderFrame(dst, a.Canvas.Preview(), v)
	if c := dst.RGBAAt(150, 20); c.R != 255 || c.G != 255 {
		t.Fatalf("background not drawn: %v", c)
	}
	if c := dst.RGBAAt(50, 50); c.R > 100 {
		t.Fatalf("stroke not drawn: %v", c)
	}
	if c := dst.RGBAAt(199, 169); c != statusBg {
		t.Fatalf("status bar not drawn: %v", c)
	}
}
