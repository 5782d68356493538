package canvas

import (
	"bytes"
	"errors"
	"testing"

	"github.com/example/touchdraw/internal/avail"
	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/stroke"
)

type event struct {
	kind    avail.Kind
	enabled bool
}

type recorder struct {
	events []event
}

func (r *recorder) observer() avail.Observer {
	return avail.Func(func(k avail.Kind, on bool) {
		r.events = append(r.events, event{k, on})
	})
}

func (r *recorder) take() []event {
	out := r.events
	r.events = nil
	return out
}

func newCanvas(t *testing.T, opts ...Option) *Canvas {
	t.Helper()
	c, err := New(120, 120, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func drawLine(t *testing.T, c *Canvas, pts ...geom.Point) stroke.Stroke {
	t.Helper()
	c.BeginStroke(pts[0])
	for _, p := range pts[1:] {
		if !c.ExtendStroke(p) {
			t.Fatalf("ExtendStroke(%v) had no open gesture", p)
		}
	}
	s, ok := c.EndStroke()
	if !ok {
		t.Fatalf("EndStroke committed nothing")
	}
	return s
}

func ids(list []stroke.Stroke) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID.String()
	}
	return out
}

func sameIDs(a, b []stroke.Stroke) bool {
	x, y := ids(a), ids(b)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func TestUndoRedoRoundTrip(t *testing.T) {
	c := newCanvas(t)
	for i := 0; i < 4; i++ {
		y := float64(10 + i*20)
		drawLine(t, c, geom.Pt(10, y), geom.Pt(60, y), geom.Pt(100, y+5))
	}
	before := c.ExportStack()
	bitmap := c.CurrentBitmap()
	for i := 0; i < 4; i++ {
		if !c.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if c.Len() != 0 || c.Undo() {
		t.Fatalf("expected empty history after undoing everything")
	}
	for i := 0; i < 4; i++ {
		if !c.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if !sameIDs(before, c.ExportStack()) {
		t.Fatalf("redo did not restore the stack")
	}
	if !bytes.Equal(bitmap.Pix, c.CurrentBitmap().Pix) {
		t.Fatalf("redo did not restore the bitmap")
	}
}

func TestPushAfterUndoDropsRedo(t *testing.T) {
	rec := &recorder{}
	c := newCanvas(t, WithObserver(rec.observer()))
	drawLine(t, c, geom.Pt(10, 10), geom.Pt(50, 50))
	drawLine(t, c, geom.Pt(10, 50), geom.Pt(50, 10))
	c.Undo()
	if !c.Flags().Redo {
		t.Fatalf("redo should be available after undo")
	}
	rec.take()
	drawLine(t, c, geom.Pt(20, 20), geom.Pt(30, 30))
	if c.Redo() {
		t.Fatalf("redo should be a no-op after a new stroke")
	}
	got := rec.take()
	if len(got) != 1 || got[0] != (event{avail.Redo, false}) {
		t.Fatalf("events = %v, want a single redo-disabled", got)
	}
}

func TestAvailabilityEdges(t *testing.T) {
	rec := &recorder{}
	c := newCanvas(t, WithObserver(rec.observer()))
	drawLine(t, c, geom.Pt(10, 10), geom.Pt(50, 50))
	got := rec.take()
	want := []event{{avail.Undo, true}, {avail.Clear, true}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("first push events = %v, want %v", got, want)
	}
	drawLine(t, c, geom.Pt(20, 10), geom.Pt(50, 50))
	if got := rec.take(); len(got) != 0 {
		t.Fatalf("second push fired %v", got)
	}
	c.Undo()
	c.Undo()
	got = rec.take()
	want = []event{{avail.Redo, true}, {avail.Undo, false}, {avail.Clear, false}}
	if len(got) != len(want) {
		t.Fatalf("undo events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("undo event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExportClearImportReproducesBitmap(t *testing.T) {
	c := newCanvas(t)
	drawLine(t, c, geom.Pt(10, 10), geom.Pt(40, 70), geom.Pt(90, 30))
	if err := c.SetTool(stroke.Square); err != nil {
		t.Fatal(err)
	}
	if err := c.SetBrushColor(stroke.Color{B: 1, A: 0.6}); err != nil {
		t.Fatal(err)
	}
	drawLine(t, c, geom.Pt(20, 20), geom.Pt(30, 40), geom.Pt(80, 90))
	if err := c.SetTool(stroke.Arrow); err != nil {
		t.Fatal(err)
	}
	drawLine(t, c, geom.Pt(100, 10), geom.Pt(20, 100))
	c.BeginStroke(geom.Pt(60, 60))
	c.EndStroke()

	saved := c.ExportStack()
	bitmap := c.CurrentBitmap()
	if !c.Clear() {
		t.Fatalf("clear failed")
	}
	if err := c.ImportStack(saved); err != nil {
		t.Fatalf("ImportStack: %v", err)
	}
	if !bytes.Equal(bitmap.Pix, c.CurrentBitmap().Pix) {
		t.Fatalf("imported bitmap differs")
	}
	if c.Flags().Redo || !c.Flags().Undo {
		t.Fatalf("unexpected flags after import: %+v", c.Flags())
	}
	for i := 0; i < len(saved); i++ {
		if !c.Undo() {
			t.Fatalf("imported stroke %d not individually undoable", i)
		}
	}
}

func TestTapKeepsSinglePoint(t *testing.T) {
	c := newCanvas(t, WithSettings(stroke.Settings{Color: stroke.Color{R: 1, A: 1}, Width: 10}))
	c.BeginStroke(geom.Pt(50, 50))
	s, ok := c.EndStroke()
	if !ok || len(s.Points) != 1 {
		t.Fatalf("tap stroke = %+v, %v", s, ok)
	}
	img := c.CurrentBitmap()
	if img.RGBAAt(50, 50).A != 255 {
		t.Fatalf("tap did not draw a dot")
	}
	if img.RGBAAt(58, 50).A != 0 {
		t.Fatalf("dot larger than brush width")
	}
}

func TestClearUndoRestores(t *testing.T) {
	rec := &recorder{}
	c := newCanvas(t, WithObserver(rec.observer()))
	drawLine(t, c, geom.Pt(10, 10), geom.Pt(50, 50))
	drawLine(t, c, geom.Pt(60, 10), geom.Pt(100, 50))
	before := c.ExportStack()
	bitmap := c.CurrentBitmap()
	c.Clear()
	if c.Len() != 0 || c.Flags().Clear {
		t.Fatalf("clear left strokes behind")
	}
	rec.take()
	if !c.Undo() {
		t.Fatalf("undo of clear failed")
	}
	if !sameIDs(before, c.ExportStack()) {
		t.Fatalf("undo of clear did not restore the stack")
	}
	if !bytes.Equal(bitmap.Pix, c.CurrentBitmap().Pix) {
		t.Fatalf("undo of clear did not restore pixels")
	}
	got := rec.take()
	found := false
	for _, e := range got {
		if e == (event{avail.Clear, true}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("clear-enabled not fired after undo of clear: %v", got)
	}
	if !c.Redo() || c.Len() != 0 {
		t.Fatalf("redo of clear did not clear again")
	}
}

func TestClearEmptyIsNoop(t *testing.T) {
	c := newCanvas(t)
	if c.Clear() {
		t.Fatalf("clear on empty canvas reported work")
	}
	if c.Flags().Undo {
		t.Fatalf("empty clear became undoable")
	}
}

func TestInvalidSettingsKeepPrevious(t *testing.T) {
	c := newCanvas(t)
	prev := c.Settings()
	if err := c.SetBrushWidth(0); !errors.Is(err, stroke.ErrInvalidSettings) {
		t.Fatalf("SetBrushWidth(0) = %v", err)
	}
	if err := c.SetBrushColor(stroke.Color{R: 2, A: 1}); !errors.Is(err, stroke.ErrInvalidSettings) {
		t.Fatalf("SetBrushColor out of range = %v", err)
	}
	if c.Settings() != prev {
		t.Fatalf("settings changed after rejected updates")
	}
	if _, err := New(10, 10, WithSettings(stroke.Settings{Width: -1})); err == nil {
		t.Fatalf("New accepted invalid settings")
	}
}

func TestStrokeKeepsSettingsSnapshot(t *testing.T) {
	c := newCanvas(t)
	s := drawLine(t, c, geom.Pt(10, 10), geom.Pt(20, 20))
	if err := c.SetBrushWidth(30); err != nil {
		t.Fatal(err)
	}
	got := c.ExportStack()[0]
	if got.Settings != s.Settings || got.Settings.Width == 30 {
		t.Fatalf("stroke settings followed the brush: %+v", got.Settings)
	}
}

func TestOrphanedGestureDiscarded(t *testing.T) {
	c := newCanvas(t)
	c.BeginStroke(geom.Pt(10, 10))
	c.ExtendStroke(geom.Pt(100, 100))
	c.BeginStroke(geom.Pt(5, 5))
	c.ExtendStroke(geom.Pt(6, 6))
	s, ok := c.EndStroke()
	if !ok || c.Len() != 1 || s.First() != geom.Pt(5, 5) {
		t.Fatalf("unexpected history after orphaned gesture: len=%d stroke=%+v", c.Len(), s)
	}
	if c.CurrentBitmap().RGBAAt(60, 60).A != 0 {
		t.Fatalf("orphaned stroke reached the bitmap")
	}
}

func TestCancelStroke(t *testing.T) {
	c := newCanvas(t)
	c.BeginStroke(geom.Pt(10, 10))
	c.ExtendStroke(geom.Pt(50, 50))
	if !c.CancelStroke() {
		t.Fatalf("cancel reported nothing to cancel")
	}
	if _, ok := c.EndStroke(); ok || c.Len() != 0 {
		t.Fatalf("cancelled gesture was committed")
	}
	if c.ExtendStroke(geom.Pt(1, 1)) {
		t.Fatalf("extend after cancel should fail")
	}
}

func TestTextGesture(t *testing.T) {
	c := newCanvas(t)
	if err := c.SetTool(stroke.Text); err != nil {
		t.Fatal(err)
	}
	c.BeginStroke(geom.Pt(10, 20))
	if _, ok := c.EndStroke(); ok {
		t.Fatalf("text gesture committed on end")
	}
	anchor, ok := c.PendingText()
	if !ok || anchor != geom.Pt(10, 20) {
		t.Fatalf("pending text = %v, %v", anchor, ok)
	}
	if _, err := c.CommitPendingText("  "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("empty commit = %v", err)
	}
	s, err := c.CommitPendingText("hello")
	if err != nil {
		t.Fatalf("CommitPendingText: %v", err)
	}
	if s.Tool != stroke.Text || s.Text != "hello" || c.Len() != 1 {
		t.Fatalf("unexpected text stroke %+v", s)
	}
	if _, ok := c.PendingText(); ok {
		t.Fatalf("anchor still pending after commit")
	}
	if _, err := c.CommitPendingText("again"); !errors.Is(err, ErrNoPendingText) {
		t.Fatalf("second commit = %v", err)
	}
	if !c.Undo() || c.Len() != 0 {
		t.Fatalf("text stroke not undoable")
	}
}

func TestImportRejectsBadStroke(t *testing.T) {
	c := newCanvas(t)
	drawLine(t, c, geom.Pt(10, 10), geom.Pt(20, 20))
	at := []geom.Point{geom.Pt(1, 1)}
	cases := []struct {
		name string
		in   stroke.Stroke
		want error
	}{
		{"no points", stroke.Stroke{Tool: stroke.Brush, Settings: stroke.DefaultSettings()}, ErrEmptyStroke},
		{"unknown tool", stroke.Stroke{Tool: stroke.Tool(9), Settings: stroke.DefaultSettings(), Points: at}, stroke.ErrUnknownTool},
		{"empty text", stroke.Stroke{Tool: stroke.Text, Settings: stroke.DefaultSettings(), Points: at}, ErrEmptyText},
		{"blank text", stroke.Stroke{Tool: stroke.Text, Settings: stroke.DefaultSettings(), Points: at, Text: "  "}, ErrEmptyText},
		{"bad width", stroke.Stroke{Tool: stroke.Brush, Settings: stroke.Settings{Color: stroke.Color{A: 1}}, Points: at}, stroke.ErrInvalidSettings},
	}
	for _, tc := range cases {
		err := c.ImportStack([]stroke.Stroke{tc.in})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: ImportStack = %v, want %v", tc.name, err, tc.want)
		}
		if c.Len() != 1 || !c.Flags().Undo {
			t.Fatalf("%s: failed import modified the canvas", tc.name)
		}
	}
}

func TestSetToolRejectsUnknown(t *testing.T) {
	c := newCanvas(t)
	if err := c.SetTool(stroke.Tool(9)); !errors.Is(err, stroke.ErrUnknownTool) {
		t.Fatalf("SetTool = %v, want ErrUnknownTool", err)
	}
	if c.Tool() != stroke.Brush {
		t.Fatalf("tool changed to %v", c.Tool())
	}
}

func TestExportIsACopy(t *testing.T) {
	c := newCanvas(t)
	drawLine(t, c, geom.Pt(10, 10), geom.Pt(20, 20))
	out := c.ExportStack()
	out[0].Points[0] = geom.Pt(99, 99)
	if c.ExportStack()[0].First() != geom.Pt(10, 10) {
		t.Fatalf("export aliases history")
	}
	if !c.Flags().Undo {
		t.Fatalf("export touched the journal")
	}
}

func TestPreviewShowsOpenGesture(t *testing.T) {
	c := newCanvas(t)
	c.BeginStroke(geom.Pt(10, 60))
	c.ExtendStroke(geom.Pt(100, 60))
	if c.Preview().RGBAAt(50, 60).A == 0 {
		t.Fatalf("preview missing the open stroke")
	}
	if c.CurrentBitmap().RGBAAt(50, 60).A != 0 {
		t.Fatalf("open stroke reached the committed layer")
	}
}

func TestNewRejectsUnknownTool(t *testing.T) {
	if _, err := New(10, 10, WithTool(stroke.Tool(7))); !errors.Is(err, stroke.ErrUnknownTool) {
		t.Fatalf("New = %v, want ErrUnknownTool", err)
	}
}
