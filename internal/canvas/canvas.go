// Package canvas is the drawing engine hosts talk to. It turns pointer
// samples into strokes, keeps the stroke history with undo and redo, and
// reports when undo, redo and clear become available or unavailable.
//
// A Canvas is not safe for concurrent use.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/touchdraw/internal/avail"
	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/history"
	"github.com/example/touchdraw/internal/journal"
	"github.com/example/touchdraw/internal/raster"
	"github.com/example/touchdraw/internal/stroke"
)

var (
	// ErrEmptyText is returned when committing text with no content.
	ErrEmptyText = errors.New("text is empty")
	// ErrNoPendingText is returned by CommitPendingText without an anchor.
	ErrNoPendingText = errors.New("no pending text anchor")
	// ErrEmptyStroke is returned when importing a stroke with no points.
	ErrEmptyStroke = errors.New("stroke has no points")
)

// Canvas couples the layered bitmap with the stroke history.
type Canvas struct {
	layers  *raster.Layers
	stack   history.Stack
	journal journal.Journal
	tracker *avail.Tracker
	log     *slog.Logger

	tool     stroke.Tool
	settings stroke.Settings

	active     *stroke.Stroke
	textAnchor geom.Point
	textOpen   bool

	rasterOpts []raster.Option
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithObserver registers the availability observer.
func WithObserver(obs avail.Observer) Option {
	return func(c *Canvas) {
		c.tracker.SetObserver(obs)
	}
}

// WithSettings sets the initial brush.
func WithSettings(s stroke.Settings) Option {
	return func(c *Canvas) {
		c.settings = s
	}
}

// WithTool sets the initial tool.
func WithTool(t stroke.Tool) Option {
	return func(c *Canvas) {
		c.tool = t
	}
}

// WithRasterOptions passes options through to the layer renderer.
func WithRasterOptions(opts ...raster.Option) Option {
	return func(c *Canvas) {
		c.rasterOpts = append(c.rasterOpts, opts...)
	}
}

// New creates an empty canvas of the given pixel size.
func New(width, height int, opts ...Option) (*Canvas, error) {
	c := &Canvas{
		tracker:  avail.NewTracker(nil),
		log:      newNopLogger(),
		tool:     stroke.Brush,
		settings: stroke.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.tool.Valid() {
		return nil, fmt.Errorf("%w %v", stroke.ErrUnknownTool, c.tool)
	}
	if err := c.settings.Validate(); err != nil {
		return nil, err
	}
	layers, err := raster.New(width, height, c.rasterOpts...)
	if err != nil {
		return nil, err
	}
	c.layers = layers
	return c, nil
}

// SetObserver replaces the availability observer. The current flags are not
// replayed; read them with Flags.
func (c *Canvas) SetObserver(obs avail.Observer) {
	c.tracker.SetObserver(obs)
}

// Bounds is the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.layers.Bounds()
}

// Tool returns the selected tool.
func (c *Canvas) Tool() stroke.Tool {
	return c.tool
}

// Settings returns the current brush.
func (c *Canvas) Settings() stroke.Settings {
	return c.settings
}

// SetTool selects the tool for the next gesture. A gesture in progress
// keeps the tool it began with.
func (c *Canvas) SetTool(t stroke.Tool) error {
	if !t.Valid() {
		return fmt.Errorf("%w %v", stroke.ErrUnknownTool, t)
	}
	if t != stroke.Text {
		c.textOpen = false
	}
	c.tool = t
	return nil
}

// SetSettings replaces the brush. Invalid settings are rejected and the
// previous brush is kept.
func (c *Canvas) SetSettings(s stroke.Settings) error {
	if err := s.Validate(); err != nil {
		c.log.Warn("rejected brush settings", "err", err)
		return err
	}
	c.settings = s
	return nil
}

// SetBrushColor changes the brush colour.
func (c *Canvas) SetBrushColor(col stroke.Color) error {
	s := c.settings
	s.Color = col
	return c.SetSettings(s)
}

// SetBrushWidth changes the brush width.
func (c *Canvas) SetBrushWidth(w float64) error {
	s := c.settings
	s.Width = w
	return c.SetSettings(s)
}

// BeginStroke starts a gesture at p. An unfinished gesture is discarded.
// With the text tool only the anchor is remembered; see CommitText.
func (c *Canvas) BeginStroke(p geom.Point) {
	c.discardGesture()
	if c.tool == stroke.Text {
		c.textAnchor = p
		c.textOpen = true
		return
	}
	s, err := stroke.New(c.tool, c.settings)
	if err != nil {
		c.log.Warn("cannot start stroke", "err", err)
		return
	}
	s.Append(p)
	c.layers.Begin()
	c.layers.Update(*s)
	c.active = s
}

// ExtendStroke adds a sample to the open gesture. It reports false when
// no gesture is open.
func (c *Canvas) ExtendStroke(p geom.Point) bool {
	if c.active == nil {
		return false
	}
	c.active.Append(p)
	c.layers.Update(*c.active)
	return true
}

// EndStroke finalizes the open gesture and pushes it onto the history.
// Text gestures never commit here.
func (c *Canvas) EndStroke() (stroke.Stroke, bool) {
	s := c.active
	if s == nil {
		return stroke.Stroke{}, false
	}
	c.active = nil
	c.layers.Finish(*s)
	c.commit(*s)
	return s.Clone(), true
}

// CancelStroke drops the open gesture or pending text anchor without
// touching the history.
func (c *Canvas) CancelStroke() bool {
	had := c.active != nil || c.textOpen
	c.discardGesture()
	c.textOpen = false
	return had
}

// Active reports whether a gesture is open.
func (c *Canvas) Active() bool {
	return c.active != nil
}

// PendingText returns the anchor recorded by a text gesture.
func (c *Canvas) PendingText() (geom.Point, bool) {
	return c.textAnchor, c.textOpen
}

// CommitText renders content with its top-left corner at p and pushes it
// as a stroke using the current brush.
func (c *Canvas) CommitText(p geom.Point, content string) (stroke.Stroke, error) {
	if strings.TrimSpace(content) == "" {
		return stroke.Stroke{}, ErrEmptyText
	}
	s, err := stroke.New(stroke.Text, c.settings)
	if err != nil {
		return stroke.Stroke{}, err
	}
	c.discardGesture()
	c.textOpen = false
	s.Append(p)
	s.Text = content
	c.layers.Render(*s)
	c.commit(*s)
	return s.Clone(), nil
}

// CommitPendingText commits content at the anchor of the last text gesture.
func (c *Canvas) CommitPendingText(content string) (stroke.Stroke, error) {
	if !c.textOpen {
		return stroke.Stroke{}, ErrNoPendingText
	}
	return c.CommitText(c.textAnchor, content)
}

func (c *Canvas) commit(s stroke.Stroke) {
	c.stack.Push(s)
	c.journal.Record(journal.Command{Kind: journal.Pop, Stroke: s})
	c.log.Debug("stroke committed", "id", s.ID, "tool", s.Tool, "points", len(s.Points))
	c.refresh()
}

func (c *Canvas) discardGesture() {
	if c.active == nil {
		return
	}
	c.log.Warn("discarding unfinished stroke", "id", c.active.ID, "points", len(c.active.Points))
	c.active = nil
	c.layers.Cancel()
}

// Undo reverts the newest history operation. It reports false when there
// is nothing to undo.
func (c *Canvas) Undo() bool {
	c.discardGesture()
	ok := c.journal.Undo(c.execute)
	if ok {
		c.log.Debug("undo", "strokes", c.stack.Len())
	}
	c.refresh()
	return ok
}

// Redo reapplies the newest undone operation.
func (c *Canvas) Redo() bool {
	c.discardGesture()
	ok := c.journal.Redo(c.execute)
	if ok {
		c.log.Debug("redo", "strokes", c.stack.Len())
	}
	c.refresh()
	return ok
}

// Clear removes every stroke as one undoable operation. Clearing an empty
// canvas does nothing and reports false.
func (c *Canvas) Clear() bool {
	c.discardGesture()
	if c.stack.Len() == 0 {
		return false
	}
	removed := c.stack.Clear()
	c.layers.Reset()
	c.journal.Record(journal.Command{Kind: journal.Restore, Snapshot: removed})
	c.log.Debug("cleared", "strokes", len(removed))
	c.refresh()
	return true
}

func (c *Canvas) execute(cmd journal.Command) journal.Command {
	switch cmd.Kind {
	case journal.Push:
		c.stack.Push(cmd.Stroke)
		c.layers.Render(cmd.Stroke)
		return journal.Command{Kind: journal.Pop, Stroke: cmd.Stroke}
	case journal.Pop:
		s, err := c.stack.Pop()
		if errors.Is(err, history.ErrEmpty) {
			c.log.Warn("pop on empty history")
			return cmd.Inverse()
		}
		c.replay()
		return journal.Command{Kind: journal.Push, Stroke: s}
	case journal.Clear:
		removed := c.stack.Clear()
		c.layers.Reset()
		return journal.Command{Kind: journal.Restore, Snapshot: removed}
	case journal.Restore:
		for _, s := range cmd.Snapshot {
			c.stack.Push(s)
			c.layers.Render(s)
		}
		return journal.Command{Kind: journal.Clear, Snapshot: cmd.Snapshot}
	}
	return cmd
}

func (c *Canvas) replay() {
	strokes := c.stack.Strokes()
	c.layers.Replay(strokes)
	c.log.Debug("replayed history", "strokes", len(strokes))
}

func (c *Canvas) refresh() {
	c.tracker.Update(avail.Flags{
		Undo:  c.journal.CanUndo(),
		Redo:  c.journal.CanRedo(),
		Clear: c.stack.Len() > 0,
	})
}

// Flags returns the current availability.
func (c *Canvas) Flags() avail.Flags {
	return c.tracker.Flags()
}

// Len is the number of strokes in the history.
func (c *Canvas) Len() int {
	return c.stack.Len()
}

// ExportStack returns a copy of the history, oldest first.
func (c *Canvas) ExportStack() []stroke.Stroke {
	return c.stack.Strokes()
}

// ImportStack replaces the history with strokes. Undo state is reset and
// each imported stroke becomes its own undoable step. On error the canvas
// is left unchanged.
func (c *Canvas) ImportStack(strokes []stroke.Stroke) error {
	for i, s := range strokes {
		if !s.Tool.Valid() {
			return fmt.Errorf("stroke %d: %w %v", i, stroke.ErrUnknownTool, s.Tool)
		}
		if s.Tool == stroke.Text && strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("stroke %d: %w", i, ErrEmptyText)
		}
		if len(s.Points) == 0 {
			return fmt.Errorf("stroke %d: %w", i, ErrEmptyStroke)
		}
		if err := s.Settings.Validate(); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	c.discardGesture()
	c.textOpen = false
	c.stack.Clear()
	c.layers.Reset()
	c.journal.Reset()
	for _, s := range strokes {
		s = s.Clone()
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		c.stack.Push(s)
		c.layers.Render(s)
		c.journal.Record(journal.Command{Kind: journal.Pop, Stroke: s})
	}
	c.log.Debug("imported history", "strokes", len(strokes))
	c.refresh()
	return nil
}

// CurrentBitmap returns a copy of the committed layer.
func (c *Canvas) CurrentBitmap() *image.RGBA {
	return c.layers.Committed()
}

// Preview returns the committed layer with the open gesture drawn on top.
func (c *Canvas) Preview() *image.RGBA {
	if c.active == nil {
		return c.layers.Committed()
	}
	return c.layers.Preview(c.active.Settings.Color.A)
}
