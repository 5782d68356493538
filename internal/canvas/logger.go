package canvas

import (
	"context"
	"log/slog"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// WithLogger routes the canvas diagnostics to l. A canvas is silent by
// default; nil restores that.
//
// Levels used:
//   - [slog.LevelDebug]: strokes committed, undo and redo, replays
//   - [slog.LevelWarn]: discarded gestures and rejected settings
func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) {
		if l == nil {
			l = newNopLogger()
		}
		c.log = l
	}
}
