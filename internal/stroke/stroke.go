// Package stroke defines the recorded unit of drawing: a tool, the brush
// settings captured when the gesture began, and the sampled points.
package stroke

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/example/touchdraw/internal/geom"
)

// ErrInvalidSettings is returned for a non-positive width or a colour
// channel outside [0,1].
var ErrInvalidSettings = errors.New("invalid brush settings")

// ErrUnknownTool is returned for a Tool outside the defined set.
var ErrUnknownTool = errors.New("unknown tool")

// Tool selects how a stroke is interpreted.
type Tool int

const (
	Brush Tool = iota
	Square
	Arrow
	Text
)

var toolNames = map[Tool]string{
	Brush:  "brush",
	Square: "square",
	Arrow:  "arrow",
	Text:   "text",
}

// Valid reports whether t is one of the defined tools.
func (t Tool) Valid() bool {
	_, ok := toolNames[t]
	return ok
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool accepts the tool names plus a few common aliases.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "brush", "pen", "draw":
		return Brush, nil
	case "square", "rect", "rectangle":
		return Square, nil
	case "arrow":
		return Arrow, nil
	case "text":
		return Text, nil
	}
	return Brush, fmt.Errorf("%w %q", ErrUnknownTool, name)
}

// Color is an RGBA colour with float channels in [0,1], not premultiplied.
type Color struct {
	R, G, B, A float64
}

// RGBA implements color.Color. The result is alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = channel(c.A)
	r = channel(c.R) * a / 0xffff
	g = channel(c.G) * a / 0xffff
	b = channel(c.B) * a / 0xffff
	return
}

// Opaque returns the colour with alpha forced to one.
func (c Color) Opaque() Color {
	c.A = 1
	return c
}

func channel(v float64) uint32 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint32(math.Round(v * 0xffff))
}

// FromColor converts any color.Color into a Color.
func FromColor(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
		A: float64(n.A) / 0xffff,
	}
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (Color, error) {
	spec := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(spec) != 6 && len(spec) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	var vals [4]uint64
	vals[3] = 255
	for i := 0; i*2 < len(spec); i++ {
		v, err := strconv.ParseUint(spec[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		vals[i] = v
	}
	return Color{
		R: float64(vals[0]) / 255,
		G: float64(vals[1]) / 255,
		B: float64(vals[2]) / 255,
		A: float64(vals[3]) / 255,
	}, nil
}

// Hex formats the colour as #RRGGBBAA.
func (c Color) Hex() string {
	b := func(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c.R), b(c.G), b(c.B), b(c.A))
}

// Settings is the brush state captured by a stroke.
type Settings struct {
	Color Color
	Width float64
}

// DefaultSettings is an opaque black brush five pixels wide.
func DefaultSettings() Settings {
	return Settings{Color: Color{A: 1}, Width: 5}
}

// Validate reports whether the settings can be drawn with.
func (s Settings) Validate() error {
	if !(s.Width > 0) || math.IsInf(s.Width, 0) {
		return fmt.Errorf("%w: width %v", ErrInvalidSettings, s.Width)
	}
	for _, v := range []float64{s.Color.R, s.Color.G, s.Color.B, s.Color.A} {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: color channel %v", ErrInvalidSettings, v)
		}
	}
	return nil
}

// Stroke is one recorded gesture. Square and Arrow strokes only use their
// first and last points; intermediate samples are kept as recorded.
type Stroke struct {
	ID       uuid.UUID
	Tool     Tool
	Settings Settings
	Points   []geom.Point
	Text     string
}

// New starts a stroke with the given tool and settings.
func New(tool Tool, settings Settings) (*Stroke, error) {
	if !tool.Valid() {
		return nil, fmt.Errorf("%w %v", ErrUnknownTool, tool)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Stroke{ID: uuid.New(), Tool: tool, Settings: settings}, nil
}

// Append records another sample.
func (s *Stroke) Append(p geom.Point) {
	s.Points = append(s.Points, p)
}

// Len is the number of recorded points.
func (s Stroke) Len() int {
	return len(s.Points)
}

// First returns the first point, or the zero point for an empty stroke.
func (s Stroke) First() geom.Point {
	if len(s.Points) == 0 {
		return geom.Point{}
	}
	return s.Points[0]
}

// Last returns the newest point, or the zero point for an empty stroke.
func (s Stroke) Last() geom.Point {
	if len(s.Points) == 0 {
		return geom.Point{}
	}
	return s.Points[len(s.Points)-1]
}

// Clone returns a copy that shares no memory with s.
func (s Stroke) Clone() Stroke {
	c := s
	if s.Points != nil {
		c.Points = make([]geom.Point, len(s.Points))
		copy(c.Points, s.Points)
	}
	return c
}

// CloneAll deep-copies a list of strokes.
func CloneAll(list []Stroke) []Stroke {
	if list == nil {
		return nil
	}
	out := make([]Stroke, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}
