package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/touchdraw/internal/raster"
	"github.com/example/touchdraw/internal/stroke"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Arrow holds the arrow head geometry.
type Arrow struct {
	HeadLength float64
	HeadExtra  float64
}

// Text holds text stroke settings.
type Text struct {
	Size float64
}

// PaletteEntry is a named brush colour.
type PaletteEntry struct {
	Name  string
	Color stroke.Color
}

// Config holds the application configuration.
type Config struct {
	Tool         string
	Color        stroke.Color
	Width        float64
	CanvasWidth  int
	CanvasHeight int
	Background   stroke.Color
	SaveDir      string
	Notify       Notify
	Arrow        Arrow
	Text         Text
	Palette      []PaletteEntry
}

// New creates a new Config with defaults.
func New() *Config {
	def := stroke.DefaultSettings()
	return &Config{
		Tool:         stroke.Brush.String(),
		Color:        def.Color,
		Width:        def.Width,
		CanvasWidth:  800,
		CanvasHeight: 600,
		Background:   stroke.Color{R: 1, G: 1, B: 1, A: 1},
		Arrow: Arrow{
			HeadLength: raster.DefaultHeadLength,
			HeadExtra:  raster.DefaultHeadExtra,
		},
		Text:    Text{Size: raster.DefaultFontSize},
		Palette: DefaultPalette(),
	}
}

// DefaultPalette is the colour list used when the config has no [palette].
func DefaultPalette() []PaletteEntry {
	return []PaletteEntry{
		{"black", stroke.Color{A: 1}},
		{"red", stroke.Color{R: 0.86, G: 0.08, B: 0.24, A: 1}},
		{"blue", stroke.Color{R: 0.12, G: 0.35, B: 0.85, A: 1}},
		{"green", stroke.Color{R: 0.13, G: 0.55, B: 0.13, A: 1}},
		{"orange", stroke.Color{R: 1, G: 0.55, A: 1}},
		{"purple", stroke.Color{R: 0.5, B: 0.5, A: 1}},
		{"yellow", stroke.Color{R: 1, G: 0.84, A: 0.5}},
		{"white", stroke.Color{R: 1, G: 1, B: 1, A: 1}},
		{"grey", stroke.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}},
	}
}

// Brush returns the configured starting brush.
func (c *Config) Brush() (stroke.Tool, stroke.Settings, error) {
	tool, err := stroke.ParseTool(c.Tool)
	if err != nil {
		return stroke.Brush, stroke.Settings{}, err
	}
	s := stroke.Settings{Color: c.Color, Width: c.Width}
	if err := s.Validate(); err != nil {
		return tool, s, err
	}
	return tool, s, nil
}

// RasterOptions returns the layer options for the configured geometry.
func (c *Config) RasterOptions() []raster.Option {
	return []raster.Option{
		raster.WithHeadLength(c.Arrow.HeadLength),
		raster.WithHeadExtra(c.Arrow.HeadExtra),
		raster.WithFontSize(c.Text.Size),
	}
}

// LookupColor finds a palette colour by name.
func (c *Config) LookupColor(name string) (stroke.Color, bool) {
	for _, e := range c.Palette {
		if strings.EqualFold(e.Name, name) {
			return e.Color, true
		}
	}
	return stroke.Color{}, false
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "tool = %s\n", c.Tool)
	fmt.Fprintf(&sb, "color = %s\n", c.Color.Hex())
	fmt.Fprintf(&sb, "width = %s\n", formatFloat(c.Width))
	fmt.Fprintf(&sb, "canvas_width = %d\n", c.CanvasWidth)
	fmt.Fprintf(&sb, "canvas_height = %d\n", c.CanvasHeight)
	fmt.Fprintf(&sb, "background = %s\n", c.Background.Hex())
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[arrow]\n")
	fmt.Fprintf(&sb, "head_length = %s\n", formatFloat(c.Arrow.HeadLength))
	fmt.Fprintf(&sb, "head_extra = %s\n", formatFloat(c.Arrow.HeadExtra))
	sb.WriteString("\n")

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "size = %s\n", formatFloat(c.Text.Size))
	sb.WriteString("\n")

	// Palette order is significant: entries map to the number keys.
	sb.WriteString("[palette]\n")
	for _, e := range c.Palette {
		fmt.Fprintf(&sb, "%s = %s\n", e.Name, e.Color.Hex())
	}

	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
