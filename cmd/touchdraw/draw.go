package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/touchdraw/internal/clipboard"
	"github.com/example/touchdraw/internal/config"
	"github.com/example/touchdraw/internal/export"
	"github.com/example/touchdraw/internal/stroke"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, "; ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// drawCmd runs a gesture script through a canvas and writes the result.
type drawCmd struct {
	script      string
	exprs       stringList
	output      string
	pdf         string
	toClipboard bool
	widthPx     int
	heightPx    int
	steps       []step
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) Program() string {
	return d.root.subcommand("draw")
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.script, "script", "", "file of script commands, - for stdin")
	fs.Var(&d.exprs, "e", "script command line (repeatable)")
	fs.StringVar(&d.output, "output", "", "output PNG path")
	fs.StringVar(&d.pdf, "pdf", "", "also write the strokes as a PDF")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.IntVar(&d.widthPx, "width-px", 0, "canvas width (defaults to the configured width)")
	fs.IntVar(&d.heightPx, "height-px", 0, "canvas height (defaults to the configured height)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if d.script != "" {
		steps, err := d.readScript()
		if err != nil {
			return nil, err
		}
		d.steps = append(d.steps, steps...)
	}
	for _, e := range d.exprs {
		steps, err := parseScript(strings.NewReader(e))
		if err != nil {
			return nil, err
		}
		d.steps = append(d.steps, steps...)
	}
	if rest := fs.Args(); len(rest) > 0 {
		steps, err := parseScript(strings.NewReader(strings.Join(rest, " ")))
		if err != nil {
			return nil, err
		}
		d.steps = append(d.steps, steps...)
	}
	if len(d.steps) == 0 {
		return nil, &UsageError{of: d}
	}
	if err := validate(d.steps); err != nil {
		return nil, err
	}
	if d.widthPx < 0 || d.heightPx < 0 {
		return nil, fmt.Errorf("canvas size must not be negative")
	}
	if d.output == "" && d.pdf == "" && !d.toClipboard {
		d.output = defaultOutput(d.root.cfg(), "drawing.png")
	}
	return d, nil
}

func (d *drawCmd) readScript() ([]step, error) {
	if d.script == "-" {
		return parseScript(os.Stdin)
	}
	f, err := os.Open(d.script)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", f.Name(), err)
		}
	}()
	return parseScript(f)
}

func (d *drawCmd) Run() error {
	cfg := d.root.cfg()
	cv, err := d.root.newCanvas(d.widthPx, d.heightPx)
	if err != nil {
		return err
	}
	if err := runScript(cv, cfg, d.steps); err != nil {
		return err
	}
	// a gesture left open at the end of the script is dropped
	cv.CancelStroke()

	img := flatten(cv.CurrentBitmap(), cfg.Background)
	if d.output != "" {
		saved, err := writePNG(d.output, img)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", saved)
		d.root.notifySave(saved)
	}
	if d.pdf != "" {
		saved, err := writePDF(d.pdf, cfg, cv.Bounds(), cv.ExportStack())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s\n", saved)
		d.root.notifyExport(saved)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := "drawing"
		if d.output != "" {
			detail = filepath.Base(d.output)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail)
	}
	return nil
}

// flatten composites the committed layer over the background colour.
func flatten(src *image.RGBA, bg stroke.Color) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Over)
	return out
}

func defaultOutput(cfg *config.Config, name string) string {
	if cfg.SaveDir == "" {
		return name
	}
	return filepath.Join(cfg.SaveDir, name)
}

// writePNG encodes img to path and returns the absolute path written.
func writePNG(path string, img image.Image) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", out.Name(), cerr)
		}
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

// writePDF exports strokes to path using the configured geometry.
func writePDF(path string, cfg *config.Config, bounds image.Rectangle, strokes []stroke.Stroke) (string, error) {
	doc, err := export.NewPDF(bounds,
		export.WithArrowHead(cfg.Arrow.HeadLength, cfg.Arrow.HeadExtra),
		export.WithFontSize(cfg.Text.Size),
		export.WithBackground(cfg.Background),
	)
	if err != nil {
		return "", err
	}
	if err := doc.WriteFile(path, strokes); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}
