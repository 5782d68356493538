package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/touchdraw/internal/appstate"
	"github.com/example/touchdraw/internal/clipboard"
	"github.com/example/touchdraw/internal/stroke"
)

// windowCmd opens the interactive drawing window.
type windowCmd struct {
	output   string
	pdf      string
	widthPx  int
	heightPx int
	*root
	fs *flag.FlagSet
}

func (w *windowCmd) Program() string {
	return w.root.subcommand("window")
}

func (w *windowCmd) FlagSet() *flag.FlagSet {
	return w.fs
}

func parseWindowCmd(args []string, r *root) (*windowCmd, error) {
	fs := flag.NewFlagSet("window", flag.ExitOnError)
	w := &windowCmd{root: r, fs: fs}
	fs.Usage = usageFunc(w)
	fs.StringVar(&w.output, "output", "", "PNG path for Ctrl+S (defaults to a timestamped file)")
	fs.StringVar(&w.pdf, "pdf", "", "PDF path for Ctrl+E (defaults to the PNG name with .pdf)")
	fs.IntVar(&w.widthPx, "width-px", 0, "canvas width (defaults to the configured width)")
	fs.IntVar(&w.heightPx, "height-px", 0, "canvas height (defaults to the configured height)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

func (w *windowCmd) Run() error {
	cfg := w.root.cfg()
	cv, err := w.root.newCanvas(w.widthPx, w.heightPx)
	if err != nil {
		return err
	}
	st := appstate.New(cv,
		appstate.WithPalette(cfg.Palette),
		appstate.WithBackground(cfg.Background),
		appstate.WithOnSave(func(img *image.RGBA) (string, error) {
			saved, err := writePNG(w.pngPath(), flatten(img, cfg.Background))
			if err != nil {
				return "", err
			}
			w.root.notifySave(saved)
			return filepath.Base(saved), nil
		}),
		appstate.WithOnCopy(func(img *image.RGBA) error {
			if err := clipboard.WriteImage(flatten(img, cfg.Background)); err != nil {
				return err
			}
			w.root.notifyCopy("drawing")
			return nil
		}),
		appstate.WithOnExport(func(strokes []stroke.Stroke) (string, error) {
			saved, err := writePDF(w.pdfPath(), cfg, cv.Bounds(), strokes)
			if err != nil {
				return "", err
			}
			w.root.notifyExport(saved)
			return filepath.Base(saved), nil
		}),
		appstate.WithOnClose(func() {
			fmt.Fprintf(os.Stderr, "closed with %d strokes\n", cv.Len())
		}),
	)
	st.Run()
	return nil
}

func (w *windowCmd) pngPath() string {
	if w.output != "" {
		return w.output
	}
	return defaultOutput(w.root.cfg(), "touchdraw-"+time.Now().Format("20060102-150405")+".png")
}

func (w *windowCmd) pdfPath() string {
	if w.pdf != "" {
		return w.pdf
	}
	if w.output != "" {
		return strings.TrimSuffix(w.output, filepath.Ext(w.output)) + ".pdf"
	}
	return defaultOutput(w.root.cfg(), "touchdraw-"+time.Now().Format("20060102-150405")+".pdf")
}
