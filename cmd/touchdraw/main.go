package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/example/touchdraw/internal/canvas"
	"github.com/example/touchdraw/internal/config"
	"github.com/example/touchdraw/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	notifier   *notify.Notifier
	config     *config.Config
	saveAlerts bool
	copyAlerts bool
	verbose    bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("touchdraw", flag.ExitOnError),
		program:  "touchdraw",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.verbose, "verbose", false, "log canvas activity to stderr")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventExport, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "window":
		cmd, err = parseWindowCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) subcommand(name string) string {
	if r == nil {
		return name
	}
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

// newCanvas builds a canvas from the loaded configuration.
func (r *root) newCanvas(width, height int) (*canvas.Canvas, error) {
	cfg := r.cfg()
	tool, settings, err := cfg.Brush()
	if err != nil {
		return nil, fmt.Errorf("config brush: %w", err)
	}
	if width <= 0 {
		width = cfg.CanvasWidth
	}
	if height <= 0 {
		height = cfg.CanvasHeight
	}
	opts := []canvas.Option{
		canvas.WithTool(tool),
		canvas.WithSettings(settings),
		canvas.WithRasterOptions(cfg.RasterOptions()...),
	}
	if r != nil && r.verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, canvas.WithLogger(slog.New(h)))
	}
	return canvas.New(width, height, opts...)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
