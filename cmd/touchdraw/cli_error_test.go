package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/touchdraw/internal/config"
)

func testRoot() *root {
	return &root{program: "touchdraw", config: config.New()}
}

func TestParseDrawRequiresCommands(t *testing.T) {
	_, err := parseDrawCmd(nil, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "touchdraw draw") {
		t.Fatalf("help should name the command, got %q", uerr.Error())
	}
}

func TestParseDrawRejectsUnknownCommand(t *testing.T) {
	_, err := parseDrawCmd([]string{"-e", "spray 1 1"}, testRoot())
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestDrawWritesPNGAndPDF(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	pdf := filepath.Join(dir, "out.pdf")
	cmd, err := parseDrawCmd([]string{
		"-output", out, "-pdf", pdf, "-width-px", "64", "-height-px", "48",
		"-e", "color blue", "-e", "line 4 4 60 40",
		"tool", "square;", "line", "10", "10", "30", "30",
	}, testRoot())
	if err != nil {
		t.Fatalf("parseDrawCmd: %v", err)
	}
	if len(cmd.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(cmd.steps))
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("unexpected size %v", b)
	}
	if _, _, _, a := img.At(0, 47).RGBA(); a != 0xffff {
		t.Fatalf("background should be opaque, alpha %d", a)
	}

	data, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("pdf header missing")
	}
}

func TestRootUnknownCommand(t *testing.T) {
	r := newRoot()
	err := r.Run([]string{"paint"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "window") {
		t.Fatalf("root help should list commands")
	}
}

func TestWindowRejectsArguments(t *testing.T) {
	_, err := parseWindowCmd([]string{"extra"}, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestWindowPaths(t *testing.T) {
	w := &windowCmd{root: testRoot(), output: "dir/pic.png"}
	if got := w.pdfPath(); got != "dir/pic.pdf" {
		t.Fatalf("pdfPath = %q", got)
	}
	w = &windowCmd{root: testRoot()}
	w.root.config.SaveDir = "shots"
	if got := w.pngPath(); !strings.HasPrefix(got, filepath.Join("shots", "touchdraw-")) {
		t.Fatalf("pngPath = %q", got)
	}
}

func TestConfigPrintAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touchdraw.rc")
	t.Setenv(config.EnvPath, path)

	r := testRoot()
	r.config.Width = 9
	if err := saveConfig(path, r.config); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}

	cmd, err := parseConfigCmd([]string{"path"}, r)
	if err != nil {
		t.Fatalf("parseConfigCmd: %v", err)
	}
	var buf strings.Builder
	cmd.out = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(buf.String()) != path {
		t.Fatalf("config path = %q, want %q", buf.String(), path)
	}

	loaded, err := config.NewLoader("test", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Width != 9 {
		t.Fatalf("saved width = %v", loaded.Width)
	}
}

func TestConfigRequiresAction(t *testing.T) {
	_, err := parseConfigCmd(nil, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
