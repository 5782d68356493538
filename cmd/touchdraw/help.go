package main

import (
	"embed"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

type subcommandInfo struct {
	Name    string
	Summary string
}

// subcommands are listed in the root help in this order.
var subcommands = []subcommandInfo{
	{"draw", "run a gesture script and write the drawing to PNG or PDF"},
	{"window", "open an interactive drawing window"},
	{"config", "print, locate or save the configuration"},
	{"version", "print the version"},
}

var helpTemplates = sync.OnceValues(func() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"flags":       visibleFlags,
		"subcommands": func() []subcommandInfo { return subcommands },
		"script":      func() []scriptCommand { return scriptCommands },
		"column":      func(w int, s string) string { return fmt.Sprintf("%-*s", w, s) },
	}).ParseFS(helpFS, "templates/*.txt")
})

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

// visibleFlags lists fs in lexical order; nil yields no flags.
func visibleFlags(fs *flag.FlagSet) []flagInfo {
	var out []flagInfo
	if fs == nil {
		return out
	}
	fs.VisitAll(func(f *flag.Flag) {
		out = append(out, flagInfo{f.Name, f.DefValue, f.Usage})
	})
	return out
}

// HelpData is what a help template renders.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError asks main to print the help of the command it carries.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := renderHelp(e.of)
	if err != nil {
		return fmt.Sprintf("%s: help unavailable: %v", e.of.Program(), err)
	}
	return help
}

func renderHelp(h HelpData) (string, error) {
	tmpl, err := helpTemplates()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, h.Template(), h); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// usageFunc prints the help of h, for use as a FlagSet's Usage.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string       { return "root.txt" }
func (d *drawCmd) Template() string    { return "draw.txt" }
func (w *windowCmd) Template() string  { return "window.txt" }
func (c *configCmd) Template() string  { return "config.txt" }
func (v *versionCmd) Template() string { return "version.txt" }
