package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/touchdraw/internal/canvas"
	"github.com/example/touchdraw/internal/config"
	"github.com/example/touchdraw/internal/geom"
	"github.com/example/touchdraw/internal/stroke"
)

// step is one parsed script command.
type step struct {
	line int
	op   string
	args []string
}

// parseScript reads commands one per line. Blank lines and lines starting
// with # are skipped; several commands may share a line separated by ";".
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.Split(line, ";") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}
			steps = append(steps, step{line: n, op: strings.ToLower(fields[0]), args: fields[1:]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// scriptCommand describes one script verb for validation and help output.
type scriptCommand struct {
	Name     string
	Args     string
	Arity    int
	Variadic bool // Arity is a minimum
	Usage    string
}

var scriptCommands = []scriptCommand{
	{Name: "tool", Args: "NAME", Arity: 1, Usage: "brush, square, arrow or text"},
	{Name: "color", Args: "SPEC", Arity: 1, Usage: "palette name, colour name or #rrggbb[aa]"},
	{Name: "width", Args: "N", Arity: 1, Usage: "stroke width in pixels"},
	{Name: "begin", Args: "X Y", Arity: 2, Usage: "start a gesture"},
	{Name: "move", Args: "X Y", Arity: 2, Usage: "extend the gesture"},
	{Name: "end", Usage: "finish the gesture"},
	{Name: "cancel", Usage: "drop the gesture or pending text"},
	{Name: "tap", Args: "X Y", Arity: 2, Usage: "begin and end at one point"},
	{Name: "line", Args: "X0 Y0 X1 Y1", Arity: 4, Usage: "begin, move and end"},
	{Name: "text", Args: "X Y CONTENT...", Arity: 3, Variadic: true, Usage: "place text with its top-left corner at X Y"},
	{Name: "undo", Usage: "revert the newest operation"},
	{Name: "redo", Usage: "reapply the newest undone operation"},
	{Name: "clear", Usage: "remove every stroke as one undoable step"},
	{Name: "reimport", Usage: "export the history and import it again"},
}

func lookupScriptCommand(name string) (scriptCommand, bool) {
	for _, c := range scriptCommands {
		if c.Name == name {
			return c, true
		}
	}
	return scriptCommand{}, false
}

// Synopsis is the command with its argument placeholders.
func (c scriptCommand) Synopsis() string {
	return strings.TrimSpace(c.Name + " " + c.Args)
}

// validate checks command names and argument counts before anything runs.
func validate(steps []step) error {
	for _, s := range steps {
		c, ok := lookupScriptCommand(s.op)
		if !ok {
			return fmt.Errorf("line %d: unknown command %q", s.line, s.op)
		}
		switch {
		case c.Variadic && len(s.args) < c.Arity:
			return fmt.Errorf("line %d: usage: %s", s.line, c.Synopsis())
		case !c.Variadic && len(s.args) != c.Arity:
			return fmt.Errorf("line %d: usage: %s", s.line, c.Synopsis())
		}
	}
	return nil
}

// runScript applies steps to cv in order.
func runScript(cv *canvas.Canvas, cfg *config.Config, steps []step) error {
	for _, s := range steps {
		if err := runStep(cv, cfg, s); err != nil {
			return fmt.Errorf("line %d: %s: %w", s.line, s.op, err)
		}
	}
	return nil
}

func runStep(cv *canvas.Canvas, cfg *config.Config, s step) error {
	switch s.op {
	case "tool":
		t, err := stroke.ParseTool(s.args[0])
		if err != nil {
			return err
		}
		return cv.SetTool(t)
	case "color":
		c, err := parseColor(s.args[0], cfg)
		if err != nil {
			return err
		}
		return cv.SetBrushColor(c)
	case "width":
		w, err := strconv.ParseFloat(s.args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid width %q", s.args[0])
		}
		return cv.SetBrushWidth(w)
	case "begin":
		p, err := parsePoint(s.args)
		if err != nil {
			return err
		}
		cv.BeginStroke(p)
	case "move":
		p, err := parsePoint(s.args)
		if err != nil {
			return err
		}
		if !cv.ExtendStroke(p) {
			return fmt.Errorf("no gesture in progress")
		}
	case "end":
		if _, ok := cv.EndStroke(); !ok && !pendingText(cv) {
			return fmt.Errorf("no gesture in progress")
		}
	case "cancel":
		cv.CancelStroke()
	case "tap":
		p, err := parsePoint(s.args)
		if err != nil {
			return err
		}
		cv.BeginStroke(p)
		cv.EndStroke()
	case "line":
		a, err := parsePoint(s.args[:2])
		if err != nil {
			return err
		}
		b, err := parsePoint(s.args[2:])
		if err != nil {
			return err
		}
		cv.BeginStroke(a)
		cv.ExtendStroke(b)
		cv.EndStroke()
	case "text":
		p, err := parsePoint(s.args[:2])
		if err != nil {
			return err
		}
		_, err = cv.CommitText(p, strings.Join(s.args[2:], " "))
		return err
	case "undo":
		cv.Undo()
	case "redo":
		cv.Redo()
	case "clear":
		cv.Clear()
	case "reimport":
		return cv.ImportStack(cv.ExportStack())
	default:
		return fmt.Errorf("unknown command")
	}
	return nil
}

func pendingText(cv *canvas.Canvas) bool {
	_, ok := cv.PendingText()
	return ok
}

func parsePoint(args []string) (geom.Point, error) {
	if len(args) != 2 {
		return geom.Point{}, fmt.Errorf("expected x y")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid coordinate %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid coordinate %q", args[1])
	}
	return geom.Pt(x, y), nil
}

// parseColor accepts a palette name, an SVG colour name or a hex value.
func parseColor(s string, cfg *config.Config) (stroke.Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return stroke.Color{}, fmt.Errorf("color cannot be empty")
	}
	if cfg != nil {
		if c, ok := cfg.LookupColor(spec); ok {
			return c, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return stroke.FromColor(c), nil
	}
	if strings.HasPrefix(spec, "#") {
		return stroke.ParseHex(spec)
	}
	return stroke.Color{}, fmt.Errorf("invalid color %q", s)
}
