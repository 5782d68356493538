package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/touchdraw/internal/config"
)

// configCmd prints, locates or saves the effective configuration.
type configCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *configCmd) Program() string {
	return c.root.subcommand("config")
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch action := c.fs.Arg(0); action {
	case "print":
		_, err := io.WriteString(c.out, c.root.cfg().String())
		return err
	case "path":
		path, err := c.path()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, path)
		return err
	case "save":
		path, err := c.path()
		if err != nil {
			return err
		}
		if err := saveConfig(path, c.root.cfg()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", action)
	}
}

// path is the file in use, or where a new one would be written.
func (c *configCmd) path() (string, error) {
	if p := config.NewLoader(version, configPathOverride).GetConfigPath(); p != "" {
		return p, nil
	}
	p, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return p, nil
}

func saveConfig(path string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
