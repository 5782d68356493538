package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/touchdraw/internal/stroke"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	paletteSeen := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			if currentSection == "palette" && !paletteSeen {
				// An explicit palette replaces the defaults.
				cfg.Palette = nil
				paletteSeen = true
			}
			continue
		}

		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch currentSection {
		case "":
			err = setRootField(cfg, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "arrow":
			err = setArrowField(&cfg.Arrow, key, value)
		case "text":
			err = setTextField(&cfg.Text, key, value)
		case "palette":
			err = addPaletteEntry(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "tool":
		if _, err = stroke.ParseTool(value); err == nil {
			cfg.Tool = value
		}
	case "color":
		cfg.Color, err = parseColor(key, value)
	case "width":
		cfg.Width, err = parsePositive(key, value)
	case "canvas_width":
		cfg.CanvasWidth, err = parseDimension(key, value)
	case "canvas_height":
		cfg.CanvasHeight, err = parseDimension(key, value)
	case "background":
		cfg.Background, err = parseColor(key, value)
	case "save_dir":
		cfg.SaveDir = value
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setArrowField(a *Arrow, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "head_length":
		a.HeadLength, err = parsePositive(key, value)
	case "head_extra":
		a.HeadExtra, err = strconv.ParseFloat(value, 64)
		if err == nil && a.HeadExtra < 0 {
			err = fmt.Errorf("%s must not be negative", key)
		}
	}
	return err
}

func setTextField(t *Text, key, value string) error {
	var err error
	if strings.EqualFold(key, "size") {
		t.Size, err = parsePositive(key, value)
	}
	return err
}

func addPaletteEntry(cfg *Config, key, value string) error {
	c, err := parseColor(key, value)
	if err != nil {
		return err
	}
	cfg.Palette = append(cfg.Palette, PaletteEntry{Name: key, Color: c})
	return nil
}

func parseColor(key, value string) (stroke.Color, error) {
	if !strings.HasPrefix(value, "#") {
		return stroke.Color{}, fmt.Errorf("color for key %s must start with #", key)
	}
	c, err := stroke.ParseHex(value)
	if err != nil {
		return stroke.Color{}, fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	return c, nil
}

func parsePositive(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if !(v > 0) {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return v, nil
}

func parseDimension(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return v, nil
}
