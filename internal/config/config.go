// Package config loads the optional host configuration file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"sparkcalc/sparkos/proto"
)

// DefaultPath is read when no -config flag is given and the file exists.
const DefaultPath = "sparkcalc.toml"

// ErrBadColor is returned for theme values that are not "#rrggbb".
var ErrBadColor = errors.New("bad color")

type Window struct {
	Scale int    `toml:"scale"`
	Title string `toml:"title"`
}

type Headless struct {
	Hz int `toml:"hz"`
}

// Theme holds "#rrggbb" strings; empty entries keep the base palette.
type Theme struct {
	Background string `toml:"background"`
	Display    string `toml:"display"`
	Text       string `toml:"text"`
	Digit      string `toml:"digit"`
	Function   string `toml:"function"`
	Operator   string `toml:"operator"`
	Equals     string `toml:"equals"`
	Clear      string `toml:"clear"`
	Focus      string `toml:"focus"`
}

type Config struct {
	Window   Window   `toml:"window"`
	Headless Headless `toml:"headless"`
	Theme    Theme    `toml:"theme"`
}

func Default() Config {
	return Config{
		Window:   Window{Scale: 2, Title: "sparkcalc"},
		Headless: Headless{Hz: 60},
	}
}

// Load reads path from fs on top of Default. A missing file is an error;
// callers that treat the file as optional check Exists first.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Default(), fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(names, ", "))
	}
	if cfg.Window.Scale < 1 || cfg.Window.Scale > 8 {
		return Default(), fmt.Errorf("config: %s: window.scale %d out of range 1..8", path, cfg.Window.Scale)
	}
	if cfg.Headless.Hz < 1 || cfg.Headless.Hz > 1000 {
		return Default(), fmt.Errorf("config: %s: headless.hz %d out of range 1..1000", path, cfg.Headless.Hz)
	}
	if _, err := cfg.Theme.Resolve(proto.Theme{}); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional loads path if it exists and returns Default otherwise.
func LoadOptional(fs afero.Fs, path string) (Config, bool, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return Default(), false, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err := Load(fs, path)
	return cfg, true, err
}

// Resolve overlays the non-empty entries of t onto base.
func (t Theme) Resolve(base proto.Theme) (proto.Theme, error) {
	out := base
	fields := []struct {
		name string
		val  string
		dst  *color.RGBA
	}{
		{"background", t.Background, &out.Background},
		{"display", t.Display, &out.Display},
		{"text", t.Text, &out.Text},
		{"digit", t.Digit, &out.Digit},
		{"function", t.Function, &out.Function},
		{"operator", t.Operator, &out.Operator},
		{"equals", t.Equals, &out.Equals},
		{"clear", t.Clear, &out.Clear},
		{"focus", t.Focus, &out.Focus},
	}
	for _, f := range fields {
		if f.val == "" {
			continue
		}
		c, err := parseColor(f.val)
		if err != nil {
			return base, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return out, nil
}

// IsZero reports whether no theme entry is set.
func (t Theme) IsZero() bool { return t == Theme{} }

func parseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
