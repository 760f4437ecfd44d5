// Package config holds the front-end settings shared by the window and
// browser hosts.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// RomOption is one entry of the ROM selector.
type RomOption struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Duration is a time.Duration that reads "10s" style strings from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(time.Duration(d).String()) }

type Config struct {
	Title    string  `json:"title"`
	Scale    float64 `json:"scale"`    // presentation scale of the 160x144 screen
	Throttle bool    `json:"throttle"` // pace to the display refresh
	Palette  string  `json:"palette"`
	// Keymap maps host key names to button names ("Enter": "start"). Entries
	// in the file are merged over the default layout.
	Keymap        map[string]string `json:"keymap"`
	Catalog       []RomOption       `json:"catalog"`
	AutoLoad      bool              `json:"autoLoad"` // load Catalog[0] on startup
	BaseURL       string            `json:"baseURL"`
	FetchTimeout  Duration          `json:"fetchTimeout"`
	ScreenshotDir string            `json:"screenshotDir"`
	LogLevel      string            `json:"logLevel"`
}

// DefaultCatalog is the bundled homebrew selection.
func DefaultCatalog() []RomOption {
	return []RomOption{
		{"The Bouncing Ball", "./the-bouncing-ball.gb"},
		{"Retroid", "./retroid.gb"},
		{"Into The Blue", "./into-the-blue.gb"},
		{"Tobu Tobu Girl", "./tobu.gb"},
		{"Dreaming Sarah", "./dreaming-sarah.gb"},
		{"Rocket Man Demo", "./rocket-man-demo.gb"},
		{"SHEEP IT UP", "./sheep-it-up.gb"},
	}
}

// Default returns a fully populated configuration.
func Default() Config {
	c := Config{Throttle: true, AutoLoad: true}
	c.Defaults()
	return c
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbweb"
	}
	if c.Scale <= 0 {
		c.Scale = 1.5
	}
	if c.Palette == "" {
		c.Palette = "lcd"
	}
	if c.Keymap == nil {
		c.Keymap = map[string]string{
			"Enter": "start",
			"Shift": "select",
			"j":     "b",
			"k":     "a",
			"w":     "up",
			"a":     "left",
			"s":     "down",
			"d":     "right",
		}
	}
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog()
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Level maps LogLevel onto slog levels, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Parse decodes JSON on top of the defaults, so absent keys keep their
// default values.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	c.Defaults()
	return c, nil
}

// Load reads the config file at path. A missing file yields the defaults; a
// corrupt one is an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}
