package ui

import (
	"math"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/input"
)

// Config contains window and input related settings.
type Config struct {
	Title         string  // window title
	Scale         float64 // presentation scale of the 160x144 screen
	ScreenshotDir string  // where F12 writes PNGs
	ShowControls  bool    // draw the on-screen pad below the screen
	Keymap        input.Keymap
	// TimerBudget bounds how long zero-delay loop callbacks may run per
	// display refresh when the throttle is off.
	TimerBudget time.Duration
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbweb"
	}
	if c.Scale <= 0 {
		c.Scale = 1.5
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
	if c.Keymap == nil {
		c.Keymap = input.DefaultKeymap()
	}
	if c.TimerBudget <= 0 {
		c.TimerBudget = 12 * time.Millisecond
	}
}

func (c *Config) screenSize() (w, h int) {
	return int(math.Round(160 * c.Scale)), int(math.Round(144 * c.Scale))
}
