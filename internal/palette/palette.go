// Package palette maps logical LCD shades to display colors.
package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
)

// Palette holds one RGB triple per shade, indexed by engine.Shade.
type Palette struct {
	Name   string
	Colors [4][3]uint8
}

// Resolve returns the opaque color for s. Out-of-range shades resolve to the
// darkest entry.
func (p Palette) Resolve(s engine.Shade) color.RGBA {
	if s > engine.Black {
		s = engine.Black
	}
	c := p.Colors[s]
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF}
}

// LCD is the default tint.
var LCD = Palette{
	Name: "lcd",
	Colors: [4][3]uint8{
		{229, 251, 244},
		{151, 174, 184},
		{97, 104, 125},
		{34, 30, 49},
	},
}

// Gray matches the plain DMG shade ramp.
var Gray = Palette{
	Name: "gray",
	Colors: [4][3]uint8{
		{0xFF, 0xFF, 0xFF},
		{0xC0, 0xC0, 0xC0},
		{0x60, 0x60, 0x60},
		{0x00, 0x00, 0x00},
	},
}

// Green approximates the original pea-soup screen.
var Green = Palette{
	Name: "green",
	Colors: [4][3]uint8{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	},
}

var byName = map[string]Palette{
	LCD.Name:   LCD,
	Gray.Name:  Gray,
	Green.Name: Green,
}

// Lookup finds a palette by name; the empty name selects LCD.
func Lookup(name string) (Palette, error) {
	if name == "" {
		return LCD, nil
	}
	p, ok := byName[strings.ToLower(name)]
	if !ok {
		return Palette{}, fmt.Errorf("unknown palette %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the selectable palettes.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
