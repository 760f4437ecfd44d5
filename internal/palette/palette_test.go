package palette

import (
	"image/color"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
)

func TestLCDValues(t *testing.T) {
	want := map[engine.Shade]color.RGBA{
		engine.White:     {229, 251, 244, 255},
		engine.LightGray: {151, 174, 184, 255},
		engine.DarkGray:  {97, 104, 125, 255},
		engine.Black:     {34, 30, 49, 255},
	}
	for s, c := range want {
		if got := LCD.Resolve(s); got != c {
			t.Fatalf("%s: got %v want %v", s, got, c)
		}
	}
}

func TestResolveIsBijectiveAndOpaque(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		seen := map[color.RGBA]engine.Shade{}
		for _, s := range engine.Shades {
			c := p.Resolve(s)
			if c.A != 255 {
				t.Fatalf("%s/%s: alpha %d", name, s, c.A)
			}
			if prev, dup := seen[c]; dup {
				t.Fatalf("%s: %s and %s share %v", name, prev, s, c)
			}
			seen[c] = s
		}
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("")
	if err != nil || p.Name != "lcd" {
		t.Fatalf("default got %q, %v", p.Name, err)
	}
	if p, err = Lookup("GREEN"); err != nil || p.Name != "green" {
		t.Fatalf("green got %q, %v", p.Name, err)
	}
	if _, err = Lookup("sepia"); err == nil {
		t.Fatal("expected error for unknown palette")
	}
}
