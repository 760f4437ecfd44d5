package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	if !c.Throttle || !c.AutoLoad {
		t.Fatalf("throttle=%t autoload=%t, want both on", c.Throttle, c.AutoLoad)
	}
	if c.Scale != 1.5 {
		t.Fatalf("scale %v want 1.5", c.Scale)
	}
	if len(c.Catalog) != 7 || c.Catalog[0].Path != "./the-bouncing-ball.gb" {
		t.Fatalf("catalog %v", c.Catalog)
	}
	if c.Keymap["Enter"] != "start" || len(c.Keymap) != 8 {
		t.Fatalf("keymap %v", c.Keymap)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "gbweb" || !c.Throttle {
		t.Fatalf("got %+v", c)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"throttle": false, "palette": "green", "fetchTimeout": "5s",
		"catalog": [{"name": "Mine", "path": "https://example.org/mine.gb"}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Throttle {
		t.Fatal("explicit throttle=false was overridden")
	}
	if !c.AutoLoad || c.Scale != 1.5 {
		t.Fatalf("absent keys lost defaults: %+v", c)
	}
	if c.Palette != "green" || time.Duration(c.FetchTimeout) != 5*time.Second {
		t.Fatalf("palette %q timeout %v", c.Palette, time.Duration(c.FetchTimeout))
	}
	if len(c.Catalog) != 1 || c.Catalog[0].Name != "Mine" {
		t.Fatalf("catalog %v", c.Catalog)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
	if _, err := Parse([]byte(`{"fetchTimeout": 5}`)); err == nil {
		t.Fatal("expected error for numeric duration")
	}
}

func TestLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "warn": slog.LevelWarn, "": slog.LevelInfo, "loud": slog.LevelInfo}
	for in, want := range cases {
		c := Config{LogLevel: in}
		if got := c.Level(); got != want {
			t.Errorf("%q: got %v want %v", in, got, want)
		}
	}
}
