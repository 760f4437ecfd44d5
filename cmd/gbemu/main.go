package main

import (
	"errors"
	"flag"
	"fmt"
	"hash/crc32"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine/tileview"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/frontend"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/render"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/romio"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/ui"
)

type CLIFlags struct {
	ConfigPath string
	ROMPath    string // path or URL; overrides the catalog auto-load
	Scale      float64
	Title      string
	Palette    string
	Throttle   bool
	Controls   bool // on-screen pad below the screen
	Verbose    bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")

	set map[string]bool
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ConfigPath, "config", "gbweb.json", "settings file (missing file means defaults)")
	flag.StringVar(&f.ROMPath, "rom", "", "ROM path or URL (.gb, .gbc or an archive)")
	flag.Float64Var(&f.Scale, "scale", 0, "screen scale (default from config)")
	flag.StringVar(&f.Title, "title", "", "window title")
	flag.StringVar(&f.Palette, "palette", "", "palette name")
	flag.BoolVar(&f.Throttle, "throttle", true, "pace frames to the display refresh")
	flag.BoolVar(&f.Controls, "controls", true, "show the on-screen pad")
	flag.BoolVar(&f.Verbose, "v", false, "debug logging")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f
}

// apply overrides config values with flags given on the command line.
func (f CLIFlags) apply(cfg *config.Config) {
	if f.Scale > 0 {
		cfg.Scale = f.Scale
	}
	if f.Title != "" {
		cfg.Title = f.Title
	}
	if f.Palette != "" {
		cfg.Palette = f.Palette
	}
	if f.set["throttle"] {
		cfg.Throttle = f.Throttle
	}
	if f.Verbose {
		cfg.LogLevel = "debug"
	}
}

var errHeadless = errors.New("headless run failed")

func runHeadless(log *slog.Logger, opts frontend.Options, rom string, frames int, pngPath, expectCRC string) error {
	if rom == "" {
		return fmt.Errorf("%w: -rom is required", errHeadless)
	}
	if frames <= 0 {
		frames = 1
	}

	loop := host.NewLoop()
	var alerted string
	h := frontend.Host{
		Scheduler:  loop,
		Dispatcher: loop,
		Keyboard:   &host.KeyHub{},
		Controls:   host.NewPads(),
		Surface:    render.SurfaceFunc(func([]byte) {}),
		FPS:        host.TextFunc(func(s string) { log.Debug("fps", "value", s) }),
		Alerter:    host.AlertFunc(func(msg string) { alerted = msg }),
	}
	ctrl := frontend.New(h, opts)
	ctrl.LoadPath(rom)

	start := time.Now()
	for {
		if _, _, total := ctrl.Stats(); total >= uint64(frames) {
			break
		}
		if alerted != "" {
			return fmt.Errorf("%w: %s", errHeadless, alerted)
		}
		posted, timers, raf := loop.Pending()
		if posted+timers+raf > 0 {
			loop.Refresh(50 * time.Millisecond)
			continue
		}
		_, running := ctrl.Current()
		switch {
		case running:
			return fmt.Errorf("%w: frame loop stopped", errHeadless)
		case !ctrl.Loading():
			return fmt.Errorf("%w: could not load %s", errHeadless, rom)
		case time.Since(start) > 30*time.Second:
			return fmt.Errorf("%w: timed out loading %s", errHeadless, rom)
		}
		// waiting on the loader goroutine
		time.Sleep(time.Millisecond)
	}
	_, _, total := ctrl.Stats()
	dur := time.Since(start)
	ctrl.Stop()

	fb := ctrl.Renderer().Pixels()
	crc := crc32.ChecksumIEEE(fb)
	log.Info("headless done",
		"frames", total, "elapsed", dur.Truncate(time.Millisecond),
		"fps", fmt.Sprintf("%.2f", float64(total)/dur.Seconds()),
		"fb_crc32", fmt.Sprintf("%08x", crc))

	if pngPath != "" {
		if err := savePNG(ctrl.Renderer(), pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Info("wrote screenshot", "path", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func savePNG(r *render.Renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, r.Image())
}

func runWindow(log *slog.Logger, cfg config.Config, opts frontend.Options, f CLIFlags) error {
	var app *ui.App
	opts.OnSession = func(name string, desc cart.Descriptor) {
		app.SessionStarted(name, desc.Title)
	}
	alert := host.AlertFunc(func(msg string) {
		if app != nil {
			app.Alert(msg)
		}
	})

	h := ui.NewHost()
	ctrl := frontend.New(h.Frontend(alert), opts)
	app = ui.NewApp(ui.Config{
		Title:         cfg.Title,
		Scale:         cfg.Scale,
		ScreenshotDir: cfg.ScreenshotDir,
		ShowControls:  f.Controls,
		Keymap:        opts.Keymap,
	}, h, ctrl, log)

	switch {
	case f.ROMPath != "":
		ctrl.LoadPath(f.ROMPath)
	case cfg.AutoLoad:
		ctrl.Start()
	}
	defer ctrl.Stop()
	return app.Run()
}

func main() {
	f := parseFlags()

	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f.apply(&cfg)

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	opts, err := frontend.OptionsFrom(cfg)
	if err != nil {
		log.Error("invalid settings", "config", f.ConfigPath, "err", err)
		os.Exit(1)
	}
	opts.Engine = tileview.New()
	opts.Fetcher = &romio.Source{BaseURL: cfg.BaseURL, Timeout: time.Duration(cfg.FetchTimeout)}
	opts.Logger = log

	if f.Headless {
		opts.Throttle = false
		if err := runHeadless(log, opts, f.ROMPath, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Error("headless", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := runWindow(log, cfg, opts, f); err != nil {
		log.Error("window", "err", err)
		os.Exit(1)
	}
}
