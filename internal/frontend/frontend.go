// Package frontend ties the pieces together: it owns the run state, throttle
// and renderer of one page, and implements the ROM load pipeline that tears
// down the previous session and starts the next one.
package frontend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/input"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/pacing"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/palette"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/render"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/romio"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/runstate"
)

// Host bundles the primitives a page provides.
type Host struct {
	Scheduler  host.Scheduler
	Dispatcher host.Dispatcher
	Keyboard   host.Keyboard
	Controls   host.Controls
	Surface    render.Surface
	FPS        host.Text
	Alerter    host.Alerter
	Clock      func() time.Time
}

// Fetcher acquires ROM bytes for a catalog path or URL. romio.Source
// satisfies it.
type Fetcher interface {
	Load(ctx context.Context, path string) ([]byte, string, error)
}

type Options struct {
	Engine   engine.Engine
	Fetcher  Fetcher
	Palette  palette.Palette
	Keymap   input.Keymap
	Catalog  []config.RomOption
	Throttle bool
	Logger   *slog.Logger
	// OnSession is called on the host thread after a session starts.
	OnSession func(name string, desc cart.Descriptor)
}

// OptionsFrom resolves the palette and keymap named in cfg. Engine, Fetcher
// and the hooks are left for the caller.
func OptionsFrom(cfg config.Config) (Options, error) {
	pal, err := palette.Lookup(cfg.Palette)
	if err != nil {
		return Options{}, err
	}
	km, err := input.ParseKeymap(cfg.Keymap)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Palette:  pal,
		Keymap:   km,
		Catalog:  cfg.Catalog,
		Throttle: cfg.Throttle,
	}, nil
}

// Loaded describes the running session.
type Loaded struct {
	Name string
	Desc cart.Descriptor
}

// Controller is used from the host thread, except that I/O it starts runs on
// its own goroutines and reports back through the Dispatcher.
type Controller struct {
	h    Host
	opts Options
	log  *slog.Logger

	state    *runstate.Manager
	throttle pacing.Throttle
	renderer *render.Renderer

	gen    uint64
	cancel context.CancelFunc

	loop    *pacing.Loop
	current *Loaded
}

// New paints the initial light-gray screen; nothing runs until a load.
func New(h Host, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Keymap == nil {
		opts.Keymap = input.DefaultKeymap()
	}
	if opts.Palette.Name == "" {
		opts.Palette = palette.LCD
	}
	if h.Clock == nil {
		h.Clock = time.Now
	}
	c := &Controller{
		h:        h,
		opts:     opts,
		log:      opts.Logger,
		state:    runstate.New(h.Scheduler),
		renderer: render.New(opts.Palette, h.Surface),
	}
	c.throttle.Set(opts.Throttle)
	c.renderer.Clear(engine.LightGray)
	return c
}

// Throttle is the pacing flag shared with the running loop.
func (c *Controller) Throttle() *pacing.Throttle { return &c.throttle }

// SetThrottle is the handler for the throttle checkbox.
func (c *Controller) SetThrottle(on bool) {
	c.throttle.Set(on)
	c.log.Info("throttle changed", "on", on)
}

func (c *Controller) Catalog() []config.RomOption { return c.opts.Catalog }

func (c *Controller) Renderer() *render.Renderer { return c.renderer }

// Current returns the running session, if any.
func (c *Controller) Current() (Loaded, bool) {
	if c.current == nil {
		return Loaded{}, false
	}
	return *c.current, true
}

// Loading reports whether a load is still in flight.
func (c *Controller) Loading() bool { return c.cancel != nil }

// Stats forwards the running loop's counters.
func (c *Controller) Stats() (frames int, fps float64, total uint64) {
	if c.loop == nil {
		return 0, 0, 0
	}
	return c.loop.Stats()
}

// Start loads the first catalog entry.
func (c *Controller) Start() {
	if len(c.opts.Catalog) == 0 {
		c.log.Warn("empty ROM catalog, waiting for a file")
		return
	}
	c.Select(0)
}

// Select is the handler for the ROM selector.
func (c *Controller) Select(i int) {
	if i < 0 || i >= len(c.opts.Catalog) {
		c.log.Error("ROM selection out of range", "index", i, "entries", len(c.opts.Catalog))
		return
	}
	opt := c.opts.Catalog[i]
	c.log.Info("loading catalog ROM", "name", opt.Name, "path", opt.Path)
	c.LoadPath(opt.Path)
}

// LoadPath fetches p (a catalog path, URL or local file) and runs it.
func (c *Controller) LoadPath(p string) {
	if c.opts.Fetcher == nil {
		c.log.Error("no ROM fetcher configured", "path", p)
		return
	}
	ctx, g := c.begin()
	f := c.opts.Fetcher
	go func() {
		rom, name, err := f.Load(ctx, p)
		if err != nil {
			err = fmt.Errorf("load %s: %w", p, err)
		}
		c.h.Dispatcher.Post(func() { c.finish(g, name, rom, err) })
	}()
}

// LoadFile reads a user-selected file and runs it.
func (c *Controller) LoadFile(f host.File) {
	ctx, g := c.begin()
	go func() {
		data, err := f.ReadAll(ctx)
		var (
			rom  []byte
			name string
		)
		if err == nil {
			rom, name, err = romio.Unpack(data, f.Name())
		}
		if err != nil {
			err = fmt.Errorf("read %s: %w", f.Name(), err)
		}
		c.h.Dispatcher.Post(func() { c.finish(g, name, rom, err) })
	}()
}

// LoadBytes runs an image that is already in memory. It supersedes any
// pending load.
func (c *Controller) LoadBytes(name string, rom []byte) {
	_, g := c.begin()
	c.finish(g, name, rom, nil)
}

// Stop tears down the running session and abandons pending loads.
func (c *Controller) Stop() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Reset()
	c.loop, c.current = nil, nil
}

// begin starts a new load generation; older in-flight loads are cancelled
// and their completions ignored.
func (c *Controller) begin() (context.Context, uint64) {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.gen++
	return ctx, c.gen
}

func (c *Controller) finish(g uint64, name string, rom []byte, err error) {
	if g != c.gen {
		c.log.Debug("discarding superseded ROM load", "name", name, "generation", g, "current", c.gen)
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if err != nil {
		c.log.Error("ROM load failed", "err", err)
		return
	}
	c.run(name, rom)
}

func (c *Controller) run(name string, rom []byte) {
	c.state.Reset()
	c.loop, c.current = nil, nil

	desc := cart.Detect(rom)
	c.log.Info("cartridge detected",
		"name", name, "title", desc.Title, "type", desc.Kind.String(),
		"banks", desc.ROMBanks, "ram", desc.RAMBytes, "cgb", desc.CGB,
		"header_ok", desc.HeaderOK, "xxhash", desc.Fingerprint())

	sess, err := c.opts.Engine.NewSession(desc, rom)
	if err != nil {
		c.log.Error("engine rejected ROM", "name", name, "err", err)
		if c.h.Alerter != nil {
			c.h.Alerter.Alert(fmt.Sprintf("Unable to start %s: %v", name, err))
		}
		return
	}

	c.state.Bind(input.Bind(c.h.Keyboard, c.h.Controls, sess, c.opts.Keymap)...)

	c.loop = pacing.New(pacing.Config{
		Session:   sess,
		Frames:    c.renderer,
		Scheduler: c.h.Scheduler,
		Recorder:  c.state,
		Throttle:  &c.throttle,
		Readout:   c.h.FPS,
		Clock:     c.h.Clock,
		Logger:    c.log.With("rom", name),
	})
	c.current = &Loaded{Name: name, Desc: desc}
	if c.opts.OnSession != nil {
		c.opts.OnSession(name, desc)
	}
	c.loop.Tick()
}
