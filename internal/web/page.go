//go:build js && wasm

package web

import (
	"errors"
	"fmt"
	"log/slog"
	"syscall/js"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/frontend"
)

// Element ids the page must provide.
const (
	CanvasID   = "canvas"
	FPSID      = "fps"
	FileID     = "load-rom"
	SelectorID = "rom-selector"
	ThrottleID = "throttle"
)

var ErrMissingElement = errors.New("web: missing page element")

type Page struct {
	win, doc js.Value

	canvas js.Value
	ctx2d  js.Value
	img    js.Value // ImageData reused for every frame
	data   js.Value // img.data, a Uint8ClampedArray
	fps    js.Value

	Sched *Scheduler
	subs  []*group
}

// Open finds the page elements and prepares the canvas at the given CSS
// scale. The canvas itself stays 160x144.
func Open(scale float64) (*Page, error) {
	win := js.Global()
	doc := win.Get("document")
	p := &Page{win: win, doc: doc, Sched: NewScheduler(win)}

	var err error
	if p.canvas, err = p.element(CanvasID); err != nil {
		return nil, err
	}
	if p.fps, err = p.element(FPSID); err != nil {
		return nil, err
	}
	p.canvas.Set("width", engine.Width)
	p.canvas.Set("height", engine.Height)
	style := p.canvas.Get("style")
	style.Set("width", fmt.Sprintf("%gpx", engine.Width*scale))
	style.Set("height", fmt.Sprintf("%gpx", engine.Height*scale))
	style.Set("imageRendering", "pixelated")

	p.ctx2d = p.canvas.Call("getContext", "2d")
	p.img = p.ctx2d.Call("createImageData", engine.Width, engine.Height)
	p.data = p.img.Get("data")
	return p, nil
}

func (p *Page) element(id string) (js.Value, error) {
	el := p.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Undefined(), fmt.Errorf("%w: #%s", ErrMissingElement, id)
	}
	return el, nil
}

// Commit copies a finished RGBA frame into the canvas.
func (p *Page) Commit(pix []byte) {
	js.CopyBytesToJS(p.data, pix)
	p.ctx2d.Call("putImageData", p.img, 0, 0)
}

func (p *Page) SetText(s string) { p.fps.Set("textContent", s) }

func (p *Page) Alert(msg string) { p.win.Call("alert", msg) }

// Location is the page URL, the base for relative catalog paths.
func (p *Page) Location() string { return p.win.Get("location").Get("href").String() }

// Host returns the primitives the controller runs on.
func (p *Page) Host() frontend.Host {
	return frontend.Host{
		Scheduler:  p.Sched,
		Dispatcher: p.Sched,
		Keyboard:   Keyboard{p.doc},
		Controls:   Controls{p.doc},
		Surface:    p,
		FPS:        p,
		Alerter:    p,
	}
}

// Wire connects the page's own controls to ctrl: the ROM selector is filled
// from the catalog, and the file input and throttle checkbox drive loads
// and pacing. Missing optional elements are logged and skipped.
func (p *Page) Wire(ctrl *frontend.Controller, catalog []config.RomOption, log *slog.Logger) {
	if sel, err := p.element(SelectorID); err == nil {
		sel.Set("innerHTML", "")
		for _, opt := range catalog {
			o := p.doc.Call("createElement", "option")
			o.Set("value", opt.Path)
			o.Set("textContent", opt.Name)
			sel.Call("appendChild", o)
		}
		p.subs = append(p.subs, &group{ls: []listener{
			listen(sel, "change", func(js.Value) {
				ctrl.Select(sel.Get("selectedIndex").Int())
			}),
		}})
	} else {
		log.Warn("ROM selector not found", "err", err)
	}

	if in, err := p.element(FileID); err == nil {
		p.subs = append(p.subs, &group{ls: []listener{
			listen(in, "change", func(js.Value) {
				files := in.Get("files")
				if files.IsNull() || files.Get("length").Int() == 0 {
					return
				}
				ctrl.LoadFile(blobFile{files.Index(0)})
			}),
		}})
	} else {
		log.Warn("file input not found", "err", err)
	}

	if box, err := p.element(ThrottleID); err == nil {
		box.Set("checked", ctrl.Throttle().On())
		p.subs = append(p.subs, &group{ls: []listener{
			listen(box, "change", func(js.Value) {
				ctrl.SetThrottle(box.Get("checked").Bool())
			}),
		}})
	} else {
		log.Warn("throttle checkbox not found", "err", err)
	}
}

// Close detaches the page controls wired by Wire.
func (p *Page) Close() {
	for _, g := range p.subs {
		g.Detach()
	}
	p.subs = nil
}
