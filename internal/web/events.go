//go:build js && wasm

package web

import (
	"sync"
	"syscall/js"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
)

// listener is one addEventListener registration.
type listener struct {
	target  js.Value
	typ     string
	capture bool
	fn      js.Func
}

func listen(target js.Value, typ string, fn func(ev js.Value)) listener {
	return register(target, typ, false, fn)
}

// listenCapture registers fn for the capture phase.
func listenCapture(target js.Value, typ string, fn func(ev js.Value)) listener {
	return register(target, typ, true, fn)
}

func register(target js.Value, typ string, capture bool, fn func(ev js.Value)) listener {
	l := listener{target: target, typ: typ, capture: capture}
	l.fn = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", typ, l.fn, l.options())
	return l
}

func (l listener) options() js.Value {
	return js.ValueOf(map[string]any{"capture": l.capture})
}

// remove matches the registration on type, function and capture flag.
func (l listener) remove() {
	l.target.Call("removeEventListener", l.typ, l.fn, l.options())
	l.fn.Release()
}

// group detaches a set of listeners together, once.
type group struct {
	once sync.Once
	ls   []listener
}

func (g *group) Detach() {
	g.once.Do(func() {
		for _, l := range g.ls {
			l.remove()
		}
	})
}

// Keyboard delivers document keydown and keyup events by KeyboardEvent.key.
type Keyboard struct {
	doc js.Value
}

func (k Keyboard) Listen(down, up func(key string)) host.Subscription {
	return &group{ls: []listener{
		listen(k.doc, "keydown", func(ev js.Value) { down(ev.Get("key").String()) }),
		listen(k.doc, "keyup", func(ev js.Value) { up(ev.Get("key").String()) }),
	}}
}

// Controls finds on-screen buttons by element id.
type Controls struct {
	doc js.Value
}

func (c Controls) Control(id string) (host.Control, bool) {
	el := c.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return control{el}, true
}

type control struct {
	el js.Value
}

// Listen engages on pointerdown and disengages on pointerup, pointerleave
// and pointercancel, all in the capture phase.
func (c control) Listen(engage, disengage func(host.Event)) host.Subscription {
	off := func(ev js.Value) { disengage(event{ev}) }
	return &group{ls: []listener{
		listenCapture(c.el, "pointerdown", func(ev js.Value) { engage(event{ev}) }),
		listenCapture(c.el, "pointerup", off),
		listenCapture(c.el, "pointerleave", off),
		listenCapture(c.el, "pointercancel", off),
	}}
}

type event struct {
	v js.Value
}

func (e event) PreventDefault() { e.v.Call("preventDefault") }
