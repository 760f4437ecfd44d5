package ui

import (
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

const panelHeight = 84

// controlID for the throttle checkbox; the rest are button ids.
const throttleID = "throttle"

// padLayout places the on-screen controls in the panel below a screen of
// width w and height top.
func padLayout(w, top int) map[string]image.Rectangle {
	cx, cy := 40, top+42
	r := func(x, y, bw, bh int) image.Rectangle { return image.Rect(x, y, x+bw, y+bh) }
	return map[string]image.Rectangle{
		"up":       r(cx-11, cy-33, 22, 22),
		"down":     r(cx-11, cy+11, 22, 22),
		"left":     r(cx-33, cy-11, 22, 22),
		"right":    r(cx+11, cy-11, 22, 22),
		"a":        r(w-40, top+14, 26, 26),
		"b":        r(w-74, top+30, 26, 26),
		"select":   r(w/2-50, top+62, 44, 14),
		"start":    r(w/2+6, top+62, 44, 14),
		throttleID: r(w/2-50, top+6, 100, 14),
	}
}

func hitTest(layout map[string]image.Rectangle, pt image.Point) (string, bool) {
	for id, rect := range layout {
		if pt.In(rect) {
			return id, true
		}
	}
	return "", false
}

// pointerTracker remembers which control each active pointer (mouse or
// touch) is holding, so drags off a control disengage it like pointerleave.
type pointerTracker struct {
	held map[string]string
}

func (p *pointerTracker) press(ptr, id string) {
	if p.held == nil {
		p.held = make(map[string]string)
	}
	p.held[ptr] = id
}

// move returns the control a pointer just left, if any.
func (p *pointerTracker) move(ptr string, layout map[string]image.Rectangle, pt image.Point) (string, bool) {
	id, ok := p.held[ptr]
	if !ok || pt.In(layout[id]) {
		return "", false
	}
	delete(p.held, ptr)
	return id, true
}

func (p *pointerTracker) release(ptr string) (string, bool) {
	id, ok := p.held[ptr]
	if ok {
		delete(p.held, ptr)
	}
	return id, ok
}

// holding reports whether any pointer holds id.
func (p *pointerTracker) holding(id string) bool {
	for _, h := range p.held {
		if h == id {
			return true
		}
	}
	return false
}

// keyName converts an ebiten key to the name a browser reports in
// KeyboardEvent.key, which is what keymaps are written against. The virtual
// modifier keys report alongside their Left/Right variants and have no name,
// so one physical press yields one event.
func keyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeyShift, ebiten.KeyControl, ebiten.KeyAlt, ebiten.KeyMeta:
		return ""
	}
	s := k.String()
	switch {
	case len(s) == 1:
		return strings.ToLower(s)
	case strings.HasPrefix(s, "Shift"):
		return "Shift"
	case strings.HasPrefix(s, "Control"):
		return "Control"
	case strings.HasPrefix(s, "Alt"):
		return "Alt"
	case strings.HasPrefix(s, "Digit"):
		return strings.TrimPrefix(s, "Digit")
	case s == "Space":
		return " "
	}
	return s
}
