// Package input translates host key and pointer events into controller
// button presses on the current engine session.
package input

import (
	"fmt"
	"sort"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
)

// Target receives button transitions. engine.Session satisfies it.
type Target interface {
	Press(b engine.Button)
	Release(b engine.Button)
}

// Keymap maps host key names to buttons. Key names are matched exactly.
type Keymap map[string]engine.Button

// DefaultKeymap returns the stock WASD + J/K layout.
func DefaultKeymap() Keymap {
	return Keymap{
		"Enter": engine.Start,
		"Shift": engine.Select,
		"j":     engine.B,
		"k":     engine.A,
		"w":     engine.Up,
		"a":     engine.Left,
		"s":     engine.Down,
		"d":     engine.Right,
	}
}

// ParseKeymap builds a Keymap from key -> button-name pairs as stored in the
// config file.
func ParseKeymap(m map[string]string) (Keymap, error) {
	km := make(Keymap, len(m))
	for key, name := range m {
		b, ok := engine.ParseButton(name)
		if !ok {
			return nil, fmt.Errorf("keymap: key %q: unknown button %q", key, name)
		}
		km[key] = b
	}
	return km, nil
}

// Keys returns the mapped key names for b, sorted.
func (km Keymap) Keys(b engine.Button) []string {
	var keys []string
	for k, v := range km {
		if v == b {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// ControlIDs maps on-screen control ids to buttons.
var ControlIDs = map[string]engine.Button{
	"up":     engine.Up,
	"down":   engine.Down,
	"left":   engine.Left,
	"right":  engine.Right,
	"a":      engine.A,
	"b":      engine.B,
	"start":  engine.Start,
	"select": engine.Select,
}

// Bind attaches keyboard and on-screen control listeners that drive target and
// returns every subscription so the caller can detach them together. Controls
// the host does not provide are skipped.
func Bind(kb host.Keyboard, pads host.Controls, target Target, km Keymap) []host.Subscription {
	var subs []host.Subscription
	if kb != nil {
		subs = append(subs, kb.Listen(
			func(key string) {
				if b, ok := km[key]; ok {
					target.Press(b)
				}
			},
			func(key string) {
				if b, ok := km[key]; ok {
					target.Release(b)
				}
			},
		))
	}
	if pads == nil {
		return subs
	}
	for _, b := range engine.Buttons {
		c, ok := pads.Control(b.String())
		if !ok {
			continue
		}
		b := b
		subs = append(subs, c.Listen(
			func(ev host.Event) {
				ev.PreventDefault()
				target.Press(b)
			},
			func(ev host.Event) {
				ev.PreventDefault()
				target.Release(b)
			},
		))
	}
	return subs
}
