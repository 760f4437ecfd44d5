package input

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
)

type recordTarget struct {
	events []string
}

func (r *recordTarget) Press(b engine.Button)   { r.events = append(r.events, "press "+b.String()) }
func (r *recordTarget) Release(b engine.Button) { r.events = append(r.events, "release "+b.String()) }

func TestKeyboardRoundTrip(t *testing.T) {
	cases := map[string]engine.Button{
		"Enter": engine.Start, "Shift": engine.Select,
		"j": engine.B, "k": engine.A,
		"w": engine.Up, "a": engine.Left, "s": engine.Down, "d": engine.Right,
	}
	for key, b := range cases {
		var kb host.KeyHub
		tgt := &recordTarget{}
		Bind(&kb, nil, tgt, DefaultKeymap())
		kb.Down(key)
		kb.Up(key)
		want := []string{"press " + b.String(), "release " + b.String()}
		if !reflect.DeepEqual(tgt.events, want) {
			t.Fatalf("key %q: got %v want %v", key, tgt.events, want)
		}
	}
}

func TestUnknownKeyIsIgnored(t *testing.T) {
	var kb host.KeyHub
	tgt := &recordTarget{}
	Bind(&kb, nil, tgt, DefaultKeymap())
	kb.Down("x")
	kb.Up("x")
	kb.Down("W")
	if len(tgt.events) != 0 {
		t.Fatalf("unexpected events %v", tgt.events)
	}
}

func TestPointerControls(t *testing.T) {
	ids := make([]string, 0, len(ControlIDs))
	for id := range ControlIDs {
		ids = append(ids, id)
	}
	pads := host.NewPads(ids...)
	tgt := &recordTarget{}
	subs := Bind(nil, pads, tgt, DefaultKeymap())
	if len(subs) != 8 {
		t.Fatalf("subscriptions %d want 8", len(subs))
	}

	for id, b := range ControlIDs {
		tgt.events = nil
		down, leave := &host.PointerEvent{}, &host.PointerEvent{}
		pads[id].Engage(down)
		pads[id].Disengage(leave)
		if !down.Prevented || !leave.Prevented {
			t.Fatalf("%s: default not prevented", id)
		}
		want := []string{"press " + b.String(), "release " + b.String()}
		if !reflect.DeepEqual(tgt.events, want) {
			t.Fatalf("%s: got %v want %v", id, tgt.events, want)
		}
	}

	for _, s := range subs {
		s.Detach()
	}
	if pads.Listeners() != 0 {
		t.Fatalf("listeners after detach %d", pads.Listeners())
	}
}

func TestMissingControlsAreSkipped(t *testing.T) {
	var kb host.KeyHub
	subs := Bind(&kb, host.NewPads("a", "b"), &recordTarget{}, DefaultKeymap())
	if len(subs) != 3 {
		t.Fatalf("subscriptions %d want 3", len(subs))
	}
}

func TestParseKeymap(t *testing.T) {
	km, err := ParseKeymap(map[string]string{"ArrowUp": "up", "z": "a", "x": "a"})
	if err != nil {
		t.Fatal(err)
	}
	if km["ArrowUp"] != engine.Up {
		t.Fatalf("ArrowUp -> %s", km["ArrowUp"])
	}
	if got := km.Keys(engine.A); !reflect.DeepEqual(got, []string{"x", "z"}) {
		t.Fatalf("keys for a: %v", got)
	}
	if _, err := ParseKeymap(map[string]string{"q": "turbo"}); err == nil {
		t.Fatal("expected error for unknown button")
	}
}

func ExampleDefaultKeymap() {
	km := DefaultKeymap()
	fmt.Println(km.Keys(engine.Start), km.Keys(engine.Up))
	// Output: [Enter] [w]
}
