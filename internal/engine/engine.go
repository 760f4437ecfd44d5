// Package engine defines the contract between the front-end and an emulation
// core: a session stepped in small increments that eventually yields a whole
// 160x144 frame of logical shades.
package engine

import "github.com/FabianRolfMatthiasNoll/gbweb/internal/cart"

const (
	Width  = 160
	Height = 144
)

// Shade is one of the four logical LCD intensities.
type Shade uint8

const (
	White Shade = iota
	LightGray
	DarkGray
	Black
)

func (s Shade) String() string {
	switch s {
	case White:
		return "white"
	case LightGray:
		return "light-gray"
	case DarkGray:
		return "dark-gray"
	case Black:
		return "black"
	default:
		return "invalid"
	}
}

// Shades lists every shade in intensity order.
var Shades = [4]Shade{White, LightGray, DarkGray, Black}

// Framebuffer is indexed [row][col].
type Framebuffer [Height][Width]Shade

// Fill sets every pixel to s.
func (fb *Framebuffer) Fill(s Shade) {
	for y := range fb {
		for x := range fb[y] {
			fb[y][x] = s
		}
	}
}

// Button is an abstract controller input.
type Button uint8

const (
	Up Button = iota
	Down
	Left
	Right
	A
	B
	Start
	Select
)

var buttonNames = [...]string{"up", "down", "left", "right", "a", "b", "start", "select"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "invalid"
}

// Buttons lists every button.
var Buttons = [8]Button{Up, Down, Left, Right, A, B, Start, Select}

// ParseButton resolves a lower-case button name ("start", "a", ...).
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Result is the outcome of one Step. Frame is only valid when Complete is set
// and only until the next Step.
type Result struct {
	Complete bool
	Frame    *Framebuffer
}

// Session is one loaded ROM inside the core.
type Session interface {
	// Step advances the core by one increment. A returned error is fatal for
	// the session.
	Step() (Result, error)
	Press(b Button)
	Release(b Button)
}

// Engine creates sessions from a detected cartridge and the raw ROM bytes.
type Engine interface {
	NewSession(desc cart.Descriptor, rom []byte) (Session, error)
}

// Func adapts a plain function to Engine.
type Func func(desc cart.Descriptor, rom []byte) (Session, error)

func (f Func) NewSession(desc cart.Descriptor, rom []byte) (Session, error) { return f(desc, rom) }
