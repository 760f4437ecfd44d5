package ui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/frontend"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Host is the window side of the page: the cooperative loop, keyboard hub
// and on-screen pads the controller is wired to. Create it before the
// controller, then attach the controller with NewApp.
type Host struct {
	Loop *host.Loop
	Keys *host.KeyHub
	Pads host.Pads

	tex *ebiten.Image
	fps string
}

func NewHost() *Host {
	ids := make([]string, 0, len(input.ControlIDs))
	for id := range input.ControlIDs {
		ids = append(ids, id)
	}
	return &Host{
		Loop: host.NewLoop(),
		Keys: &host.KeyHub{},
		Pads: host.NewPads(ids...),
		tex:  ebiten.NewImage(160, 144),
		fps:  "--",
	}
}

// Commit uploads a finished frame to the screen texture.
func (h *Host) Commit(pix []byte) { h.tex.WritePixels(pix) }

// SetText receives the FPS readout.
func (h *Host) SetText(s string) { h.fps = s }

// Frontend returns the primitives the controller needs from the window.
func (h *Host) Frontend(alert host.Alerter) frontend.Host {
	return frontend.Host{
		Scheduler:  h.Loop,
		Dispatcher: h.Loop,
		Keyboard:   h.Keys,
		Controls:   h.Pads,
		Surface:    h,
		FPS:        h,
		Alerter:    alert,
	}
}

type App struct {
	cfg  Config
	h    *Host
	ctrl *frontend.Controller
	log  *slog.Logger

	layout   map[string]image.Rectangle
	pointers pointerTracker
	keys     []ebiten.Key
	touches  []ebiten.TouchID

	// overlay/menu
	showMenu bool
	menuMode string // "main", "rom", "keys"
	menuIdx  int
	romSel   int
	romOff   int
	curW     int
	curH     int

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, h *Host, ctrl *frontend.Controller, log *slog.Logger) *App {
	cfg.Defaults()
	w, sh := cfg.screenSize()
	total := sh
	if cfg.ShowControls {
		total += panelHeight
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, total)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetVsyncEnabled(ctrl.Throttle().On())
	a := &App{cfg: cfg, h: h, ctrl: ctrl, log: log, menuMode: "main", curW: w, curH: total}
	if cfg.ShowControls {
		a.layout = padLayout(w, sh)
	}
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

// Alert implements host.Alerter with an on-screen toast.
func (a *App) Alert(msg string) { a.toast(msg) }

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(3 * time.Second)
}

// SessionStarted updates the window title for a freshly loaded ROM.
func (a *App) SessionStarted(name, title string) {
	if title == "" {
		title = name
	}
	ebiten.SetWindowTitle(a.cfg.Title + " - [" + title + "]")
	a.toast("Loaded ROM: " + name)
}

func (a *App) Update() error {
	wasOpen := a.showMenu
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch {
		case !a.showMenu:
			a.showMenu = true
			a.menuMode, a.menuIdx = "main", 0
		case a.menuMode == "main":
			a.showMenu = false
		default:
			a.menuMode, a.menuIdx = "main", 0
		}
	} else if a.showMenu {
		a.updateMenu()
	}

	// keys that drove the menu this tick never reach the game
	playing := !wasOpen && !a.showMenu
	if playing {
		a.updateHotkeys()
	}
	a.forwardKeys(playing)
	a.updatePointers()

	budget := time.Duration(0)
	if !a.ctrl.Throttle().On() {
		budget = a.cfg.TimerBudget
	}
	a.h.Loop.Refresh(budget)
	return nil
}

func (a *App) updateHotkeys() {
	// Throttle toggle (T), mirrors the checkbox
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.setThrottle(!a.ctrl.Throttle().On())
	}
	// Open file (O)
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		a.openFileDialog()
	}
	// Load path or URL from clipboard (Ctrl+V)
	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.pasteROMPath()
	}
	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if path, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + path)
		}
	}
}

func (a *App) setThrottle(on bool) {
	a.ctrl.SetThrottle(on)
	ebiten.SetVsyncEnabled(on)
}

// forwardKeys feeds key transitions to the keyboard hub under browser key
// names. Releases always go through so nothing sticks while the menu is open.
func (a *App) forwardKeys(presses bool) {
	if presses {
		a.keys = inpututil.AppendJustPressedKeys(a.keys[:0])
		for _, k := range a.keys {
			if name := keyName(k); name != "" {
				a.h.Keys.Down(name)
			}
		}
	}
	a.keys = inpututil.AppendJustReleasedKeys(a.keys[:0])
	for _, k := range a.keys {
		if name := keyName(k); name != "" {
			a.h.Keys.Up(name)
		}
	}
}

func (a *App) updatePointers() {
	if a.layout == nil {
		return
	}
	mx, my := ebiten.CursorPosition()
	mouse := image.Pt(mx, my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.pointerDown("mouse", mouse)
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		a.pointerMove("mouse", mouse)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.pointerUp("mouse")
	}

	a.touches = inpututil.AppendJustPressedTouchIDs(a.touches[:0])
	for _, id := range a.touches {
		x, y := ebiten.TouchPosition(id)
		a.pointerDown(touchKey(id), image.Pt(x, y))
	}
	a.touches = ebiten.AppendTouchIDs(a.touches[:0])
	for _, id := range a.touches {
		x, y := ebiten.TouchPosition(id)
		a.pointerMove(touchKey(id), image.Pt(x, y))
	}
	a.touches = inpututil.AppendJustReleasedTouchIDs(a.touches[:0])
	for _, id := range a.touches {
		a.pointerUp(touchKey(id))
	}
}

func touchKey(id ebiten.TouchID) string { return fmt.Sprintf("touch-%d", id) }

func (a *App) pointerDown(ptr string, pt image.Point) {
	id, ok := hitTest(a.layout, pt)
	if !ok {
		return
	}
	if id == throttleID {
		a.setThrottle(!a.ctrl.Throttle().On())
		return
	}
	a.pointers.press(ptr, id)
	a.h.Pads[id].Engage(&host.PointerEvent{})
}

func (a *App) pointerMove(ptr string, pt image.Point) {
	if id, left := a.pointers.move(ptr, a.layout, pt); left {
		a.h.Pads[id].Disengage(&host.PointerEvent{})
	}
}

func (a *App) pointerUp(ptr string) {
	if id, ok := a.pointers.release(ptr); ok {
		a.h.Pads[id].Disengage(&host.PointerEvent{})
	}
}

var (
	panelColor   = color.RGBA{0x2a, 0x27, 0x3a, 0xff}
	buttonColor  = color.RGBA{0x61, 0x68, 0x7d, 0xff}
	pressedColor = color.RGBA{0x97, 0xae, 0xb8, 0xff}
)

func (a *App) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(a.cfg.Scale, a.cfg.Scale)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(a.h.tex, op)

	if a.layout != nil {
		a.drawPanel(screen)
	}
	if a.showMenu {
		overlay := color.RGBA{0, 0, 0, 0xc0}
		vector.DrawFilledRect(screen, 0, 0, float32(a.curW), float32(a.curH), overlay, false)
		a.drawMenu(screen)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		msg := truncateText(a.toastMsg, maxCharsForText(a.curW, 4))
		ebitenutil.DebugPrintAt(screen, msg, 4, 2)
	}
}

func (a *App) drawPanel(screen *ebiten.Image) {
	_, top := a.cfg.screenSize()
	vector.DrawFilledRect(screen, 0, float32(top), float32(a.curW), panelHeight, panelColor, false)
	for id, r := range a.layout {
		if id == throttleID {
			box := "[ ]"
			if a.ctrl.Throttle().On() {
				box = "[x]"
			}
			ebitenutil.DebugPrintAt(screen, box+" Throttle", r.Min.X, r.Min.Y)
			continue
		}
		c := buttonColor
		if a.pointers.holding(id) {
			c = pressedColor
		}
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
		label := id
		if len(label) > 1 && r.Dx() < 30 {
			label = label[:1]
		}
		ebitenutil.DebugPrintAt(screen, label, r.Min.X+3, r.Min.Y+1)
	}
	ebitenutil.DebugPrintAt(screen, "FPS "+a.h.fps, a.curW/2-50, top+24)
}

func (a *App) Layout(outW, outH int) (int, int) { return a.curW, a.curH }
