package ui

import (
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// mainItems is the order of entries in the main menu.
var mainItems = []string{
	"Select ROM",
	"Open file (O)",
	"Paste path or URL (Ctrl+V)",
	"Throttle",
	"Screenshot (F12)",
	"Keybindings",
	"Close",
}

const rowHeight = 14

func (a *App) updateMenu() {
	switch a.menuMode {
	case "rom":
		a.updateRomMenu()
	case "keys":
		a.updateKeysMenu()
	default:
		a.updateMainMenu()
	}
}

func (a *App) updateMainMenu() {
	last := len(mainItems) - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < last {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.romSel, a.romOff = 0, 0
			if cur, ok := a.ctrl.Current(); ok {
				for i, opt := range a.ctrl.Catalog() {
					if opt.Name == cur.Name || path.Base(opt.Path) == cur.Name {
						a.romSel = i
						break
					}
				}
			}
			a.menuMode = "rom"
		case 1:
			a.showMenu = false
			a.openFileDialog()
		case 2:
			a.showMenu = false
			a.pasteROMPath()
		case 3:
			a.setThrottle(!a.ctrl.Throttle().On())
		case 4:
			a.showMenu = false
			if path, err := a.saveScreenshot(); err != nil {
				a.toast("Screenshot failed: " + err.Error())
			} else {
				a.toast("Saved " + path)
			}
		case 5:
			a.menuMode = "keys"
		case 6:
			a.showMenu = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

// romRows is how many catalog entries fit below the menu header.
func (a *App) romRows() int {
	n := (a.curH - 40) / rowHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) updateRomMenu() {
	n := len(a.ctrl.Catalog())
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.menuMode = "main"
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	a.romOff = scrollWindow(a.romSel, a.romOff, a.romRows(), n)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.ctrl.Select(a.romSel)
		a.showMenu = false
		a.menuMode = "main"
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

// scrollWindow keeps sel visible in a window of rows entries out of n,
// returning the new first visible index.
func scrollWindow(sel, off, rows, n int) int {
	if sel < off {
		off = sel
	}
	if sel >= off+rows {
		off = sel - rows + 1
	}
	if off > n-1 {
		off = n - 1
	}
	if off < 0 {
		off = 0
	}
	return off
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}
