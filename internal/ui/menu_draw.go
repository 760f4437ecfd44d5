package ui

import (
	"fmt"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func (a *App) drawMenu(screen *ebiten.Image) {
	switch a.menuMode {
	case "rom":
		a.drawRomMenu(screen)
	case "keys":
		a.drawKeysMenu(screen)
	default:
		a.drawMainMenu(screen)
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	maxChars := maxCharsForText(a.curW, 10) - 2
	ebitenutil.DebugPrintAt(screen, "Menu:", 10, 10)
	for i, s := range mainItems {
		if i == 3 {
			s += map[bool]string{true: ": On", false: ": Off"}[a.ctrl.Throttle().On()]
		}
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+truncateText(s, maxChars), 10, 10+(i+1)*rowHeight)
	}
	y := 10 + (len(mainItems)+1)*rowHeight
	if cur, ok := a.ctrl.Current(); ok {
		info := fmt.Sprintf("%s  %s  %d banks", cur.Name, cur.Desc.Kind, cur.Desc.ROMBanks)
		ebitenutil.DebugPrintAt(screen, truncateText(info, maxChars+2), 10, y)
		y += rowHeight
	}
	if _, fps, _ := a.ctrl.Stats(); fps > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.2f", fps), 10, y)
	}
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	maxChars := maxCharsForText(a.curW, 10)
	ebitenutil.DebugPrintAt(screen, truncateText("Select ROM (Enter: load, Esc: back)", maxChars), 10, 10)
	catalog := a.ctrl.Catalog()
	baseY := 40
	if len(catalog) == 0 {
		ebitenutil.DebugPrintAt(screen, "Catalog is empty", 10, baseY)
		return
	}
	rows := a.romRows()
	end := a.romOff + rows
	if end > len(catalog) {
		end = len(catalog)
	}
	for i := a.romOff; i < end; i++ {
		prefix := "  "
		if i == a.romSel {
			prefix = "> "
		}
		name := truncateText(catalog[i].Name, maxChars-2)
		ebitenutil.DebugPrintAt(screen, prefix+name, 10, baseY+(i-a.romOff)*rowHeight)
	}
	// scroll indicators
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(catalog) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(rows-1)*rowHeight)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	maxChars := maxCharsForText(a.curW, 10)
	ebitenutil.DebugPrintAt(screen, truncateText("Keybindings (Esc: back)", maxChars), 10, 10)
	y := 10 + 2*rowHeight
	for _, b := range engine.Buttons {
		keys := a.cfg.Keymap.Keys(b)
		if len(keys) == 0 {
			continue
		}
		line := fmt.Sprintf("%s: %s", strings.Join(keys, ", "), b)
		ebitenutil.DebugPrintAt(screen, truncateText(line, maxChars), 10, y)
		y += rowHeight
	}
	for _, line := range []string{"T: Throttle", "O: Open file", "F12: Screenshot", "Esc: Menu"} {
		ebitenutil.DebugPrintAt(screen, truncateText(line, maxChars), 10, y)
		y += rowHeight
	}
}

// maxCharsForText is how many debug-font glyphs fit in a line of width w
// with margin pixels on each side.
func maxCharsForText(w, margin int) int {
	const glyphW = 6
	n := (w - 2*margin) / glyphW
	if n < 1 {
		n = 1
	}
	return n
}

func truncateText(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
