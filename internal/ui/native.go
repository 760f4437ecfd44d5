//go:build !js

package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
)

// openFileDialog asks for a ROM or archive without blocking the frame loop;
// the pick is handed back to the loop thread.
func (a *App) openFileDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Game Boy ROM", "gb", "gbc", "zip", "7z", "rar", "gz", "tgz").
			Title("Open ROM").
			Load()
		if errors.Is(err, dialog.ErrCancelled) {
			return
		}
		a.h.Loop.Post(func() {
			if err != nil {
				a.log.Error("file dialog failed", "err", err)
				a.toast("Open failed: " + err.Error())
				return
			}
			a.ctrl.LoadPath(path)
		})
	}()
}

// pasteROMPath loads the path or URL currently on the clipboard.
func (a *App) pasteROMPath() {
	if err := clipboard.Init(); err != nil {
		a.toast("Clipboard unavailable: " + err.Error())
		return
	}
	text := strings.TrimSpace(string(clipboard.Read(clipboard.FmtText)))
	if text == "" {
		a.toast("Clipboard is empty")
		return
	}
	a.ctrl.LoadPath(text)
}

// saveScreenshot writes the scaled frame to the screenshot directory and
// copies it to the clipboard when one is available.
func (a *App) saveScreenshot() (string, error) {
	data, err := encodePNG(a.screenshot())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.cfg.ScreenshotDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(a.cfg.ScreenshotDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	if clipboard.Init() == nil {
		clipboard.Write(clipboard.FmtImage, data)
	}
	a.log.Info("screenshot saved", "path", path)
	return path, nil
}
