//go:build js

package ui

import "errors"

var errNoDesktop = errors.New("not available in the browser")

func (a *App) openFileDialog() { a.toast("Use the file picker on the page") }

func (a *App) pasteROMPath() { a.toast("Clipboard " + errNoDesktop.Error()) }

func (a *App) saveScreenshot() (string, error) { return "", errNoDesktop }
