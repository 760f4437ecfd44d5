//go:build js && wasm

package web

import (
	"strings"
	"syscall/js"
)

// ConsoleWriter writes log lines to the browser console, at console.error
// for lines that carry level=ERROR.
type ConsoleWriter struct {
	console js.Value
}

func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{console: js.Global().Get("console")}
}

func (c *ConsoleWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	method := "log"
	switch {
	case strings.Contains(line, "level=ERROR"):
		method = "error"
	case strings.Contains(line, "level=WARN"):
		method = "warn"
	}
	c.console.Call(method, line)
	return len(p), nil
}
