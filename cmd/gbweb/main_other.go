//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "gbweb runs in the browser; build it with GOOS=js GOARCH=wasm, or use gbemu on the desktop")
	os.Exit(2)
}
