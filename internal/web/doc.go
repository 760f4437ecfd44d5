// Package web hosts the front-end in a browser page: the canvas, FPS
// readout, ROM selector, file input, throttle checkbox and on-screen pad
// are found by element id and adapted to the host interfaces.
package web
