// Package render converts engine framebuffers into RGBA pixel buffers and
// hands them to a display surface.
package render

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/palette"
)

// BufferLen is the size of one RGBA8888 frame.
const BufferLen = 4 * engine.Width * engine.Height

// Surface receives a finished pixel buffer. The slice is reused by the next
// frame, so implementations must copy or upload it before returning.
type Surface interface {
	Commit(pix []byte)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(pix []byte)

func (f SurfaceFunc) Commit(pix []byte) { f(pix) }

type Renderer struct {
	surf Surface
	lut  [4][4]byte
	pix  []byte
}

func New(p palette.Palette, surf Surface) *Renderer {
	r := &Renderer{surf: surf, pix: make([]byte, BufferLen)}
	for _, s := range engine.Shades {
		c := p.Resolve(s)
		r.lut[s] = [4]byte{c.R, c.G, c.B, c.A}
	}
	return r
}

// Render writes every pixel of fb in row-major order and commits the buffer
// once.
func (r *Renderer) Render(fb *engine.Framebuffer) {
	i := 0
	for y := 0; y < engine.Height; y++ {
		row := &fb[y]
		for x := 0; x < engine.Width; x++ {
			c := &r.lut[row[x]&3]
			r.pix[i+0] = c[0]
			r.pix[i+1] = c[1]
			r.pix[i+2] = c[2]
			r.pix[i+3] = c[3]
			i += 4
		}
	}
	r.surf.Commit(r.pix)
}

// Clear paints a uniform frame and commits it.
func (r *Renderer) Clear(s engine.Shade) {
	c := r.lut[s&3]
	for i := 0; i < len(r.pix); i += 4 {
		copy(r.pix[i:i+4], c[:])
	}
	r.surf.Commit(r.pix)
}

// Pixels exposes the current buffer. It is overwritten by the next Render.
func (r *Renderer) Pixels() []byte { return r.pix }

// Image copies the current frame into a standalone image.
func (r *Renderer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, engine.Width, engine.Height))
	copy(img.Pix, r.pix)
	return img
}
