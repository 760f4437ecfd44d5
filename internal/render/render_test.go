package render

import (
	"bytes"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/palette"
)

type recordSurface struct {
	commits int
	last    []byte
}

func (s *recordSurface) Commit(pix []byte) {
	s.commits++
	s.last = append(s.last[:0], pix...)
}

func checkerboard() *engine.Framebuffer {
	var fb engine.Framebuffer
	for y := range fb {
		for x := range fb[y] {
			fb[y][x] = engine.Shade((x + y) % 4)
		}
	}
	return &fb
}

func TestRenderRowMajorOffsets(t *testing.T) {
	surf := &recordSurface{}
	r := New(palette.LCD, surf)
	fb := checkerboard()
	r.Render(fb)

	if surf.commits != 1 {
		t.Fatalf("commits got %d want 1", surf.commits)
	}
	if len(surf.last) != BufferLen {
		t.Fatalf("len got %d want %d", len(surf.last), BufferLen)
	}
	for _, p := range [][2]int{{0, 0}, {0, 159}, {143, 0}, {143, 159}, {77, 31}} {
		row, col := p[0], p[1]
		off := 4 * (row*engine.Width + col)
		c := palette.LCD.Resolve(fb[row][col])
		got := surf.last[off : off+4]
		if !bytes.Equal(got, []byte{c.R, c.G, c.B, c.A}) {
			t.Fatalf("(%d,%d) got %v want %v", row, col, got, c)
		}
	}
}

func TestRenderIdempotent(t *testing.T) {
	surf := &recordSurface{}
	r := New(palette.Gray, surf)
	fb := checkerboard()
	r.Render(fb)
	first := append([]byte(nil), surf.last...)
	r.Render(fb)
	if !bytes.Equal(first, surf.last) {
		t.Fatal("second render differs from first")
	}
	if surf.commits != 2 {
		t.Fatalf("commits got %d want 2", surf.commits)
	}
}

func TestRenderAllBlack(t *testing.T) {
	var fb engine.Framebuffer
	fb.Fill(engine.Black)
	r := New(palette.LCD, SurfaceFunc(func([]byte) {}))
	r.Render(&fb)
	want := []byte{34, 30, 49, 255}
	pix := r.Pixels()
	for i := 0; i < len(pix); i += 4 {
		if !bytes.Equal(pix[i:i+4], want) {
			t.Fatalf("pixel %d got %v", i/4, pix[i:i+4])
		}
	}
}

func TestRenderReusesBuffer(t *testing.T) {
	r := New(palette.LCD, SurfaceFunc(func([]byte) {}))
	before := &r.Pixels()[0]
	fb := checkerboard()
	r.Render(fb)
	r.Clear(engine.LightGray)
	if &r.Pixels()[0] != before {
		t.Fatal("pixel buffer was reallocated")
	}
	if allocs := testing.AllocsPerRun(10, func() { r.Render(fb) }); allocs != 0 {
		t.Fatalf("render allocates %.0f times", allocs)
	}
}

func TestClear(t *testing.T) {
	surf := &recordSurface{}
	r := New(palette.LCD, surf)
	r.Clear(engine.LightGray)
	img := r.Image()
	if got := img.RGBAAt(159, 143); got != palette.LCD.Resolve(engine.LightGray) {
		t.Fatalf("corner got %v", got)
	}
	if surf.commits != 1 {
		t.Fatalf("commits %d", surf.commits)
	}
}
