// Package tileview is a small built-in core that displays a cartridge's raw
// 2bpp tile data, one scanline per step. It lets the front-end run, page and
// pace real ROM images without a CPU core: the d-pad scrolls, A and B flip
// pages, Start rewinds and Select inverts the shades.
package tileview

import (
	"errors"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
)

const (
	cols      = engine.Width / 8  // tiles per screen row
	rows      = engine.Height / 8 // tile rows per screen
	pageTiles = cols * rows

	// held d-pad directions repeat every scrollEvery frames
	scrollEvery = 4
)

var ErrEmptyROM = errors.New("tileview: empty ROM image")

type romReader []byte

func (r romReader) Read(addr uint32) byte {
	if uint64(addr) < uint64(len(r)) {
		return r[addr]
	}
	return 0
}

// Engine creates tile viewer sessions.
type Engine struct{}

func New() Engine { return Engine{} }

func (Engine) NewSession(desc cart.Descriptor, rom []byte) (engine.Session, error) {
	if len(rom) == 0 {
		return nil, ErrEmptyROM
	}
	return &Session{rom: romReader(rom), tiles: uint32((len(rom) + 15) / 16)}, nil
}

type Session struct {
	rom   romReader
	tiles uint32

	first  uint32 // tile shown at the top-left corner
	scx    int    // 0..7 fine horizontal scroll
	invert bool

	ly     int
	frames uint64
	fb     engine.Framebuffer

	held    [8]bool
	pending []engine.Button
}

// Step renders one scanline and completes a frame every 144 lines. Input is
// applied at frame boundaries.
func (s *Session) Step() (engine.Result, error) {
	if s.ly == 0 {
		s.applyInput()
	}
	line := scanline(s.rom, 0, cols, s.first, s.scx, s.ly)
	row := &s.fb[s.ly]
	for x, ci := range line {
		sh := engine.Shade(ci)
		if s.invert {
			sh = engine.Black - sh
		}
		row[x] = sh
	}
	s.ly++
	if s.ly < engine.Height {
		return engine.Result{}, nil
	}
	s.ly = 0
	s.frames++
	return engine.Result{Complete: true, Frame: &s.fb}, nil
}

func (s *Session) Press(b engine.Button) {
	if int(b) >= len(s.held) {
		return
	}
	if !s.held[b] {
		s.pending = append(s.pending, b)
	}
	s.held[b] = true
}

func (s *Session) Release(b engine.Button) {
	if int(b) < len(s.held) {
		s.held[b] = false
	}
}

// Position reports the first visible tile and the fine scroll.
func (s *Session) Position() (tile uint32, scx int) { return s.first, s.scx }

func (s *Session) applyInput() {
	for _, b := range s.pending {
		switch b {
		case engine.A:
			s.seek(int64(s.first) + pageTiles)
		case engine.B:
			s.seek(int64(s.first) - pageTiles)
		case engine.Start:
			s.first, s.scx = 0, 0
		case engine.Select:
			s.invert = !s.invert
		case engine.Up, engine.Down, engine.Left, engine.Right:
			s.scroll(b)
		}
	}
	s.pending = s.pending[:0]

	if s.frames%scrollEvery != 0 {
		return
	}
	for _, b := range []engine.Button{engine.Up, engine.Down, engine.Left, engine.Right} {
		if s.held[b] {
			s.scroll(b)
		}
	}
}

func (s *Session) scroll(b engine.Button) {
	switch b {
	case engine.Up:
		s.seek(int64(s.first) - cols)
	case engine.Down:
		s.seek(int64(s.first) + cols)
	case engine.Right:
		if s.scx == 7 {
			if s.first+1 < s.tiles {
				s.first++
				s.scx = 0
			}
			return
		}
		s.scx++
	case engine.Left:
		if s.scx > 0 {
			s.scx--
		} else if s.first > 0 {
			s.first--
			s.scx = 7
		}
	}
}

func (s *Session) seek(tile int64) {
	if tile < 0 {
		tile = 0
	}
	if last := int64(s.tiles) - 1; tile > last {
		tile = last
	}
	s.first = uint32(tile)
}
