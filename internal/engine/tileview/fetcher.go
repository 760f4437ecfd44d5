package tileview

// tileReader provides read-only access to 2bpp tile data.
type tileReader interface {
	Read(addr uint32) byte
}

// fifo is a simple ring buffer for 2-bit color indices (0..3).
type fifo struct {
	buf  [32]byte // room for several tiles
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }
func (q *fifo) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}
func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// fetcher pulls one tile row (8 pixels) into the FIFO. Tiles are laid out
// linearly: tile n starts at base + 16*n.
type fetcher struct {
	mem   tileReader
	fifo  *fifo
	base  uint32
	tile  uint32
	fineY byte // 0..7 within tile
}

func newFetcher(mem tileReader, f *fifo) *fetcher { return &fetcher{mem: mem, fifo: f} }

// Configure selects the tile and row for the next fetch.
func (fch *fetcher) Configure(base, tile uint32, fineY byte) {
	fch.base = base
	fch.tile = tile
	fch.fineY = fineY & 7
}

// Fetch pushes 8 pixels (color indices) for the current tile row to the FIFO.
func (fch *fetcher) Fetch() {
	addr := fch.base + fch.tile*16 + uint32(fch.fineY)*2
	lo := fch.mem.Read(addr)
	hi := fch.mem.Read(addr + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		_ = fch.fifo.Push(ci)
	}
}

// scanline renders 160 color indices for display line ly. cols tiles make up
// one screen row; scx discards that many leading pixels.
func scanline(mem tileReader, base uint32, cols uint32, firstTile uint32, scx, ly int) [160]byte {
	var out [160]byte

	tileRow := uint32(ly / 8)
	fineY := byte(ly & 7)
	tileX := uint32(scx / 8)
	fineX := scx & 7

	var q fifo
	f := newFetcher(mem, &q)
	f.Configure(base, firstTile+tileRow*cols+tileX, fineY)
	f.Fetch()
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}

	for x := 0; x < 160; x++ {
		if q.Len() == 0 {
			tileX++
			f.Configure(base, firstTile+tileRow*cols+tileX, fineY)
			f.Fetch()
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}
