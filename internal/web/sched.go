//go:build js && wasm

package web

import (
	"sync"
	"syscall/js"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
)

// Handles carry the browser id shifted left by one; the low bit records
// whether the id came from requestAnimationFrame, since the browser keeps
// timer and frame ids in separate namespaces.
const rafBit = 1

// Scheduler arms callbacks with the window's requestAnimationFrame and
// setTimeout. It also serves as the Dispatcher, posting through a
// zero-delay timeout.
type Scheduler struct {
	win js.Value

	mu      sync.Mutex
	pending map[host.Handle]js.Func
}

func NewScheduler(win js.Value) *Scheduler {
	return &Scheduler{win: win, pending: make(map[host.Handle]js.Func)}
}

func (s *Scheduler) RequestAnimationFrame(fn func()) host.Handle {
	return s.arm("requestAnimationFrame", rafBit, fn)
}

func (s *Scheduler) SetTimeout(fn func()) host.Handle {
	return s.arm("setTimeout", 0, fn)
}

func (s *Scheduler) CancelAnimationFrame(h host.Handle) {
	if h&rafBit == rafBit {
		s.cancel("cancelAnimationFrame", h)
	}
}

func (s *Scheduler) ClearTimeout(h host.Handle) {
	if h != 0 && h&rafBit == 0 {
		s.cancel("clearTimeout", h)
	}
}

func (s *Scheduler) Post(fn func()) { s.SetTimeout(fn) }

// Pending reports how many armed callbacks have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scheduler) arm(method string, kind host.Handle, fn func()) host.Handle {
	var (
		h  host.Handle
		cb js.Func
	)
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		s.mu.Lock()
		delete(s.pending, h)
		s.mu.Unlock()
		cb.Release()
		fn()
		return nil
	})
	id := s.win.Call(method, cb).Int()
	h = host.Handle(id)<<1 | kind
	s.mu.Lock()
	s.pending[h] = cb
	s.mu.Unlock()
	return h
}

func (s *Scheduler) cancel(method string, h host.Handle) {
	s.mu.Lock()
	cb, ok := s.pending[h]
	delete(s.pending, h)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.win.Call(method, int(h>>1))
	cb.Release()
}
