package host

import "sync"

// KeyHub is an in-process Keyboard: the owner feeds key transitions in with
// Down and Up and every attached listener pair receives them.
type KeyHub struct {
	mu   sync.Mutex
	next int
	subs map[int][2]func(string)
}

func (k *KeyHub) Listen(down, up func(key string)) Subscription {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.subs == nil {
		k.subs = make(map[int][2]func(string))
	}
	k.next++
	id := k.next
	k.subs[id] = [2]func(string){down, up}
	return detachOnce(func() {
		k.mu.Lock()
		delete(k.subs, id)
		k.mu.Unlock()
	})
}

func (k *KeyHub) Down(key string) { k.emit(0, key) }
func (k *KeyHub) Up(key string)   { k.emit(1, key) }

func (k *KeyHub) emit(which int, key string) {
	k.mu.Lock()
	fns := make([]func(string), 0, len(k.subs))
	for _, pair := range k.subs {
		if fn := pair[which]; fn != nil {
			fns = append(fns, fn)
		}
	}
	k.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

// Listeners is the number of attached listener pairs.
func (k *KeyHub) Listeners() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.subs)
}

// Pad is an in-process Control.
type Pad struct {
	ID string

	mu   sync.Mutex
	next int
	subs map[int][2]func(Event)
}

func (p *Pad) Listen(engage, disengage func(Event)) Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs == nil {
		p.subs = make(map[int][2]func(Event))
	}
	p.next++
	id := p.next
	p.subs[id] = [2]func(Event){engage, disengage}
	return detachOnce(func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	})
}

// Engage delivers a press to every listener.
func (p *Pad) Engage(ev Event) { p.emit(0, ev) }

// Disengage delivers a release or pointer-leave to every listener.
func (p *Pad) Disengage(ev Event) { p.emit(1, ev) }

func (p *Pad) emit(which int, ev Event) {
	p.mu.Lock()
	fns := make([]func(Event), 0, len(p.subs))
	for _, pair := range p.subs {
		if fn := pair[which]; fn != nil {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (p *Pad) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Pads is a fixed set of Pad controls keyed by id.
type Pads map[string]*Pad

// NewPads creates one pad per id.
func NewPads(ids ...string) Pads {
	ps := make(Pads, len(ids))
	for _, id := range ids {
		ps[id] = &Pad{ID: id}
	}
	return ps
}

func (ps Pads) Control(id string) (Control, bool) {
	p, ok := ps[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// Listeners totals listeners across every pad.
func (ps Pads) Listeners() int {
	n := 0
	for _, p := range ps {
		n += p.Listeners()
	}
	return n
}

// PointerEvent is an Event that records whether it was claimed.
type PointerEvent struct {
	Prevented bool
}

func (e *PointerEvent) PreventDefault() { e.Prevented = true }

func detachOnce(fn func()) Subscription {
	var once sync.Once
	return SubscriptionFunc(func() { once.Do(fn) })
}
