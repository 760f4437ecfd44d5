package host

import (
	"sync"
	"time"
)

type task struct {
	h  Handle
	fn func()
}

// Loop is a cooperative single-threaded host: callbacks only ever run inside
// Refresh, on the goroutine that calls it. Post may be called from anywhere.
type Loop struct {
	mu     sync.Mutex
	next   Handle
	posted []func()
	timers []task
	frames []task
	batch  []task // frame callbacks being run by Refresh

	now func() time.Time
}

func NewLoop() *Loop { return &Loop{now: time.Now} }

// SetClock replaces the time source used to enforce the refresh budget.
func (l *Loop) SetClock(now func() time.Time) { l.now = now }

func (l *Loop) issue() Handle {
	l.next++
	return l.next
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
}

func (l *Loop) SetTimeout(fn func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	h := l.issue()
	l.timers = append(l.timers, task{h, fn})
	return h
}

func (l *Loop) RequestAnimationFrame(fn func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	h := l.issue()
	l.frames = append(l.frames, task{h, fn})
	return h
}

// ClearTimeout ignores handles that are unknown, already fired or belong to
// an animation frame request.
func (l *Loop) ClearTimeout(h Handle) {
	l.mu.Lock()
	l.timers = remove(l.timers, h)
	l.mu.Unlock()
}

func (l *Loop) CancelAnimationFrame(h Handle) {
	l.mu.Lock()
	l.frames = remove(l.frames, h)
	l.batch = remove(l.batch, h)
	l.mu.Unlock()
}

func remove(q []task, h Handle) []task {
	for i, t := range q {
		if t.h == h {
			return append(q[:i], q[i+1:]...)
		}
	}
	return q
}

// Pending reports queue lengths.
func (l *Loop) Pending() (posted, timers, frames int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted), len(l.timers), len(l.frames)
}

// Refresh runs one display refresh worth of work: every posted function,
// zero-delay timers until the queue drains or budget is spent (at least one
// runs), then the animation-frame callbacks that were pending when the
// timers finished. Callbacks armed by those frame callbacks wait for the next
// Refresh.
func (l *Loop) Refresh(budget time.Duration) {
	for {
		l.mu.Lock()
		posted := l.posted
		l.posted = nil
		l.mu.Unlock()
		if len(posted) == 0 {
			break
		}
		for _, fn := range posted {
			fn()
		}
	}

	start := l.now()
	for {
		l.mu.Lock()
		if len(l.timers) == 0 {
			l.mu.Unlock()
			break
		}
		t := l.timers[0]
		l.timers = l.timers[1:]
		l.mu.Unlock()

		t.fn()
		if l.now().Sub(start) >= budget {
			break
		}
	}

	l.mu.Lock()
	l.batch = l.frames
	l.frames = nil
	l.mu.Unlock()
	for {
		l.mu.Lock()
		if len(l.batch) == 0 {
			l.mu.Unlock()
			return
		}
		t := l.batch[0]
		l.batch = l.batch[1:]
		l.mu.Unlock()
		t.fn()
	}
}
