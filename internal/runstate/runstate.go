// Package runstate tracks what the current emulation session has armed on the
// host, a pending loop callback and its input listeners, so that a new load
// can tear all of it down in one call.
package runstate

import "github.com/FabianRolfMatthiasNoll/gbweb/internal/host"

// Manager owns the single outstanding loop handle and the single listener set.
// It is used from the host thread only.
type Manager struct {
	sched  host.Scheduler
	handle host.Handle
	subs   []host.Subscription
}

func New(sched host.Scheduler) *Manager { return &Manager{sched: sched} }

// Bind takes ownership of the listener set for the current session. Callers
// must Reset before binding a second set.
func (m *Manager) Bind(subs ...host.Subscription) {
	m.subs = append(m.subs, subs...)
}

// ScheduleNext records the handle of the next loop iteration. The previous
// handle has already fired, so it is replaced without being cancelled.
func (m *Manager) ScheduleNext(h host.Handle) { m.handle = h }

// Reset cancels the pending iteration, whichever kind of request it was, and
// detaches every listener. Calling it with nothing active is a no-op.
func (m *Manager) Reset() {
	if m.handle != 0 {
		m.sched.ClearTimeout(m.handle)
		m.sched.CancelAnimationFrame(m.handle)
		m.handle = 0
	}
	for _, s := range m.subs {
		s.Detach()
	}
	m.subs = nil
}

// Active reports the outstanding handle (zero if none) and listener count.
func (m *Manager) Active() (host.Handle, int) { return m.handle, len(m.subs) }
