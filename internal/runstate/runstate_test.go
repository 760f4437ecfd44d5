package runstate

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
)

type recordScheduler struct {
	cleared, cancelled []host.Handle
}

func (s *recordScheduler) RequestAnimationFrame(func()) host.Handle { return 1 }
func (s *recordScheduler) SetTimeout(func()) host.Handle            { return 2 }
func (s *recordScheduler) ClearTimeout(h host.Handle)               { s.cleared = append(s.cleared, h) }
func (s *recordScheduler) CancelAnimationFrame(h host.Handle)       { s.cancelled = append(s.cancelled, h) }

func TestResetCancelsBothKindsAndDetaches(t *testing.T) {
	sched := &recordScheduler{}
	m := New(sched)
	detached := 0
	sub := host.SubscriptionFunc(func() { detached++ })
	m.Bind(sub, sub, sub)
	m.ScheduleNext(7)

	m.Reset()
	if len(sched.cleared) != 1 || sched.cleared[0] != 7 {
		t.Fatalf("ClearTimeout calls %v", sched.cleared)
	}
	if len(sched.cancelled) != 1 || sched.cancelled[0] != 7 {
		t.Fatalf("CancelAnimationFrame calls %v", sched.cancelled)
	}
	if detached != 3 {
		t.Fatalf("detached %d want 3", detached)
	}
	if h, n := m.Active(); h != 0 || n != 0 {
		t.Fatalf("active after reset: handle=%d listeners=%d", h, n)
	}
}

func TestResetTwiceIsNoop(t *testing.T) {
	sched := &recordScheduler{}
	m := New(sched)
	detached := 0
	m.Bind(host.SubscriptionFunc(func() { detached++ }))
	m.ScheduleNext(3)

	m.Reset()
	m.Reset()
	if detached != 1 {
		t.Fatalf("detached %d want 1", detached)
	}
	if len(sched.cleared) != 1 || len(sched.cancelled) != 1 {
		t.Fatalf("second reset cancelled again: %v %v", sched.cleared, sched.cancelled)
	}
}

func TestResetWithNothingActive(t *testing.T) {
	sched := &recordScheduler{}
	New(sched).Reset()
	if len(sched.cleared)+len(sched.cancelled) != 0 {
		t.Fatal("reset of idle manager touched the scheduler")
	}
}

func TestScheduleNextOverwrites(t *testing.T) {
	sched := &recordScheduler{}
	m := New(sched)
	m.ScheduleNext(1)
	m.ScheduleNext(2)
	if len(sched.cleared)+len(sched.cancelled) != 0 {
		t.Fatal("ScheduleNext cancelled the previous handle")
	}
	if h, _ := m.Active(); h != 2 {
		t.Fatalf("handle %d want 2", h)
	}
	m.Reset()
	if sched.cleared[0] != 2 {
		t.Fatalf("reset cancelled %v", sched.cleared)
	}
}

func TestResetStopsLoopOnRealScheduler(t *testing.T) {
	l := host.NewLoop()
	m := New(l)
	ran := 0
	m.ScheduleNext(l.SetTimeout(func() { ran++ }))
	m.Reset()
	m.ScheduleNext(l.RequestAnimationFrame(func() { ran++ }))
	m.Reset()
	l.Refresh(0)
	if ran != 0 {
		t.Fatalf("callbacks ran after reset: %d", ran)
	}
}
