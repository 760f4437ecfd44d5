package pacing

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/runstate"
)

// stubSession completes a frame every mids+1 steps and fails once failAfter
// frames have been produced (if failAfter > 0).
type stubSession struct {
	mids      int
	failAfter int

	step   int
	frames int
	fb     engine.Framebuffer
}

func (s *stubSession) Step() (engine.Result, error) {
	if s.failAfter > 0 && s.frames == s.failAfter {
		return engine.Result{}, errors.New("illegal opcode")
	}
	s.step++
	if s.step <= s.mids {
		return engine.Result{}, nil
	}
	s.step = 0
	s.frames++
	return engine.Result{Complete: true, Frame: &s.fb}, nil
}
func (s *stubSession) Press(engine.Button)   {}
func (s *stubSession) Release(engine.Button) {}

type countFrames struct{ n int }

func (c *countFrames) Render(*engine.Framebuffer) { c.n++ }

// fakeScheduler records which kind of request each re-arm used and lets the
// test fire the pending callback by hand.
type fakeScheduler struct {
	kinds   []string
	pending func()
	next    host.Handle
}

func (f *fakeScheduler) arm(kind string, fn func()) host.Handle {
	f.kinds = append(f.kinds, kind)
	f.pending = fn
	f.next++
	return f.next
}
func (f *fakeScheduler) RequestAnimationFrame(fn func()) host.Handle { return f.arm("raf", fn) }
func (f *fakeScheduler) SetTimeout(fn func()) host.Handle            { return f.arm("timeout", fn) }
func (f *fakeScheduler) CancelAnimationFrame(host.Handle)            { f.pending = nil }
func (f *fakeScheduler) ClearTimeout(host.Handle)                    { f.pending = nil }

func (f *fakeScheduler) fire() {
	fn := f.pending
	f.pending = nil
	fn()
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestFPSReadoutWithSyntheticClock(t *testing.T) {
	now := time.Unix(100, 0)
	clock := func() time.Time { return now }
	sched := &fakeScheduler{}
	var readouts []string
	l := New(Config{
		Session:   &stubSession{mids: 2},
		Frames:    &countFrames{},
		Scheduler: sched,
		Recorder:  runstate.New(sched),
		Readout:   host.TextFunc(func(s string) { readouts = append(readouts, s) }),
		Clock:     clock,
		Logger:    quietLogger(),
	})

	// Tick completes frame 1 at the checkpoint; frames 2..59 follow one step
	// apart and the 60th lands exactly one second after the checkpoint.
	step := time.Second / FPSWindow
	l.Tick()
	for i := 1; i < FPSWindow-1; i++ {
		now = now.Add(step)
		sched.fire()
	}
	if len(readouts) != 0 {
		t.Fatalf("readout before 60th frame: %v", readouts)
	}
	if _, _, total := l.Stats(); total != FPSWindow-1 {
		t.Fatalf("total %d before the last fire, want %d", total, FPSWindow-1)
	}
	now = now.Add(time.Second - step*(FPSWindow-2))
	sched.fire()

	if len(readouts) != 1 || readouts[0] != "60.00" {
		t.Fatalf("readouts %v want [60.00]", readouts)
	}
	if frames, fps, total := l.Stats(); frames != 0 || fps != 60 || total != 60 {
		t.Fatalf("stats frames=%d fps=%v total=%d", frames, fps, total)
	}

	// The counter restarts: the next window measures from the new checkpoint.
	for i := 0; i < FPSWindow; i++ {
		now = now.Add(2 * time.Second / FPSWindow)
		sched.fire()
	}
	if readouts[len(readouts)-1] != "30.00" {
		t.Fatalf("second window readout %q want 30.00", readouts[len(readouts)-1])
	}
}

func TestTickStepsUntilFrameComplete(t *testing.T) {
	sess := &stubSession{mids: 143}
	frames := &countFrames{}
	sched := &fakeScheduler{}
	l := New(Config{Session: sess, Frames: frames, Scheduler: sched, Recorder: runstate.New(sched), Logger: quietLogger()})
	l.Tick()
	if frames.n != 1 || sess.frames != 1 {
		t.Fatalf("rendered %d frames, session produced %d", frames.n, sess.frames)
	}
	if len(sched.kinds) != 1 {
		t.Fatalf("re-armed %d times want 1", len(sched.kinds))
	}
}

func TestThrottleToggleMidRun(t *testing.T) {
	sched := &fakeScheduler{}
	state := runstate.New(sched)
	th := &Throttle{}
	l := New(Config{Session: &stubSession{}, Frames: &countFrames{}, Scheduler: sched, Recorder: state, Throttle: th, Logger: quietLogger()})

	l.Tick()
	sched.fire()
	if th.Toggle() {
		t.Fatal("toggle from on should report off")
	}
	sched.fire()
	sched.fire()
	th.Set(true)
	sched.fire()

	want := []string{"raf", "raf", "timeout", "timeout", "raf"}
	if len(sched.kinds) != len(want) {
		t.Fatalf("kinds %v want %v", sched.kinds, want)
	}
	for i := range want {
		if sched.kinds[i] != want[i] {
			t.Fatalf("kinds %v want %v", sched.kinds, want)
		}
	}
	if h, _ := state.Active(); h != sched.next {
		t.Fatalf("recorded handle %d, last issued %d", h, sched.next)
	}
}

func TestEngineFaultStopsLoop(t *testing.T) {
	sched := &fakeScheduler{}
	frames := &countFrames{}
	var fault error
	l := New(Config{
		Session:   &stubSession{failAfter: 2},
		Frames:    frames,
		Scheduler: sched,
		Recorder:  runstate.New(sched),
		Logger:    quietLogger(),
		OnFault:   func(err error) { fault = err },
	})
	l.Tick()
	sched.fire()
	sched.fire()

	if fault == nil || !l.Stopped() {
		t.Fatal("fault not reported")
	}
	if sched.pending != nil {
		t.Fatal("loop re-armed after fault")
	}
	if frames.n != 2 {
		t.Fatalf("rendered %d want 2", frames.n)
	}
	l.Tick()
	if len(sched.kinds) != 2 {
		t.Fatalf("stopped loop re-armed: %v", sched.kinds)
	}
}

func TestLoopOnCooperativeHost(t *testing.T) {
	lp := host.NewLoop()
	state := runstate.New(lp)
	frames := &countFrames{}
	th := &Throttle{}
	New(Config{Session: &stubSession{mids: 10}, Frames: frames, Scheduler: lp, Recorder: state, Throttle: th, Logger: quietLogger()}).Tick()

	for i := 0; i < 5; i++ {
		lp.Refresh(0)
	}
	if frames.n != 6 {
		t.Fatalf("throttled: %d frames after 5 refreshes, want 6", frames.n)
	}

	th.Set(false)
	lp.Refresh(time.Hour) // runs the pending frame callback, which re-arms as a timeout
	before := frames.n
	now := time.Unix(0, 0)
	lp.SetClock(func() time.Time { now = now.Add(time.Millisecond); return now })
	lp.Refresh(20 * time.Millisecond)
	if frames.n-before < 10 {
		t.Fatalf("unthrottled refresh rendered only %d frames", frames.n-before)
	}

	state.Reset()
	n := frames.n
	lp.Refresh(time.Second)
	if frames.n != n {
		t.Fatal("loop kept running after reset")
	}
}
