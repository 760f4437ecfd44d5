// Package pacing drives an engine session: it steps until a frame completes,
// renders it, measures throughput and re-arms itself on the host scheduler,
// either on the display refresh or as fast as the host allows.
package pacing

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/host"
)

// FPSWindow is the number of completed frames between readout updates.
const FPSWindow = 60

// Throttle selects display-synchronized pacing. The zero value is on.
type Throttle struct {
	off atomic.Bool
}

func (t *Throttle) On() bool    { return !t.off.Load() }
func (t *Throttle) Set(on bool) { t.off.Store(!on) }

// Toggle flips the flag and returns the new state.
func (t *Throttle) Toggle() bool {
	for {
		off := t.off.Load()
		if t.off.CompareAndSwap(off, !off) {
			return off
		}
	}
}

// Frames receives completed frames.
type Frames interface {
	Render(fb *engine.Framebuffer)
}

// Recorder keeps the handle of the pending iteration. runstate.Manager
// satisfies it.
type Recorder interface {
	ScheduleNext(h host.Handle)
}

type Config struct {
	Session   engine.Session
	Frames    Frames
	Scheduler host.Scheduler
	Recorder  Recorder
	Throttle  *Throttle
	Readout   host.Text // may be nil
	Clock     func() time.Time
	Logger    *slog.Logger
	// OnFault is called once if the session fails; the loop is not re-armed.
	OnFault func(error)
}

type Loop struct {
	cfg        Config
	frames     int
	checkpoint time.Time
	fps        float64
	total      uint64
	stopped    bool
}

// New starts the frame counter at zero with the checkpoint at the current
// clock reading.
func New(cfg Config) *Loop {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Throttle == nil {
		cfg.Throttle = &Throttle{}
	}
	return &Loop{cfg: cfg, checkpoint: cfg.Clock()}
}

// Tick runs one iteration. It is also the callback the loop re-arms with.
func (l *Loop) Tick() {
	if l.stopped {
		return
	}
	for {
		res, err := l.cfg.Session.Step()
		if err != nil {
			l.stopped = true
			l.cfg.Logger.Error("engine fault, stopping loop", "err", err, "frames", l.total)
			if l.cfg.OnFault != nil {
				l.cfg.OnFault(err)
			}
			return
		}
		if res.Complete {
			l.complete(res.Frame)
			break
		}
	}

	var h host.Handle
	if l.cfg.Throttle.On() {
		h = l.cfg.Scheduler.RequestAnimationFrame(l.Tick)
	} else {
		h = l.cfg.Scheduler.SetTimeout(l.Tick)
	}
	l.cfg.Recorder.ScheduleNext(h)
}

func (l *Loop) complete(fb *engine.Framebuffer) {
	l.total++
	l.frames++
	if l.frames == FPSWindow {
		now := l.cfg.Clock()
		if elapsed := now.Sub(l.checkpoint).Seconds(); elapsed > 0 {
			l.fps = FPSWindow / elapsed
			if l.cfg.Readout != nil {
				l.cfg.Readout.SetText(fmt.Sprintf("%.2f", l.fps))
			}
			l.cfg.Logger.Debug("fps", "fps", l.fps, "throttle", l.cfg.Throttle.On())
		}
		l.frames = 0
		l.checkpoint = now
	}
	if fb != nil {
		l.cfg.Frames.Render(fb)
	}
}

// Stats reports frames since the last checkpoint, the last measured rate and
// the total number of frames rendered.
func (l *Loop) Stats() (frames int, fps float64, total uint64) {
	return l.frames, l.fps, l.total
}

// Stopped reports whether the session faulted.
func (l *Loop) Stopped() bool { return l.stopped }
