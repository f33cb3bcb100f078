package pacer

import (
	"time"

	"github.com/iburimskiy/breath-timer/internal/clock"
)

// Flash is a wall-clock pulse independent of animation speed. Every
// Interval it turns on and schedules itself off after Duration. At most
// one off-timer is outstanding.
type Flash struct {
	interval time.Duration
	duration time.Duration
	sched    *clock.Scheduler

	visible bool
	last    time.Time
	off     *clock.Timer
}

func NewFlash(interval, duration time.Duration, sched *clock.Scheduler) *Flash {
	return &Flash{
		interval: interval,
		duration: duration,
		sched:    sched,
	}
}

func (f *Flash) Visible() bool { return f.visible }

// Tick evaluates the flash at now. The first tick after a reset only
// records the baseline.
func (f *Flash) Tick(now time.Time) {
	if f.last.IsZero() {
		f.last = now
		return
	}
	if now.Sub(f.last) <= f.interval {
		return
	}

	f.last = now
	f.visible = true
	f.off.Stop()
	f.off = f.sched.After(f.duration, func() {
		f.visible = false
		f.off = nil
	})
}

// Reset hides the flash, forgets the baseline and cancels a pending off
// transition.
func (f *Flash) Reset() {
	f.off.Stop()
	f.off = nil
	f.visible = false
	f.last = time.Time{}
}
