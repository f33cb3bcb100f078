package pacer

import (
	"math"
	"time"
)

// Detector turns animation progress into cycle-completion events. Update
// is called once per tick with the tick's offset snapshot and wall-clock
// time; it calls the completion callback synchronously and returns the
// number of completions fired.
type Detector interface {
	Update(offset float64, now time.Time) int
	Reset(now time.Time)
}

// OffsetDetector counts sine periods crossed by the offset. It is
// independent of frame rate and catches up when several periods pass
// between two updates.
type OffsetDetector struct {
	perCycle   float64
	last       float64
	onComplete func()
}

// NewOffsetDetector derives the period length from the wave and canvas
// width.
func NewOffsetDetector(w Wave, width float64, onComplete func()) *OffsetDetector {
	return &OffsetDetector{
		perCycle:   w.OffsetPerCycle(width),
		onComplete: onComplete,
	}
}

// OffsetPerCycle returns the current period length in offset units.
func (d *OffsetDetector) OffsetPerCycle() float64 { return d.perCycle }

// LastCycleOffset returns the offset of the most recent counted boundary.
func (d *OffsetDetector) LastCycleOffset() float64 { return d.last }

// SetWidth recomputes the period for a new canvas width. Callers reset
// the detector alongside.
func (d *OffsetDetector) SetWidth(w Wave, width float64) {
	d.perCycle = w.OffsetPerCycle(width)
}

func (d *OffsetDetector) Update(offset float64, _ time.Time) int {
	if d.perCycle <= 0 {
		return 0
	}
	delta := offset - d.last
	if delta < d.perCycle {
		return 0
	}

	n := int(math.Floor(delta / d.perCycle))
	// advance by whole periods so the boundary phase never drifts
	d.last += float64(n) * d.perCycle
	for i := 0; i < n; i++ {
		if d.onComplete != nil {
			d.onComplete()
		}
	}
	return n
}

// Reset re-anchors the detector at offset zero without firing.
func (d *OffsetDetector) Reset(time.Time) {
	d.last = 0
}

// TimeDetector fires when a speed-scaled wall-clock duration has elapsed.
// It fires at most once per update and drops missed cycles.
type TimeDetector struct {
	base       time.Duration
	epsilon    float64
	speed      func() float64
	last       time.Time
	onComplete func()
}

// NewTimeDetector creates a detector whose cycle lasts base at speed 1.
// speed is read on every update so applied changes take effect at once.
func NewTimeDetector(base time.Duration, epsilon float64, speed func() float64, now time.Time, onComplete func()) *TimeDetector {
	return &TimeDetector{
		base:       base,
		epsilon:    epsilon,
		speed:      speed,
		last:       now,
		onComplete: onComplete,
	}
}

// CycleDuration is base / max(speed, epsilon). A speed of zero yields a
// duration long enough that no cycle completes in practice.
func (d *TimeDetector) CycleDuration() time.Duration {
	s := math.Max(d.speed(), d.epsilon)
	secs := d.base.Seconds() / s
	if secs >= math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}

func (d *TimeDetector) Update(_ float64, now time.Time) int {
	if now.Sub(d.last) < d.CycleDuration() {
		return 0
	}
	d.last = now
	if d.onComplete != nil {
		d.onComplete()
	}
	return 1
}

func (d *TimeDetector) Reset(now time.Time) {
	d.last = now
}
