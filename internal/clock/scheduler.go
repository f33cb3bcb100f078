package clock

import (
	"sort"
	"time"
)

// Scheduler holds deferred callbacks that fire on the frame goroutine.
// It is not safe for concurrent use: Run is expected to be called from
// the same loop that schedules and cancels timers.
type Scheduler struct {
	clock  Clock
	timers []*Timer
	seq    uint64
}

// Timer is a single pending callback created by Scheduler.After.
type Timer struct {
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

// NewScheduler creates a scheduler reading deadlines from c
func NewScheduler(c Clock) *Scheduler {
	return &Scheduler{clock: c}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run on the first Run call at or after now+d.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{
		deadline: s.clock.Now().Add(d),
		seq:      s.seq,
		fn:       fn,
	}
	s.timers = append(s.timers, t)
	return t
}

// Stop cancels the timer. It reports whether the call prevented the
// callback from running. Stopping a nil or fired timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	return true
}

// Pending reports whether the timer is still waiting to fire.
func (t *Timer) Pending() bool {
	return t != nil && !t.done
}

// Len returns the number of timers still waiting to fire.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Run fires every due timer in deadline order and drops cancelled ones.
// Timers scheduled by a callback are not fired in the same call.
func (s *Scheduler) Run() int {
	now := s.clock.Now()
	var due []*Timer
	kept := s.timers[:0]
	for _, t := range s.timers {
		switch {
		case t.done:
		case !t.deadline.After(now):
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = kept

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	fired := 0
	for _, t := range due {
		// an earlier callback in this batch may have cancelled t
		if t.done {
			continue
		}
		t.done = true
		t.fn()
		fired++
	}
	return fired
}

// Clear cancels every pending timer.
func (s *Scheduler) Clear() {
	for _, t := range s.timers {
		t.done = true
	}
	s.timers = nil
}
