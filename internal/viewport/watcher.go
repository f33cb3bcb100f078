package viewport

import (
	"log/slog"

	"github.com/iburimskiy/breath-timer/internal/clock"
	"github.com/iburimskiy/breath-timer/internal/config"
)

// Watcher debounces viewport observations and reports settled changes.
// Orientation flips wait for the settle delay so the window has its final
// size; other changes apply on the next Observe. All timers run on the
// caller's scheduler.
type Watcher struct {
	sched    *clock.Scheduler
	timing   config.TimingConfig
	logger   *slog.Logger
	onChange func(State)

	current     State
	hasCurrent  bool
	pending     State
	initialLoad bool
	changing    bool

	settle *clock.Timer
	grace  *clock.Timer
	class  *clock.Timer
}

// NewWatcher starts the initial-load grace period immediately.
func NewWatcher(sched *clock.Scheduler, timing config.TimingConfig, logger *slog.Logger, onChange func(State)) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		sched:       sched,
		timing:      timing,
		logger:      logger,
		onChange:    onChange,
		initialLoad: true,
	}
	w.grace = sched.After(timing.InitialLoadGrace, func() {
		w.grace = nil
		w.initialLoad = false
	})
	return w
}

// Current returns the last applied viewport.
func (w *Watcher) Current() State { return w.current }

// InitialLoad is true until the grace period after construction ends.
func (w *Watcher) InitialLoad() bool { return w.initialLoad }

// OrientationChanging is true for a short while after an orientation
// flip that happened outside the initial-load grace period.
func (w *Watcher) OrientationChanging() bool { return w.changing }

// Observe records a viewport sample. Identical samples are ignored.
func (w *Watcher) Observe(vp State) {
	if w.settle.Pending() {
		if vp == w.pending {
			return
		}
	} else if w.hasCurrent && vp == w.current {
		return
	}

	flipped := w.hasCurrent && vp.Orientation != w.current.Orientation
	if !flipped && !w.settle.Pending() {
		w.apply(vp, w.initialLoad)
		return
	}

	// a flip, or a sample arriving while one settles, lands after the
	// settle delay on the newest sample
	loading := w.initialLoad
	w.pending = vp
	w.settle.Stop()
	w.settle = w.sched.After(w.timing.OrientationSettle, func() {
		w.settle = nil
		w.apply(vp, loading)
	})
}

func (w *Watcher) apply(vp State, loading bool) {
	prev := w.current
	had := w.hasCurrent
	w.current = vp
	w.hasCurrent = true

	if had && prev.Orientation != vp.Orientation && !loading {
		w.changing = true
		w.class.Stop()
		w.class = w.sched.After(w.timing.OrientationClass, func() {
			w.class = nil
			w.changing = false
		})
	}

	w.logger.Debug("viewport changed",
		"width", vp.Width, "height", vp.Height,
		"orientation", vp.Orientation, "class", vp.Class.String(), "dpr", vp.DevicePixelRatio)
	if w.onChange != nil {
		w.onChange(vp)
	}
}

// Close cancels every pending timer.
func (w *Watcher) Close() {
	w.settle.Stop()
	w.grace.Stop()
	w.class.Stop()
	w.settle, w.grace, w.class = nil, nil, nil
}
