// Package feedback gives touch-style feedback on a desktop: short audio
// pulses in place of vibration, a visual fallback when audio is missing,
// and the chime played on every completed breath.
package feedback

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/breath-timer/internal/clock"
)

// Kind is the strength of a feedback pulse.
type Kind string

const (
	Light     Kind = "light"
	Medium    Kind = "medium"
	Heavy     Kind = "heavy"
	Selection Kind = "selection"
	Impact    Kind = "impact"
)

// Pattern returns the pulse length for a kind.
func Pattern(k Kind) time.Duration {
	switch k {
	case Light, Selection:
		return 10 * time.Millisecond
	case Medium:
		return 25 * time.Millisecond
	case Heavy, Impact:
		return 50 * time.Millisecond
	default:
		return 15 * time.Millisecond
	}
}

// Intensity is the brightness boost of the visual fallback.
func Intensity(k Kind) float64 {
	switch k {
	case Heavy:
		return 0.15
	case Medium:
		return 0.1
	default:
		return 0.05
	}
}

// Player produces a pulse of the given length.
type Player interface {
	Pulse(k Kind, d time.Duration) error
}

// Haptics dispatches feedback pulses. Failures never reach the caller:
// they are logged and replaced by the visual fallback.
type Haptics struct {
	player   Player
	clock    clock.Clock
	throttle time.Duration
	fallback func(intensity float64)
	logger   *slog.Logger
	enabled  bool

	last   time.Time
	primed bool
}

// HapticsOptions configures NewHaptics. Player and Fallback may be nil.
type HapticsOptions struct {
	Player   Player
	Clock    clock.Clock
	Throttle time.Duration
	Fallback func(intensity float64)
	Logger   *slog.Logger
	Enabled  bool
}

func NewHaptics(opts HapticsOptions) *Haptics {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := opts.Clock
	if c == nil {
		c = clock.System{}
	}
	return &Haptics{
		player:   opts.Player,
		clock:    c,
		throttle: opts.Throttle,
		fallback: opts.Fallback,
		logger:   logger,
		enabled:  opts.Enabled,
	}
}

func (h *Haptics) SetEnabled(enabled bool) { h.enabled = enabled }
func (h *Haptics) Enabled() bool           { return h.enabled }

// Trigger fires one pulse. It reports whether audio output was used.
func (h *Haptics) Trigger(k Kind) bool {
	if !h.enabled {
		return false
	}
	if h.player == nil {
		h.visual(k)
		return false
	}
	if err := h.player.Pulse(k, Pattern(k)); err != nil {
		h.logger.Debug("haptic feedback failed", "kind", k, "error", err)
		h.visual(k)
		return false
	}
	return true
}

// Throttled fires a pulse unless one fired less than the throttle
// interval ago. The first call always fires and sets the baseline.
func (h *Haptics) Throttled(k Kind) bool {
	now := h.clock.Now()
	if h.primed && now.Sub(h.last) < h.throttle {
		return false
	}
	h.Trigger(k)
	h.last = now
	h.primed = true
	return true
}

func (h *Haptics) SliderStart() { h.Throttled(Light) }
func (h *Haptics) SliderEnd()   { h.Throttled(Selection) }
func (h *Haptics) ButtonPress() { h.Throttled(Medium) }

func (h *Haptics) visual(k Kind) {
	if h.fallback != nil {
		h.fallback(Intensity(k))
	}
}
