package game

import (
	"github.com/iburimskiy/breath-timer/internal/config"
)

// pointer is one tick of mouse or touch input in display coordinates.
type pointer struct {
	x, y         float64
	down         bool
	justPressed  bool
	justReleased bool
}

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x && x <= r.x+r.w && y >= r.y && y <= r.y+r.h
}

// slider holds a staged value. Dragging changes the staged value only;
// the driver sees it after the apply button.
type slider struct {
	label    string
	min      float64
	max      float64
	step     float64
	value    float64
	track    rect
	dragging bool
}

func newSlider(label string, r config.RangeConfig) *slider {
	s := &slider{label: label, min: r.Min, max: r.Max, step: r.Step}
	s.set(r.Default)
	return s
}

func (s *slider) set(v float64) {
	s.value = snapToStep(v, s.min, s.max, s.step)
}

func (s *slider) nudge(steps int) {
	s.set(s.value + float64(steps)*s.step)
}

func (s *slider) ratio() float64 {
	if s.max <= s.min {
		return 0
	}
	return clamp01((s.value - s.min) / (s.max - s.min))
}

func (s *slider) knobX() float64 {
	return s.track.x + s.ratio()*s.track.w
}

func (s *slider) valueAt(x float64) float64 {
	if s.track.w <= 0 {
		return s.min
	}
	r := clamp01((x - s.track.x) / s.track.w)
	return s.min + r*(s.max-s.min)
}

// hitArea extends the track vertically so the knob is easy to grab.
func (s *slider) hitArea() rect {
	return rect{
		x: s.track.x - config.KnobRadius,
		y: s.track.y - config.SliderHeight/2,
		w: s.track.w + 2*config.KnobRadius,
		h: config.SliderHeight,
	}
}

// update applies pointer input and reports interaction edges.
func (s *slider) update(p pointer) (started, ended bool) {
	if p.justPressed && s.hitArea().contains(p.x, p.y) {
		s.dragging = true
		started = true
	}
	if s.dragging && (p.down || p.justReleased) {
		s.set(s.valueAt(p.x))
	}
	if s.dragging && (p.justReleased || !p.down) {
		s.dragging = false
		ended = true
	}
	return started, ended
}

type button struct {
	label   string
	bounds  rect
	hovered bool
	pressed bool
}

// update returns true on release inside the button after a press that
// started inside it.
func (b *button) update(p pointer) bool {
	b.hovered = b.bounds.contains(p.x, p.y)
	if b.hovered && p.justPressed {
		b.pressed = true
	}
	if p.justReleased || !p.down {
		clicked := b.pressed && b.hovered && p.justReleased
		b.pressed = false
		return clicked
	}
	return false
}

// layoutControls places the sliders and apply button under the canvas.
func layoutControls(top, centerX, width float64, sliders []*slider, apply *button) {
	y := top + config.PanelPadding + config.HUDLineHeight
	for _, s := range sliders {
		s.track = rect{x: centerX - width/2, y: y + config.SliderHeight/2, w: width}
		y += config.SliderHeight + config.SliderGap
	}
	apply.bounds = rect{
		x: centerX - config.ButtonWidth/2,
		y: y,
		w: config.ButtonWidth,
		h: config.ButtonHeight,
	}
}
