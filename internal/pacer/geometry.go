// Package pacer holds the breathing-pace animation core: wave geometry,
// the frame driver, the flash cue, cycle detection and the breath counter.
package pacer

import (
	"iter"
	"math"

	"github.com/iburimskiy/breath-timer/internal/config"
)

// Canvas is an immutable snapshot of the drawing surface. Display units
// are logical pixels; physical units are display units times ScaleFactor.
type Canvas struct {
	DisplayWidth   float64
	DisplayHeight  float64
	PhysicalWidth  float64
	PhysicalHeight float64
	ScaleFactor    float64
}

// Valid reports whether the canvas can be drawn on.
func (c Canvas) Valid() bool {
	return c.DisplayWidth > 0 && c.DisplayHeight > 0
}

// Point is a position in display units.
type Point struct {
	X, Y float64
}

// Wave holds the reference constants of the geometry engine.
type Wave struct {
	Frequency         float64
	ReferenceWidth    float64
	ReferenceHeight   float64
	MarkerMargin      float64
	MarkerWidthRatio  float64
	MarkerHeightRatio float64
	MinMarkerRadius   float64
}

// NewWave builds the geometry constants from configuration.
func NewWave(cfg config.WaveConfig) Wave {
	return Wave{
		Frequency:         cfg.Frequency,
		ReferenceWidth:    cfg.ReferenceWidth,
		ReferenceHeight:   cfg.ReferenceHeight,
		MarkerMargin:      cfg.MarkerMargin,
		MarkerWidthRatio:  cfg.MarkerWidthRatio,
		MarkerHeightRatio: cfg.MarkerHeightRatio,
		MinMarkerRadius:   cfg.MinMarkerRadius,
	}
}

// ScaledFrequency keeps the number of visible periods constant across
// canvas widths.
func (w Wave) ScaledFrequency(width float64) float64 {
	if width <= 0 {
		return 0
	}
	return w.Frequency * (w.ReferenceWidth / width)
}

// ScaledAmplitude maps an amplitude in reference units onto a canvas of
// the given height.
func (w Wave) ScaledAmplitude(amplitude, height float64) float64 {
	return amplitude * (height / w.ReferenceHeight)
}

// OffsetPerCycle is the offset advance that moves the wave by one full
// period on a canvas of the given width. Zero for an unusable width.
func (w Wave) OffsetPerCycle(width float64) float64 {
	f := w.ScaledFrequency(width)
	if f <= 0 {
		return 0
	}
	return 2 * math.Pi / f
}

// MarkerRadius is responsive to both canvas dimensions and never drops
// below MinMarkerRadius.
func (w Wave) MarkerRadius(c Canvas) float64 {
	r := math.Min(c.DisplayWidth*w.MarkerWidthRatio, c.DisplayHeight*w.MarkerHeightRatio)
	return math.Max(w.MinMarkerRadius, r)
}

// WavePath is the lazily sampled wave, one point per pixel column from
// x=0 to the marker column. It is a value: regenerate it every frame.
type WavePath struct {
	centerY   float64
	amplitude float64
	frequency float64
	offset    float64
	end       float64
}

// At evaluates the wave at column x.
func (p WavePath) At(x float64) float64 {
	return p.centerY + p.amplitude*math.Sin(p.frequency*(x+p.offset))
}

// Len is the number of sample points the path yields.
func (p WavePath) Len() int {
	if p.end < 0 {
		return 0
	}
	return int(math.Floor(p.end)) + 1
}

// Points yields (x, y) for every integer column in [0, end].
func (p WavePath) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for x := 0.0; x <= p.end; x++ {
			if !yield(Point{X: x, Y: p.At(x)}) {
				return
			}
		}
	}
}

// Frame is everything a renderer needs to paint one tick.
type Frame struct {
	Canvas       Canvas
	Offset       float64
	Path         WavePath
	Marker       Point
	MarkerRadius float64
	LineWidth    float64
	MarkerStroke float64
	FlashRadius  float64
	FlashVisible bool
}

// State is the animation state owned by the Driver.
type State struct {
	Offset    float64
	Amplitude float64
	Speed     float64
}

// Compute maps the animation state onto canvas geometry. Speed only
// affects how the offset grows, never the current frame. The result
// depends on nothing but its arguments.
func (w Wave) Compute(s State, c Canvas) Frame {
	if !c.Valid() {
		return Frame{Canvas: c, Offset: s.Offset, Path: WavePath{end: -1}}
	}
	offset, amplitude := s.Offset, s.Amplitude

	radius := w.MarkerRadius(c)
	path := WavePath{
		centerY:   c.DisplayHeight / 2,
		amplitude: w.ScaledAmplitude(amplitude, c.DisplayHeight),
		frequency: w.ScaledFrequency(c.DisplayWidth),
		offset:    offset,
		end:       c.DisplayWidth - w.MarkerMargin*radius,
	}

	return Frame{
		Canvas:       c,
		Offset:       offset,
		Path:         path,
		Marker:       Point{X: path.end, Y: path.At(path.end)},
		MarkerRadius: radius,
		LineWidth:    math.Max(1, math.Min(c.DisplayWidth*0.0025, c.DisplayHeight*0.006)),
		MarkerStroke: math.Max(1, radius*0.2),
		FlashRadius:  math.Max(2, radius*0.3),
	}
}
