package pacer

import (
	"math"
	"slices"
	"testing"

	"github.com/iburimskiy/breath-timer/internal/config"
)

func testWave() Wave {
	return NewWave(config.Default().Wave)
}

func canvasOf(w, h float64) Canvas {
	return Canvas{DisplayWidth: w, DisplayHeight: h, PhysicalWidth: w, PhysicalHeight: h, ScaleFactor: 1}
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestScaledFrequency(t *testing.T) {
	w := testWave()
	tests := []struct {
		width     float64
		frequency float64
		perCycle  float64
	}{
		{800, 0.01, 628.318},
		{400, 0.02, 314.159},
		{1600, 0.005, 1256.637},
	}
	for _, tt := range tests {
		if got := w.ScaledFrequency(tt.width); !approx(got, tt.frequency, 1e-12) {
			t.Errorf("width %g: expected frequency %g, got %g", tt.width, tt.frequency, got)
		}
		if got := w.OffsetPerCycle(tt.width); !approx(got, tt.perCycle, 1e-3) {
			t.Errorf("width %g: expected offset per cycle %g, got %g", tt.width, tt.perCycle, got)
		}
	}

	if got := w.OffsetPerCycle(0); got != 0 {
		t.Errorf("Expected zero period for zero width, got %g", got)
	}
}

func TestMarkerPlacement(t *testing.T) {
	w := testWave()
	f := w.Compute(State{Amplitude: 100, Speed: 2}, canvasOf(800, 300))

	// min(800*0.02, 300*0.05) = 15
	if f.MarkerRadius != 15 {
		t.Errorf("Expected marker radius 15, got %g", f.MarkerRadius)
	}
	if f.Marker.X != 800-2.5*15 {
		t.Errorf("Expected marker x %g, got %g", 800-2.5*15, f.Marker.X)
	}
	if got := f.Path.Len(); got != 763 {
		t.Errorf("Expected 763 path samples, got %d", got)
	}
	wantY := 150 + 100*math.Sin(0.01*f.Marker.X)
	if !approx(f.Marker.Y, wantY, 1e-9) {
		t.Errorf("Expected marker y %g, got %g", wantY, f.Marker.Y)
	}
}

func TestMarkerRadiusClampedToMinimum(t *testing.T) {
	w := testWave()
	if got := w.MarkerRadius(canvasOf(280, 105)); got != 6 {
		t.Errorf("Expected minimum radius 6, got %g", got)
	}
}

func TestAmplitudeScalesWithHeight(t *testing.T) {
	w := testWave()
	f := w.Compute(State{Amplitude: 120}, canvasOf(800, 150))

	var maxDev float64
	for p := range f.Path.Points() {
		maxDev = math.Max(maxDev, math.Abs(p.Y-75))
	}
	// 120 * 150/300 = 60, and the path spans more than one period
	if !approx(maxDev, 60, 0.05) {
		t.Errorf("Expected peak deviation near 60, got %g", maxDev)
	}
}

func TestPathFollowsOffset(t *testing.T) {
	w := testWave()
	c := canvasOf(800, 300)
	a := w.Compute(State{Offset: 0, Amplitude: 100}, c)
	b := w.Compute(State{Offset: 10, Amplitude: 100}, c)

	if !approx(a.Path.At(10), b.Path.At(0), 1e-9) {
		t.Errorf("Expected shifted path to match: %g vs %g", a.Path.At(10), b.Path.At(0))
	}
	if first := a.Path.At(0); first != 150 {
		t.Errorf("Expected centre line at x=0 with zero offset, got %g", first)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	w := testWave()
	c := Canvas{DisplayWidth: 612.5, DisplayHeight: 229.7, PhysicalWidth: 1225, PhysicalHeight: 459, ScaleFactor: 2}
	s := State{Offset: 1234.5, Amplitude: 87, Speed: 1.3}

	a := w.Compute(s, c)
	b := w.Compute(s, c)
	if a.Marker != b.Marker || a.MarkerRadius != b.MarkerRadius || a.LineWidth != b.LineWidth {
		t.Errorf("Expected identical frames, got %+v and %+v", a, b)
	}
	if !slices.Equal(slices.Collect(a.Path.Points()), slices.Collect(b.Path.Points())) {
		t.Error("Expected identical wave paths")
	}
}

func TestSpeedDoesNotChangeGeometry(t *testing.T) {
	w := testWave()
	c := canvasOf(800, 300)
	a := w.Compute(State{Offset: 50, Amplitude: 100, Speed: 0}, c)
	b := w.Compute(State{Offset: 50, Amplitude: 100, Speed: 3}, c)
	if a.Marker != b.Marker {
		t.Errorf("Expected speed to leave marker unchanged, got %v and %v", a.Marker, b.Marker)
	}
}

func TestInvalidCanvasYieldsEmptyPath(t *testing.T) {
	w := testWave()
	f := w.Compute(State{Amplitude: 100}, Canvas{})
	if f.Path.Len() != 0 {
		t.Errorf("Expected empty path, got %d points", f.Path.Len())
	}
	for range f.Path.Points() {
		t.Fatal("Expected no points for an invalid canvas")
	}
}

func TestPointsStopsEarly(t *testing.T) {
	w := testWave()
	f := w.Compute(State{Amplitude: 100}, canvasOf(800, 300))
	n := 0
	for p := range f.Path.Points() {
		if p.X != float64(n) {
			t.Fatalf("Expected x=%d, got %g", n, p.X)
		}
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("Expected to stop after 5 points, got %d", n)
	}
}

func TestDrawSizes(t *testing.T) {
	w := testWave()
	f := w.Compute(State{Amplitude: 100}, canvasOf(800, 300))
	// min(800*0.0025, 300*0.006) = 1.8
	if !approx(f.LineWidth, 1.8, 1e-12) {
		t.Errorf("Expected line width 1.8, got %g", f.LineWidth)
	}
	if !approx(f.MarkerStroke, 3, 1e-12) {
		t.Errorf("Expected marker stroke 3, got %g", f.MarkerStroke)
	}
	if !approx(f.FlashRadius, 4.5, 1e-12) {
		t.Errorf("Expected flash radius 4.5, got %g", f.FlashRadius)
	}
}
