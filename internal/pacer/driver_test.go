package pacer

import (
	"testing"
	"time"

	"github.com/iburimskiy/breath-timer/internal/clock"
)

type recordSurface struct {
	ready  bool
	frames []Frame
}

func (s *recordSurface) Ready() bool            { return s.ready }
func (s *recordSurface) Present(f Frame)        { s.frames = append(s.frames, f) }
func (s *recordSurface) last() Frame            { return s.frames[len(s.frames)-1] }
func (s *recordSurface) count() int             { return len(s.frames) }
func (s *recordSurface) offsetAt(i int) float64 { return s.frames[i].Offset }

type driverFixture struct {
	driver  *Driver
	frames  *clock.FrameQueue
	mock    *clock.Mock
	sched   *clock.Scheduler
	surface *recordSurface
	counter *Counter
	running []bool
}

func newDriverFixture(t *testing.T, speed float64) *driverFixture {
	t.Helper()
	fx := &driverFixture{
		frames:  clock.NewFrameQueue(),
		mock:    clock.NewMock(epoch),
		surface: &recordSurface{ready: true},
		counter: NewCounter(21),
	}
	fx.sched = clock.NewScheduler(fx.mock)

	w := testWave()
	c := canvasOf(800, 300)
	fx.driver = NewDriver(DriverOptions{
		Wave:         w,
		Canvas:       c,
		Amplitude:    100,
		Speed:        speed,
		Frames:       fx.frames,
		Scheduler:    fx.sched,
		Surface:      fx.surface,
		Flash:        NewFlash(time.Second, 150*time.Millisecond, fx.sched),
		Detector:     NewOffsetDetector(w, c.DisplayWidth, fx.counter.Increment),
		RestartDelay: 50 * time.Millisecond,
		OnRunning: func(running bool) {
			fx.running = append(fx.running, running)
			fx.counter.SetActive(running)
		},
	})
	return fx
}

// step advances the clock by one 60Hz frame and pumps timers and frames
func (fx *driverFixture) step(n int) {
	for i := 0; i < n; i++ {
		fx.mock.Advance(time.Second / 60)
		fx.sched.Run()
		fx.frames.Pump()
	}
}

func TestDriverStopWhenNeverStarted(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Stop()
	fx.driver.Stop()

	if fx.frames.Pending() != 0 {
		t.Errorf("Expected no pending frames, got %d", fx.frames.Pending())
	}
	if fx.sched.Len() != 0 {
		t.Errorf("Expected no pending timers, got %d", fx.sched.Len())
	}
	if len(fx.running) != 0 {
		t.Errorf("Expected no running notifications, got %v", fx.running)
	}
}

func TestDriverStartTicksSynchronously(t *testing.T) {
	fx := newDriverFixture(t, 2)
	if !fx.driver.Start() {
		t.Fatal("Expected driver to start")
	}

	if fx.surface.count() != 1 {
		t.Fatalf("Expected one frame before the first pump, got %d", fx.surface.count())
	}
	if !fx.driver.FramePending() || fx.frames.Pending() != 1 {
		t.Error("Expected the next tick to be scheduled")
	}
	if !fx.counter.Active() {
		t.Error("Expected counter to follow running state")
	}
}

func TestDriverAdvancesOffsetAfterRendering(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.step(3)

	if fx.surface.count() != 4 {
		t.Fatalf("Expected 4 frames, got %d", fx.surface.count())
	}
	for i := 0; i < 4; i++ {
		if got := fx.surface.offsetAt(i); got != float64(i)*2 {
			t.Errorf("Frame %d: expected offset %g, got %g", i, float64(i)*2, got)
		}
	}
	if got := fx.driver.State().Offset; got != 8 {
		t.Errorf("Expected offset 8 after 4 ticks, got %g", got)
	}
}

func TestDriverStartIsIdempotent(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.driver.Start()

	if fx.surface.count() != 1 {
		t.Errorf("Expected second Start to skip ticking, got %d frames", fx.surface.count())
	}
	if fx.frames.Pending() != 1 {
		t.Errorf("Expected a single scheduled tick, got %d", fx.frames.Pending())
	}
}

func TestDriverStopCancelsPendingTick(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.driver.Stop()

	if fx.frames.Pending() != 0 {
		t.Fatalf("Expected pending tick to be cancelled, got %d", fx.frames.Pending())
	}
	fx.step(5)
	if fx.surface.count() != 1 {
		t.Errorf("Expected no frames after stop, got %d", fx.surface.count())
	}
	if fx.counter.Active() {
		t.Error("Expected counter inactive after stop")
	}
	if len(fx.running) != 2 || !fx.running[0] || fx.running[1] {
		t.Errorf("Expected [true false] notifications, got %v", fx.running)
	}
}

func TestDriverNotReady(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.surface.ready = false

	if fx.driver.Start() {
		t.Error("Expected start to fail without a surface")
	}
	if fx.surface.count() != 0 || fx.frames.Pending() != 0 {
		t.Error("Expected no output and no scheduled tick")
	}
}

func TestDriverHaltsWhenSurfaceDisappears(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.step(2)

	fx.surface.ready = false
	fx.step(1)
	if fx.driver.Running() {
		t.Error("Expected driver to halt")
	}
	if fx.frames.Pending() != 0 {
		t.Error("Expected no tick scheduled after halting")
	}
	if fx.surface.count() != 3 {
		t.Errorf("Expected 3 frames, got %d", fx.surface.count())
	}
}

func TestDriverApplyTakesEffectNextTick(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.driver.Apply(80, 1)

	if got := fx.surface.last().Offset; got != 0 {
		t.Errorf("Expected rendered frame untouched, got offset %g", got)
	}
	fx.step(2)
	// ticks saw offsets 0, 2, 3
	if got := fx.surface.offsetAt(2); got != 3 {
		t.Errorf("Expected offset 3 at third tick, got %g", got)
	}
	if got := fx.driver.State().Amplitude; got != 80 {
		t.Errorf("Expected amplitude 80, got %g", got)
	}
}

func TestDriverFeedsCounter(t *testing.T) {
	fx := newDriverFixture(t, 400)
	fx.driver.Start()
	fx.step(4)

	// detector saw offsets 0..1600, two periods of ~628.3
	if got := fx.counter.Count(); got != 2 {
		t.Errorf("Expected count 2, got %d", got)
	}
}

func TestDriverReconfigureRestartsOnce(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.step(10)

	fx.driver.Reconfigure(canvasOf(400, 150))
	if fx.driver.Running() || fx.frames.Pending() != 0 {
		t.Fatal("Expected reconfigure to stop the driver")
	}
	if !fx.driver.RestartPending() {
		t.Fatal("Expected a deferred restart")
	}
	if fx.driver.State().Offset != 0 {
		t.Errorf("Expected offset reset, got %g", fx.driver.State().Offset)
	}

	fx.mock.Advance(30 * time.Millisecond)
	fx.sched.Run()
	fx.driver.Reconfigure(canvasOf(500, 180))

	fx.mock.Advance(30 * time.Millisecond)
	fx.sched.Run()
	if fx.driver.Running() {
		t.Fatal("Expected superseded restart to be cancelled")
	}

	fx.mock.Advance(30 * time.Millisecond)
	fx.sched.Run()
	if !fx.driver.Running() {
		t.Fatal("Expected driver to restart after the delay")
	}
	if fx.frames.Pending() != 1 {
		t.Errorf("Expected exactly one scheduled tick, got %d", fx.frames.Pending())
	}
	if got := fx.surface.last().Canvas.DisplayWidth; got != 500 {
		t.Errorf("Expected latest geometry, got width %g", got)
	}
}

func TestDriverReconfigureUpdatesDetectorPeriod(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Reconfigure(canvasOf(400, 150))

	d := fx.driver.detector.(*OffsetDetector)
	if !approx(d.OffsetPerCycle(), 314.159, 1e-3) {
		t.Errorf("Expected period ~314.159, got %g", d.OffsetPerCycle())
	}
}

func TestDriverStopCancelsRestart(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Reconfigure(canvasOf(400, 150))
	fx.driver.Stop()

	if fx.driver.RestartPending() {
		t.Error("Expected stop to cancel the deferred restart")
	}
	fx.mock.Advance(time.Second)
	fx.sched.Run()
	if fx.driver.Running() {
		t.Error("Expected driver to stay stopped")
	}
}

func TestDriverCloseReleasesTimers(t *testing.T) {
	fx := newDriverFixture(t, 2)
	fx.driver.Start()
	fx.mock.Advance(1100 * time.Millisecond)
	fx.frames.Pump()
	fx.mock.Advance(1100 * time.Millisecond)
	fx.frames.Pump()
	if !fx.surface.last().FlashVisible && fx.sched.Len() == 0 {
		t.Fatal("Expected a flash off timer to be pending")
	}

	fx.driver.Close()
	if fx.sched.Len() != 0 {
		t.Errorf("Expected no timers after close, got %d", fx.sched.Len())
	}
	if fx.frames.Pending() != 0 {
		t.Errorf("Expected no frames after close, got %d", fx.frames.Pending())
	}
}

func TestDriverResetCycle(t *testing.T) {
	fx := newDriverFixture(t, 300)
	fx.driver.Start()
	fx.step(5)
	if fx.counter.Count() != 2 {
		t.Fatalf("Expected count 2 before reset, got %d", fx.counter.Count())
	}

	fx.driver.ResetCycle()
	if fx.driver.State().Offset != 0 {
		t.Errorf("Expected offset 0, got %g", fx.driver.State().Offset)
	}
	before := fx.counter.Count()
	fx.step(1)
	if fx.counter.Count() != before {
		t.Errorf("Expected no completion right after reset, got %d -> %d", before, fx.counter.Count())
	}
}
