package pacer

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/breath-timer/internal/clock"
)

// Surface receives the output of every tick. Ready reports whether a
// drawing target exists; a driver ticking against an unready surface
// stops without error.
type Surface interface {
	Ready() bool
	Present(Frame)
}

// widthAware detectors derive their period from the canvas width.
type widthAware interface {
	SetWidth(w Wave, width float64)
}

// DriverOptions wires a Driver to its collaborators.
type DriverOptions struct {
	Wave         Wave
	Canvas       Canvas
	Amplitude    float64
	Speed        float64
	Frames       clock.FrameRequester
	Scheduler    *clock.Scheduler
	Surface      Surface
	Flash        *Flash
	Detector     Detector
	RestartDelay time.Duration
	Logger       *slog.Logger

	// OnRunning is called when the driver starts or stops.
	OnRunning func(running bool)
}

// Driver owns the animation state and runs one tick per frame callback.
// All methods must be called from the frame goroutine.
type Driver struct {
	wave     Wave
	canvas   Canvas
	state    State
	frames   clock.FrameRequester
	sched    *clock.Scheduler
	surface  Surface
	flash    *Flash
	detector Detector
	delay    time.Duration
	logger   *slog.Logger
	notify   func(bool)

	running bool
	pending clock.FrameID
	restart *clock.Timer
	ticks   uint64
}

func NewDriver(opts DriverOptions) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		wave:     opts.Wave,
		canvas:   opts.Canvas,
		state:    State{Amplitude: opts.Amplitude, Speed: opts.Speed},
		frames:   opts.Frames,
		sched:    opts.Scheduler,
		surface:  opts.Surface,
		flash:    opts.Flash,
		detector: opts.Detector,
		delay:    opts.RestartDelay,
		logger:   logger,
		notify:   opts.OnRunning,
	}
}

// Start begins ticking and runs the first tick synchronously so output
// exists before the next frame boundary. Starting a running driver is a
// no-op. It reports whether the driver is running afterwards.
func (d *Driver) Start() bool {
	d.restart.Stop()
	d.restart = nil
	if d.running {
		return true
	}
	if !d.ready() {
		d.logger.Debug("driver start skipped, surface not ready",
			"width", d.canvas.DisplayWidth, "height", d.canvas.DisplayHeight)
		return false
	}

	d.running = true
	d.setRunning(true)
	d.logger.Debug("driver started", "offset", d.state.Offset)
	d.tick()
	return d.running
}

// Stop halts the loop, cancels the pending frame and any deferred
// restart. Stopping a stopped driver is a no-op.
func (d *Driver) Stop() {
	d.restart.Stop()
	d.restart = nil
	if d.pending != 0 {
		d.frames.CancelFrame(d.pending)
		d.pending = 0
	}
	if !d.running {
		return
	}
	d.running = false
	if d.flash != nil {
		d.flash.Reset()
	}
	d.setRunning(false)
	d.logger.Debug("driver stopped", "offset", d.state.Offset, "ticks", d.ticks)
}

// Close stops the driver and releases every timer it owns.
func (d *Driver) Close() {
	d.Stop()
}

// Apply commits new amplitude and speed. The next tick reads them.
func (d *Driver) Apply(amplitude, speed float64) {
	d.state.Amplitude = amplitude
	d.state.Speed = speed
}

// SetCanvas stops the driver and installs new geometry. The offset and
// the cycle detector restart from zero.
func (d *Driver) SetCanvas(c Canvas) {
	d.Stop()
	d.canvas = c
	if wa, ok := d.detector.(widthAware); ok {
		wa.SetWidth(d.wave, c.DisplayWidth)
	}
	d.ResetCycle()
}

// Reconfigure installs new geometry and restarts after the restart
// delay. A later Reconfigure or Stop cancels the pending restart.
func (d *Driver) Reconfigure(c Canvas) {
	d.SetCanvas(c)
	d.logger.Debug("driver reconfigured",
		"width", c.DisplayWidth, "height", c.DisplayHeight, "scale", c.ScaleFactor)
	d.restart = d.sched.After(d.delay, func() {
		d.restart = nil
		d.Start()
	})
}

// ResetCycle restarts the breath at the beginning of a period without
// firing a completion.
func (d *Driver) ResetCycle() {
	d.state.Offset = 0
	if d.detector != nil {
		d.detector.Reset(d.sched.Now())
	}
}

func (d *Driver) Running() bool  { return d.running }
func (d *Driver) State() State   { return d.state }
func (d *Driver) Canvas() Canvas { return d.canvas }
func (d *Driver) Ticks() uint64  { return d.ticks }

// RestartPending reports whether a deferred restart is scheduled.
func (d *Driver) RestartPending() bool { return d.restart.Pending() }

// FramePending reports whether a tick is scheduled.
func (d *Driver) FramePending() bool { return d.pending != 0 }

func (d *Driver) ready() bool {
	return d.surface != nil && d.surface.Ready() && d.canvas.Valid()
}

// tick renders the current offset snapshot, then advances it.
func (d *Driver) tick() {
	d.pending = 0
	if !d.running {
		return
	}
	if !d.ready() {
		d.running = false
		d.setRunning(false)
		d.logger.Debug("driver halted, surface gone")
		return
	}

	now := d.sched.Now()
	frame := d.wave.Compute(d.state, d.canvas)
	if d.flash != nil {
		frame.FlashVisible = d.flash.Visible()
	}
	d.surface.Present(frame)
	if d.flash != nil {
		d.flash.Tick(now)
	}
	if d.detector != nil {
		d.detector.Update(d.state.Offset, now)
	}
	d.state.Offset += d.state.Speed
	d.ticks++

	// a completion callback may have stopped the driver
	if d.running {
		d.pending = d.frames.RequestFrame(d.tick)
	}
}

func (d *Driver) setRunning(running bool) {
	if d.notify != nil {
		d.notify(running)
	}
}
