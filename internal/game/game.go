// Package game hosts the breathing pacer inside an ebiten window: it
// pumps the frame and timer queues, feeds viewport changes to the
// driver, handles the controls and draws the presented frames.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/breath-timer/internal/clock"
	"github.com/iburimskiy/breath-timer/internal/config"
	"github.com/iburimskiy/breath-timer/internal/feedback"
	"github.com/iburimskiy/breath-timer/internal/pacer"
	"github.com/iburimskiy/breath-timer/internal/viewport"
)

// canvasTop leaves room for the HUD above the canvas.
const canvasTop = config.PanelPadding + 3*config.HUDLineHeight

// Options configures New. Speaker and Clock may be nil.
type Options struct {
	Config  config.Config
	Logger  *slog.Logger
	Clock   clock.Clock
	Speaker *feedback.Speaker
}

type chimePick struct {
	path string
	err  error
}

// Game implements ebiten.Game and is the driver's drawing surface.
type Game struct {
	cfg    config.Config
	logger *slog.Logger
	clock  clock.Clock
	theme  theme

	sched   *clock.Scheduler
	frames  *clock.FrameQueue
	wave    pacer.Wave
	driver  *pacer.Driver
	counter *pacer.Counter
	flash   *pacer.Flash
	watcher *viewport.Watcher
	haptics *feedback.Haptics
	speaker *feedback.Speaker
	cadence *cadence

	amplitude *slider
	speed     *slider
	apply     *button

	// window state recorded by Layout
	outsideW float64
	outsideH float64
	scale    float64

	// pointer state
	touch    ebiten.TouchID
	touching bool
	touchX   float64
	touchY   float64

	frame     pacer.Frame
	hasFrame  bool
	canvasImg *ebiten.Image

	brightness  float64
	brightTimer *clock.Timer

	picks   chan chimePick
	picking bool

	paused     bool
	muted      bool
	elapsed    time.Duration
	lastUpdate time.Time
	status     string
	lastErr    error
}

// New wires every collaborator. No ebiten call happens before the
// first Update.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	t, err := newTheme(cfg.Theme)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := opts.Clock
	if c == nil {
		c = clock.System{}
	}

	g := &Game{
		cfg:        cfg,
		logger:     logger,
		clock:      c,
		theme:      t,
		sched:      clock.NewScheduler(c),
		frames:     clock.NewFrameQueue(),
		wave:       pacer.NewWave(cfg.Wave),
		counter:    pacer.NewCounter(cfg.Counter.Max),
		speaker:    opts.Speaker,
		cadence:    newCadence(config.CadenceWindow),
		amplitude:  newSlider("Amplitude", cfg.Controls.Amplitude),
		speed:      newSlider("Speed", cfg.Controls.Speed),
		apply:      &button{label: "Apply"},
		picks:      make(chan chimePick, 1),
		lastUpdate: c.Now(),
	}
	g.flash = pacer.NewFlash(cfg.Flash.Interval, cfg.Flash.Duration, g.sched)

	initial := viewport.CanvasFor(viewport.New(float64(cfg.Window.Width), float64(cfg.Window.Height), 1), cfg.Canvas)
	g.driver = pacer.NewDriver(pacer.DriverOptions{
		Wave:         g.wave,
		Canvas:       initial,
		Amplitude:    g.amplitude.value,
		Speed:        g.speed.value,
		Frames:       g.frames,
		Scheduler:    g.sched,
		Surface:      g,
		Flash:        g.flash,
		Detector:     g.newDetector(initial),
		RestartDelay: cfg.Timing.RestartDelay,
		Logger:       logger.With("component", "driver"),
		OnRunning:    g.counter.SetActive,
	})

	hopts := feedback.HapticsOptions{
		Clock:    c,
		Throttle: cfg.Feedback.Throttle,
		Fallback: g.showFallback,
		Logger:   logger.With("component", "haptics"),
		Enabled:  cfg.Feedback.Enabled,
	}
	if g.speaker != nil {
		hopts.Player = g.speaker
		g.muted = g.speaker.Muted()
	}
	hopts.Enabled = cfg.Feedback.Enabled && !g.muted
	g.haptics = feedback.NewHaptics(hopts)

	g.watcher = viewport.NewWatcher(g.sched, cfg.Timing, logger.With("component", "viewport"), g.onViewport)

	if cfg.Feedback.ChimeFile != "" {
		g.loadChime(cfg.Feedback.ChimeFile)
	}
	return g, nil
}

func (g *Game) newDetector(c pacer.Canvas) pacer.Detector {
	if g.cfg.Cycle.Mode == config.CycleModeTime {
		return pacer.NewTimeDetector(g.cfg.Cycle.BaseDuration, g.cfg.Cycle.SpeedEpsilon,
			func() float64 { return g.driver.State().Speed }, g.clock.Now(), g.onCycle)
	}
	return pacer.NewOffsetDetector(g.wave, c.DisplayWidth, g.onCycle)
}

// Ready reports whether the window has a size.
func (g *Game) Ready() bool {
	return g.outsideW > 0 && g.outsideH > 0
}

// Present keeps the latest frame for Draw.
func (g *Game) Present(f pacer.Frame) {
	g.frame = f
	g.hasFrame = true
}

func (g *Game) Update() error {
	g.drainChimePicks()
	g.observeViewport()
	g.advanceClock()

	g.updateControls(g.readPointer())
	for _, a := range readKeys() {
		if err := g.handle(a); err != nil {
			return err
		}
	}

	g.frames.Pump()
	return nil
}

// Layout records the window size and returns the physical pixel size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.outsideW = float64(outsideWidth)
	g.outsideH = float64(outsideHeight)
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale <= 0 {
		g.scale = 1
	}
	return int(math.Ceil(g.outsideW * g.scale)), int(math.Ceil(g.outsideH * g.scale))
}

// Close releases every timer. The speaker belongs to the caller.
func (g *Game) Close() {
	g.driver.Close()
	g.watcher.Close()
	g.brightTimer.Stop()
	g.sched.Clear()
}

func (g *Game) observeViewport() {
	if !g.Ready() {
		return
	}
	scale := g.scale
	if scale <= 0 {
		scale = 1
	}
	g.watcher.Observe(viewport.New(g.outsideW, g.outsideH, scale))
}

// advanceClock accumulates session time while the driver runs and
// fires due timers.
func (g *Game) advanceClock() {
	now := g.clock.Now()
	if g.driver.Running() {
		g.elapsed += now.Sub(g.lastUpdate)
	}
	g.lastUpdate = now
	g.sched.Run()
}

func (g *Game) onViewport(vp viewport.State) {
	c := viewport.CanvasFor(vp, g.cfg.Canvas)
	if g.paused {
		g.driver.SetCanvas(c)
	} else {
		g.driver.Reconfigure(c)
	}
	g.hasFrame = false

	width := math.Min(c.DisplayWidth, 480)
	layoutControls(canvasTop+c.DisplayHeight, vp.Width/2, width, []*slider{g.amplitude, g.speed}, g.apply)
}

func (g *Game) onCycle() {
	g.counter.Increment()
	g.cadence.record(g.clock.Now())
	g.logger.Debug("breath completed", "count", g.counter.Count(), "max", g.counter.Max())

	if g.speaker == nil || !g.cfg.Feedback.Enabled {
		return
	}
	if err := g.speaker.Chime(); err != nil {
		g.logger.Debug("chime failed", "error", err)
	}
}

func (g *Game) showFallback(intensity float64) {
	g.brightness = intensity
	g.brightTimer.Stop()
	g.brightTimer = g.sched.After(g.cfg.Timing.VisualFallback, func() {
		g.brightTimer = nil
		g.brightness = 0
	})
}

func (g *Game) updateControls(p pointer) {
	for _, s := range []*slider{g.amplitude, g.speed} {
		started, ended := s.update(p)
		if started {
			g.haptics.SliderStart()
		}
		if ended {
			g.haptics.SliderEnd()
		}
	}
	if g.apply.update(p) {
		g.applyControls()
	}
}

// applyControls commits the staged slider values to the driver.
func (g *Game) applyControls() {
	g.haptics.ButtonPress()
	g.driver.Apply(g.amplitude.value, g.speed.value)
	g.setStatus(fmt.Sprintf("Applied amplitude %s, speed %s",
		formatValue(g.amplitude.value, g.amplitude.step), formatValue(g.speed.value, g.speed.step)))
}

func (g *Game) handle(a keyAction) error {
	switch a {
	case keyApply:
		g.applyControls()
	case keyResetCounter:
		g.counter.Reset()
		g.cadence.reset()
		g.driver.ResetCycle()
		g.haptics.Throttled(feedback.Heavy)
		g.setStatus("Counter reset")
	case keyPickChime:
		g.pickChime()
	case keyMute:
		g.toggleMute()
	case keyPause:
		g.togglePause()
	case keyQuit:
		return ebiten.Termination
	case keyAmplitudeUp:
		g.amplitude.nudge(1)
	case keyAmplitudeDown:
		g.amplitude.nudge(-1)
	case keySpeedUp:
		g.speed.nudge(1)
	case keySpeedDown:
		g.speed.nudge(-1)
	}
	return nil
}

func (g *Game) togglePause() {
	if g.paused {
		g.paused = false
		if !g.driver.Start() {
			g.setStatus("Waiting for window")
			return
		}
		g.setStatus("Resumed")
		return
	}
	g.paused = true
	g.driver.Stop()
	g.setStatus("Paused")
}

func (g *Game) toggleMute() {
	g.muted = !g.muted
	if g.speaker != nil {
		g.speaker.SetMuted(g.muted)
	}
	g.haptics.SetEnabled(g.cfg.Feedback.Enabled && !g.muted)
	if g.muted {
		g.setStatus("Muted")
	} else {
		g.setStatus("Sound on")
	}
}

// pickChime opens the file dialog off the frame goroutine; the result
// comes back through picks.
func (g *Game) pickChime() {
	if g.picking {
		return
	}
	g.picking = true
	go func() {
		path, err := feedback.SelectChimeFile()
		g.picks <- chimePick{path: path, err: err}
	}()
}

func (g *Game) drainChimePicks() {
	select {
	case p := <-g.picks:
		g.picking = false
		switch {
		case p.err != nil:
			g.fail(p.err)
		case p.path != "":
			g.loadChime(p.path)
		}
	default:
	}
}

func (g *Game) loadChime(path string) {
	if g.speaker == nil {
		g.setStatus("Audio unavailable, chime not loaded")
		return
	}
	buf, err := feedback.LoadChime(path)
	if err != nil {
		g.fail(err)
		return
	}
	g.speaker.SetChime(buf)
	g.setStatus("Chime: " + filepath.Base(path))
	g.logger.Info("chime loaded", "path", path, "samples", buf.Len())
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.lastErr = nil
}

func (g *Game) fail(err error) {
	g.lastErr = err
	g.logger.Warn("action failed", "error", err)
}
