package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/breath-timer/internal/config"
	"github.com/iburimskiy/breath-timer/internal/pacer"
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.theme.background)

	g.drawCanvas(screen)
	g.drawSlider(screen, g.amplitude, g.driver.State().Amplitude)
	g.drawSlider(screen, g.speed, g.driver.State().Speed)
	g.drawButton(screen)
	g.drawHUD(screen)

	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	if g.watcher.OrientationChanging() {
		vector.DrawFilledRect(screen, 0, 0, w, h, overlay(g.theme.background, 0.5), false)
	}
	if g.brightness > 0 {
		vector.DrawFilledRect(screen, 0, 0, w, h, overlay(white, g.brightness), false)
	}
}

// drawCanvas renders the frame into a backing image of the canvas's
// physical size, then places it centered under the HUD.
func (g *Game) drawCanvas(screen *ebiten.Image) {
	if !g.hasFrame || !g.frame.Canvas.Valid() {
		return
	}
	f := g.frame
	c := f.Canvas
	pw, ph := int(c.PhysicalWidth), int(c.PhysicalHeight)
	if g.canvasImg == nil || g.canvasImg.Bounds().Dx() != pw || g.canvasImg.Bounds().Dy() != ph {
		if g.canvasImg != nil {
			g.canvasImg.Deallocate()
		}
		g.canvasImg = ebiten.NewImage(pw, ph)
	}
	img := g.canvasImg
	img.Fill(g.theme.canvas)

	s := float32(c.ScaleFactor)
	var prev pacer.Point
	first := true
	for p := range f.Path.Points() {
		if !first {
			vector.StrokeLine(img, float32(prev.X)*s, float32(prev.Y)*s, float32(p.X)*s, float32(p.Y)*s,
				float32(f.LineWidth)*s, g.theme.wave, true)
		}
		prev = p
		first = false
	}

	mx, my, r := float32(f.Marker.X)*s, float32(f.Marker.Y)*s, float32(f.MarkerRadius)*s
	vector.DrawFilledCircle(img, mx, my, r, g.theme.marker, true)
	vector.StrokeCircle(img, mx, my, r, float32(f.MarkerStroke)*s, g.theme.markerStroke, true)
	if f.FlashVisible {
		vector.DrawFilledCircle(img, mx, my, float32(f.FlashRadius)*s, g.theme.flash, true)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate((g.outsideW-c.DisplayWidth)/2*g.scale, canvasTop*g.scale)
	screen.DrawImage(img, op)
}

func (g *Game) drawSlider(screen *ebiten.Image, s *slider, applied float64) {
	k := float32(g.scale)
	t := s.track
	y := float32(t.y) * k
	x0, x1 := float32(t.x)*k, float32(t.x+t.w)*k
	kx := float32(s.knobX()) * k

	vector.StrokeLine(screen, x0, y, x1, y, 4*k, g.theme.trackColor(false), true)
	vector.StrokeLine(screen, x0, y, kx, y, 4*k, g.theme.trackColor(true), true)
	vector.DrawFilledCircle(screen, kx, y, config.KnobRadius*k, g.theme.buttonColor(s.dragging, false), true)

	label := fmt.Sprintf("%s: %s", s.label, formatValue(s.value, s.step))
	if s.value != applied {
		label += fmt.Sprintf(" (applied %s)", formatValue(applied, s.step))
	}
	ebitenutil.DebugPrintAt(screen, label, int(t.x*g.scale), int((t.y-config.SliderHeight/2-4)*g.scale))
}

func (g *Game) drawButton(screen *ebiten.Image) {
	k := float32(g.scale)
	b := g.apply.bounds
	x, y, w, h := float32(b.x)*k, float32(b.y)*k, float32(b.w)*k, float32(b.h)*k

	vector.DrawFilledRect(screen, x, y, w, h, g.theme.buttonColor(g.apply.hovered, g.apply.pressed), false)
	vector.StrokeRect(screen, x, y, w, h, 2*k, g.theme.trackColor(true), false)

	textWidth := len(g.apply.label) * 6 // debug font glyph width
	textX := int(b.x*g.scale) + (int(b.w*g.scale)-textWidth)/2
	textY := int(b.y*g.scale) + (int(b.h*g.scale)-16)/2
	ebitenutil.DebugPrintAt(screen, g.apply.label, textX, textY)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	x := int(config.PanelPadding * g.scale)
	line := func(i int) int { return int((config.PanelPadding + float64(i)*config.HUDLineHeight) * g.scale) }

	counter := fmt.Sprintf("Cycles : %d / %d   Time %s", g.counter.Count(), g.counter.Max(), formatDuration(g.elapsed))
	if !g.counter.Active() {
		counter += "   (stopped)"
	}
	ebitenutil.DebugPrintAt(screen, counter, x, line(0))

	vp := g.watcher.Current()
	pace := fmt.Sprintf("Pace %.1f breaths/min   %s %.0fx%.0f @%.1fx",
		g.cadence.perMinute(), vp.Class, vp.Width, vp.Height, vp.DevicePixelRatio)
	if g.muted {
		pace += "   muted"
	}
	ebitenutil.DebugPrintAt(screen, pace, x, line(1))

	status := g.status
	if status == "" {
		status = "Enter apply  R reset  O chime  M mute  Space pause  Esc quit"
	}
	if g.lastErr != nil {
		status = "Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, x, line(2))
}
