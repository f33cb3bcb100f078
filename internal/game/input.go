package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// readPointer merges touch and mouse input. An active touch wins over
// the mouse until it is released.
func (g *Game) readPointer() pointer {
	scale := g.scale
	if scale <= 0 {
		scale = 1
	}

	if !g.touching {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			g.touch = ids[0]
			g.touching = true
			x, y := ebiten.TouchPosition(g.touch)
			g.touchX, g.touchY = float64(x)/scale, float64(y)/scale
			return pointer{x: g.touchX, y: g.touchY, down: true, justPressed: true}
		}
	}
	if g.touching {
		if inpututil.IsTouchJustReleased(g.touch) {
			g.touching = false
			return pointer{x: g.touchX, y: g.touchY, justReleased: true}
		}
		x, y := ebiten.TouchPosition(g.touch)
		g.touchX, g.touchY = float64(x)/scale, float64(y)/scale
		return pointer{x: g.touchX, y: g.touchY, down: true}
	}

	mx, my := ebiten.CursorPosition()
	return pointer{
		x:            float64(mx) / scale,
		y:            float64(my) / scale,
		down:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		justPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		justReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

type keyAction int

const (
	keyNone keyAction = iota
	keyApply
	keyResetCounter
	keyPickChime
	keyMute
	keyPause
	keyQuit
	keyAmplitudeUp
	keyAmplitudeDown
	keySpeedUp
	keySpeedDown
)

var keyBindings = []struct {
	key    ebiten.Key
	action keyAction
}{
	{ebiten.KeyEnter, keyApply},
	{ebiten.KeyR, keyResetCounter},
	{ebiten.KeyO, keyPickChime},
	{ebiten.KeyM, keyMute},
	{ebiten.KeySpace, keyPause},
	{ebiten.KeyEscape, keyQuit},
	{ebiten.KeyQ, keyQuit},
	{ebiten.KeyRight, keyAmplitudeUp},
	{ebiten.KeyLeft, keyAmplitudeDown},
	{ebiten.KeyUp, keySpeedUp},
	{ebiten.KeyDown, keySpeedDown},
}

func readKeys() []keyAction {
	var out []keyAction
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			out = append(out, b.action)
		}
	}
	return out
}
