package game

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/breath-timer/internal/config"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

type theme struct {
	background   colorful.Color
	canvas       colorful.Color
	wave         colorful.Color
	marker       colorful.Color
	markerStroke colorful.Color
	flash        colorful.Color
	accent       colorful.Color
}

func newTheme(cfg config.ThemeConfig) (theme, error) {
	var t theme
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"background", cfg.Background, &t.background},
		{"canvas", cfg.Canvas, &t.canvas},
		{"wave", cfg.Wave, &t.wave},
		{"marker", cfg.Marker, &t.marker},
		{"marker_stroke", cfg.MarkerStroke, &t.markerStroke},
		{"flash", cfg.Flash, &t.flash},
		{"accent", cfg.Accent, &t.accent},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return theme{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return t, nil
}

// buttonColor lightens the accent on hover and darkens it when pressed.
func (t theme) buttonColor(hovered, pressed bool) color.Color {
	switch {
	case pressed:
		return t.accent.BlendLab(t.background, 0.35).Clamped()
	case hovered:
		return t.accent.BlendLab(white, 0.15).Clamped()
	default:
		return t.accent
	}
}

func (t theme) trackColor(active bool) color.Color {
	if active {
		return t.accent.BlendLab(white, 0.3).Clamped()
	}
	return t.accent.BlendLab(t.background, 0.4).Clamped()
}

// overlay returns c at the given opacity as a premultiplied color.
func overlay(c colorful.Color, alpha float64) color.Color {
	a := clamp01(alpha)
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{
		R: uint8(float64(r) * a),
		G: uint8(float64(g) * a),
		B: uint8(float64(b) * a),
		A: uint8(255 * a),
	}
}
