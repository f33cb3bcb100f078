// Package viewport tracks the window the canvas lives in and derives the
// canvas geometry from it.
package viewport

import (
	"math"

	"github.com/iburimskiy/breath-timer/internal/config"
	"github.com/iburimskiy/breath-timer/internal/pacer"
)

const (
	MobileBreakpoint = 768
	TabletBreakpoint = 1024
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// DeviceClass buckets a viewport by width.
type DeviceClass int

const (
	Mobile DeviceClass = iota
	Tablet
	Desktop
)

func (c DeviceClass) String() string {
	switch c {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// Classify maps a viewport width to its device class.
func Classify(width float64) DeviceClass {
	switch {
	case width < MobileBreakpoint:
		return Mobile
	case width < TabletBreakpoint:
		return Tablet
	default:
		return Desktop
	}
}

// State is one observation of the window.
type State struct {
	Width            float64
	Height           float64
	Orientation      Orientation
	Class            DeviceClass
	DevicePixelRatio float64
}

// New derives orientation and device class. A non-positive ratio is
// treated as 1.
func New(width, height, dpr float64) State {
	if dpr <= 0 {
		dpr = 1
	}
	o := Portrait
	if width > height {
		o = Landscape
	}
	return State{
		Width:            width,
		Height:           height,
		Orientation:      o,
		Class:            Classify(width),
		DevicePixelRatio: dpr,
	}
}

func (s State) IsMobile() bool  { return s.Class == Mobile }
func (s State) IsTablet() bool  { return s.Class == Tablet }
func (s State) IsDesktop() bool { return s.Class == Desktop }

// CanvasFor sizes the canvas for the viewport: width from the device
// class, height from the aspect ratio, both capped by viewport height.
func CanvasFor(vp State, cfg config.CanvasConfig) pacer.Canvas {
	available := vp.Width * (1 - cfg.MarginPercentage*2)

	var width float64
	switch vp.Class {
	case Mobile:
		width = math.Min(math.Max(available, cfg.MinWidth), cfg.MaxWidth)
		if vp.Width < 480 {
			width = math.Min(width, vp.Width*0.95)
		}
	case Tablet:
		width = math.Min(available*0.8, cfg.MaxWidth)
	default:
		width = math.Min(cfg.BaseWidth, available)
	}

	height := width / cfg.AspectRatio

	if maxHeight := vp.Height * 0.6; height > maxHeight {
		height = maxHeight
		width = height * cfg.AspectRatio
	}

	if vp.IsMobile() && vp.Orientation == Portrait && vp.Height < 600 {
		if reduced := math.Min(height, vp.Height*0.4); reduced < height {
			height = reduced
			width = height * cfg.AspectRatio
		}
	}

	scale := vp.DevicePixelRatio
	if scale <= 0 {
		scale = 1
	}
	return pacer.Canvas{
		DisplayWidth:   width,
		DisplayHeight:  height,
		PhysicalWidth:  math.Round(width * scale),
		PhysicalHeight: math.Round(height * scale),
		ScaleFactor:    scale,
	}
}
