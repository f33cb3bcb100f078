package viewport

import (
	"math"
	"testing"

	"github.com/iburimskiy/breath-timer/internal/config"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		width float64
		want  DeviceClass
	}{
		{320, Mobile},
		{767, Mobile},
		{768, Tablet},
		{1023, Tablet},
		{1024, Desktop},
		{2560, Desktop},
	}
	for _, tt := range tests {
		if got := Classify(tt.width); got != tt.want {
			t.Errorf("width %g: expected %v, got %v", tt.width, tt.want, got)
		}
	}
}

func TestNewState(t *testing.T) {
	s := New(800, 600, 0)
	if s.Orientation != Landscape {
		t.Errorf("Expected landscape, got %s", s.Orientation)
	}
	if s.DevicePixelRatio != 1 {
		t.Errorf("Expected default ratio 1, got %g", s.DevicePixelRatio)
	}
	if !s.IsTablet() {
		t.Errorf("Expected tablet class, got %v", s.Class)
	}

	if sq := New(500, 500, 2); sq.Orientation != Portrait {
		t.Errorf("Expected square viewport to be portrait, got %s", sq.Orientation)
	}
}

func TestCanvasFor(t *testing.T) {
	cfg := config.Default().Canvas
	tests := []struct {
		name                string
		vp                  State
		width, height       float64
		physicalW, physical float64
	}{
		{"desktop hidpi", New(1440, 900, 2), 800, 300, 1600, 600},
		{"tablet portrait", New(900, 1200, 1), 648, 243, 648, 243},
		{"mobile portrait", New(375, 667, 3), 337.5, 126.5625, 1013, 380},
		{"mobile landscape capped by height", New(700, 320, 1), 512, 192, 512, 192},
		{"narrow desktop window", New(1100, 1000, 1), 800, 300, 800, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CanvasFor(tt.vp, cfg)
			if math.Abs(c.DisplayWidth-tt.width) > 1e-9 || math.Abs(c.DisplayHeight-tt.height) > 1e-9 {
				t.Errorf("Expected display %gx%g, got %gx%g", tt.width, tt.height, c.DisplayWidth, c.DisplayHeight)
			}
			if c.PhysicalWidth != tt.physicalW || c.PhysicalHeight != tt.physical {
				t.Errorf("Expected physical %gx%g, got %gx%g", tt.physicalW, tt.physical, c.PhysicalWidth, c.PhysicalHeight)
			}
			if c.ScaleFactor != tt.vp.DevicePixelRatio {
				t.Errorf("Expected scale %g, got %g", tt.vp.DevicePixelRatio, c.ScaleFactor)
			}
		})
	}
}

func TestCanvasForSmallMobile(t *testing.T) {
	cfg := config.Default().Canvas
	c := CanvasFor(New(300, 700, 1), cfg)
	// clamped up to min width 280, then limited to 95% of the viewport
	if c.DisplayWidth != 280 {
		t.Errorf("Expected 280, got %g", c.DisplayWidth)
	}

	c = CanvasFor(New(250, 700, 1), cfg)
	if math.Abs(c.DisplayWidth-237.5) > 1e-9 {
		t.Errorf("Expected 237.5, got %g", c.DisplayWidth)
	}
}

func TestCanvasKeepsAspectRatio(t *testing.T) {
	cfg := config.Default().Canvas
	for _, vp := range []State{New(1920, 1080, 1), New(800, 200, 2), New(390, 844, 3), New(1000, 700, 1.5)} {
		c := CanvasFor(vp, cfg)
		if got := c.DisplayWidth / c.DisplayHeight; math.Abs(got-cfg.AspectRatio) > 1e-9 {
			t.Errorf("%+v: expected aspect %g, got %g", vp, cfg.AspectRatio, got)
		}
		if c.DisplayHeight > vp.Height*0.6+1e-9 {
			t.Errorf("%+v: height %g exceeds 60%% of viewport", vp, c.DisplayHeight)
		}
	}
}
