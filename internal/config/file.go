package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no -config flag is given. A missing file at
// the default path is not an error.
const DefaultPath = "breath-timer.yaml"

// Cycle detector strategies.
const (
	CycleModeOffset = "offset"
	CycleModeTime   = "time"
)

// Config is the top-level YAML configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Wave     WaveConfig     `yaml:"wave"`
	Controls ControlsConfig `yaml:"controls"`
	Cycle    CycleConfig    `yaml:"cycle"`
	Flash    FlashConfig    `yaml:"flash"`
	Counter  CounterConfig  `yaml:"counter"`
	Feedback FeedbackConfig `yaml:"feedback"`
	Timing   TimingConfig   `yaml:"timing"`
	Theme    ThemeConfig    `yaml:"theme"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

// CanvasConfig drives the responsive canvas geometry provider.
type CanvasConfig struct {
	BaseWidth        float64 `yaml:"base_width"`
	BaseHeight       float64 `yaml:"base_height"`
	MinWidth         float64 `yaml:"min_width"`
	MaxWidth         float64 `yaml:"max_width"`
	AspectRatio      float64 `yaml:"aspect_ratio"`
	MarginPercentage float64 `yaml:"margin_percentage"`
}

type WaveConfig struct {
	Frequency         float64 `yaml:"frequency"`
	ReferenceWidth    float64 `yaml:"reference_width"`
	ReferenceHeight   float64 `yaml:"reference_height"`
	MarkerMargin      float64 `yaml:"marker_margin"`
	MarkerWidthRatio  float64 `yaml:"marker_width_ratio"`
	MarkerHeightRatio float64 `yaml:"marker_height_ratio"`
	MinMarkerRadius   float64 `yaml:"min_marker_radius"`
}

// RangeConfig describes one slider.
type RangeConfig struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Default float64 `yaml:"default"`
}

type ControlsConfig struct {
	Amplitude RangeConfig `yaml:"amplitude"`
	Speed     RangeConfig `yaml:"speed"`
}

type CycleConfig struct {
	Mode         string        `yaml:"mode"`
	BaseDuration time.Duration `yaml:"base_duration"`
	SpeedEpsilon float64       `yaml:"speed_epsilon"`
}

type FlashConfig struct {
	Interval time.Duration `yaml:"interval"`
	Duration time.Duration `yaml:"duration"`
}

type CounterConfig struct {
	Max int `yaml:"max"`
}

type FeedbackConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Throttle  time.Duration `yaml:"throttle"`
	ChimeFile string        `yaml:"chime_file,omitempty"`
	ChimeFreq float64       `yaml:"chime_freq"`
	Volume    float64       `yaml:"volume"`
}

// TimingConfig holds the deferred timer delays of the viewport and
// driver collaborators.
type TimingConfig struct {
	RestartDelay      time.Duration `yaml:"restart_delay"`
	OrientationSettle time.Duration `yaml:"orientation_settle"`
	InitialLoadGrace  time.Duration `yaml:"initial_load_grace"`
	OrientationClass  time.Duration `yaml:"orientation_class"`
	VisualFallback    time.Duration `yaml:"visual_fallback"`
}

// ThemeConfig colors are hex strings such as "#0077ff".
type ThemeConfig struct {
	Background   string `yaml:"background"`
	Canvas       string `yaml:"canvas"`
	Wave         string `yaml:"wave"`
	Marker       string `yaml:"marker"`
	MarkerStroke string `yaml:"marker_stroke"`
	Flash        string `yaml:"flash"`
	Accent       string `yaml:"accent"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Breath Timer - Enter: apply, R: reset count, O: chime file, Space: pause, Esc/Q: quit",
			TPS:    DefaultTPS,
		},
		Canvas: CanvasConfig{
			BaseWidth:        800,
			BaseHeight:       300,
			MinWidth:         280,
			MaxWidth:         1200,
			AspectRatio:      800.0 / 300.0,
			MarginPercentage: 0.05,
		},
		Wave: WaveConfig{
			Frequency:         0.01,
			ReferenceWidth:    800,
			ReferenceHeight:   300,
			MarkerMargin:      2.5,
			MarkerWidthRatio:  0.02,
			MarkerHeightRatio: 0.05,
			MinMarkerRadius:   6,
		},
		Controls: ControlsConfig{
			Amplitude: RangeConfig{Min: 50, Max: 150, Step: 1, Default: 100},
			Speed:     RangeConfig{Min: 0, Max: 3, Step: 0.1, Default: 2},
		},
		Cycle: CycleConfig{
			Mode:         CycleModeOffset,
			BaseDuration: 3 * time.Second,
			SpeedEpsilon: 1e-6,
		},
		Flash: FlashConfig{
			Interval: time.Second,
			Duration: 150 * time.Millisecond,
		},
		Counter: CounterConfig{Max: 21},
		Feedback: FeedbackConfig{
			Enabled:   true,
			Throttle:  50 * time.Millisecond,
			ChimeFreq: 528,
			Volume:    0.4,
		},
		Timing: TimingConfig{
			RestartDelay:      50 * time.Millisecond,
			OrientationSettle: 100 * time.Millisecond,
			InitialLoadGrace:  100 * time.Millisecond,
			OrientationClass:  500 * time.Millisecond,
			VisualFallback:    50 * time.Millisecond,
		},
		Theme: ThemeConfig{
			Background:   "#10141c",
			Canvas:       "#ffffff",
			Wave:         "#0077ff",
			Marker:       "#e60000",
			MarkerStroke: "#990000",
			Flash:        "#ffffff",
			Accent:       "#6478a0",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. When path is the default path and
// the file does not exist, the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals YAML into cfg, rejecting unknown keys. Fields absent
// from data keep their current values.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate returns the first out-of-range setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS)
	}

	cv := c.Canvas
	if cv.BaseWidth <= 0 || cv.BaseHeight <= 0 {
		return errors.New("canvas base size must be positive")
	}
	if cv.MinWidth <= 0 || cv.MaxWidth < cv.MinWidth {
		return fmt.Errorf("canvas width bounds invalid: min %g max %g", cv.MinWidth, cv.MaxWidth)
	}
	if cv.AspectRatio <= 0 {
		return fmt.Errorf("canvas.aspect_ratio must be positive, got %g", cv.AspectRatio)
	}
	if cv.MarginPercentage < 0 || cv.MarginPercentage >= 0.5 {
		return fmt.Errorf("canvas.margin_percentage must be in [0, 0.5), got %g", cv.MarginPercentage)
	}

	w := c.Wave
	if w.Frequency <= 0 {
		return fmt.Errorf("wave.frequency must be positive, got %g", w.Frequency)
	}
	if w.ReferenceWidth <= 0 || w.ReferenceHeight <= 0 {
		return errors.New("wave reference size must be positive")
	}
	if w.MarkerMargin < 0 || w.MinMarkerRadius < 0 {
		return errors.New("wave marker settings must not be negative")
	}

	if err := c.Controls.Amplitude.validate("amplitude"); err != nil {
		return err
	}
	if err := c.Controls.Speed.validate("speed"); err != nil {
		return err
	}

	switch c.Cycle.Mode {
	case CycleModeOffset:
	case CycleModeTime:
		if c.Cycle.BaseDuration <= 0 {
			return fmt.Errorf("cycle.base_duration must be positive, got %v", c.Cycle.BaseDuration)
		}
		if c.Cycle.SpeedEpsilon <= 0 {
			return fmt.Errorf("cycle.speed_epsilon must be positive, got %g", c.Cycle.SpeedEpsilon)
		}
	default:
		return fmt.Errorf("cycle.mode must be %q or %q, got %q", CycleModeOffset, CycleModeTime, c.Cycle.Mode)
	}

	if c.Flash.Interval <= 0 || c.Flash.Duration <= 0 {
		return errors.New("flash interval and duration must be positive")
	}
	if c.Counter.Max < 0 {
		return fmt.Errorf("counter.max must not be negative, got %d", c.Counter.Max)
	}
	if c.Feedback.Throttle < 0 {
		return fmt.Errorf("feedback.throttle must not be negative, got %v", c.Feedback.Throttle)
	}
	if c.Feedback.Volume < 0 || c.Feedback.Volume > 1 {
		return fmt.Errorf("feedback.volume must be in [0, 1], got %g", c.Feedback.Volume)
	}
	if c.Feedback.ChimeFreq <= 0 {
		return fmt.Errorf("feedback.chime_freq must be positive, got %g", c.Feedback.ChimeFreq)
	}

	t := c.Timing
	if t.RestartDelay < 0 || t.OrientationSettle < 0 || t.InitialLoadGrace < 0 || t.OrientationClass < 0 || t.VisualFallback < 0 {
		return errors.New("timing delays must not be negative")
	}
	return nil
}

func (r RangeConfig) validate(name string) error {
	if r.Step <= 0 {
		return fmt.Errorf("controls.%s.step must be positive, got %g", name, r.Step)
	}
	if r.Max < r.Min {
		return fmt.Errorf("controls.%s: max %g below min %g", name, r.Max, r.Min)
	}
	if r.Default < r.Min || r.Default > r.Max {
		return fmt.Errorf("controls.%s.default %g outside [%g, %g]", name, r.Default, r.Min, r.Max)
	}
	return nil
}
