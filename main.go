package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/breath-timer/internal/config"
	"github.com/iburimskiy/breath-timer/internal/feedback"
	"github.com/iburimskiy/breath-timer/internal/game"
)

// overrides are command-line values that win over the config file.
// Zero values leave the file setting alone.
type overrides struct {
	logLevel  string
	cycleMode string
	maxCount  int
	mute      bool
}

func applyOverrides(cfg *config.Config, o overrides) error {
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.cycleMode != "" {
		cfg.Cycle.Mode = o.cycleMode
	}
	if o.maxCount >= 0 {
		cfg.Counter.Max = o.maxCount
	}
	return cfg.Validate()
}

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath, "YAML configuration file")
		o          overrides
	)
	flag.StringVar(&o.logLevel, "log-level", "", "log level: error, warn, info or debug")
	flag.StringVar(&o.cycleMode, "cycle-mode", "", "breath detection: offset or time")
	flag.IntVar(&o.maxCount, "max-count", -1, "breaths before the counter wraps")
	flag.BoolVar(&o.mute, "mute", false, "start with sound muted")
	flag.Parse()

	if err := run(*configPath, o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, o overrides) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(&cfg, o); err != nil {
		return err
	}

	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := setupLogger(level)

	spk := feedback.NewSpeaker(cfg.Feedback.Volume, cfg.Feedback.ChimeFreq)
	if err := spk.Init(); err != nil {
		logger.Warn("audio unavailable, using visual feedback", "error", err)
		spk = nil
	} else {
		defer spk.Close()
		spk.SetMuted(o.mute)
	}

	g, err := game.New(game.Options{
		Config:  cfg,
		Logger:  logger,
		Speaker: spk,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	logger.Info("starting",
		"config", configPath,
		"cycle_mode", cfg.Cycle.Mode,
		"max_count", cfg.Counter.Max,
		"audio", spk != nil)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	logger.Info("stopped")
	return nil
}
