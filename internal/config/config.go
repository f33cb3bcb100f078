package config

const (
	WindowWidth  = 1024
	WindowHeight = 640

	DefaultTPS = 60

	// Controls panel
	PanelPadding  = 16
	SliderHeight  = 36
	SliderGap     = 18
	KnobRadius    = 10
	ButtonWidth   = 160
	ButtonHeight  = 40
	HUDLineHeight = 16

	// Breathing cadence
	CadenceWindow = 8
)
