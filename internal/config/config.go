package config

import (
	"time"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720

	// samples kept by the audio tap; must cover AnalyserFFTSize
	VisualRingSize  = 8192
	AnalyserFFTSize = 512

	// pool capacity, the "high" preset
	MaxParticles = 40000
	// particle count step for the [ and ] keys
	ParticleStep = 2500

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	// HUD bars
	BarMargin      = 20
	ProgressHeight = 30
	SpectrumHeight = 60
	SpectrumBands  = 64

	// Camera
	CameraDistance = 100.0
	CameraFOV      = 45.0
	OrbitSpeed     = 0.005

	DefaultMoodTimeout = 20 * time.Second
)

// Options is the runtime configuration assembled from flags and environment.
type Options struct {
	Settings    visual.Settings
	LogLevel    string
	MoodModel   string
	MoodTimeout time.Duration
	APIKey      string
	Files       []string
	Seed        uint64
}

// Default returns the options used when no flags are given.
func Default() Options {
	return Options{
		Settings:    visual.DefaultSettings(),
		MoodTimeout: DefaultMoodTimeout,
	}
}

// Normalize clamps settings into their usable ranges.
func (o *Options) Normalize() {
	s := &o.Settings
	s.ParticleCount = max(0, min(s.ParticleCount, MaxParticles))
	if s.ParticleSize <= 0 {
		s.ParticleSize = 1
	}
	s.Brightness = max(0, s.Brightness)
	s.BloomIntensity = max(0, s.BloomIntensity)
	s.TrailStrength = max(0, min(s.TrailStrength, 1))
	if o.MoodTimeout <= 0 {
		o.MoodTimeout = DefaultMoodTimeout
	}
}
