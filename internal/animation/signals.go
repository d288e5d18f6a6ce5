package animation

import (
	"math"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// ShapeMode selects a shape-specific animation at the rendering boundary.
type ShapeMode uint8

const (
	ModeDefault ShapeMode = iota
	ModeRipple
	ModeFlower
	ModePulse
)

func modeFor(s visual.Shape) ShapeMode {
	switch s {
	case visual.LiquidWave:
		return ModeRipple
	case visual.CyberFlower:
		return ModeFlower
	case visual.PulsingBlackHole:
		return ModePulse
	}
	return ModeDefault
}

// Signals is everything the renderer needs for one frame besides the pool.
type Signals struct {
	Mode   ShapeMode
	Time   float64 // music time
	Beat   float64
	Treble float64
	Warp   float64
	Shrink float64
	Colors visual.Palette

	Grip        float64 // >0 implode, <0 blast
	Rain        float64
	TouchActive bool
	Touch       [2]float64

	VisibleCount int
	Size         float64
	Brightness   float64
	Bloom        float64
	Trail        float64
}

func (c *Controller) signals(mags []byte, loudness float64) Signals {
	t := c.musicTime
	return Signals{
		Mode:   modeFor(c.shape),
		Time:   t,
		Beat:   loudness * 3,
		Treble: treble(mags) * 2,
		Warp:   (3 + math.Sin(t*0.2)*2) * (0.5 + c.settings.TrailStrength*1.5),
		Shrink: 1 - loudness*0.2 + math.Sin(t)*0.1,
		Colors: c.colors,

		Grip:        c.grip,
		Rain:        c.rain,
		TouchActive: c.touchActive,
		Touch:       c.touch,

		VisibleCount: c.settings.ParticleCount,
		Size:         c.settings.ParticleSize * 1.2,
		Brightness:   c.settings.Brightness,
		Bloom:        c.settings.BloomIntensity,
		Trail:        c.settings.TrailStrength,
	}
}

// treble is the mean of the top 30% of the bins, normalized to [0,1].
func treble(mags []byte) float64 {
	if len(mags) == 0 {
		return 0
	}
	lower := int(float64(len(mags)) * trebleStart)
	var sum int
	for _, m := range mags[lower:] {
		sum += int(m)
	}
	return float64(sum) / float64(len(mags)-lower) / 255
}

// IdleProfile is the config shown while playback is paused: a slow, calm
// sphere in the track's palette.
func IdleProfile(cfg visual.Config) visual.Config {
	cfg.Shape = visual.Sphere
	cfg.Speed = 0.3
	cfg.Chaos = 0.1
	cfg.Description = "Standby - Waiting for Music..."
	return cfg
}
