// Package animation drives the particle pool one frame at a time: it owns the
// music clock, decides when to morph to a new shape, blends positions toward
// the active target and derives the per-frame parameters for the renderer.
package animation

import (
	"math"
	"math/rand/v2"

	"github.com/hashicorp/go-hclog"

	"github.com/iburimskiy/particle-morph/internal/particles"
	"github.com/iburimskiy/particle-morph/internal/shapes"
	"github.com/iburimskiy/particle-morph/internal/visual"
)

const (
	// switchInterval = switchBase / (0.5 + loudness)
	switchBase = 6.0
	// loudness above which a due switch may happen
	switchPermit = 0.5
	// wall seconds after which a switch happens regardless of loudness
	forceSwitchAfter = 15.0
	switchChaosBoost = 0.2

	// Per-frame rates are defined against this frame rate.
	referenceFPS = 60.0

	gripRate  = 0.1
	rainRate  = 0.05
	touchRate = 0.2
	colorRate = 0.1

	// hue advance in radians per unit of music time
	hueSpeed = 0.05

	// grip above which shape blending pauses
	gripHold = 0.5
	// loudness above which positions shimmer
	shimmerThreshold = 0.8
	// world units per normalized hand coordinate
	touchScale = 30.0
	// treble is the mean of the bins above this fraction of the spectrum
	trebleStart = 0.7
)

// Controller is single-writer state: call Step once per frame from the frame
// loop and read the pool only after Step returns.
type Controller struct {
	pool   *particles.Pool
	target []float32
	rng    *rand.Rand
	log    hclog.Logger

	config   visual.Config
	settings visual.Settings

	shape visual.Shape
	chaos float64

	musicTime  float64
	wallTime   float64
	lastSwitch float64

	grip        float64
	rain        float64
	touchActive bool
	touch       [2]float64
	colors      visual.Palette
}

// New builds a controller over pool with cfg as the active config.
func New(pool *particles.Pool, cfg visual.Config, settings visual.Settings, rng *rand.Rand, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Controller{
		pool:   pool,
		target: make([]float32, len(pool.Positions)),
		rng:    rng,
		log:    logger,
		config: cfg,
		colors: cfg.Colors,
	}
	c.SetSettings(settings)
	c.retarget(cfg.Shape, clamp01(cfg.Chaos))
	return c
}

// SetConfig replaces the active config. A new shape or chaos level regenerates
// the target and restarts the switch timer.
func (c *Controller) SetConfig(cfg visual.Config) {
	regenerate := cfg.Shape != c.config.Shape || cfg.Chaos != c.config.Chaos
	c.config = cfg
	if regenerate {
		c.retarget(cfg.Shape, clamp01(cfg.Chaos))
		c.lastSwitch = c.wallTime
	}
}

// SetSettings replaces the render settings, capping the visible count at the
// pool capacity.
func (c *Controller) SetSettings(s visual.Settings) {
	if s.ParticleCount > c.pool.Cap() {
		s.ParticleCount = c.pool.Cap()
	}
	if s.ParticleCount < 0 {
		s.ParticleCount = 0
	}
	c.settings = s
}

func (c *Controller) Config() visual.Config     { return c.config }
func (c *Controller) Settings() visual.Settings { return c.settings }

// Shape is the shape currently being morphed toward.
func (c *Controller) Shape() visual.Shape { return c.shape }

// Chaos is the chaos level the current target was generated with.
func (c *Controller) Chaos() float64 { return c.chaos }

// MusicTime is the loudness-scaled animation clock.
func (c *Controller) MusicTime() float64 { return c.musicTime }

// Target is the position buffer being blended toward. Read only.
func (c *Controller) Target() []float32 { return c.target }

// Step advances one frame and returns the signals for the renderer.
func (c *Controller) Step(dt float64, audio visual.AudioFrame, gesture visual.GestureState, playing bool) Signals {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	loudness := clamp01(audio.Loudness)

	c.musicTime += dt * c.config.Speed * (0.5 + 2*loudness)
	c.wallTime += dt

	if playing {
		c.maybeSwitch(loudness)
	}

	c.updateGesture(gesture)
	c.updateColors()
	c.blend(dt, loudness)

	return c.signals(audio.Magnitudes, loudness)
}

func (c *Controller) maybeSwitch(loudness float64) {
	since := c.wallTime - c.lastSwitch
	if since <= switchBase/(0.5+loudness) {
		return
	}
	if loudness <= switchPermit && since <= forceSwitchAfter {
		return
	}

	next := c.pickNext()
	chaos := clamp01(c.config.Chaos + loudness*switchChaosBoost)
	c.log.Debug("switching shape", "from", c.shape, "to", next, "chaos", chaos, "loudness", loudness, "held", since)
	c.retarget(next, chaos)
	c.lastSwitch = c.wallTime
}

// pickNext draws uniformly from every shape except the current one.
func (c *Controller) pickNext() visual.Shape {
	if !c.shape.Valid() {
		return visual.Shape(c.rng.IntN(int(visual.ShapeCount)))
	}
	k := visual.Shape(c.rng.IntN(int(visual.ShapeCount) - 1))
	if k >= c.shape {
		k++
	}
	return k
}

func (c *Controller) retarget(shape visual.Shape, chaos float64) {
	copy(c.target, shapes.GenerateRand(c.rng, shape, c.pool.Cap(), chaos))
	c.shape = shape
	c.chaos = chaos
}

func (c *Controller) updateGesture(g visual.GestureState) {
	gripTarget := 0.0
	if g.Left.Active {
		gripTarget = -g.Left.Strength
		if g.Left.IsFist {
			gripTarget = g.Left.Strength
		}
	}
	c.grip = lerp(c.grip, gripTarget, gripRate)

	rainTarget := 0.0
	if g.Right.Active && g.Right.Gesture == visual.GestureRain {
		rainTarget = 1
	}
	c.rain = lerp(c.rain, rainTarget, rainRate)

	c.touchActive = g.Right.Active && g.Right.Gesture == visual.GestureTouch
	if c.touchActive {
		c.touch[0] = lerp(c.touch[0], g.Right.X*touchScale, touchRate)
		c.touch[1] = lerp(c.touch[1], g.Right.Y*touchScale, touchRate)
	}
}

func (c *Controller) updateColors() {
	hue := c.musicTime * hueSpeed
	for k := range c.colors {
		c.colors[k] = c.colors[k].Lerp(c.config.Colors[k].RotateHue(hue), colorRate)
	}
}

// blend moves every particle toward its target. The per-frame rate is
// normalized to referenceFPS so a zero delta leaves positions untouched.
func (c *Controller) blend(dt, loudness float64) {
	if c.grip > gripHold {
		return
	}
	frames := dt * referenceFPS
	if frames <= 0 {
		return
	}

	rate := (0.03 + loudness*0.08) * (1 + c.config.Speed*0.2)
	alpha := 1 - math.Pow(1-math.Min(rate, 1), frames)

	pos, tgt := c.pool.Positions, c.target
	if loudness <= shimmerThreshold {
		for i := range pos {
			pos[i] += (tgt[i] - pos[i]) * float32(alpha)
		}
		return
	}

	// random walk: spread grows with the square root of elapsed frames
	push := loudness * 0.5 * math.Sqrt(frames)
	for i := range pos {
		pos[i] += (tgt[i]-pos[i])*float32(alpha) + float32((c.rng.Float64()-0.5)*push)
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
