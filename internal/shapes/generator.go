// Package shapes turns a shape kind into a point cloud.
//
// Every generator is a pure function of its inputs and the random numbers it
// consumes. Closed-form families evaluate one formula per particle; attractor
// families integrate an ODE whose state lives only for the duration of one call
// and is reseeded every stride particles so the cloud is made of several
// independent trajectory segments.
package shapes

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// sample carries the per-call state shared by all formulas.
type sample struct {
	rng   *rand.Rand
	count int
	chaos float64

	// attractor state, carried across particles within one call
	att mgl64.Vec3
}

// formula computes particle i. t is the normalized rank i/count and r1..r3 are
// fresh uniform numbers in [0,1). A formula may draw more numbers from s.rng,
// but the number of draws never depends on chaos.
type formula func(s *sample, i int, t, r1, r2, r3 float64) mgl64.Vec3

var formulas = [visual.ShapeCount]formula{
	visual.Sphere:              sphere,
	visual.GalaxySpiral:        galaxySpiral,
	visual.LorenzAttractor:     lorenz,
	visual.MobiusStrip:         mobiusStrip,
	visual.MengerSponge:        mengerSponge,
	visual.PenroseTriangle:     penroseTriangle,
	visual.CardioidHeart:       cardioidHeart,
	visual.DNAHelix:            dnaHelix,
	visual.CubeGrid:            cubeGrid,
	visual.Torus:               torus,
	visual.KleinBottle:         kleinBottle,
	visual.VoxelGrid:           voxelGrid,
	visual.CyberFlower:         cyberFlower,
	visual.LiquidWave:          liquidWave,
	visual.PulsingBlackHole:    pulsingBlackHole,
	visual.AizawaAttractor:     aizawa,
	visual.ThomasAttractor:     thomas,
	visual.CliffordAttractor:   clifford,
	visual.KochSnowflake:       kochSnowflake,
	visual.AstroidEllipsoid:    astroidEllipsoid,
	visual.ButterflyCurve:      butterflyCurve,
	visual.ArchimedeanSpiral:   archimedeanSpiral,
	visual.CatenarySurface:     catenarySurface,
	visual.BernoulliLemniscate: bernoulliLemniscate,
}

// Generate returns 3·count coordinates for kind using a freshly seeded source.
func Generate(kind visual.Shape, count int, chaos float64) []float32 {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	return GenerateRand(rng, kind, count, chaos)
}

// GenerateRand is Generate with an explicit random source. Unknown kinds fall
// back to a uniform cube fill; count <= 0 yields an empty buffer.
func GenerateRand(rng *rand.Rand, kind visual.Shape, count int, chaos float64) []float32 {
	if count <= 0 {
		return []float32{}
	}

	fn := cubeFill
	if kind.Valid() {
		fn = formulas[kind]
	}

	s := &sample{rng: rng, count: count, chaos: chaos}
	out := make([]float32, count*3)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(count)
		r1 := rng.Float64()
		r2 := rng.Float64()
		r3 := rng.Float64()

		p := fn(s, i, t, r1, r2, r3)
		out[i*3] = float32(p[0])
		out[i*3+1] = float32(p[1])
		out[i*3+2] = float32(p[2])
	}
	return out
}

// jitter draws one zero-mean offset of width amp·chaos.
func (s *sample) jitter(amp float64) float64 {
	return (s.rng.Float64() - 0.5) * amp * s.chaos
}

func (s *sample) jitter3(amp float64) mgl64.Vec3 {
	return mgl64.Vec3{s.jitter(amp), s.jitter(amp), s.jitter(amp)}
}

// lerp maps v in [0,1] onto [lo,hi].
func lerp(v, lo, hi float64) float64 { return lo + v*(hi-lo) }

// spherical follows the y-up convention: phi is the polar angle from +y and
// theta the azimuth around it.
func spherical(r, phi, theta float64) mgl64.Vec3 {
	sp := math.Sin(phi)
	return mgl64.Vec3{r * sp * math.Sin(theta), r * math.Cos(phi), r * sp * math.Cos(theta)}
}

func cubeFill(_ *sample, _ int, _, r1, r2, r3 float64) mgl64.Vec3 {
	const half = 15
	return mgl64.Vec3{lerp(r1, -half, half), lerp(r2, -half, half), lerp(r3, -half, half)}
}
