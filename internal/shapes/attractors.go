package shapes

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Reseed strides: every stride-th particle restarts the trajectory from a
// perturbed seed point.
const (
	LorenzStride   = 500
	AizawaStride   = 500
	ThomasStride   = 1000
	CliffordStride = 500
)

// reseed restarts the attractor at base with x perturbed by a uniform offset
// of width spread. It always consumes exactly one random number.
func (s *sample) reseed(i, stride int, base mgl64.Vec3, spread float64) {
	if i%stride != 0 {
		return
	}
	s.att = base
	s.att[0] += (s.rng.Float64() - 0.5) * spread
}

func lorenz(s *sample, i int, _, _, _, _ float64) mgl64.Vec3 {
	const (
		dt    = 0.005
		sigma = 10.0
		rho   = 28.0
		beta  = 8.0 / 3
	)
	s.reseed(i, LorenzStride, mgl64.Vec3{0.1, 0.1, 0.1}, 10)

	x, y, z := s.att[0], s.att[1], s.att[2]
	s.att = s.att.Add(mgl64.Vec3{
		sigma * (y - x),
		x*(rho-z) - y,
		x*y - beta*z,
	}.Mul(dt))

	p := mgl64.Vec3{s.att[0], s.att[1], s.att[2] - 25}.Mul(0.8)
	return p.Add(s.jitter3(1.5))
}

func aizawa(s *sample, i int, _, _, _, _ float64) mgl64.Vec3 {
	const (
		dt = 0.01
		a  = 0.95
		b  = 0.7
		c  = 0.6
		d  = 3.5
		e  = 0.25
		f  = 0.1
	)
	s.reseed(i, AizawaStride, mgl64.Vec3{0.1, 0, 0}, 2)

	x, y, z := s.att[0], s.att[1], s.att[2]
	s.att = s.att.Add(mgl64.Vec3{
		(z-b)*x - d*y,
		d*x + (z-b)*y,
		c + a*z - z*z*z/3 - (x*x+y*y)*(1+e*z) + f*z*x*x*x,
	}.Mul(dt))

	return s.att.Mul(15).Add(s.jitter3(1.5))
}

func thomas(s *sample, i int, _, _, _, _ float64) mgl64.Vec3 {
	const (
		dt = 0.05
		b  = 0.208186
	)
	s.reseed(i, ThomasStride, mgl64.Vec3{0.1, 0.1, 0.1}, 2)

	x, y, z := s.att[0], s.att[1], s.att[2]
	s.att = s.att.Add(mgl64.Vec3{
		math.Sin(y) - b*x,
		math.Sin(z) - b*y,
		math.Sin(x) - b*z,
	}.Mul(dt))

	return s.att.Mul(32).Add(s.jitter3(2))
}

// clifford integrates the cyclically symmetric quadratic flow
// dx = -a·x - 4y - 4z - y².
func clifford(s *sample, i int, _, _, _, _ float64) mgl64.Vec3 {
	const (
		dt = 0.005
		a  = 1.4
	)
	s.reseed(i, CliffordStride, mgl64.Vec3{1, 0, 0}, 1)

	x, y, z := s.att[0], s.att[1], s.att[2]
	s.att = s.att.Add(mgl64.Vec3{
		-a*x - 4*y - 4*z - y*y,
		-a*y - 4*z - 4*x - z*z,
		-a*z - 4*x - 4*y - x*x,
	}.Mul(dt))

	return s.att.Mul(6).Add(s.jitter3(1.5))
}
