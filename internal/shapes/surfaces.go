package shapes

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func sphere(s *sample, _ int, _, r1, r2, r3 float64) mgl64.Vec3 {
	theta := 2 * math.Pi * r1
	phi := math.Acos(2*r2 - 1)
	radius := 10 + r3*s.chaos*5
	return spherical(radius, phi, theta)
}

func galaxySpiral(s *sample, _ int, t, r1, r2, r3 float64) mgl64.Vec3 {
	arms := 3 + math.Floor(s.chaos*4)
	spin := t * arms * 2 * math.Pi
	distance := math.Sqrt(r1) * 20
	armOffset := math.Floor(r2*arms) / arms * 2 * math.Pi
	p := mgl64.Vec3{
		math.Cos(spin+armOffset) * distance,
		(r3 - 0.5) * distance * 0.2 * (1 + s.chaos),
		math.Sin(spin+armOffset) * distance,
	}
	p[0] += s.jitter(2)
	p[2] += s.jitter(2)
	return p
}

func mobiusStrip(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const radius = 10
	u := r1 * 2 * math.Pi
	v := lerp(r2, -1, 1) * (1 + s.chaos)
	return mgl64.Vec3{
		(radius + v/2*math.Cos(u/2)) * math.Cos(u),
		(radius + v/2*math.Cos(u/2)) * math.Sin(u),
		v / 2 * math.Sin(u/2) * 5,
	}
}

// mengerCells lists the 20 sub-cubes of a 3×3×3 block that survive one
// sponge iteration: those with at most one coordinate in the middle slab.
var mengerCells = func() [][3]int {
	var cells [][3]int
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				middles := 0
				for _, c := range [3]int{x, y, z} {
					if c == 1 {
						middles++
					}
				}
				if middles <= 1 {
					cells = append(cells, [3]int{x, y, z})
				}
			}
		}
	}
	return cells
}()

func mengerSponge(s *sample, _ int, _, r1, _, _ float64) mgl64.Vec3 {
	const size = 20
	n := len(mengerCells)
	pick := int(r1 * float64(n*n))
	if pick >= n*n {
		pick = n*n - 1
	}
	outer := mengerCells[pick/n]
	inner := mengerCells[pick%n]

	// Level-2 cells are 1/9 of the block edge; chaos 0 sits on their centers.
	cell := 2.0 * size / 9
	var p mgl64.Vec3
	for a := 0; a < 3; a++ {
		idx := float64(outer[a]*3 + inner[a])
		p[a] = -size + (idx+0.5)*cell + s.jitter(cell)
	}
	return p
}

func penroseTriangle(s *sample, i int, _, r1, r2, r3 float64) mgl64.Vec3 {
	pos := lerp(r1, -10, 10)
	thickness := 2 + s.chaos*4
	dy := (r2 - 0.5) * thickness
	dz := (r3 - 0.5) * thickness
	switch i % 3 {
	case 0:
		return mgl64.Vec3{pos, -10 + dy, dz}
	case 1:
		return mgl64.Vec3{10 - (pos+10)/2, -10 + (pos+10)*0.866 + dy, dz}
	default:
		return mgl64.Vec3{-10 + (pos+10)/2, -10 + (pos+10)*0.866 + dy, dz}
	}
}

func cardioidHeart(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const scale = 1.5
	u := r1 * math.Pi
	v := r2 * 2 * math.Pi
	sv3 := math.Pow(math.Sin(v), 3)
	p := mgl64.Vec3{
		scale * 16 * sv3 * math.Sin(u),
		scale * (13*math.Cos(v) - 5*math.Cos(2*v) - 2*math.Cos(3*v) - math.Cos(4*v)),
		scale * 16 * sv3 * math.Cos(u),
	}
	return p.Add(s.jitter3(3))
}

func dnaHelix(s *sample, i int, t, _, _, r3 float64) mgl64.Vec3 {
	const (
		turns  = 5
		radius = 6
	)
	h := lerp(t, -15, 15)
	angle := t * 2 * math.Pi * turns
	strand := 0.0
	if i%2 == 1 {
		strand = math.Pi
	}
	off := (r3 - 0.5) * s.chaos * 2
	return mgl64.Vec3{
		math.Cos(angle+strand)*radius + off,
		h * 2,
		math.Sin(angle+strand)*radius + off,
	}
}

// cubeGrid places points along the edges of a 4×4×4 lattice.
func cubeGrid(s *sample, _ int, _, r1, r2, r3 float64) mgl64.Vec3 {
	const (
		half   = 15
		levels = 4
	)
	snap := func(r float64) float64 {
		l := math.Min(math.Floor(r*levels), levels-1)
		return lerp(l/(levels-1), -half, half)
	}
	axis := int(math.Min(r1*3, 2))
	along := lerp(s.rng.Float64(), -half, half)

	var p mgl64.Vec3
	p[axis] = along
	p[(axis+1)%3] = snap(r2)
	p[(axis+2)%3] = snap(r3)
	return p.Add(s.jitter3(3))
}

func torus(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const major = 15
	minor := 5 + s.chaos*3
	u := r1 * 2 * math.Pi
	v := r2 * 2 * math.Pi
	return mgl64.Vec3{
		(major + minor*math.Cos(v)) * math.Cos(u),
		(major + minor*math.Cos(v)) * math.Sin(u),
		minor * math.Sin(v),
	}
}

func kleinBottle(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const tube = 6
	u := r1 * 2 * math.Pi
	v := r2 * 2 * math.Pi
	cu, su := math.Cos(u/2), math.Sin(u/2)
	sv, s2v := math.Sin(v), math.Sin(2*v)
	w := tube + cu*sv - su*s2v
	p := mgl64.Vec3{w * math.Cos(u), su*sv + cu*s2v, w * math.Sin(u)}.Mul(2)
	return p.Add(s.jitter3(2))
}

func voxelGrid(s *sample, _ int, _, r1, r2, r3 float64) mgl64.Vec3 {
	const (
		size  = 25
		steps = 6
	)
	step := size * 2.0 / steps
	snap := func(v float64) float64 { return math.Round(v/step) * step }
	p := mgl64.Vec3{
		snap(lerp(r1, -size, size)),
		snap(lerp(r2, -size, size)),
		snap(lerp(r3, -size, size)),
	}
	return p.Add(s.jitter3(2))
}

func cyberFlower(s *sample, i int, _, r1, r2, _ float64) mgl64.Vec3 {
	const petals = 5
	theta := r1 * 2 * math.Pi
	phi := r2 * math.Pi
	r := 15 + 10*math.Sin(petals*theta)*math.Sin(petals*phi) + s.jitter(4)
	p := spherical(r, phi, theta)
	if i%10 == 0 {
		p = p.Mul(0.2)
	}
	return p
}

func liquidWave(s *sample, i int, _, _, _, _ float64) mgl64.Vec3 {
	const size = 40
	cols := int(math.Sqrt(float64(s.count)))
	if cols < 1 {
		cols = 1
	}
	row := i / cols
	col := i % cols
	spread := 1 + s.chaos*3
	return mgl64.Vec3{
		lerp(float64(col)/float64(cols), -size, size) + (s.rng.Float64()-0.5)*spread,
		0,
		lerp(float64(row)/float64(cols), -size, size) + (s.rng.Float64()-0.5)*spread,
	}
}

// pulsingBlackHole puts the first fifth of the cloud in a dense core and the
// rest in a twisted accretion disk that thins with distance.
func pulsingBlackHole(s *sample, i int, _, r1, r2, r3 float64) mgl64.Vec3 {
	if float64(i) < float64(s.count)*0.2 {
		theta := r1 * 2 * math.Pi
		phi := math.Acos(2*r2 - 1)
		return spherical(5+r3*(0.5+s.chaos), phi, theta)
	}
	angle := r1 * 2 * math.Pi
	dist := 8 + r2*25
	height := 10 / dist * (1 + s.chaos)
	x := math.Cos(angle) * dist
	z := math.Sin(angle) * dist
	twist := dist * 0.2
	return mgl64.Vec3{
		x*math.Cos(twist) - z*math.Sin(twist),
		(r3 - 0.5) * height,
		x*math.Sin(twist) + z*math.Cos(twist),
	}
}

// kochSnowflake distorts a sphere with a spiky spherical harmonic.
func kochSnowflake(s *sample, _ int, _, r1, r2, r3 float64) mgl64.Vec3 {
	const spikes = 6
	theta := r1 * 2 * math.Pi
	phi := r2 * math.Pi
	harmonic := math.Sqrt(math.Abs(math.Sin(spikes*theta) * math.Cos(spikes*phi)))
	r := 12 + harmonic*10*(0.5+r3) + s.jitter(4)
	return spherical(r, phi, theta)
}

func astroidEllipsoid(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const a = 18
	u := r1 * 2 * math.Pi
	v := lerp(r2, -math.Pi/2, math.Pi/2)
	cv3 := math.Pow(math.Cos(v), 3)
	p := mgl64.Vec3{
		a * math.Pow(math.Cos(u), 3) * cv3,
		a * math.Pow(math.Sin(u), 3) * cv3,
		a * math.Pow(math.Sin(v), 3),
	}
	return p.Add(s.jitter3(2))
}

// butterflyCurve extrudes Fay's butterfly curve into a slab.
func butterflyCurve(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	theta := r1 * math.Pi * 12
	r := (math.Exp(math.Sin(theta)) - 2*math.Cos(4*theta) + math.Pow(math.Sin((2*theta-math.Pi)/24), 5)) * 3
	depth := lerp(r2, -5, 5) * (1 + math.Abs(r)*0.1) * (1 + s.chaos)
	return mgl64.Vec3{r * math.Cos(theta), r * math.Sin(theta), depth}
}

var faceCamera = mgl64.Rotate3DX(math.Pi / 2)

func archimedeanSpiral(s *sample, _ int, t, _, r2, _ float64) mgl64.Vec3 {
	const loops = 10
	theta := t * loops * 2 * math.Pi
	r := 1 + 0.5*theta
	tube := 3 + s.chaos*2
	a := r2 * 2 * math.Pi
	p := mgl64.Vec3{
		r*math.Cos(theta) + math.Cos(a)*tube,
		r*math.Sin(theta) + math.Sin(a)*tube,
		t*40 - 20,
	}
	return faceCamera.Mul3x1(p)
}

func catenarySurface(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const c = 6
	u := r1 * 2 * math.Pi
	v := lerp(r2, -12, 12)
	radius := c * math.Cosh(v/c)
	p := mgl64.Vec3{radius * math.Cos(u), v * 2.5, radius * math.Sin(u)}
	return p.Add(s.jitter3(2))
}

// bernoulliLemniscate is a figure-eight ribbon twisted along its length.
func bernoulliLemniscate(s *sample, _ int, _, r1, r2, _ float64) mgl64.Vec3 {
	const a = 20
	theta := r1 * 2 * math.Pi
	st := math.Sin(theta)
	den := 1 + st*st
	x := a * math.Sqrt2 * math.Cos(theta) / den
	y := a * math.Sqrt2 * math.Cos(theta) * st / den

	thickness := (2 + math.Abs(x)*0.1) * (1 + s.chaos)
	z := (r2 - 0.5) * thickness * 4
	twist := x * 0.1
	return mgl64.Vec3{x, y, z*math.Cos(twist) - y*math.Sin(twist)}
}
