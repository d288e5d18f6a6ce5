package visual

// Shape identifies one procedural point-cloud generator. The catalog is closed:
// values outside [0, ShapeCount) are representable but have no formula of their own.
type Shape uint8

const (
	Sphere Shape = iota
	GalaxySpiral
	LorenzAttractor
	MobiusStrip
	MengerSponge
	PenroseTriangle
	CardioidHeart
	DNAHelix
	CubeGrid
	Torus
	KleinBottle
	VoxelGrid
	CyberFlower
	LiquidWave
	PulsingBlackHole
	AizawaAttractor
	ThomasAttractor
	CliffordAttractor
	KochSnowflake
	AstroidEllipsoid
	ButterflyCurve
	ArchimedeanSpiral
	CatenarySurface
	BernoulliLemniscate

	ShapeCount
)

var shapeNames = [ShapeCount]string{
	Sphere:              "SPHERE",
	GalaxySpiral:        "GALAXY_SPIRAL",
	LorenzAttractor:     "LORENZ_ATTRACTOR",
	MobiusStrip:         "MOBIUS_STRIP",
	MengerSponge:        "MENGER_SPONGE_APPROX",
	PenroseTriangle:     "PENROSE_TRIANGLE_APPROX",
	CardioidHeart:       "CARDIOID_HEART",
	DNAHelix:            "DNA_HELIX",
	CubeGrid:            "CUBE_GRID",
	Torus:               "TORUS",
	KleinBottle:         "KLEIN_BOTTLE",
	VoxelGrid:           "VOXEL_GRID",
	CyberFlower:         "CYBER_FLOWER",
	LiquidWave:          "LIQUID_WAVE",
	PulsingBlackHole:    "PULSING_BLACK_HOLE",
	AizawaAttractor:     "AIZAWA_ATTRACTOR",
	ThomasAttractor:     "THOMAS_ATTRACTOR",
	CliffordAttractor:   "CLIFFORD_ATTRACTOR",
	KochSnowflake:       "KOCH_SNOWFLAKE",
	AstroidEllipsoid:    "ASTROID_ELLIPSOID",
	ButterflyCurve:      "BUTTERFLY_CURVE",
	ArchimedeanSpiral:   "ARCHIMEDEAN_SPIRAL",
	CatenarySurface:     "CATENARY_SURFACE",
	BernoulliLemniscate: "BERNOULLI_LEMNISCATE",
}

var shapeLabels = [ShapeCount]string{
	Sphere:              "Cosmic Sphere",
	GalaxySpiral:        "Andromeda Spiral",
	LorenzAttractor:     "Lorenz Chaos",
	MobiusStrip:         "Infinity Loop",
	MengerSponge:        "Quantum Fractal",
	PenroseTriangle:     "Impossible Triangle",
	CardioidHeart:       "Heartbeat",
	DNAHelix:            "Life Helix",
	CubeGrid:            "Matrix Grid",
	Torus:               "Flux Torus",
	KleinBottle:         "Klein Manifold",
	VoxelGrid:           "Digital Voxel",
	CyberFlower:         "Neon Lotus",
	LiquidWave:          "Sonic Rain",
	PulsingBlackHole:    "Event Horizon",
	AizawaAttractor:     "Aizawa Nebula",
	ThomasAttractor:     "Thomas Cycler",
	CliffordAttractor:   "Clifford Field",
	KochSnowflake:       "Koch Fractal",
	AstroidEllipsoid:    "Hyper Star",
	ButterflyCurve:      "Chaos Butterfly",
	ArchimedeanSpiral:   "Golden Spiral",
	CatenarySurface:     "Catenoid Tube",
	BernoulliLemniscate: "Infinity Ribbon",
}

// Valid reports whether s is a member of the catalog.
func (s Shape) Valid() bool { return s < ShapeCount }

// String returns the wire name used by the mood service.
func (s Shape) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return shapeNames[s]
}

// Label returns the display name.
func (s Shape) Label() string {
	if !s.Valid() {
		return "Unknown"
	}
	return shapeLabels[s]
}

// ParseShape maps a wire name back to its Shape.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return 0, false
}

// AllShapes returns the catalog in declaration order.
func AllShapes() []Shape {
	out := make([]Shape, ShapeCount)
	for i := range out {
		out[i] = Shape(i)
	}
	return out
}

// ShapeNames returns every wire name in declaration order.
func ShapeNames() []string {
	out := make([]string, ShapeCount)
	copy(out, shapeNames[:])
	return out
}
