package game

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/iburimskiy/particle-morph/internal/animation"
	"github.com/iburimskiy/particle-morph/internal/particles"
	"github.com/iburimskiy/particle-morph/internal/visual"
)

func TestHsvToRgb(t *testing.T) {
	tests := []struct {
		h       float64
		r, g, b uint8
	}{
		{0, 255, 0, 0},
		{120, 0, 255, 0},
		{240, 0, 0, 255},
		{360, 255, 0, 0},
		{-120, 0, 0, 255},
	}
	for _, tt := range tests {
		r, g, b := hsvToRgb(tt.h, 1, 1)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("hsvToRgb(%v) = %d,%d,%d want %d,%d,%d", tt.h, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		0:                                    "00:00",
		59 * time.Second:                     "00:59",
		3*time.Minute + 7*time.Second:        "03:07",
		72*time.Minute + 500*time.Millisecond: "72:00",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Fatalf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestBandLevels(t *testing.T) {
	mags := make([]byte, 256)
	for i := range mags {
		if i < 128 {
			mags[i] = 255
		}
	}
	got := bandLevels(nil, mags, 4)
	want := []float64{1, 1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bandLevels = %v, want %v", got, want)
		}
	}

	// fewer bins than bands
	got = bandLevels(got, []byte{255, 0}, 4)
	if len(got) != 4 || got[0] != 1 || got[3] != 0 {
		t.Fatalf("short input = %v", got)
	}

	got = bandLevels(got, nil, 4)
	for _, v := range got {
		if v != 0 {
			t.Fatalf("empty input = %v", got)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	if smoothstep(0, 1, -1) != 0 || smoothstep(0, 1, 2) != 1 || smoothstep(0, 1, 0.5) != 0.5 {
		t.Fatalf("rising smoothstep wrong")
	}
	// falling edge as used for depth fade
	if smoothstep(120, 20, 10) != 1 || smoothstep(120, 20, 200) != 0 {
		t.Fatalf("falling smoothstep wrong")
	}
}

func TestPointerGesture(t *testing.T) {
	tests := []struct {
		name string
		in   pointerState
		want visual.GestureState
	}{
		{
			name: "idle",
			in:   pointerState{X: 10, Y: 10, Width: 100, Height: 100},
		},
		{
			name: "touch at top right",
			in:   pointerState{X: 75, Y: 25, Width: 100, Height: 100, Touch: true},
			want: visual.GestureState{Right: visual.RightHand{Active: true, X: 0.5, Y: 0.5, Gesture: visual.GestureTouch}},
		},
		{
			name: "rain wins over touch",
			in:   pointerState{X: 50, Y: 50, Width: 100, Height: 100, Touch: true, Rain: true},
			want: visual.GestureState{Right: visual.RightHand{Active: true, Gesture: visual.GestureRain}},
		},
		{
			name: "grip",
			in:   pointerState{Width: 100, Height: 100, Grip: true},
			want: visual.GestureState{Left: visual.LeftHand{Active: true, IsFist: true, Strength: 1}},
		},
		{
			name: "blast",
			in:   pointerState{Width: 100, Height: 100, Blast: true},
			want: visual.GestureState{Left: visual.LeftHand{Active: true, Strength: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.gesture(); got != tt.want {
				t.Fatalf("gesture() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOrbitCamera(t *testing.T) {
	cam := newOrbitCamera(100, 45, 60)
	eye := cam.Eye()
	if math.Abs(float64(eye.Z())-100) > 1e-4 || math.Abs(float64(eye.X())) > 1e-4 {
		t.Fatalf("default eye = %v, want on +z", eye)
	}

	cam.Orbit(1, 5)
	if cam.targetPitch != maxPitch {
		t.Fatalf("pitch not clamped: %v", cam.targetPitch)
	}
	for i := 0; i < 600; i++ {
		cam.Update()
	}
	if math.Abs(cam.yaw+1) > 1e-3 || math.Abs(cam.pitch-maxPitch) > 1e-3 {
		t.Fatalf("camera settled at yaw %v pitch %v", cam.yaw, cam.pitch)
	}
}

func testPool(n int) *particles.Pool {
	p := &particles.Pool{
		Positions:   make([]float32, n*3),
		Scales:      make([]float32, n),
		Sprites:     make([]particles.Sprite, n),
		FlashSpeeds: make([]float32, n),
		Indices:     make([]uint32, n),
	}
	for i := 0; i < n; i++ {
		p.Scales[i] = 1
		p.FlashSpeeds[i] = 1
		p.Indices[i] = uint32(i)
	}
	return p
}

func calmSignals(visible int) animation.Signals {
	return animation.Signals{
		Shrink:       1,
		Colors:       visual.DefaultPalette,
		VisibleCount: visible,
		Size:         1,
		Brightness:   1,
	}
}

func TestRendererBuild(t *testing.T) {
	r := NewRenderer(newOrbitCamera(100, 45, 60), 1)
	pool := testPool(10)
	pool.Positions[3*3+2] = 200 // behind the camera

	r.build(pool, calmSignals(5), 800, 600)
	if r.quads != 4 {
		t.Fatalf("quads = %d, want 4 (5 visible, 1 culled)", r.quads)
	}
	if len(r.vertices) != r.quads*4 {
		t.Fatalf("vertices = %d", len(r.vertices))
	}

	var cx, cy float32
	for _, v := range r.vertices[:4] {
		cx += v.DstX / 4
		cy += v.DstY / 4
	}
	if math.Abs(float64(cx-400)) > 1e-3 || math.Abs(float64(cy-300)) > 1e-3 {
		t.Fatalf("origin projected to (%v,%v), want screen center", cx, cy)
	}

	r.build(pool, calmSignals(50), 800, 600)
	if r.quads != 9 {
		t.Fatalf("visible count above capacity: quads = %d, want 9", r.quads)
	}
}

func TestDisplaceGrip(t *testing.T) {
	sig := calmSignals(1)
	sig.Grip = 1
	p, _, _ := displace(1, mgl32.Vec3{10, 0, 0}, particles.SpriteDot, 1, 1, sig)
	want := mgl32.Vec3{0.5, 0.5, 0}
	if !p.ApproxEqualThreshold(want, 1e-4) {
		t.Fatalf("grip = %v, want %v", p, want)
	}

	sig.Grip = -1
	p, _, _ = displace(1, mgl32.Vec3{10, 0, 0}, particles.SpriteDot, 1, 1, sig)
	if p.Len() < 49 {
		t.Fatalf("blast did not push outward: %v", p)
	}
}

func TestDisplaceRain(t *testing.T) {
	sig := calmSignals(10)
	sig.Rain = 1
	sig.Time = 3

	want, _ := rainPosition(5, 1, 3)
	p, _, _ := displace(5, mgl32.Vec3{1, 2, 3}, particles.SpriteDot, 1, 1, sig)
	if !p.ApproxEqualThreshold(want, 1e-3) {
		t.Fatalf("rain particle at %v, want %v", p, want)
	}

	// only every fifth particle rains
	p, _, _ = displace(6, mgl32.Vec3{1, 2, 3}, particles.SpriteDot, 1, 1, sig)
	if !p.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-4) {
		t.Fatalf("non-rain particle moved to %v", p)
	}
}

func TestRainStaysInCurtain(t *testing.T) {
	for i := 0; i < 500; i++ {
		for _, tm := range []float64{0, 7.5, 130} {
			p, size := rainPosition(float64(i), 0.75, tm)
			if p.Y() < rainFloor-0.001 || p.Y() > rainCeiling+0.001 {
				t.Fatalf("rain y = %v out of range", p.Y())
			}
			if size < 1 || size > 4 {
				t.Fatalf("splash size %v", size)
			}
		}
	}
}

func TestSpriteMasks(t *testing.T) {
	if dotAlpha(0.5, 0.5) != 1 || dotAlpha(0, 0) != 0 {
		t.Fatalf("dot mask wrong")
	}
	// note heads
	if note1Alpha(0.35, 0.3) < 0.9 || note2Alpha(0.25, 0.25) < 0.9 {
		t.Fatalf("note heads not filled")
	}
	if note1Alpha(0.05, 0.95) != 0 {
		t.Fatalf("note1 corner not empty")
	}
}

func TestGradientQuad(t *testing.T) {
	top := visual.Color{R: 1}
	bottom := visual.Color{B: 0.5}
	v := gradientQuad(top, bottom, 1280, 720)

	for i, want := range [4][2]float32{{0, 0}, {1280, 0}, {0, 720}, {1280, 720}} {
		if v[i].DstX != want[0] || v[i].DstY != want[1] {
			t.Fatalf("vertex %d at (%v,%v), want %v", i, v[i].DstX, v[i].DstY, want)
		}
	}
	if v[0].ColorR != 1 || v[1].ColorR != 1 || v[0].ColorB != 0 {
		t.Fatalf("top vertices = %+v %+v", v[0], v[1])
	}
	if v[2].ColorB != 0.5 || v[3].ColorB != 0.5 || v[3].ColorR != 0 {
		t.Fatalf("bottom vertices = %+v %+v", v[2], v[3])
	}
	for _, i := range quadIndices {
		if int(i) >= len(v) {
			t.Fatalf("index %d out of range", i)
		}
	}
}
