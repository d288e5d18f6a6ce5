package game

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-morph/internal/animation"
	"github.com/iburimskiy/particle-morph/internal/particles"
	"github.com/iburimskiy/particle-morph/internal/visual"
)

const (
	spriteSize = 32
	// quads per DrawTriangles call; 4 vertices each must fit uint16 indices
	batchQuads = 16000

	// pixels per unit of point size at the reference distance
	pointScale   = 2.0
	referenceFOV = 150.0

	touchRadius   = 30.0
	rainFloor     = -35.0
	rainCeiling   = 55.0
	rainSplash    = 5.0
	rainSplashTop = -30.0
)

var (
	rainBlue = visual.Color{R: 0.6, G: 0.9, B: 1.0}
	white    = visual.Color{R: 1, G: 1, B: 1}
)

// Renderer draws the particle pool as additive sprites. Projection, shape
// animation and hand effects run on the CPU each frame.
type Renderer struct {
	cam   *orbitCamera
	noise *perlin.Perlin

	atlas  *ebiten.Image
	canvas *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
	quads    int
}

func NewRenderer(cam *orbitCamera, seed int64) *Renderer {
	r := &Renderer{
		cam:   cam,
		noise: perlin.NewPerlin(2, 2, 2, seed),
	}
	r.indices = make([]uint16, 0, batchQuads*6)
	for q := 0; q < batchQuads; q++ {
		b := uint16(q * 4)
		r.indices = append(r.indices, b, b+1, b+2, b+1, b+3, b+2)
	}
	return r
}

// Draw renders the first sig.VisibleCount particles of pool onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, pool *particles.Pool, sig animation.Signals) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if r.atlas == nil {
		r.atlas = ebiten.NewImageFromImage(spriteAtlas())
	}
	if r.canvas == nil || r.canvas.Bounds().Dx() != w || r.canvas.Bounds().Dy() != h {
		r.canvas = ebiten.NewImage(w, h)
	}

	// Trails: fade the previous frame instead of clearing it.
	fade := clamp01(1 - sig.Trail*0.85)
	vector.DrawFilledRect(r.canvas, 0, 0, float32(w), float32(h), color.RGBA{A: uint8(fade * 255)}, false)

	r.build(pool, sig, w, h)

	op := &ebiten.DrawTrianglesOptions{Blend: ebiten.BlendLighter}
	for start := 0; start < r.quads; start += batchQuads {
		n := min(batchQuads, r.quads-start)
		r.canvas.DrawTriangles(r.vertices[start*4:(start+n)*4], r.indices[:n*6], r.atlas, op)
	}

	screen.DrawImage(r.canvas, &ebiten.DrawImageOptions{Blend: ebiten.BlendLighter})
}

// build fills r.vertices with one quad per visible particle in front of the
// camera.
func (r *Renderer) build(pool *particles.Pool, sig animation.Signals, w, h int) {
	view := r.cam.View()
	proj := r.cam.Projection(float64(w) / float64(h))

	n := min(sig.VisibleCount, pool.Cap())
	r.vertices = r.vertices[:0]
	r.quads = 0

	beatSignal := smoothstep(1, 2.8, sig.Beat)
	for i := 0; i < n; i++ {
		sprite := pool.Sprites[i]
		scale := float64(pool.Scales[i])
		p := mgl32.Vec3{pool.Positions[i*3], pool.Positions[i*3+1], pool.Positions[i*3+2]}

		p, rot, sizeFactor := displace(i, p, sprite, scale, float64(pool.FlashSpeeds[i]), sig)

		mv := view.Mul4x1(p.Vec4(1))
		depth := float64(-mv.Z())
		if depth <= nearPlane {
			continue
		}
		clip := proj.Mul4x1(mv)
		sx := (float64(clip.X()/clip.W()) + 1) * 0.5 * float64(w)
		sy := (1 - float64(clip.Y()/clip.W())) * 0.5 * float64(h)

		pulse := 1 + math.Sin(sig.Time*3+scale*10)*0.3 + beatSignal*0.8
		mult := 1.0
		if sprite != particles.SpriteDot {
			mult = 3
		}
		size := sig.Size * scale * mult * pulse * (referenceFOV / depth) * sizeFactor * pointScale
		if size < 1 {
			size = 1
		}

		c := r.shade(i, p, sprite, depth, beatSignal, sig)
		r.appendQuad(sx, sy, size, rot, sprite, c)
	}
}

// displace applies flow, shape-mode animation and hand effects to one particle.
// It returns the new position, the sprite rotation and a size multiplier.
func displace(i int, p mgl32.Vec3, sprite particles.Sprite, scale, flash float64, sig animation.Signals) (mgl32.Vec3, float64, float64) {
	t := sig.Time * 0.5
	rot := 0.0
	sizeFactor := 1.0

	if sprite != particles.SpriteDot {
		nt := sig.Time*0.3 + scale*100
		drift := mgl32.Vec3{
			float32(math.Sin(nt*0.7) * 20),
			float32(math.Cos(nt*0.5) * 20),
			float32(math.Sin(nt*0.9) * 20),
		}
		p = p.Add(drift.Mul(0.8))
		rot = sig.Time*(0.5+flash) + scale*10
	} else {
		flow := mgl32.Vec3{
			float32(math.Sin(float64(p.Y())*0.05+t*0.8) * 0.5),
			float32(math.Cos(float64(p.Z())*0.04+t*0.6) * 0.5),
			float32(math.Sin(float64(p.X())*0.05+t*0.7) * 0.5),
		}
		p = p.Add(flow.Mul(float32(sig.Warp)))
	}

	p = p.Mul(float32(sig.Shrink))

	switch sig.Mode {
	case animation.ModeRipple:
		dist := math.Hypot(float64(p.X()), float64(p.Z()))
		wave := math.Sin(dist*0.3 - sig.Time*2)
		p[1] += float32(wave * (2 + sig.Beat*2))
	case animation.ModeFlower:
		angle := sig.Time*0.2 + float64(p.Y())*0.05
		s, c := math.Sincos(angle)
		x, z := float64(p.X()), float64(p.Z())
		p[0] = float32(x*c - z*s)
		p[2] = float32(x*s + z*c)
		p = p.Add(unit(p).Mul(float32(sig.Beat * 3)))
	case animation.ModePulse:
		if p.Len() < 7 {
			breathe := 1 + math.Sin(sig.Time*1.5)*0.1
			p = p.Mul(float32(breathe + math.Sin(sig.Time*20)*sig.Beat*0.2))
		} else {
			p[1] += float32(math.Sin(float64(p.X())*0.2+sig.Time) * sig.Beat)
		}
	default:
		if sprite == particles.SpriteDot {
			dist := float64(p.Len())
			push := sig.Beat * (math.Sin(dist*0.1-sig.Time)*0.5 + 0.5) * 1.5
			p = p.Add(unit(p).Mul(float32(push)))
		}
	}

	switch {
	case sig.Grip > 0.01:
		p = p.Mul(float32(1 - sig.Grip*0.95))
		shake := mgl32.Vec3{
			float32(math.Sin(t * 50)),
			float32(math.Cos(t * 45)),
			float32(math.Sin(t * 60)),
		}
		p = p.Add(shake.Mul(float32(0.5 * sig.Grip)))
	case sig.Grip < -0.01:
		blast := -sig.Grip
		p = p.Add(unit(p).Mul(float32(blast * 40)))
		s, c := math.Sincos(blast * 3)
		x, y := float64(p.X()), float64(p.Y())
		p[0] = float32(c*x - s*y)
		p[1] = float32(s*x + c*y)
	}

	if sig.TouchActive {
		dx, dy := float64(p.X())-sig.Touch[0], float64(p.Y())-sig.Touch[1]
		if d := math.Hypot(dx, dy); d < touchRadius {
			decay := smoothstep(touchRadius, 0, d)
			ripple := math.Sin(d*3 - sig.Time*15)
			strength := 5 * decay
			p[2] += float32(ripple * strength)
			if d > 0.1 {
				k := ripple * strength * 0.2 / d
				p[0] += float32(dx * k)
				p[1] += float32(dy * k)
			}
		}
	}

	if sig.Rain > 0.01 && i%5 == 0 {
		rain, sf := rainPosition(float64(i), scale, sig.Time)
		p = lerp3(p, rain, sig.Rain)
		sizeFactor = sf
	}

	return p, rot, sizeFactor
}

// rainPosition is where particle i sits in the falling curtain at time t.
func rainPosition(i, scale, t float64) (mgl32.Vec3, float64) {
	x := (hash01(i) - 0.5) * 200
	z := (hash01(i+42) - 0.5) * 100

	fallSpeed := 1 + scale*1.5
	cycle := rainCeiling - rainFloor + rainSplash
	tFall := t*fallSpeed + hash01(i*13)*100
	y := rainCeiling - math.Mod(tFall, cycle)

	sizeFactor := 1.0
	if y < rainFloor {
		progress := clamp01((rainFloor - y) / rainSplash)
		bounce := math.Sin(progress * math.Pi)
		y = rainFloor + bounce*10
		angle := scale * 62.8
		x += math.Cos(angle) * progress * 35
		z += math.Sin(angle) * progress * 35
		sizeFactor = 1 + bounce*3
	}
	return mgl32.Vec3{float32(x), float32(y), float32(z)}, sizeFactor
}

// shade mixes the three signal colors with two noise octaves and applies
// depth fade, beat flash and hand overlays.
func (r *Renderer) shade(i int, p mgl32.Vec3, sprite particles.Sprite, depth, beatSignal float64, sig animation.Signals) visual.Color {
	t := sig.Time * 0.5
	x, y, z := float64(p.X()), float64(p.Y()), float64(p.Z())
	n1 := r.noise.Noise3D(x*0.03+t*0.2, y*0.03+t*0.2, z*0.03+t*0.2)
	n2 := r.noise.Noise3D(x*0.05-t*0.15, y*0.05-t*0.15, z*0.05-t*0.15)

	c := visual.Mix(sig.Colors[0], sig.Colors[1], clamp01(n1*0.5+0.5))
	c = visual.Mix(c, sig.Colors[2], clamp01(n2*0.5+0.5))
	c = c.Scale(smoothstep(120, 20, depth))
	c = c.Add(sig.Colors[0].Scale(beatSignal * 0.5))

	if sprite != particles.SpriteDot {
		c = visual.Mix(c, white, 0.5)
	}

	if sig.TouchActive {
		d := math.Hypot(x-sig.Touch[0], y-sig.Touch[1])
		if d < touchRadius {
			decay := smoothstep(touchRadius, 0, d)
			peak := smoothstep(0.4, 1, math.Sin(d*3-sig.Time*15))
			c = visual.Mix(c, rainBlue, peak*decay*0.8)
		}
	}

	if sig.Rain > 0.01 && i%5 == 0 {
		target := rainBlue
		if y < rainSplashTop {
			target = white.Scale(2)
		}
		c = visual.Mix(c, target, sig.Rain*0.9)
	}

	return c.Scale(sig.Brightness * (1 + sig.Bloom*0.2))
}

func (r *Renderer) appendQuad(x, y, size, rot float64, sprite particles.Sprite, c visual.Color) {
	half := size / 2
	s, co := math.Sincos(rot)
	sx := float32(int(sprite) * spriteSize)

	corners := [4][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	src := [4][2]float32{{sx, 0}, {sx + spriteSize, 0}, {sx, spriteSize}, {sx + spriteSize, spriteSize}}
	cr, cg, cb := float32(clamp01(c.R)), float32(clamp01(c.G)), float32(clamp01(c.B))
	for k, o := range corners {
		ox, oy := o[0]*half, o[1]*half
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:   float32(x + ox*co - oy*s),
			DstY:   float32(y + ox*s + oy*co),
			SrcX:   src[k][0],
			SrcY:   src[k][1],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: 1,
		})
	}
	r.quads++
}

func unit(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

func lerp3(a, b mgl32.Vec3, t float64) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(float32(t)))
}

// spriteAtlas renders the dot and the two note glyphs side by side as white
// alpha masks.
func spriteAtlas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, spriteSize*3, spriteSize))
	masks := []func(u, v float64) float64{dotAlpha, note1Alpha, note2Alpha}
	for k, mask := range masks {
		for py := 0; py < spriteSize; py++ {
			for px := 0; px < spriteSize; px++ {
				u := (float64(px) + 0.5) / spriteSize
				v := 1 - (float64(py)+0.5)/spriteSize
				a := uint8(clamp01(mask(u, v)) * 255)
				img.SetRGBA(k*spriteSize+px, py, color.RGBA{R: a, G: a, B: a, A: a})
			}
		}
	}
	return img
}

func dotAlpha(u, v float64) float64 {
	r := math.Hypot(u-0.5, v-0.5)
	if r > 0.5 {
		return 0
	}
	return math.Pow(1-r*2, 1.5)
}

func note1Alpha(u, v float64) float64 {
	d := circleSDF(u, v, 0.35, 0.3, 0.15)
	d = math.Min(d, boxSDF(u, v, 0.48, 0.55, 0.04, 0.25))
	// flag tilted by -0.5 rad around its root
	fx, fy := u-0.48, v-0.8
	s, c := math.Sincos(-0.5)
	fx, fy = c*fx-s*fy, s*fx+c*fy
	d = math.Min(d, boxSDF(fx, fy, 0.15, 0, 0.15, 0.04))
	return glyphAlpha(d)
}

func note2Alpha(u, v float64) float64 {
	d := circleSDF(u, v, 0.25, 0.25, 0.12)
	d = math.Min(d, circleSDF(u, v, 0.75, 0.25, 0.12))
	d = math.Min(d, boxSDF(u, v, 0.35, 0.5, 0.03, 0.25))
	d = math.Min(d, boxSDF(u, v, 0.85, 0.5, 0.03, 0.25))
	d = math.Min(d, boxSDF(u, v, 0.6, 0.75, 0.28, 0.05))
	return glyphAlpha(d)
}

func glyphAlpha(d float64) float64 {
	a := 1 - smoothstep(0, 0.05, d)
	if a < 0.1 {
		return 0
	}
	return a
}

func circleSDF(u, v, cx, cy, radius float64) float64 {
	return math.Hypot(u-cx, v-cy) - radius
}

func boxSDF(u, v, cx, cy, hx, hy float64) float64 {
	dx := math.Abs(u-cx) - hx
	dy := math.Abs(v-cy) - hy
	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	return outside + math.Min(math.Max(dx, dy), 0)
}
