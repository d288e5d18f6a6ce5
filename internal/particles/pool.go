package particles

import "math/rand/v2"

// Sprite is the glyph a particle is drawn with.
type Sprite uint8

const (
	SpriteDot Sprite = iota
	SpriteNoteSingle
	SpriteNoteBeamed
)

// Pool is a fixed-capacity structure of arrays. Positions change every frame;
// every other field is assigned once by NewPool.
type Pool struct {
	Positions   []float32 // x, y, z per particle
	Scales      []float32 // [0.5, 1)
	Sprites     []Sprite
	FlashSpeeds []float32 // [0.5, 2.5)
	Indices     []uint32
}

// NewPool allocates capacity particles at the origin.
func NewPool(capacity int, rng *rand.Rand) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool{
		Positions:   make([]float32, capacity*3),
		Scales:      make([]float32, capacity),
		Sprites:     make([]Sprite, capacity),
		FlashSpeeds: make([]float32, capacity),
		Indices:     make([]uint32, capacity),
	}
	for i := 0; i < capacity; i++ {
		p.Scales[i] = float32(rng.Float64()*0.5 + 0.5)
		p.FlashSpeeds[i] = float32(0.5 + rng.Float64()*2)
		p.Indices[i] = uint32(i)

		// Roughly 3% of the cloud is music notes.
		switch r := rng.Float64(); {
		case r > 0.985:
			p.Sprites[i] = SpriteNoteBeamed
		case r > 0.97:
			p.Sprites[i] = SpriteNoteSingle
		default:
			p.Sprites[i] = SpriteDot
		}
	}
	return p
}

// Cap returns the number of allocated particles.
func (p *Pool) Cap() int { return len(p.Indices) }
