package particles

import (
	"math/rand/v2"
	"testing"
)

func TestNewPoolAttributes(t *testing.T) {
	const n = 40000
	p := NewPool(n, rand.New(rand.NewPCG(1, 2)))

	if p.Cap() != n || len(p.Positions) != 3*n {
		t.Fatalf("cap %d positions %d, want %d and %d", p.Cap(), len(p.Positions), n, 3*n)
	}

	var notes int
	for i := 0; i < n; i++ {
		if s := p.Scales[i]; s < 0.5 || s >= 1 {
			t.Fatalf("scale %d = %v outside [0.5,1)", i, s)
		}
		if f := p.FlashSpeeds[i]; f < 0.5 || f >= 2.5 {
			t.Fatalf("flash speed %d = %v outside [0.5,2.5)", i, f)
		}
		if p.Indices[i] != uint32(i) {
			t.Fatalf("index %d = %d", i, p.Indices[i])
		}
		if p.Sprites[i] != SpriteDot {
			notes++
		}
	}

	// Expect ~3% notes; allow generous slack.
	frac := float64(notes) / n
	if frac < 0.02 || frac > 0.04 {
		t.Fatalf("note fraction %.4f, want about 0.03", frac)
	}
}

func TestNewPoolNegativeCapacity(t *testing.T) {
	p := NewPool(-1, rand.New(rand.NewPCG(1, 2)))
	if p.Cap() != 0 {
		t.Fatalf("cap = %d, want 0", p.Cap())
	}
}
