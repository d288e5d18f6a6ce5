package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records the last N frames, mixed to mono, into
// a ring buffer so the analyser can read what was just played.
type Tap struct {
	Source    beep.Streamer
	buffer    []float64
	nextIndex int
	written   int
	mu        sync.RWMutex
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = (samples[i][0] + samples[i][1]) * 0.5
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.written += n
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot copies the most recent len(dst) samples into dst in chronological
// order and returns how many were available.
func (t *Tap) Snapshot(dst []float64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := len(dst)
	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	if n > t.written {
		n = t.written
	}
	for i := 0; i < len(dst)-n; i++ {
		dst[i] = 0
	}
	// Walk backwards from nextIndex - 1, filling dst from the end.
	idx := t.nextIndex - 1
	for i := n - 1; i >= 0; i-- {
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		dst[i+len(dst)-n] = t.buffer[idx]
		idx--
	}
	return n
}
