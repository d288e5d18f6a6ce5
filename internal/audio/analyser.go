package audio

import (
	"math"
	"math/cmplx"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// Analyser turns the tail of a Tap into byte frequency magnitudes the way a
// browser AnalyserNode does: Blackman window, magnitude smoothing over time,
// and a decibel window mapped onto 0..255.
type Analyser struct {
	Smoothing float64
	MinDB     float64
	MaxDB     float64

	source *Tap

	window   []float64
	samples  []float64
	buf      []complex128
	smoothed []float64
	bins     []byte
}

// NewAnalyser creates an analyser for a power-of-two fftSize, producing
// fftSize/2 bins.
func NewAnalyser(fftSize int) *Analyser {
	a := &Analyser{
		Smoothing: 0.8,
		MinDB:     -100,
		MaxDB:     -30,
		window:    make([]float64, fftSize),
		samples:   make([]float64, fftSize),
		buf:       make([]complex128, fftSize),
		smoothed:  make([]float64, fftSize/2),
		bins:      make([]byte, fftSize/2),
	}
	for i := range a.window {
		x := 2 * math.Pi * float64(i) / float64(fftSize)
		a.window[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}
	return a
}

// SetSource attaches the tap of the current track. nil detaches.
func (a *Analyser) SetSource(t *Tap) {
	a.source = t
}

// Frame analyses the newest samples of the source. The speaker fills the tap
// in chunks longer than a frame, so while playing the latest snapshot is
// analysed again until new samples arrive. A paused source counts as silence
// and the smoothed spectrum decays. Without a source the frame is empty.
func (a *Analyser) Frame(playing bool) visual.AudioFrame {
	if a.source == nil {
		return visual.AudioFrame{}
	}
	if playing {
		a.source.Snapshot(a.samples)
	} else {
		clear(a.samples)
	}
	return a.Process(a.samples)
}

// Process analyses one block of mono samples. Shorter input is zero padded at
// the front. The returned magnitudes alias the analyser's buffer and are valid
// until the next call.
func (a *Analyser) Process(samples []float64) visual.AudioFrame {
	n := len(a.buf)
	offset := n - len(samples)
	for i := 0; i < n; i++ {
		v := 0.0
		if j := i - offset; j >= 0 && j < len(samples) {
			v = samples[j]
		}
		a.buf[i] = complex(v*a.window[i], 0)
	}
	fft(a.buf)

	var sum int
	span := a.MaxDB - a.MinDB
	for k := range a.bins {
		mag := cmplx.Abs(a.buf[k]) / float64(n)
		a.smoothed[k] = a.Smoothing*a.smoothed[k] + (1-a.Smoothing)*mag

		db := 20 * math.Log10(a.smoothed[k]+1e-12)
		v := 255 * (db - a.MinDB) / span
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		a.bins[k] = byte(v)
		sum += int(a.bins[k])
	}

	return visual.AudioFrame{
		Magnitudes: a.bins,
		Loudness:   float64(sum) / float64(len(a.bins)) / 255,
	}
}

// fft computes a radix-2 FFT in-place.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}
	// Bit-reversal permutation.
	bits := 0
	for m := n; m > 1; m >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := 0
		for b := 0; b < bits; b++ {
			if i&(1<<b) != 0 {
				j |= 1 << (bits - 1 - b)
			}
		}
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
	// Cooley-Tukey iterative FFT.
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		wn := -2.0 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				t := cmplx.Rect(1, wn*float64(k)) * x[start+k+half]
				x[start+k+half] = x[start+k] - t
				x[start+k] = x[start+k] + t
			}
		}
	}
}
