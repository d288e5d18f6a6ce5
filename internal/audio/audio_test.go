package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// ramp streams 0, 1, 2, ... on both channels.
func ramp() beep.Streamer {
	next := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{next, next}
			next++
		}
		return len(samples), true
	})
}

func TestTapSnapshotIsChronological(t *testing.T) {
	tap := NewTap(ramp(), 8)
	buf := make([][2]float64, 5)
	tap.Stream(buf)
	tap.Stream(buf) // 10 frames through an 8 frame ring

	got := make([]float64, 4)
	if n := tap.Snapshot(got); n != 4 {
		t.Fatalf("Snapshot returned %d, want 4", n)
	}
	want := []float64{6, 7, 8, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestTapSnapshotPadsShortHistory(t *testing.T) {
	tap := NewTap(ramp(), 16)
	tap.Stream(make([][2]float64, 3))

	got := []float64{9, 9, 9, 9, 9}
	if n := tap.Snapshot(got); n != 3 {
		t.Fatalf("Snapshot returned %d, want 3", n)
	}
	want := []float64{0, 0, 0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestAnalyserWithoutSourceIsEmpty(t *testing.T) {
	a := NewAnalyser(512)
	f := a.Frame(true)
	if len(f.Magnitudes) != 0 || f.Loudness != 0 {
		t.Fatalf("frame = %+v, want empty", f)
	}
}

func TestAnalyserSilence(t *testing.T) {
	a := NewAnalyser(512)
	f := a.Process(make([]float64, 512))
	if len(f.Magnitudes) != 256 {
		t.Fatalf("got %d bins, want 256", len(f.Magnitudes))
	}
	for k, m := range f.Magnitudes {
		if m != 0 {
			t.Fatalf("bin %d = %d on silence", k, m)
		}
	}
	if f.Loudness != 0 {
		t.Fatalf("loudness = %v on silence", f.Loudness)
	}
}

func TestAnalyserFindsSinePeak(t *testing.T) {
	const (
		size = 512
		bin  = 32
	)
	a := NewAnalyser(size)
	sine := make([]float64, size)
	for i := range sine {
		// quiet enough that the main lobe stays inside the dB window
		sine[i] = 0.001 * math.Sin(2*math.Pi*bin*float64(i)/size)
	}

	var f = a.Process(sine)
	for i := 0; i < 20; i++ {
		f = a.Process(sine)
	}

	peak := 0
	for k, m := range f.Magnitudes {
		if m > f.Magnitudes[peak] {
			peak = k
		}
	}
	if peak != bin {
		t.Fatalf("peak at bin %d, want %d", peak, bin)
	}
	if f.Magnitudes[bin] <= f.Magnitudes[bin-1] || f.Magnitudes[bin] <= f.Magnitudes[bin+1] {
		t.Fatalf("peak not strict: %v", f.Magnitudes[bin-2:bin+3])
	}
	if f.Magnitudes[bin+10] != 0 {
		t.Fatalf("leakage far from the tone: bin %d = %d", bin+10, f.Magnitudes[bin+10])
	}
	if f.Loudness <= 0 || f.Loudness > 1 {
		t.Fatalf("loudness = %v, want in (0,1]", f.Loudness)
	}
}

func TestAnalyserFrameBetweenSpeakerChunks(t *testing.T) {
	a := NewAnalyser(256)
	tap := NewTap(beep.StreamerFunc(func(s [][2]float64) (int, bool) {
		for i := range s {
			v := 0.5
			if i%2 == 1 {
				v = -0.5
			}
			s[i] = [2]float64{v, v}
		}
		return len(s), true
	}), 1024)
	a.SetSource(tap)

	// one speaker chunk spans several frames
	tap.Stream(make([][2]float64, 2205))
	loud := a.Frame(true).Loudness
	if loud == 0 {
		t.Fatalf("expected signal after streaming")
	}
	for i := 0; i < 2; i++ {
		next := a.Frame(true).Loudness
		if next < loud {
			t.Fatalf("frame %d without new samples dropped loudness %v -> %v", i+1, loud, next)
		}
		loud = next
	}

	// paused: the smoothed spectrum decays
	var quiet float64
	for i := 0; i < 60; i++ {
		quiet = a.Frame(false).Loudness
	}
	if quiet >= loud {
		t.Fatalf("loudness %v did not decay from %v", quiet, loud)
	}
}

func TestOpenStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(1000, ramp()), format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	file, s, got, err := openStream(path)
	if err != nil {
		t.Fatalf("openStream: %v", err)
	}
	defer file.Close()
	defer s.Close()
	if got.SampleRate != 22050 || s.Len() != 1000 {
		t.Fatalf("rate %d len %d, want 22050 and 1000", got.SampleRate, s.Len())
	}

	if _, _, _, err := openStream(filepath.Join(dir, "song.ogg")); !errors.Is(err, ErrUnsupportedFormat) && !os.IsNotExist(err) {
		t.Fatalf("ogg: err = %v", err)
	}

	ogg := filepath.Join(dir, "real.ogg")
	if err := os.WriteFile(ogg, []byte("OggS"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, _, err := openStream(ogg); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ogg: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestPlaylistAdd(t *testing.T) {
	p := NewPlayer(64, nil)
	added := p.Add("/music/Intro Song.mp3", "/music/Intro Song.mp3")
	if len(added) != 2 || len(p.Playlist()) != 2 {
		t.Fatalf("added %d tracks", len(added))
	}
	if added[0].Name != "Intro Song" {
		t.Fatalf("name = %q", added[0].Name)
	}
	if added[0].ID == added[1].ID {
		t.Fatalf("duplicate paths share an ID")
	}
	if _, ok := p.Current(); ok {
		t.Fatalf("current track before Play")
	}
	if p.Playing() {
		t.Fatalf("playing before Play")
	}
	if err := p.Play(5); err == nil {
		t.Fatalf("Play out of range returned nil")
	}
}

func TestPlaylistIndexWraps(t *testing.T) {
	tests := []struct {
		cur, n, next, prev int
	}{
		{-1, 3, 0, 0},
		{0, 3, 1, 2},
		{2, 3, 0, 1},
		{0, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := nextIndex(tt.cur, tt.n); got != tt.next {
			t.Fatalf("nextIndex(%d,%d) = %d, want %d", tt.cur, tt.n, got, tt.next)
		}
		if tt.cur >= 0 {
			if got := prevIndex(tt.cur, tt.n); got != tt.prev {
				t.Fatalf("prevIndex(%d,%d) = %d, want %d", tt.cur, tt.n, got, tt.prev)
			}
		}
	}
}
