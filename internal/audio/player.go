package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Track is one playlist entry. ID is unique per Add, even for repeated paths.
type Track struct {
	ID   string
	Name string
	Path string
}

// Player plays a playlist through the beep speaker and exposes a Tap of the
// current track. All methods must be called from the frame loop goroutine.
type Player struct {
	log      hclog.Logger
	ringSize int

	playlist []Track
	current  int

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap
	initDone bool
	paused   bool

	// track IDs reported finished by the speaker goroutine
	ended chan string
}

func NewPlayer(ringSize int, logger hclog.Logger) *Player {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Player{
		log:      logger,
		ringSize: ringSize,
		current:  -1,
		ended:    make(chan string, 4),
	}
}

// Add appends files to the playlist and returns the new entries.
func (p *Player) Add(paths ...string) []Track {
	added := make([]Track, 0, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		t := Track{
			ID:   uuid.NewString(),
			Name: strings.TrimSuffix(base, filepath.Ext(base)),
			Path: path,
		}
		p.playlist = append(p.playlist, t)
		added = append(added, t)
	}
	return added
}

func (p *Player) Playlist() []Track { return p.playlist }

// Current returns the loaded track.
func (p *Player) Current() (Track, bool) {
	if p.current < 0 || p.current >= len(p.playlist) {
		return Track{}, false
	}
	return p.playlist[p.current], true
}

// Playing reports whether a track is loaded and not paused.
func (p *Player) Playing() bool { return p.ctrl != nil && !p.paused }

// Tap is the sample tap of the loaded track, nil when nothing is loaded.
func (p *Player) Tap() *Tap { return p.tap }

// Play loads playlist entry index and starts it from the beginning.
func (p *Player) Play(index int) error {
	if index < 0 || index >= len(p.playlist) {
		return fmt.Errorf("track %d out of range (playlist has %d)", index, len(p.playlist))
	}
	track := p.playlist[index]

	f, streamer, format, err := openStream(track.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", track.Name, err)
	}

	// Prepare audio chain: streamer -> tap -> ctrl
	tap := NewTap(streamer, p.ringSize)
	ctrl := &beep.Ctrl{Streamer: tap, Paused: false}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		// Re-init when sample rate changes
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("reinit speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.release()

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = tap
	p.paused = false
	p.current = index

	id := track.ID
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		select {
		case p.ended <- id:
		default:
		}
	})))

	p.log.Info("playing", "track", track.Name, "id", id, "rate", int(format.SampleRate))
	return nil
}

// TogglePause pauses or resumes the loaded track.
func (p *Player) TogglePause() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
}

// Next plays the following track, wrapping around.
func (p *Player) Next() error {
	if len(p.playlist) == 0 {
		return nil
	}
	return p.Play(nextIndex(p.current, len(p.playlist)))
}

// Prev plays the preceding track, wrapping around.
func (p *Player) Prev() error {
	if len(p.playlist) == 0 {
		return nil
	}
	return p.Play(prevIndex(p.current, len(p.playlist)))
}

// Poll advances the playlist when the current track has finished. It returns
// true when a new track was started.
func (p *Player) Poll() (bool, error) {
	for {
		select {
		case id := <-p.ended:
			cur, ok := p.Current()
			if !ok || cur.ID != id {
				continue
			}
			p.log.Debug("track ended", "track", cur.Name)
			return true, p.Next()
		default:
			return false, nil
		}
	}
}

// Position and Duration of the loaded track.
func (p *Player) Position() (time.Duration, time.Duration) {
	if p.streamer == nil {
		return 0, 0
	}
	speaker.Lock()
	pos, n := p.streamer.Position(), p.streamer.Len()
	speaker.Unlock()
	return p.format.SampleRate.D(pos), p.format.SampleRate.D(n)
}

// Seek moves the loaded track to fraction pos of its length.
func (p *Player) Seek(pos float64) error {
	if p.streamer == nil {
		return nil
	}
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}

	speaker.Lock()
	defer speaker.Unlock()
	maxPos := p.streamer.Len()
	seekPos := int(pos * float64(maxPos))
	if seekPos >= maxPos {
		seekPos = maxPos - 1
	}
	if seekPos < 0 {
		seekPos = 0
	}
	if err := p.streamer.Seek(seekPos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// Close stops playback and releases the current file.
func (p *Player) Close() {
	if p.initDone {
		speaker.Clear()
	}
	p.release()
	p.ctrl = nil
	p.tap = nil
}

func (p *Player) release() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
}

// openStream decodes path based on its extension.
func openStream(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, err
	}
	return f, streamer, format, nil
}

func nextIndex(cur, n int) int { return (cur + 1) % n }

func prevIndex(cur, n int) int { return (cur - 1 + n) % n }
