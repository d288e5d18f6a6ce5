// Package game wires the particle controller, audio player, mood advisor and
// renderer into an ebiten game.
package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hashicorp/go-hclog"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-morph/internal/animation"
	"github.com/iburimskiy/particle-morph/internal/audio"
	"github.com/iburimskiy/particle-morph/internal/config"
	"github.com/iburimskiy/particle-morph/internal/gesture"
	"github.com/iburimskiy/particle-morph/internal/mood"
	"github.com/iburimskiy/particle-morph/internal/particles"
	"github.com/iburimskiy/particle-morph/internal/visual"
)

type Game struct {
	log hclog.Logger

	// audio
	player   *audio.Player
	analyser *audio.Analyser
	tap      *audio.Tap
	trackID  string

	// visuals
	pool     *particles.Pool
	ctrl     *animation.Controller
	mood     *mood.Coordinator
	gestures *gesture.Slot
	cam      *orbitCamera
	renderer *Renderer
	sig      animation.Signals
	bands    []float64
	white    *ebiten.Image

	// progress bar
	progressBarHovered  bool
	progressBarDragging bool
	audioDuration       time.Duration
	audioPosition       time.Duration
	lastSeekTime        time.Time

	// camera drag
	orbiting   bool
	lastMouseX int
	lastMouseY int

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

// New builds the game and queues opts.Files. Playback starts immediately when
// files are given.
func New(opts config.Options, logger hclog.Logger) *Game {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	pool := particles.NewPool(config.MaxParticles, rng)
	advisor := mood.NewGeminiAdvisor(opts.APIKey, opts.MoodModel, logger.Named("mood"))
	cam := newOrbitCamera(config.CameraDistance, config.CameraFOV, ebiten.DefaultTPS)

	g := &Game{
		log:      logger,
		player:   audio.NewPlayer(config.VisualRingSize, logger.Named("audio")),
		analyser: audio.NewAnalyser(config.AnalyserFFTSize),
		pool:     pool,
		ctrl:     animation.New(pool, visual.DefaultConfig(), opts.Settings, rng, logger.Named("animation")),
		mood: mood.NewCoordinator(advisor, visual.DefaultConfig(), opts.MoodTimeout,
			rand.New(rand.NewPCG(seed+1, seed>>2|1)), logger.Named("mood")),
		gestures: &gesture.Slot{},
		cam:      cam,
		renderer: NewRenderer(cam, int64(seed)),
		prevKey:  map[ebiten.Key]bool{},
	}

	if len(opts.Files) > 0 {
		g.player.Add(opts.Files...)
		if err := g.player.Play(0); err != nil {
			g.fail(err)
		}
	}
	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	// Handle button interactions
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			if err := g.openFileDialog(); err != nil {
				g.fail(err)
			}
		}
		g.buttonPressed = false
	}

	g.updateProgressBar(mouseX, mouseY)
	g.updateOrbit(mouseX, mouseY)

	if justPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if justPressed(ebiten.KeyN) {
		if err := g.player.Next(); err != nil {
			g.fail(err)
		}
	}
	if justPressed(ebiten.KeyP) {
		if err := g.player.Prev(); err != nil {
			g.fail(err)
		}
	}
	if justPressed(ebiten.KeyO) {
		if err := g.openFileDialog(); err != nil {
			g.fail(err)
		}
	}
	if justPressed(ebiten.KeyBracketLeft) {
		g.adjustParticles(-config.ParticleStep)
	}
	if justPressed(ebiten.KeyBracketRight) {
		g.adjustParticles(config.ParticleStep)
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	// held keys and buttons are not reported once the window loses focus
	if ebiten.IsFocused() {
		overUI := g.buttonHovered || g.progressBarHovered
		g.gestures.Publish(readPointer(config.WindowWidth, config.WindowHeight, overUI).gesture())
	} else {
		g.gestures.Reset()
	}

	if _, err := g.player.Poll(); err != nil {
		g.fail(err)
	}
	g.syncTrack()
	g.step(1 / float64(ebiten.TPS()))
	g.cam.Update()
	g.audioPosition, g.audioDuration = g.player.Position()

	return nil
}

// step advances the animation by dt seconds. Paused playback shows the idle
// profile of the active config.
func (g *Game) step(dt float64) {
	playing := g.player.Playing()
	cfg := g.mood.Active()
	if !playing {
		cfg = animation.IdleProfile(cfg)
	}
	g.ctrl.SetConfig(cfg)

	frame := g.analyser.Frame(playing)
	g.sig = g.ctrl.Step(dt, frame, g.gestures.Latest(), playing)
	g.bands = bandLevels(g.bands, frame.Magnitudes, config.SpectrumBands)
}

// syncTrack follows the player: a new tap is attached to the analyser and a
// new track id starts a mood lookup.
func (g *Game) syncTrack() {
	if tap := g.player.Tap(); tap != g.tap {
		g.tap = tap
		g.analyser.SetSource(tap)
	}
	cur, ok := g.player.Current()
	if !ok || cur.ID == g.trackID {
		return
	}
	g.trackID = cur.ID
	g.log.Info("track changed", "track", cur.Name, "id", cur.ID)
	g.mood.TrackChanged(cur.ID, cur.Name)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.renderer.Draw(screen, g.pool, g.sig)
	g.drawButton(screen)
	g.drawProgressBar(screen)
	g.drawAudioBar(screen)
	g.drawStatus(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close stops playback and waits for pending mood lookups.
func (g *Game) Close() {
	g.mood.Close()
	g.player.Close()
}

func (g *Game) fail(err error) {
	g.lastErr = err
	g.log.Error("playback", "error", err)
}

func (g *Game) togglePause() {
	if _, ok := g.player.Current(); !ok {
		if len(g.player.Playlist()) > 0 {
			if err := g.player.Play(0); err != nil {
				g.fail(err)
			}
		}
		return
	}
	g.player.TogglePause()
}

func (g *Game) adjustParticles(delta int) {
	s := g.ctrl.Settings()
	s.ParticleCount += delta
	g.ctrl.SetSettings(s)
	g.log.Debug("particle count", "count", g.ctrl.Settings().ParticleCount)
}

func (g *Game) updateOrbit(mouseX, mouseY int) {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.orbiting = false
		return
	}
	if g.orbiting {
		dx := float64(mouseX - g.lastMouseX)
		dy := float64(mouseY - g.lastMouseY)
		g.cam.Orbit(dx*config.OrbitSpeed, dy*config.OrbitSpeed)
	}
	g.orbiting = true
	g.lastMouseX, g.lastMouseY = mouseX, mouseY
}

func (g *Game) updateProgressBar(mouseX, mouseY int) {
	barX, barY, barWidth, barHeight := progressBarRect()
	g.progressBarHovered = mouseX >= barX && mouseX <= barX+barWidth &&
		mouseY >= barY && mouseY <= barY+barHeight

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.progressBarDragging = false
	}
	if g.audioDuration <= 0 {
		return
	}
	if g.progressBarHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.progressBarDragging = true
		g.seekToPosition(float64(mouseX-barX) / float64(barWidth))
		return
	}
	if g.progressBarDragging {
		mouseProgress := clamp01(float64(mouseX-barX) / float64(barWidth))
		currentProgress := float64(g.audioPosition) / float64(g.audioDuration)
		if math.Abs(mouseProgress-currentProgress) > 0.01 {
			g.seekToPosition(mouseProgress)
		}
	}
}

func (g *Game) seekToPosition(pos float64) {
	if time.Since(g.lastSeekTime) < 50*time.Millisecond {
		return
	}
	if err := g.player.Seek(pos); err != nil {
		g.fail(err)
		return
	}
	g.lastSeekTime = time.Now()
}

func (g *Game) openFileDialog() error {
	paths, err := zenity.SelectFileMultiple(
		zenity.Title("Add Audio Files"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	added := g.player.Add(paths...)
	g.log.Info("added tracks", "count", len(added))
	if _, ok := g.player.Current(); ok || len(added) == 0 {
		return nil
	}
	return g.player.Play(len(g.player.Playlist()) - len(added))
}
