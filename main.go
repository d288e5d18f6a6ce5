package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-morph/internal/config"
	"github.com/iburimskiy/particle-morph/internal/game"
	"github.com/iburimskiy/particle-morph/internal/logging"
	"github.com/iburimskiy/particle-morph/internal/mood"
)

var (
	opts    = config.Default()
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "particle-morph [audio files...]",
		Short: "Audio-reactive 3D particle visualizer",
		Long: `Plays wav, mp3 and flac files and morphs a particle cloud between
mathematical shapes in time with the music. Set GEMINI_API_KEY to let the
mood advisor pick colors and a starting shape for each track.`,
		Args: cobra.ArbitraryArgs,
		RunE: run,
	}

	s := &opts.Settings
	rootCmd.Flags().IntVar(&s.ParticleCount, "particles", s.ParticleCount, fmt.Sprintf("Visible particles (max %d)", config.MaxParticles))
	rootCmd.Flags().Float64Var(&s.ParticleSize, "size", s.ParticleSize, "Particle size multiplier")
	rootCmd.Flags().Float64Var(&s.Brightness, "brightness", s.Brightness, "Particle brightness")
	rootCmd.Flags().Float64Var(&s.BloomIntensity, "bloom", s.BloomIntensity, "Bloom intensity")
	rootCmd.Flags().Float64Var(&s.TrailStrength, "trail", s.TrailStrength, "Trail and flow strength (0-1)")
	rootCmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVar(&opts.MoodModel, "mood-model", mood.DefaultModel, "Gemini model used by the mood advisor")
	rootCmd.Flags().DurationVar(&opts.MoodTimeout, "mood-timeout", opts.MoodTimeout, "Timeout for one mood lookup")
	rootCmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts.Files = args
	opts.APIKey = os.Getenv("GEMINI_API_KEY")
	opts.Normalize()

	logger := logging.NewLogger("particle-morph", opts.LogLevel, os.Stderr)
	logger.Debug("starting", "particles", opts.Settings.ParticleCount, "files", len(opts.Files), "mood_model", opts.MoodModel)
	if opts.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, mood advisor disabled")
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Particle Morph - Space: Play/Pause, O: Open, Esc/Q: Quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(opts, logger)
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
