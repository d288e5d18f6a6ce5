package visual

// Palette is the ordered primary, secondary and highlight colors.
type Palette [3]Color

// DefaultPalette is used until a mood suggestion arrives and by the fallback config.
var DefaultPalette = Palette{
	MustHex("#ffffff"),
	MustHex("#88ccff"),
	MustHex("#ff00aa"),
}

// Config is the per-track visual identity. It is replaced wholesale, never
// edited in place by readers.
type Config struct {
	Shape       Shape
	Colors      Palette
	Speed       float64
	Chaos       float64
	Description string
}

// DefaultConfig is shown before any track is loaded.
func DefaultConfig() Config {
	return Config{
		Shape:       Sphere,
		Colors:      DefaultPalette,
		Speed:       1.0,
		Chaos:       0.5,
		Description: "Waiting for music...",
	}
}

// Settings are user-tunable render parameters independent of Config.
type Settings struct {
	ParticleCount  int
	ParticleSize   float64
	Brightness     float64
	BloomIntensity float64
	TrailStrength  float64
}

// DefaultSettings mirrors the "medium" preset.
func DefaultSettings() Settings {
	return Settings{
		ParticleCount:  15000,
		ParticleSize:   1.0,
		Brightness:     1.0,
		BloomIntensity: 1.5,
		TrailStrength:  0.5,
	}
}
