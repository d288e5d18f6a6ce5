package mood

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// ErrUnavailable means the advisor cannot be reached at all, for example
// because no API key is configured.
var ErrUnavailable = errors.New("mood advisor unavailable")

// ErrInvalidSuggestion is returned when the service answers with something
// that cannot be turned into a visual.Config.
var ErrInvalidSuggestion = errors.New("invalid mood suggestion")

// Advisor suggests a visual identity for a track.
type Advisor interface {
	Suggest(ctx context.Context, trackName string) (visual.Config, error)
}

// FallbackDescription marks configs produced without the advisor.
const FallbackDescription = "AI Offline - Random Gen"

// Fallback is the default config with a random shape.
func Fallback(rng *rand.Rand) visual.Config {
	cfg := visual.DefaultConfig()
	cfg.Shape = visual.Shape(rng.IntN(int(visual.ShapeCount)))
	cfg.Description = FallbackDescription
	return cfg
}
