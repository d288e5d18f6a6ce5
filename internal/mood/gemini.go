package mood

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	defaultDescription = "Cosmic energy"
	defaultSpeed       = 1.0
	defaultChaos       = 0.5
)

// colors used when the answer carries fewer than three usable hex codes
var defaultColors = [3]string{"#ffffff", "#888888", "#000000"}

// GeminiAdvisor asks the Gemini generateContent endpoint for a visual
// identity, constraining the answer with a JSON response schema.
type GeminiAdvisor struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client

	log hclog.Logger
}

func NewGeminiAdvisor(apiKey, model string, logger hclog.Logger) *GeminiAdvisor {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GeminiAdvisor{
		APIKey:   apiKey,
		Model:    model,
		Endpoint: DefaultEndpoint,
		Client:   http.DefaultClient,
		log:      logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string         `json:"responseMimeType"`
		ResponseSchema   map[string]any `json:"responseSchema"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// suggestion is the schema-constrained JSON the model answers with.
type suggestion struct {
	Shape       string   `json:"shape"`
	Colors      []string `json:"colors"`
	Speed       float64  `json:"speed"`
	Chaos       float64  `json:"chaos"`
	Description string   `json:"description"`
}

func (g *GeminiAdvisor) Suggest(ctx context.Context, trackName string) (visual.Config, error) {
	if g.APIKey == "" {
		return visual.Config{}, ErrUnavailable
	}

	body, err := json.Marshal(newGeminiRequest(trackName))
	if err != nil {
		return visual.Config{}, fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimSuffix(g.Endpoint, "/"), url.PathEscape(g.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return visual.Config{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// in a header so transport errors, which quote the URL, never carry the key
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return visual.Config{}, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return visual.Config{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return visual.Config{}, fmt.Errorf("gemini returned %s: %s", resp.Status, bytes.TrimSpace(raw))
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return visual.Config{}, fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return visual.Config{}, fmt.Errorf("%w: empty answer", ErrInvalidSuggestion)
	}

	var s suggestion
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &s); err != nil {
		return visual.Config{}, fmt.Errorf("%w: %v", ErrInvalidSuggestion, err)
	}
	cfg, err := s.config()
	if err != nil {
		return visual.Config{}, err
	}
	g.log.Debug("mood suggestion", "track", trackName, "shape", cfg.Shape, "speed", cfg.Speed, "chaos", cfg.Chaos)
	return cfg, nil
}

// config normalizes the model's answer. Missing or zero fields get defaults.
func (s suggestion) config() (visual.Config, error) {
	shape, ok := visual.ParseShape(s.Shape)
	if !ok {
		return visual.Config{}, fmt.Errorf("%w: unknown shape %q", ErrInvalidSuggestion, s.Shape)
	}

	cfg := visual.Config{
		Shape:       shape,
		Speed:       s.Speed,
		Chaos:       s.Chaos,
		Description: s.Description,
	}
	if cfg.Speed <= 0 {
		cfg.Speed = defaultSpeed
	}
	if cfg.Chaos == 0 {
		cfg.Chaos = defaultChaos
	}
	cfg.Chaos = min(max(cfg.Chaos, 0), 1)
	if cfg.Description == "" {
		cfg.Description = defaultDescription
	}

	hexes := defaultColors[:]
	if len(s.Colors) >= 3 {
		hexes = s.Colors[:3]
	}
	for i, h := range hexes {
		c, err := visual.ParseHex(h)
		if err != nil {
			c = visual.MustHex(defaultColors[i])
		}
		cfg.Colors[i] = c
	}
	return cfg, nil
}

func newGeminiRequest(trackName string) geminiRequest {
	prompt := fmt.Sprintf(`Analyze the song %q.
Design a visual identity for a 3D particle system music visualizer.

1. Pick the starting mathematical shape that best fits the opening of the song.
2. Choose a palette of 3 hex colors matching its emotion.
3. Rate chaos from 0.0 (ordered, geometric) to 1.0 (explosive).
4. Pick a speed multiplier from 0.5 (ambient) to 2.5 (fast techno).
5. Write a poetic description of the mood in 5 to 10 words.

Available shapes: %s`, trackName, strings.Join(visual.ShapeNames(), ", "))

	var r geminiRequest
	r.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	r.GenerationConfig.ResponseMimeType = "application/json"
	r.GenerationConfig.ResponseSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"shape": map[string]any{"type": "STRING", "enum": visual.ShapeNames()},
			"colors": map[string]any{
				"type":        "ARRAY",
				"items":       map[string]any{"type": "STRING"},
				"description": "3 hex color codes",
			},
			"speed":       map[string]any{"type": "NUMBER"},
			"chaos":       map[string]any{"type": "NUMBER"},
			"description": map[string]any{"type": "STRING"},
		},
		"required": []string{"shape", "colors", "speed", "chaos", "description"},
	}
	return r
}
