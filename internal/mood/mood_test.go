package mood

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// gatedAdvisor answers each track only after its gate is closed.
type gatedAdvisor struct {
	gates   map[string]chan struct{}
	answers map[string]visual.Config
}

func (a *gatedAdvisor) Suggest(ctx context.Context, name string) (visual.Config, error) {
	select {
	case <-a.gates[name]:
		return a.answers[name], nil
	case <-ctx.Done():
		return visual.Config{}, ctx.Err()
	}
}

type failingAdvisor struct{ err error }

func (a failingAdvisor) Suggest(context.Context, string) (visual.Config, error) {
	return visual.Config{}, a.err
}

func cfgWith(shape visual.Shape, desc string) visual.Config {
	cfg := visual.DefaultConfig()
	cfg.Shape = shape
	cfg.Description = desc
	return cfg
}

func TestCoordinatorDiscardsStaleResult(t *testing.T) {
	adv := &gatedAdvisor{
		gates: map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})},
		answers: map[string]visual.Config{
			"A": cfgWith(visual.Torus, "first"),
			"B": cfgWith(visual.DNAHelix, "second"),
		},
	}
	c := NewCoordinator(adv, visual.DefaultConfig(), time.Minute, rand.New(rand.NewPCG(1, 2)), nil)
	defer c.Close()

	c.TrackChanged("id-a", "A")
	c.TrackChanged("id-b", "B")
	if !c.Analysing() {
		t.Fatalf("Analysing() = false with lookups in flight")
	}

	close(adv.gates["B"])
	close(adv.gates["A"])
	c.Wait()

	got := c.Active()
	if got.Shape != visual.DNAHelix || got.Description != "second" {
		t.Fatalf("active = %v %q, want DNA helix from the current track", got.Shape, got.Description)
	}
	if c.Analysing() {
		t.Fatalf("Analysing() = true after lookups finished")
	}
	if c.TrackID() != "id-b" {
		t.Fatalf("TrackID() = %q", c.TrackID())
	}
}

func TestCoordinatorKeepsConfigWhileAnalysing(t *testing.T) {
	adv := &gatedAdvisor{
		gates:   map[string]chan struct{}{"A": make(chan struct{})},
		answers: map[string]visual.Config{"A": cfgWith(visual.KleinBottle, "klein")},
	}
	initial := cfgWith(visual.Sphere, "initial")
	c := NewCoordinator(adv, initial, time.Minute, rand.New(rand.NewPCG(1, 2)), nil)
	defer c.Close()

	c.TrackChanged("id-a", "A")
	if got := c.Active(); got.Description != "initial" {
		t.Fatalf("active changed before lookup finished: %q", got.Description)
	}
	close(adv.gates["A"])
	c.Wait()
	if got := c.Active(); got.Shape != visual.KleinBottle {
		t.Fatalf("active = %v, want klein bottle", got.Shape)
	}
}

func TestCoordinatorFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		advisor Advisor
		timeout time.Duration
	}{
		{"error", failingAdvisor{errors.New("boom")}, time.Minute},
		{"unavailable", failingAdvisor{ErrUnavailable}, time.Minute},
		{"nil advisor", nil, time.Minute},
		{"timeout", &gatedAdvisor{gates: map[string]chan struct{}{"A": make(chan struct{})}}, 10 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(tt.advisor, visual.DefaultConfig(), tt.timeout, rand.New(rand.NewPCG(3, 4)), nil)
			defer c.Close()

			c.TrackChanged("id-a", "A")
			c.Wait()

			got := c.Active()
			if got.Description != FallbackDescription {
				t.Fatalf("description = %q, want fallback", got.Description)
			}
			if !got.Shape.Valid() {
				t.Fatalf("fallback shape %d invalid", got.Shape)
			}
			if got.Colors != visual.DefaultPalette {
				t.Fatalf("fallback palette = %v", got.Colors)
			}
			if c.Analysing() {
				t.Fatalf("still analysing after fallback")
			}
		})
	}
}

func TestFallbackCoversShapes(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	seen := map[visual.Shape]bool{}
	for i := 0; i < 2000; i++ {
		seen[Fallback(rng).Shape] = true
	}
	if len(seen) != int(visual.ShapeCount) {
		t.Fatalf("fallback produced %d distinct shapes, want %d", len(seen), visual.ShapeCount)
	}
}

func geminiServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "secret" {
			t.Errorf("api key header = %q", got)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none", r.URL.RawQuery)
		}
		body, _ := io.ReadAll(r.Body)
		var req geminiRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request body: %v", err)
		}
		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("mime type = %q", req.GenerationConfig.ResponseMimeType)
		}
		if len(req.Contents) == 0 || !strings.Contains(req.Contents[0].Parts[0].Text, `"Night Drive"`) {
			t.Errorf("prompt does not name the track")
		}

		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": answer}}},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiAdvisorNormalizes(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   visual.Config
	}{
		{
			name:   "complete",
			answer: `{"shape":"TORUS","colors":["#ff0000","#00ff00","#0000ff","#ffffff"],"speed":2,"chaos":0.3,"description":"Neon rings"}`,
			want: visual.Config{
				Shape:       visual.Torus,
				Colors:      visual.Palette{visual.MustHex("#ff0000"), visual.MustHex("#00ff00"), visual.MustHex("#0000ff")},
				Speed:       2,
				Chaos:       0.3,
				Description: "Neon rings",
			},
		},
		{
			name:   "defaults",
			answer: `{"shape":"LORENZ_ATTRACTOR","colors":["#ff0000"],"speed":0,"chaos":0,"description":""}`,
			want: visual.Config{
				Shape:       visual.LorenzAttractor,
				Colors:      visual.Palette{visual.MustHex("#ffffff"), visual.MustHex("#888888"), visual.MustHex("#000000")},
				Speed:       1,
				Chaos:       0.5,
				Description: "Cosmic energy",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := geminiServer(t, tt.answer)
			adv := NewGeminiAdvisor("secret", "test-model", nil)
			adv.Endpoint = srv.URL
			adv.Client = srv.Client()

			got, err := adv.Suggest(context.Background(), "Night Drive")
			if err != nil {
				t.Fatalf("Suggest: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestGeminiAdvisorRejectsUnknownShape(t *testing.T) {
	srv := geminiServer(t, `{"shape":"HYPERCUBE","colors":[],"speed":1,"chaos":1,"description":"x"}`)
	adv := NewGeminiAdvisor("secret", "test-model", nil)
	adv.Endpoint = srv.URL

	_, err := adv.Suggest(context.Background(), "Night Drive")
	if !errors.Is(err, ErrInvalidSuggestion) {
		t.Fatalf("err = %v, want ErrInvalidSuggestion", err)
	}
}

func TestGeminiAdvisorErrors(t *testing.T) {
	adv := NewGeminiAdvisor("", "", nil)
	if _, err := adv.Suggest(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("missing key: err = %v, want ErrUnavailable", err)
	}
	if adv.Model != DefaultModel {
		t.Fatalf("Model = %q, want default", adv.Model)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	adv = NewGeminiAdvisor("secret", "m", nil)
	adv.Endpoint = srv.URL
	_, err := adv.Suggest(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("status error = %v", err)
	}
}

func TestGeminiAdvisorKeepsKeyOutOfErrors(t *testing.T) {
	const key = "SECRET-KEY-123"
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close() // connections are refused from here on

	adv := NewGeminiAdvisor(key, "m", nil)
	adv.Endpoint = endpoint
	_, err := adv.Suggest(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected a transport error")
	}
	if strings.Contains(err.Error(), key) {
		t.Fatalf("error leaks the api key: %v", err)
	}
}
