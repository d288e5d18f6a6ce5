package mood

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// state is replaced as a whole; readers never see a half-applied config.
type state struct {
	trackID string
	config  visual.Config
	pending bool
}

// Coordinator runs one advisor lookup per track change and applies the answer
// only if that track is still the current one.
type Coordinator struct {
	advisor Advisor
	timeout time.Duration
	log     hclog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	cur atomic.Pointer[state]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCoordinator starts with initial as the active config. A nil advisor makes
// every track fall back to a random shape.
func NewCoordinator(advisor Advisor, initial visual.Config, timeout time.Duration, rng *rand.Rand, logger hclog.Logger) *Coordinator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		advisor: advisor,
		timeout: timeout,
		log:     logger,
		rng:     rng,
		ctx:     ctx,
		cancel:  cancel,
	}
	c.cur.Store(&state{config: initial})
	return c
}

// TrackChanged marks id as the current track and starts a lookup for it. The
// active config stays unchanged until the lookup finishes.
func (c *Coordinator) TrackChanged(id, name string) {
	prev := c.cur.Load()
	c.cur.Store(&state{trackID: id, config: prev.config, pending: true})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.apply(id, c.lookup(id, name))
	}()
}

func (c *Coordinator) lookup(id, name string) visual.Config {
	if c.advisor == nil {
		return c.fallback()
	}

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	cfg, err := c.advisor.Suggest(ctx, name)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			c.log.Info("mood advisor unavailable, using random shape", "track", name)
		} else {
			c.log.Warn("mood lookup failed", "track", name, "id", id, "error", err)
		}
		return c.fallback()
	}
	c.log.Debug("mood lookup done", "track", name, "shape", cfg.Shape, "took", time.Since(start))
	return cfg
}

// apply installs cfg if id is still the current track.
func (c *Coordinator) apply(id string, cfg visual.Config) {
	for {
		cur := c.cur.Load()
		if cur.trackID != id {
			c.log.Debug("discarding stale mood result", "id", id, "current", cur.trackID)
			return
		}
		if c.cur.CompareAndSwap(cur, &state{trackID: id, config: cfg}) {
			return
		}
	}
}

func (c *Coordinator) fallback() visual.Config {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return Fallback(c.rng)
}

// Active is the config for the current track.
func (c *Coordinator) Active() visual.Config { return c.cur.Load().config }

// Analysing reports whether the current track's lookup is still running.
func (c *Coordinator) Analysing() bool { return c.cur.Load().pending }

// TrackID is the track the active config belongs to.
func (c *Coordinator) TrackID() string { return c.cur.Load().trackID }

// Wait blocks until every started lookup has returned.
func (c *Coordinator) Wait() { c.wg.Wait() }

// Close cancels in-flight lookups and waits for them.
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}
