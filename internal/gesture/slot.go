package gesture

import (
	"sync/atomic"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// Slot holds the most recent GestureState. A detector publishes from its own
// goroutine and the frame loop reads whatever is newest; older states are
// simply overwritten.
type Slot struct {
	state atomic.Pointer[visual.GestureState]
}

// Publish replaces the stored state.
func (s *Slot) Publish(g visual.GestureState) {
	s.state.Store(&g)
}

// Latest returns the newest state, or the neutral state if nothing has been
// published.
func (s *Slot) Latest() visual.GestureState {
	if p := s.state.Load(); p != nil {
		return *p
	}
	return visual.GestureState{}
}

// Reset drops back to the neutral state.
func (s *Slot) Reset() {
	s.state.Store(nil)
}
