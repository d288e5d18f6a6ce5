package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-morph/internal/visual"
)

// pointerState is the raw mouse and keyboard input that stands in for a hand
// tracker.
type pointerState struct {
	X, Y          int
	Width, Height int

	Touch bool // left button held over the scene
	Rain  bool // R held
	Grip  bool // G held
	Blast bool // B held
}

func readPointer(w, h int, overUI bool) pointerState {
	x, y := ebiten.CursorPosition()
	return pointerState{
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Touch:  !overUI && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Rain:   ebiten.IsKeyPressed(ebiten.KeyR),
		Grip:   ebiten.IsKeyPressed(ebiten.KeyG),
		Blast:  ebiten.IsKeyPressed(ebiten.KeyB),
	}
}

// gesture maps the pointer onto the same state a hand tracker produces: the
// cursor is the right index finger, G and B are a closed and an open left hand.
func (p pointerState) gesture() visual.GestureState {
	var g visual.GestureState

	switch {
	case p.Grip:
		g.Left = visual.LeftHand{Active: true, IsFist: true, Strength: 1}
	case p.Blast:
		g.Left = visual.LeftHand{Active: true, Strength: 1}
	}

	if (p.Touch || p.Rain) && p.Width > 0 && p.Height > 0 {
		g.Right = visual.RightHand{
			Active:  true,
			X:       (float64(p.X)/float64(p.Width) - 0.5) * 2,
			Y:       -(float64(p.Y)/float64(p.Height) - 0.5) * 2,
			Gesture: visual.GestureTouch,
		}
		if p.Rain {
			g.Right.Gesture = visual.GestureRain
		}
	}
	return g
}
